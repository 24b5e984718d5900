package repository

import (
	"testing"

	"github.com/lshigami/Formlet/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Form{},
		&model.Settings{},
		&model.Question{},
		&model.Option{},
		&model.Response{},
		&model.Answer{},
	))
	return db
}

func TestQuestionRepositoryOrdersByForm(t *testing.T) {
	db := newTestDB(t)
	user := model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	// Questions are persisted out of display order on purpose.
	form := model.Form{
		Title:       "Ordering check",
		CreatedByID: user.ID,
		Settings:    model.Settings{IsOpen: true},
		Questions: []model.Question{
			{Text: "Second", Type: model.QuestionShortText, OrderInForm: 2},
			{
				Text:        "First",
				Type:        model.QuestionRadio,
				OrderInForm: 1,
				Options: []model.Option{
					{Text: "B", OrderInQuestion: 2},
					{Text: "A", OrderInQuestion: 1},
				},
			},
		},
	}
	require.NoError(t, db.Create(&form).Error)

	repo := NewQuestionRepository(db)

	questions, err := repo.FindByFormID(form.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "First", questions[0].Text)
	assert.Equal(t, "Second", questions[1].Text)
	assert.Empty(t, questions[0].Options)

	withOptions, err := repo.FindByFormIDWithOptions(form.ID)
	require.NoError(t, err)
	require.Len(t, withOptions, 2)
	require.Len(t, withOptions[0].Options, 2)
	assert.Equal(t, "A", withOptions[0].Options[0].Text)
	assert.Equal(t, "B", withOptions[0].Options[1].Text)

	other, err := repo.FindByFormID(form.ID + 1)
	require.NoError(t, err)
	assert.Empty(t, other)
}
