package service

import (
	"strconv"
	"testing"

	"github.com/lshigami/Formlet/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory sqlite database. The pool is pinned to a
// single connection so the database survives across queries, and foreign keys
// are switched on so the cascade constraints behave like postgres.
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

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// seedForm persists a form with a required radio question (two options) and an
// optional short text question. Association ids are backfilled on the returned
// value.
func seedForm(t *testing.T, db *gorm.DB, ownerID uint) *model.Form {
	t.Helper()
	form := model.Form{
		Title:       "Customer survey",
		Description: "How did we do?",
		CreatedByID: ownerID,
		Settings: model.Settings{
			IsOpen:           true,
			MultipleResponse: true,
		},
		Questions: []model.Question{
			{
				Text:        "Overall rating",
				Type:        model.QuestionRadio,
				IsRequired:  true,
				OrderInForm: 1,
				Options: []model.Option{
					{Text: "Good", OrderInQuestion: 1},
					{Text: "Bad", OrderInQuestion: 2},
				},
			},
			{
				Text:        "Anything else?",
				Type:        model.QuestionShortText,
				OrderInForm: 2,
			},
		},
	}
	require.NoError(t, db.Create(&form).Error)
	return &form
}

func key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func uintPtr(v uint) *uint {
	return &v
}
