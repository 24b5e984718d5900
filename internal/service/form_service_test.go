package service

import (
	"fmt"
	"testing"

	"github.com/lshigami/Formlet/internal/apperr"
	"github.com/lshigami/Formlet/internal/dto"
	"github.com/lshigami/Formlet/internal/model"
	"github.com/lshigami/Formlet/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newForms(db *gorm.DB) FormService {
	return NewFormService(repository.NewFormRepository(db), repository.NewSettingsRepository(db))
}

func TestCreateDefaultForm(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")

	form, err := newForms(db).CreateDefault(owner.ID)
	require.NoError(t, err)

	assert.Equal(t, "Untitled form", form.Title)
	assert.Equal(t, "alice", form.CreatedBy)
	assert.True(t, form.Settings.IsOpen)
	assert.False(t, form.Settings.AuthenticatedResponse)
	assert.True(t, form.Settings.MultipleResponse)
	assert.True(t, form.Settings.IsAnotherResponseAllowed)

	require.Len(t, form.Questions, 1)
	starter := form.Questions[0]
	assert.Equal(t, "Untitled question", starter.Text)
	assert.Equal(t, string(model.QuestionRadio), starter.Type)
	assert.True(t, starter.IsRequired)
	assert.Equal(t, 1, starter.Order)
	require.Len(t, starter.Options, 1)
	assert.Equal(t, "Option", starter.Options[0].Text)
}

func TestGetFormOrdersQuestionsAndOptions(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	seeded := seedForm(t, db, owner.ID)

	form, err := newForms(db).GetForm(seeded.ID)
	require.NoError(t, err)

	require.Len(t, form.Questions, 2)
	assert.Equal(t, "Overall rating", form.Questions[0].Text)
	assert.Equal(t, "Anything else?", form.Questions[1].Text)
	require.Len(t, form.Questions[0].Options, 2)
	assert.Equal(t, "Good", form.Questions[0].Options[0].Text)
	assert.Equal(t, "Bad", form.Questions[0].Options[1].Text)
}

func TestUpdateSettingsPersistsClearedFlags(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	svc := newForms(db)

	settings, err := svc.UpdateSettings(form.ID, owner.ID, dto.SettingsDTO{
		IsOpen:                false,
		AuthenticatedResponse: true,
		MultipleResponse:      false,
	})
	require.NoError(t, err)
	assert.False(t, settings.IsOpen)
	assert.True(t, settings.AuthenticatedResponse)
	assert.False(t, settings.MultipleResponse)
	assert.False(t, settings.IsAnotherResponseAllowed)

	var stored model.Settings
	require.NoError(t, db.First(&stored, "form_id = ?", form.ID).Error)
	assert.False(t, stored.IsOpen)
	assert.False(t, stored.MultipleResponse)
}

func TestUpdateSettingsResponsePredicate(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	svc := newForms(db)

	// Open and authenticated with multiple submissions allowed.
	settings, err := svc.UpdateSettings(form.ID, owner.ID, dto.SettingsDTO{
		IsOpen:                true,
		AuthenticatedResponse: true,
		MultipleResponse:      true,
	})
	require.NoError(t, err)
	assert.True(t, settings.IsAnotherResponseAllowed)

	// One submission per identity: a further response is not allowed.
	settings, err = svc.UpdateSettings(form.ID, owner.ID, dto.SettingsDTO{
		IsOpen:                true,
		AuthenticatedResponse: true,
		MultipleResponse:      false,
	})
	require.NoError(t, err)
	assert.False(t, settings.IsAnotherResponseAllowed)
}

func TestUpdateSettingsOwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	stranger := seedUser(t, db, "mallory")
	form := seedForm(t, db, owner.ID)

	_, err := newForms(db).UpdateSettings(form.ID, stranger.ID, dto.SettingsDTO{IsOpen: true})
	assertCode(t, err, apperr.CodeOwnership)
}

func TestListFormsCountsResponses(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	answered := seedForm(t, db, owner.ID)
	quiet := seedForm(t, db, owner.ID)

	require.NoError(t, db.Create(&model.Response{FormID: answered.ID}).Error)
	require.NoError(t, db.Create(&model.Response{FormID: answered.ID}).Error)

	list, err := newForms(db).ListForms(owner.ID, 1)
	require.NoError(t, err)
	require.Len(t, list.Forms, 2)

	counts := make(map[uint]int, 2)
	for _, f := range list.Forms {
		counts[f.ID] = f.ResponseCount
	}
	assert.Equal(t, 2, counts[answered.ID])
	assert.Equal(t, 0, counts[quiet.ID])
}

func TestListFormsPagination(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	for i := 0; i < 12; i++ {
		form := model.Form{
			Title:       fmt.Sprintf("Form %d", i),
			CreatedByID: owner.ID,
			Settings:    model.Settings{IsOpen: true},
		}
		require.NoError(t, db.Create(&form).Error)
	}

	svc := newForms(db)
	first, err := svc.ListForms(owner.ID, 1)
	require.NoError(t, err)
	assert.Len(t, first.Forms, 10)
	assert.Equal(t, 2, first.TotalPages)

	second, err := svc.ListForms(owner.ID, 2)
	require.NoError(t, err)
	assert.Len(t, second.Forms, 2)
	assert.Equal(t, 2, second.Page)
}

func TestDeleteFormCascades(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	stranger := seedUser(t, db, "mallory")
	form := seedForm(t, db, owner.ID)
	require.NoError(t, db.Create(&model.Response{FormID: form.ID}).Error)

	svc := newForms(db)
	err := svc.DeleteForm(form.ID, stranger.ID)
	assertCode(t, err, apperr.CodeOwnership)

	require.NoError(t, svc.DeleteForm(form.ID, owner.ID))

	for _, m := range []any{&model.Question{}, &model.Option{}, &model.Settings{}, &model.Response{}} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	}
}
