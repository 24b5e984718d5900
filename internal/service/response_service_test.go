package service

import (
	"testing"

	"github.com/lshigami/Formlet/internal/apperr"
	"github.com/lshigami/Formlet/internal/model"
	"github.com/lshigami/Formlet/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newResponses(db *gorm.DB) ResponseService {
	return NewResponseService(repository.NewFormRepository(db), repository.NewQuestionRepository(db), repository.NewResponseRepository(db), db)
}

func setSettings(t *testing.T, db *gorm.DB, formID uint, authenticated, multiple bool) {
	t.Helper()
	err := db.Model(&model.Settings{}).Where("form_id = ?", formID).Updates(map[string]any{
		"authenticated_response": authenticated,
		"multiple_response":      multiple,
	}).Error
	require.NoError(t, err)
}

func TestSubmitRecordsAnswers(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	radio, text := form.Questions[0], form.Questions[1]
	good := radio.Options[0]

	result, err := newResponses(db).Submit(form.ID, map[string]any{
		key(radio.ID): key(good.ID),
		key(text.ID):  "all fine",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, form.ID, result.FormID)
	assert.Equal(t, "Customer survey", result.FormTitle)
	assert.Empty(t, result.Username)
	assert.Equal(t, good.ID, result.Answers[radio.ID])
	assert.Equal(t, "all fine", result.Answers[text.ID])
}

func TestSubmitIgnoresUserUnlessFormRequiresAuth(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	submitter := seedUser(t, db, "bob")
	form := seedForm(t, db, owner.ID)
	radio := form.Questions[0]

	result, err := newResponses(db).Submit(form.ID, map[string]any{
		key(radio.ID): key(radio.Options[0].ID),
	}, uintPtr(submitter.ID))
	require.NoError(t, err)

	// The form collects anonymously, so the identity is not attached.
	assert.Empty(t, result.Username)
	var stored model.Response
	require.NoError(t, db.First(&stored, result.ID).Error)
	assert.Nil(t, stored.UserID)
}

func TestSubmitAttachesUserWhenFormRequiresAuth(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	submitter := seedUser(t, db, "bob")
	form := seedForm(t, db, owner.ID)
	setSettings(t, db, form.ID, true, true)
	radio := form.Questions[0]

	result, err := newResponses(db).Submit(form.ID, map[string]any{
		key(radio.ID): key(radio.Options[0].ID),
	}, uintPtr(submitter.ID))
	require.NoError(t, err)

	assert.Equal(t, "bob", result.Username)
}

func TestSubmitAnonymousRejectedWhenAuthRequired(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	setSettings(t, db, form.ID, true, true)

	_, err := newResponses(db).Submit(form.ID, map[string]any{}, nil)
	assertCode(t, err, apperr.CodeUnauthenticated)
}

func TestSubmitSecondResponseRejected(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	submitter := seedUser(t, db, "bob")
	form := seedForm(t, db, owner.ID)
	setSettings(t, db, form.ID, true, false)
	radio := form.Questions[0]
	payload := map[string]any{key(radio.ID): key(radio.Options[0].ID)}

	svc := newResponses(db)
	_, err := svc.Submit(form.ID, payload, uintPtr(submitter.ID))
	require.NoError(t, err)

	_, err = svc.Submit(form.ID, payload, uintPtr(submitter.ID))
	assertCode(t, err, apperr.CodeDuplicateResponse)

	// The rejected attempt rolled back inside its transaction.
	var count int64
	require.NoError(t, db.Model(&model.Response{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitMissingRequiredRollsBack(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	radio, text := form.Questions[0], form.Questions[1]

	_, err := newResponses(db).Submit(form.ID, map[string]any{
		key(text.ID): "only the optional one",
	}, nil)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeMissingRequiredAnswer, appErr.Code)
	assert.Equal(t, []uint{radio.ID}, appErr.QuestionIDs)

	var count int64
	require.NoError(t, db.Model(&model.Response{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubmitUnknownQuestionRejected(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	radio := form.Questions[0]

	_, err := newResponses(db).Submit(form.ID, map[string]any{
		key(radio.ID): key(radio.Options[0].ID),
		"99999":       "ghost",
	}, nil)
	assertCode(t, err, apperr.CodeUnknownQuestion)

	var count int64
	require.NoError(t, db.Model(&model.Response{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubmitForeignOptionRejected(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	other := seedForm(t, db, owner.ID)
	radio := form.Questions[0]
	foreign := other.Questions[0].Options[0]

	_, err := newResponses(db).Submit(form.ID, map[string]any{
		key(radio.ID): key(foreign.ID),
	}, nil)
	assertCode(t, err, apperr.CodeOptionMismatch)
}

func TestSubmitRequiredRadioNeedsExactlyOneChoice(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	radio := form.Questions[0]

	_, err := newResponses(db).Submit(form.ID, map[string]any{
		key(radio.ID): []string{key(radio.Options[0].ID), key(radio.Options[1].ID)},
	}, nil)
	assertCode(t, err, apperr.CodeValidation)
}

func TestSubmitRequiredTextMustNotBeBlank(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	radio := form.Questions[0]

	question := model.Question{
		FormID:      form.ID,
		Text:        "Mandatory note",
		Type:        model.QuestionShortText,
		IsRequired:  true,
		OrderInForm: 3,
	}
	require.NoError(t, db.Create(&question).Error)

	_, err := newResponses(db).Submit(form.ID, map[string]any{
		key(radio.ID):    key(radio.Options[0].ID),
		key(question.ID): "   ",
	}, nil)
	assertCode(t, err, apperr.CodeValidation)
}

func TestSubmitCheckboxScalarRejected(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	radio := form.Questions[0]

	boxes := model.Question{
		FormID:      form.ID,
		Text:        "Pick all that apply",
		Type:        model.QuestionCheckbox,
		OrderInForm: 3,
		Options: []model.Option{
			{Text: "Red", OrderInQuestion: 1},
			{Text: "Blue", OrderInQuestion: 2},
		},
	}
	require.NoError(t, db.Create(&boxes).Error)

	_, err := newResponses(db).Submit(form.ID, map[string]any{
		key(radio.ID): key(radio.Options[0].ID),
		key(boxes.ID): key(boxes.Options[0].ID),
	}, nil)
	assertCode(t, err, apperr.CodeValidation)
}

func TestDeletedQuestionDropsAnswersButKeepsResponse(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	form := seedForm(t, db, owner.ID)
	radio, text := form.Questions[0], form.Questions[1]

	svc := newResponses(db)
	result, err := svc.Submit(form.ID, map[string]any{
		key(radio.ID): key(radio.Options[0].ID),
		key(text.ID):  "keep me",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&model.Question{}, radio.ID).Error)

	reloaded, err := svc.GetResponseUnchecked(result.ID)
	require.NoError(t, err)
	assert.NotContains(t, reloaded.Answers, radio.ID)
	assert.Equal(t, "keep me", reloaded.Answers[text.ID])
}

func TestGetResponseVisibility(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	submitter := seedUser(t, db, "bob")
	stranger := seedUser(t, db, "mallory")
	form := seedForm(t, db, owner.ID)
	setSettings(t, db, form.ID, true, true)
	radio := form.Questions[0]

	svc := newResponses(db)
	result, err := svc.Submit(form.ID, map[string]any{
		key(radio.ID): key(radio.Options[0].ID),
	}, uintPtr(submitter.ID))
	require.NoError(t, err)

	_, err = svc.GetResponse(result.ID, owner.ID)
	assert.NoError(t, err)
	_, err = svc.GetResponse(result.ID, submitter.ID)
	assert.NoError(t, err)
	_, err = svc.GetResponse(result.ID, stranger.ID)
	assertCode(t, err, apperr.CodeOwnership)
}

func TestListFormResponsesOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	stranger := seedUser(t, db, "mallory")
	form := seedForm(t, db, owner.ID)
	radio := form.Questions[0]

	svc := newResponses(db)
	for i := 0; i < 3; i++ {
		_, err := svc.Submit(form.ID, map[string]any{
			key(radio.ID): key(radio.Options[0].ID),
		}, nil)
		require.NoError(t, err)
	}

	list, err := svc.ListFormResponses(form.ID, owner.ID, 1)
	require.NoError(t, err)
	assert.Len(t, list.Responses, 3)
	assert.Equal(t, 1, list.TotalPages)
	assert.Equal(t, "Customer survey", list.Responses[0].FormTitle)

	_, err = svc.ListFormResponses(form.ID, stranger.ID, 1)
	assertCode(t, err, apperr.CodeOwnership)
}

func TestListUserResponses(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	submitter := seedUser(t, db, "bob")
	form := seedForm(t, db, owner.ID)
	setSettings(t, db, form.ID, true, true)
	radio := form.Questions[0]

	svc := newResponses(db)
	_, err := svc.Submit(form.ID, map[string]any{
		key(radio.ID): key(radio.Options[0].ID),
	}, uintPtr(submitter.ID))
	require.NoError(t, err)

	list, err := svc.ListUserResponses(submitter.ID, 1)
	require.NoError(t, err)
	require.Len(t, list.Responses, 1)
	assert.Equal(t, "Customer survey", list.Responses[0].FormTitle)

	empty, err := svc.ListUserResponses(owner.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Responses)
}

func TestDeleteResponseFormOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "alice")
	submitter := seedUser(t, db, "bob")
	form := seedForm(t, db, owner.ID)
	setSettings(t, db, form.ID, true, true)
	radio := form.Questions[0]

	svc := newResponses(db)
	result, err := svc.Submit(form.ID, map[string]any{
		key(radio.ID): key(radio.Options[0].ID),
	}, uintPtr(submitter.ID))
	require.NoError(t, err)

	// Even the submitter cannot delete their own response.
	err = svc.DeleteResponse(result.ID, submitter.ID)
	assertCode(t, err, apperr.CodeOwnership)

	require.NoError(t, svc.DeleteResponse(result.ID, owner.ID))

	var count int64
	require.NoError(t, db.Model(&model.Answer{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
