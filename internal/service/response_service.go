package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lshigami/Formlet/internal/apperr"
	"github.com/lshigami/Formlet/internal/dto"
	"github.com/lshigami/Formlet/internal/model"
	"github.com/lshigami/Formlet/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ResponseService validates and records submissions, and serves response
// browsing and deletion for owners and submitters.
type ResponseService interface {
	// Submit validates the raw answer payload (question id -> scalar or list)
	// against the form and persists the response with its answers in one
	// transaction. userID is nil for anonymous submitters.
	Submit(formID uint, payload map[string]any, userID *uint) (*dto.ResponseDetailDTO, error)
	GetResponse(responseID, callerID uint) (*dto.ResponseDetailDTO, error)
	// GetResponseUnchecked skips the ownership gate; used right after a
	// submitter recorded the response (which may be anonymous and own no
	// identity).
	GetResponseUnchecked(responseID uint) (*dto.ResponseDetailDTO, error)
	ListFormResponses(formID, callerID uint, page int) (*dto.ResponseListDTO, error)
	ListUserResponses(userID uint, page int) (*dto.ResponseListDTO, error)
	DeleteResponse(responseID, callerID uint) error
}

type responseService struct {
	formRepo     repository.FormRepository
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	db           *gorm.DB
}

func NewResponseService(formRepo repository.FormRepository, questionRepo repository.QuestionRepository, responseRepo repository.ResponseRepository, db *gorm.DB) ResponseService {
	return &responseService{formRepo: formRepo, questionRepo: questionRepo, responseRepo: responseRepo, db: db}
}

func (s *responseService) Submit(formID uint, payload map[string]any, userID *uint) (*dto.ResponseDetailDTO, error) {
	form, err := s.formRepo.FindByID(formID)
	if err != nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "form %d not found", formID)
	}
	if form.Settings.AuthenticatedResponse && userID == nil {
		return nil, apperr.New(apperr.CodeUnauthenticated, "this form requires a signed-in identity")
	}

	questions, err := s.questionRepo.FindByFormIDWithOptions(formID)
	if err != nil {
		return nil, fmt.Errorf("load questions for form %d: %w", formID, err)
	}
	questionsByID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		questionsByID[q.ID] = q
	}

	var created model.Response
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The duplicate gate runs inside the transaction so the count and the
		// insert share one atomic scope.
		if form.Settings.AuthenticatedResponse && !form.Settings.MultipleResponse {
			var prior int64
			err := tx.Model(&model.Response{}).
				Where("form_id = ? AND user_id = ?", form.ID, *userID).
				Count(&prior).Error
			if err != nil {
				return fmt.Errorf("count prior responses: %w", err)
			}
			if prior > 0 {
				return apperr.New(apperr.CodeDuplicateResponse, "you have already responded to this form")
			}
		}

		response := model.Response{FormID: form.ID}
		if form.Settings.AuthenticatedResponse {
			response.UserID = userID
		}
		if err := tx.Create(&response).Error; err != nil {
			return fmt.Errorf("create response: %w", err)
		}

		answered := make(map[uint]bool, len(payload))
		for key, raw := range payload {
			questionID, err := strconv.ParseUint(key, 10, 32)
			if err != nil {
				return apperr.Newf(apperr.CodeUnknownQuestion, "answered question %q not found in this form", key)
			}
			question, ok := questionsByID[uint(questionID)]
			if !ok {
				return apperr.Newf(apperr.CodeUnknownQuestion, "answered question %d not found in this form", questionID)
			}

			answer, err := buildAnswer(response.ID, question, raw)
			if err != nil {
				return err
			}
			if err := tx.Create(answer).Error; err != nil {
				return fmt.Errorf("create answer for question %d: %w", question.ID, err)
			}
			answered[question.ID] = true
		}

		var missing []uint
		for _, q := range questions {
			if q.IsRequired && !answered[q.ID] {
				missing = append(missing, q.ID)
			}
		}
		if len(missing) > 0 {
			sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
			details := make([]string, len(missing))
			for i, id := range missing {
				details[i] = fmt.Sprintf("question %d is required", id)
			}
			return &apperr.Error{
				Code:        apperr.CodeMissingRequiredAnswer,
				Message:     "required questions were not answered",
				Details:     details,
				QuestionIDs: missing,
			}
		}

		created = response
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Uint("formID", formID).Msg("Submit: response rolled back")
		return nil, err
	}

	return s.GetResponseUnchecked(created.ID)
}

// buildAnswer decodes the raw value via the answer codec, resolves the chosen
// options against the question's own option set, and applies the per-type
// shape rules.
func buildAnswer(responseID uint, question model.Question, raw any) (*model.Answer, error) {
	decoded, err := DecodeAnswer(question.Type, raw)
	if err != nil {
		return nil, err
	}

	answer := model.Answer{ResponseID: responseID, QuestionID: question.ID, Text: decoded.Text}

	if len(decoded.OptionIDs) > 0 {
		optionsByID := make(map[uint]model.Option, len(question.Options))
		for _, o := range question.Options {
			optionsByID[o.ID] = o
		}
		for _, id := range decoded.OptionIDs {
			option, ok := optionsByID[id]
			if !ok {
				return nil, apperr.Newf(apperr.CodeOptionMismatch,
					"option %d does not belong to question %d", id, question.ID)
			}
			answer.Choices = append(answer.Choices, option)
		}
	}

	if question.IsRequired {
		switch question.Type {
		case model.QuestionShortText, model.QuestionLongText:
			if strings.TrimSpace(answer.Text) == "" {
				return nil, apperr.Newf(apperr.CodeValidation,
					"question %d: text required for a text question", question.ID)
			}
		case model.QuestionRadio:
			if len(answer.Choices) != 1 {
				return nil, apperr.Newf(apperr.CodeValidation,
					"question %d: exactly one option required for a radio question", question.ID)
			}
		case model.QuestionCheckbox:
			if len(answer.Choices) == 0 {
				return nil, apperr.Newf(apperr.CodeValidation,
					"question %d: at least one option required for a checkbox question", question.ID)
			}
		default:
			return nil, apperr.Newf(apperr.CodeInternal, "question type %s not supported", question.Type)
		}
	}
	return &answer, nil
}

func (s *responseService) GetResponse(responseID, callerID uint) (*dto.ResponseDetailDTO, error) {
	response, err := s.responseRepo.FindByIDWithDetails(responseID)
	if err != nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "response %d not found", responseID)
	}
	isSubmitter := response.UserID != nil && *response.UserID == callerID
	if response.Form.CreatedByID != callerID && !isSubmitter {
		return nil, apperr.New(apperr.CodeOwnership, "response belongs to another user")
	}
	return serializeResponse(response)
}

// GetResponseUnchecked skips the ownership gate; used right after a submitter
// recorded the response (which may be anonymous and own no identity).
func (s *responseService) GetResponseUnchecked(responseID uint) (*dto.ResponseDetailDTO, error) {
	response, err := s.responseRepo.FindByIDWithDetails(responseID)
	if err != nil {
		return nil, fmt.Errorf("reload response %d: %w", responseID, err)
	}
	return serializeResponse(response)
}

func (s *responseService) ListFormResponses(formID, callerID uint, page int) (*dto.ResponseListDTO, error) {
	form, err := s.formRepo.FindByID(formID)
	if err != nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "form %d not found", formID)
	}
	if form.CreatedByID != callerID {
		return nil, apperr.New(apperr.CodeOwnership, "form belongs to another user")
	}
	if page < 1 {
		page = 1
	}

	responses, total, err := s.responseRepo.FindByFormPaged(formID, (page-1)*itemsPerPage, itemsPerPage)
	if err != nil {
		return nil, fmt.Errorf("list responses for form %d: %w", formID, err)
	}

	list := dto.ResponseListDTO{
		Responses:  make([]dto.ResponseSummaryDTO, 0, len(responses)),
		Page:       page,
		TotalPages: totalPages(total),
	}
	for _, r := range responses {
		list.Responses = append(list.Responses, dto.ResponseSummaryDTO{
			ID:        r.ID,
			FormID:    r.FormID,
			FormTitle: form.Title,
			Username:  responseUsername(&r),
			CreatedAt: r.CreatedAt,
		})
	}
	return &list, nil
}

func (s *responseService) ListUserResponses(userID uint, page int) (*dto.ResponseListDTO, error) {
	if page < 1 {
		page = 1
	}
	responses, total, err := s.responseRepo.FindByUserPaged(userID, (page-1)*itemsPerPage, itemsPerPage)
	if err != nil {
		return nil, fmt.Errorf("list responses for user %d: %w", userID, err)
	}

	list := dto.ResponseListDTO{
		Responses:  make([]dto.ResponseSummaryDTO, 0, len(responses)),
		Page:       page,
		TotalPages: totalPages(total),
	}
	for _, r := range responses {
		list.Responses = append(list.Responses, dto.ResponseSummaryDTO{
			ID:        r.ID,
			FormID:    r.FormID,
			FormTitle: r.Form.Title,
			CreatedAt: r.CreatedAt,
		})
	}
	return &list, nil
}

func (s *responseService) DeleteResponse(responseID, callerID uint) error {
	response, err := s.responseRepo.FindByIDWithDetails(responseID)
	if err != nil {
		return apperr.Newf(apperr.CodeNotFound, "response %d not found", responseID)
	}
	if response.Form.CreatedByID != callerID {
		return apperr.New(apperr.CodeOwnership, "only the form owner can delete a response")
	}
	return s.responseRepo.Delete(responseID)
}

func responseUsername(response *model.Response) string {
	if response.User != nil {
		return response.User.Username
	}
	return ""
}

// serializeResponse decodes the stored answers back to the generic
// question-id keyed shape via the answer codec.
func serializeResponse(response *model.Response) (*dto.ResponseDetailDTO, error) {
	answers := make(map[uint]any, len(response.Answers))
	for _, answer := range response.Answers {
		value, err := EncodeAnswer(answer.Question.Type, answer)
		if err != nil {
			log.Error().Err(err).Uint("answerID", answer.ID).Msg("serializeResponse: answer codec failure")
			return nil, err
		}
		answers[answer.QuestionID] = value
	}

	return &dto.ResponseDetailDTO{
		ID:        response.ID,
		FormID:    response.FormID,
		FormTitle: response.Form.Title,
		Username:  responseUsername(response),
		Answers:   answers,
		CreatedAt: response.CreatedAt,
	}, nil
}
