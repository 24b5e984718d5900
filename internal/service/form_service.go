package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Formlet/internal/apperr"
	"github.com/lshigami/Formlet/internal/dto"
	"github.com/lshigami/Formlet/internal/model"
	"github.com/lshigami/Formlet/internal/repository"
	"github.com/rs/zerolog/log"
)

const itemsPerPage = 10

type FormService interface {
	// CreateDefault creates a new untitled form with default settings and a
	// starter radio question, atomically.
	CreateDefault(ownerID uint) (*dto.FormResponseDTO, error)
	GetForm(formID uint) (*dto.FormResponseDTO, error)
	ListForms(ownerID uint, page int) (*dto.FormListDTO, error)
	DeleteForm(formID, callerID uint) error
	UpdateSettings(formID, callerID uint, req dto.SettingsDTO) (*dto.SettingsResponseDTO, error)
}

type formService struct {
	formRepo     repository.FormRepository
	settingsRepo repository.SettingsRepository
}

func NewFormService(formRepo repository.FormRepository, settingsRepo repository.SettingsRepository) FormService {
	return &formService{formRepo: formRepo, settingsRepo: settingsRepo}
}

func (s *formService) CreateDefault(ownerID uint) (*dto.FormResponseDTO, error) {
	form := model.Form{
		Title:       "Untitled form",
		CreatedByID: ownerID,
		Settings: model.Settings{
			IsOpen:           true,
			MultipleResponse: true,
		},
		Questions: []model.Question{
			{
				Text:        "Untitled question",
				Type:        model.QuestionRadio,
				IsRequired:  true,
				OrderInForm: 1,
				Options: []model.Option{
					{Text: "Option", OrderInQuestion: 1},
				},
			},
		},
	}

	if err := s.formRepo.Create(&form); err != nil {
		log.Error().Err(err).Uint("ownerID", ownerID).Msg("CreateDefault: failed to create form")
		return nil, fmt.Errorf("create form: %w", err)
	}

	created, err := s.formRepo.FindByIDFull(form.ID)
	if err != nil {
		return nil, fmt.Errorf("reload form %d: %w", form.ID, err)
	}
	return serializeForm(created)
}

func (s *formService) GetForm(formID uint) (*dto.FormResponseDTO, error) {
	form, err := s.formRepo.FindByIDFull(formID)
	if err != nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "form %d not found", formID)
	}
	return serializeForm(form)
}

func (s *formService) ListForms(ownerID uint, page int) (*dto.FormListDTO, error) {
	if page < 1 {
		page = 1
	}
	forms, total, err := s.formRepo.FindByOwnerPaged(ownerID, (page-1)*itemsPerPage, itemsPerPage)
	if err != nil {
		log.Error().Err(err).Uint("ownerID", ownerID).Msg("ListForms: repository error")
		return nil, fmt.Errorf("list forms: %w", err)
	}

	list := dto.FormListDTO{
		Forms:      make([]dto.FormSummaryDTO, 0, len(forms)),
		Page:       page,
		TotalPages: totalPages(total),
	}
	for _, f := range forms {
		list.Forms = append(list.Forms, dto.FormSummaryDTO{
			ID:            f.ID,
			Title:         f.Title,
			Description:   f.Description,
			ResponseCount: f.ResponseCount,
			CreatedAt:     f.CreatedAt,
		})
	}
	return &list, nil
}

func (s *formService) DeleteForm(formID, callerID uint) error {
	form, err := s.formRepo.FindByID(formID)
	if err != nil {
		return apperr.Newf(apperr.CodeNotFound, "form %d not found", formID)
	}
	if form.CreatedByID != callerID {
		return apperr.New(apperr.CodeOwnership, "form belongs to another user")
	}
	return s.formRepo.Delete(formID)
}

func (s *formService) UpdateSettings(formID, callerID uint, req dto.SettingsDTO) (*dto.SettingsResponseDTO, error) {
	form, err := s.formRepo.FindByID(formID)
	if err != nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "form %d not found", formID)
	}
	if form.CreatedByID != callerID {
		return nil, apperr.New(apperr.CodeOwnership, "form belongs to another user")
	}

	settings, err := s.settingsRepo.FindByFormID(formID)
	if err != nil {
		return nil, fmt.Errorf("load settings for form %d: %w", formID, err)
	}
	settings.IsOpen = req.IsOpen
	settings.AuthenticatedResponse = req.AuthenticatedResponse
	settings.MultipleResponse = req.MultipleResponse

	if err := s.settingsRepo.Update(settings); err != nil {
		log.Error().Err(err).Uint("formID", formID).Msg("UpdateSettings: failed to save settings")
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return serializeSettings(*settings), nil
}

func totalPages(total int64) int {
	pages := int(total+itemsPerPage-1) / itemsPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

func serializeSettings(settings model.Settings) *dto.SettingsResponseDTO {
	return &dto.SettingsResponseDTO{
		IsOpen:                   settings.IsOpen,
		AuthenticatedResponse:    settings.AuthenticatedResponse,
		MultipleResponse:         settings.MultipleResponse,
		IsAnotherResponseAllowed: settings.IsAnotherResponseAllowed(),
	}
}

// serializeForm builds the serialized form returned by reads and successful
// definition saves. Questions and options arrive in persisted order from the
// repository preloads.
func serializeForm(form *model.Form) (*dto.FormResponseDTO, error) {
	var resp dto.FormResponseDTO
	if err := copier.Copy(&resp, form); err != nil {
		log.Error().Err(err).Msg("serializeForm: failed to copy form to DTO")
		return nil, fmt.Errorf("serialize form: %w", err)
	}
	resp.CreatedBy = form.CreatedBy.Username
	resp.Settings = *serializeSettings(form.Settings)

	resp.Questions = make([]dto.QuestionResponseDTO, len(form.Questions))
	for i, q := range form.Questions {
		var qd dto.QuestionResponseDTO
		if err := copier.Copy(&qd, &q); err != nil {
			return nil, fmt.Errorf("serialize question %d: %w", q.ID, err)
		}
		qd.Type = string(q.Type)
		qd.Order = q.OrderInForm
		qd.Options = make([]dto.OptionResponseDTO, len(q.Options))
		for j, o := range q.Options {
			qd.Options[j] = dto.OptionResponseDTO{ID: o.ID, Text: o.Text, Order: o.OrderInQuestion}
		}
		resp.Questions[i] = qd
	}
	return &resp, nil
}
