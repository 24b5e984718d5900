package service

import (
	"fmt"
	"strings"

	"github.com/lshigami/Formlet/internal/apperr"
	"github.com/lshigami/Formlet/internal/dto"
	"github.com/lshigami/Formlet/internal/model"
	"github.com/lshigami/Formlet/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FormEditorService reconciles a submitted form definition against the
// persisted question/option tree inside a single transaction.
type FormEditorService interface {
	UpdateDefinition(formID, callerID uint, req dto.FormUpdateDTO) (*dto.FormResponseDTO, error)
}

type formEditorService struct {
	formRepo repository.FormRepository
	db       *gorm.DB
}

func NewFormEditorService(formRepo repository.FormRepository, db *gorm.DB) FormEditorService {
	return &formEditorService{formRepo: formRepo, db: db}
}

func (s *formEditorService) UpdateDefinition(formID, callerID uint, req dto.FormUpdateDTO) (*dto.FormResponseDTO, error) {
	form, err := s.formRepo.FindByID(formID)
	if err != nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "form %d not found", formID)
	}
	if form.CreatedByID != callerID {
		return nil, apperr.New(apperr.CodeOwnership, "form belongs to another user")
	}

	// All validation runs before any write.
	if len(req.Questions) == 0 {
		return nil, apperr.New(apperr.CodeEmptyDefinition, "form must have at least one question")
	}
	if err := validateDefinition(req); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(form).Updates(map[string]any{
			"title":       req.Title,
			"description": req.Description,
		}).Error; err != nil {
			return fmt.Errorf("update form fields: %w", err)
		}
		return s.reconcileQuestions(tx, form.ID, req.Questions)
	})
	if err != nil {
		log.Error().Err(err).Uint("formID", formID).Msg("UpdateDefinition: reconciliation rolled back")
		return nil, err
	}

	reloaded, err := s.formRepo.FindByIDFull(formID)
	if err != nil {
		log.Error().Err(err).Uint("formID", formID).Msg("UpdateDefinition: failed to reload reconciled form")
		return nil, fmt.Errorf("reload form %d: %w", formID, err)
	}
	return serializeForm(reloaded)
}

func (s *formEditorService) reconcileQuestions(tx *gorm.DB, formID uint, submitted []dto.QuestionUpsertDTO) error {
	var current []model.Question
	if err := tx.Where("form_id = ?", formID).Find(&current).Error; err != nil {
		return fmt.Errorf("load current questions: %w", err)
	}
	currentIDs := make([]uint, len(current))
	for i, q := range current {
		currentIDs[i] = q.ID
	}

	d, err := diffByID("question", currentIDs, submitted, func(q dto.QuestionUpsertDTO) *uint { return q.ID })
	if err != nil {
		return err
	}

	if len(d.toDeleteIDs) > 0 {
		// Cascades to the questions' options and answers.
		if err := tx.Where("id IN ?", d.toDeleteIDs).Delete(&model.Question{}).Error; err != nil {
			return fmt.Errorf("delete orphan questions: %w", err)
		}
	}

	if len(d.toUpdate) > 0 {
		// Park kept questions on negative orders so in-place reordering never
		// trips the (form, order) unique index mid-transaction.
		err := tx.Model(&model.Question{}).
			Where("form_id = ?", formID).
			Update("order_in_form", gorm.Expr("-(order_in_form + 1)")).Error
		if err != nil {
			return fmt.Errorf("park question orders: %w", err)
		}
	}

	for _, qd := range submitted {
		questionID, err := s.upsertQuestion(tx, formID, qd)
		if err != nil {
			return err
		}
		if err := s.reconcileOptions(tx, questionID, model.QuestionType(qd.Type), qd.Options); err != nil {
			return err
		}
	}
	return nil
}

func (s *formEditorService) upsertQuestion(tx *gorm.DB, formID uint, qd dto.QuestionUpsertDTO) (uint, error) {
	if qd.ID != nil {
		err := tx.Model(&model.Question{ID: *qd.ID}).Updates(map[string]any{
			"text":          qd.Text,
			"type":          qd.Type,
			"is_required":   qd.IsRequired,
			"order_in_form": qd.Order,
		}).Error
		if err != nil {
			return 0, fmt.Errorf("update question %d: %w", *qd.ID, err)
		}
		return *qd.ID, nil
	}

	question := model.Question{
		FormID:      formID,
		Text:        qd.Text,
		Type:        model.QuestionType(qd.Type),
		IsRequired:  qd.IsRequired,
		OrderInForm: qd.Order,
	}
	if err := tx.Create(&question).Error; err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return question.ID, nil
}

func (s *formEditorService) reconcileOptions(tx *gorm.DB, questionID uint, questionType model.QuestionType, submitted []dto.OptionUpsertDTO) error {
	if !questionType.HasOptions() {
		// Text question types never display options; whatever the client
		// submitted, the persisted set is purged.
		return tx.Where("question_id = ?", questionID).Delete(&model.Option{}).Error
	}

	var current []model.Option
	if err := tx.Where("question_id = ?", questionID).Find(&current).Error; err != nil {
		return fmt.Errorf("load current options: %w", err)
	}
	currentIDs := make([]uint, len(current))
	for i, o := range current {
		currentIDs[i] = o.ID
	}

	d, err := diffByID("option", currentIDs, submitted, func(o dto.OptionUpsertDTO) *uint { return o.ID })
	if err != nil {
		return err
	}

	if len(d.toDeleteIDs) > 0 {
		if err := tx.Where("id IN ?", d.toDeleteIDs).Delete(&model.Option{}).Error; err != nil {
			return fmt.Errorf("delete orphan options: %w", err)
		}
	}

	if len(d.toUpdate) > 0 {
		err := tx.Model(&model.Option{}).
			Where("question_id = ?", questionID).
			Update("order_in_question", gorm.Expr("-(order_in_question + 1)")).Error
		if err != nil {
			return fmt.Errorf("park option orders: %w", err)
		}
	}

	for _, od := range submitted {
		if od.ID != nil {
			err := tx.Model(&model.Option{ID: *od.ID}).Updates(map[string]any{
				"text":              od.Text,
				"order_in_question": od.Order,
			}).Error
			if err != nil {
				return fmt.Errorf("update option %d: %w", *od.ID, err)
			}
			continue
		}
		option := model.Option{QuestionID: questionID, Text: od.Text, OrderInQuestion: od.Order}
		if err := tx.Create(&option).Error; err != nil {
			return fmt.Errorf("insert option: %w", err)
		}
	}
	return nil
}

// validateDefinition checks field rules and intra-form uniqueness on the
// submitted snapshot, before anything touches storage.
func validateDefinition(req dto.FormUpdateDTO) error {
	var details []string

	if strings.TrimSpace(req.Title) == "" {
		details = append(details, "title: must not be blank")
	}
	if req.Description != "" && strings.TrimSpace(req.Description) == "" {
		details = append(details, "description: must not be blank")
	}

	questionOrders := make(map[int]bool, len(req.Questions))
	for i, qd := range req.Questions {
		label := fmt.Sprintf("questions[%d]", i)

		if strings.TrimSpace(qd.Text) == "" {
			details = append(details, label+": text must not be blank")
		}
		questionType := model.QuestionType(qd.Type)
		if !questionType.Valid() {
			details = append(details, fmt.Sprintf("%s: invalid type %q", label, qd.Type))
			continue
		}
		if qd.Order < 0 {
			details = append(details, label+": order must not be negative")
		}
		if questionOrders[qd.Order] {
			details = append(details, fmt.Sprintf("%s: duplicate order %d", label, qd.Order))
		}
		questionOrders[qd.Order] = true

		if !questionType.HasOptions() {
			continue
		}
		if len(qd.Options) == 0 {
			return apperr.Newf(apperr.CodeEmptyOptionSet,
				"question %q of type %s must have at least one option", qd.Text, qd.Type)
		}
		optionOrders := make(map[int]bool, len(qd.Options))
		optionTexts := make(map[string]bool, len(qd.Options))
		for j, od := range qd.Options {
			optLabel := fmt.Sprintf("%s.options[%d]", label, j)
			if strings.TrimSpace(od.Text) == "" {
				details = append(details, optLabel+": text must not be blank")
			}
			if od.Order < 0 {
				details = append(details, optLabel+": order must not be negative")
			}
			if optionOrders[od.Order] {
				details = append(details, fmt.Sprintf("%s: duplicate order %d", optLabel, od.Order))
			}
			optionOrders[od.Order] = true
			if optionTexts[od.Text] {
				details = append(details, fmt.Sprintf("%s: duplicate text %q", optLabel, od.Text))
			}
			optionTexts[od.Text] = true
		}
	}

	if len(details) > 0 {
		return apperr.Validation("invalid form definition", details...)
	}
	return nil
}
