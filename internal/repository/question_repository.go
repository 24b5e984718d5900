package repository

import (
	"github.com/lshigami/Formlet/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByFormID(formID uint) ([]model.Question, error)
	FindByFormIDWithOptions(formID uint) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByFormID(formID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("form_id = ?", formID).Order("order_in_form ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByFormIDWithOptions(formID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.order_in_question ASC")
		}).
		Where("form_id = ?", formID).
		Order("order_in_form ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
