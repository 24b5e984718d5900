package repository

import (
	"github.com/lshigami/Formlet/internal/model"
	"gorm.io/gorm"
)

type ResponseRepository interface {
	FindByIDWithDetails(id uint) (*model.Response, error)
	FindByFormPaged(formID uint, offset, limit int) ([]model.Response, int64, error)
	FindByUserPaged(userID uint, offset, limit int) ([]model.Response, int64, error)
	// FindByFormWithAnswers returns every response of a form, newest first,
	// with answers and chosen options loaded. Used by the CSV export.
	FindByFormWithAnswers(formID uint) ([]model.Response, error)
	Delete(id uint) error
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) FindByIDWithDetails(id uint) (*model.Response, error) {
	var response model.Response
	err := r.db.
		Preload("User").
		Preload("Form").
		Preload("Form.Settings").
		Preload("Answers.Question").
		Preload("Answers.Choices").
		First(&response, id).Error
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepository) FindByFormPaged(formID uint, offset, limit int) ([]model.Response, int64, error) {
	var total int64
	if err := r.db.Model(&model.Response{}).Where("form_id = ?", formID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var responses []model.Response
	err := r.db.
		Preload("User").
		Where("form_id = ?", formID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&responses).Error
	return responses, total, err
}

func (r *responseRepository) FindByUserPaged(userID uint, offset, limit int) ([]model.Response, int64, error) {
	var total int64
	if err := r.db.Model(&model.Response{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var responses []model.Response
	err := r.db.
		Preload("Form").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&responses).Error
	return responses, total, err
}

func (r *responseRepository) FindByFormWithAnswers(formID uint) ([]model.Response, error) {
	var responses []model.Response
	err := r.db.
		Preload("User").
		Preload("Answers.Question").
		Preload("Answers.Choices").
		Where("form_id = ?", formID).
		Order("created_at DESC").
		Find(&responses).Error
	return responses, err
}

func (r *responseRepository) Delete(id uint) error {
	return r.db.Delete(&model.Response{}, id).Error
}
