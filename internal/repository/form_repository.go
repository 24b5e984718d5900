package repository

import (
	"github.com/lshigami/Formlet/internal/model"
	"gorm.io/gorm"
)

type FormRepository interface {
	Create(form *model.Form) error
	FindByID(id uint) (*model.Form, error)
	// FindByIDFull loads the form with its settings, owner, and questions and
	// options in persisted order.
	FindByIDFull(id uint) (*model.Form, error)
	FindByOwnerPaged(ownerID uint, offset, limit int) ([]FormWithResponseCount, int64, error)
	Update(form *model.Form) error
	Delete(id uint) error
}

type FormWithResponseCount struct {
	model.Form
	ResponseCount int
}

type formRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) Create(form *model.Form) error {
	// Creating with associations populates Settings, Questions and Options in
	// one go via the foreign keys on the model.
	return r.db.Create(form).Error
}

func (r *formRepository) FindByID(id uint) (*model.Form, error) {
	var form model.Form
	if err := r.db.Preload("Settings").First(&form, id).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindByIDFull(id uint) (*model.Form, error) {
	var form model.Form
	err := r.db.
		Preload("Settings").
		Preload("CreatedBy").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_in_form ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.order_in_question ASC")
		}).
		First(&form, id).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindByOwnerPaged(ownerID uint, offset, limit int) ([]FormWithResponseCount, int64, error) {
	var total int64
	if err := r.db.Model(&model.Form{}).Where("created_by_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []FormWithResponseCount
	err := r.db.Model(&model.Form{}).
		Select("forms.*, (SELECT COUNT(*) FROM responses WHERE responses.form_id = forms.id) AS response_count").
		Where("forms.created_by_id = ?", ownerID).
		Order("forms.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&results).Error
	return results, total, err
}

func (r *formRepository) Update(form *model.Form) error {
	return r.db.Save(form).Error
}

func (r *formRepository) Delete(id uint) error {
	// Hard delete; questions, options, settings, responses and answers go with
	// it through the ON DELETE CASCADE constraints.
	return r.db.Delete(&model.Form{}, id).Error
}
