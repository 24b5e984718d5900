package repository

import (
	"github.com/lshigami/Formlet/internal/model"
	"gorm.io/gorm"
)

type SettingsRepository interface {
	FindByFormID(formID uint) (*model.Settings, error)
	Update(settings *model.Settings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) FindByFormID(formID uint) (*model.Settings, error) {
	var settings model.Settings
	if err := r.db.First(&settings, "form_id = ?", formID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(settings *model.Settings) error {
	// Save writes all flag columns, so switching a flag back to false sticks.
	return r.db.Save(settings).Error
}
