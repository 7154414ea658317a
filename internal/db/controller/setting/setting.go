// Package setting provides storage operations for runtime setting rows.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoStageSetting/GoStageSetting/internal/db/models"
)

const (
	nameQueryPattern  = "name = ?"
	namesQueryPattern = "name IN ?"
)

var (
	// ErrSettingNotFound is returned when a setting row is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when a setting name is empty.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrSettingAlreadyExists is returned when creating a row for a name that already has one.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting row by its name.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting
	result := db.Where(nameQueryPattern, name).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// GetByID retrieves a setting row by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var setting models.Setting
	result := db.First(&setting, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// GetAll retrieves all setting rows ordered by name.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Order("name").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Known retrieves, in one query, the rows whose name is in names.
func Known(db *gorm.DB, names []string) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if len(names) == 0 {
		return []models.Setting{}, nil
	}

	var settings []models.Setting
	result := db.Where(namesQueryPattern, names).Order("name").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Names retrieves the names of the rows whose name is in names.
func Names(db *gorm.DB, names []string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if len(names) == 0 {
		return []string{}, nil
	}

	var existing []string
	result := db.Model(&models.Setting{}).Where(namesQueryPattern, names).Order("name").Pluck("name", &existing)
	if result.Error != nil {
		return nil, result.Error
	}

	return existing, nil
}

// Exists reports whether a row exists for name.
func Exists(db *gorm.DB, name string) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}
	if name == "" {
		return false, ErrSettingNameEmpty
	}

	var count int64
	result := db.Model(&models.Setting{}).Where(nameQueryPattern, name).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// Create creates a new setting row.
func Create(db *gorm.DB, name string, rawValue string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	exists, err := Exists(db, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSettingAlreadyExists
	}

	setting := &models.Setting{
		Name:     name,
		RawValue: rawValue,
	}

	result := db.Create(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// CreateMany inserts all rows with a single statement.
func CreateMany(db *gorm.DB, settings []models.Setting) error {
	if db == nil {
		return ErrDBNil
	}
	if len(settings) == 0 {
		return nil
	}

	for _, s := range settings {
		if s.Name == "" {
			return ErrSettingNameEmpty
		}
	}

	return db.Create(&settings).Error
}

// Update replaces the raw value of the row with the given ID.
func Update(db *gorm.DB, id uint64, rawValue string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	setting, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	setting.RawValue = rawValue
	result := db.Save(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// UpdateByName replaces the raw value of the row with the given name.
func UpdateByName(db *gorm.DB, name string, rawValue string) (*models.Setting, error) {
	setting, err := Get(db, name)
	if err != nil {
		return nil, err
	}

	setting.RawValue = rawValue
	result := db.Save(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// Delete removes the row with the given ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Setting{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
