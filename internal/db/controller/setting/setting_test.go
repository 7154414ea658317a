package setting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoStageSetting/GoStageSetting/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// Migrate the schema
	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()
	for _, setting := range settings {
		err := db.Create(&setting).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingName   string
		seedData      []models.Setting
		expectedError error
		expectedValue string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingName:   "TEST",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingName:   "NONEXISTENT",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "successful get",
			dbParam:     db,
			settingName: "SITE_NAME",
			seedData: []models.Setting{
				{Name: "SITE_NAME", RawValue: `{"title":"My Site"}`},
			},
			expectedValue: `{"title":"My Site"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Clean database for each test
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Get(tc.dbParam, tc.settingName)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, setting)
				assert.Equal(t, tc.settingName, setting.Name)
				assert.Equal(t, tc.expectedValue, setting.RawValue)
				assert.False(t, setting.CreatedAt.IsZero())
			}
		})
	}
}

func TestGetByID(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingID     uint64
		seedData      []models.Setting
		expectedError error
		expectedName  string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingID:     1,
			expectedError: ErrDBNil,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingID:     999,
			expectedError: ErrSettingNotFound,
		},
		{
			name:      "successful get by id",
			dbParam:   db,
			settingID: 1,
			seedData: []models.Setting{
				{ID: 1, Name: "SITE_NAME", RawValue: "{}"},
			},
			expectedName: "SITE_NAME",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := GetByID(tc.dbParam, tc.settingID)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedName, setting.Name)
			}
		})
	}
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetAll(nil)
	require.ErrorIs(t, err, ErrDBNil)

	seedSettings(t, db, []models.Setting{
		{Name: "SITE_NAME", RawValue: "{}"},
		{Name: "ADMIN_EMAIL", RawValue: "{}"},
		{Name: "MAX_USERS", RawValue: "{}"},
	})

	settings, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, settings, 3)

	names := make([]string, 0, len(settings))
	for _, s := range settings {
		names = append(names, s.Name)
	}

	assert.Equal(t, []string{"ADMIN_EMAIL", "MAX_USERS", "SITE_NAME"}, names)
}

func TestKnownAndNames(t *testing.T) {
	db := setupTestDB(t)
	seedSettings(t, db, []models.Setting{
		{Name: "HELLO", RawValue: `{"a":1}`},
		{Name: "WORLD", RawValue: `{"b":2}`},
		{Name: "OTHER", RawValue: `{}`},
	})

	rows, err := Known(db, []string{"WORLD", "HELLO", "MISSING"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "HELLO", rows[0].Name)
	assert.Equal(t, "WORLD", rows[1].Name)

	names, err := Names(db, []string{"WORLD", "MISSING"})
	require.NoError(t, err)
	assert.Equal(t, []string{"WORLD"}, names)

	empty, err := Known(db, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = Known(nil, []string{"HELLO"})
	require.ErrorIs(t, err, ErrDBNil)
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingName   string
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingName:   "NEW",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:        "already exists",
			dbParam:     db,
			settingName: "NEW",
			seedData: []models.Setting{
				{Name: "NEW", RawValue: "{}"},
			},
			expectedError: ErrSettingAlreadyExists,
		},
		{
			name:        "successful create",
			dbParam:     db,
			settingName: "NEW",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			setting, err := Create(tc.dbParam, tc.settingName, `{"a":1}`)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, setting.ID)

			exists, err := Exists(db, tc.settingName)
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestCreateMany(t *testing.T) {
	db := setupTestDB(t)

	require.ErrorIs(t, CreateMany(nil, []models.Setting{{Name: "A"}}), ErrDBNil)
	require.NoError(t, CreateMany(db, nil))
	require.ErrorIs(t, CreateMany(db, []models.Setting{{Name: ""}}), ErrSettingNameEmpty)

	require.NoError(t, CreateMany(db, []models.Setting{
		{Name: "FIRST", RawValue: "{}"},
		{Name: "SECOND", RawValue: "{}"},
	}))

	settings, err := GetAll(db)
	require.NoError(t, err)
	assert.Len(t, settings, 2)
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)
	seedSettings(t, db, []models.Setting{{ID: 1, Name: "SITE_NAME", RawValue: `{"title":"old"}`}})

	updated, err := Update(db, 1, `{"title":"new"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"new"}`, updated.RawValue)

	_, err = Update(db, 999, "{}")
	require.ErrorIs(t, err, ErrSettingNotFound)

	_, err = Update(nil, 1, "{}")
	require.ErrorIs(t, err, ErrDBNil)

	byName, err := UpdateByName(db, "SITE_NAME", `{"title":"newer"}`)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), byName.ID)

	stored, err := Get(db, "SITE_NAME")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"newer"}`, stored.RawValue)

	_, err = UpdateByName(db, "MISSING", "{}")
	require.ErrorIs(t, err, ErrSettingNotFound)

	_, err = UpdateByName(db, "", "{}")
	require.ErrorIs(t, err, ErrSettingNameEmpty)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	seedSettings(t, db, []models.Setting{{ID: 1, Name: "SITE_NAME", RawValue: "{}"}})

	require.NoError(t, Delete(db, 1))

	_, err := GetByID(db, 1)
	require.ErrorIs(t, err, ErrSettingNotFound)

	require.ErrorIs(t, Delete(db, 1), ErrSettingNotFound)
	require.ErrorIs(t, Delete(nil, 1), ErrDBNil)
}
