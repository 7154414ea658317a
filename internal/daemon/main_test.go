package daemon

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoStageSetting/GoStageSetting/internal/config"
	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/setting"
	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/user"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DB: config.DB{
			GormEngine: config.EngineSQLite,
			Name:       filepath.Join(t.TempDir(), "test.db"),
		},
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost:8080", PageSize: 20},
		Settings: map[string]any{
			"SITE":          map[string]any{"title": "My site", "enabled": true},
			"LIST_PER_PAGE": []any{"presets.Pagination", map[string]any{"per_page": int64(25)}},
		},
	}
}

func TestBootstrap(t *testing.T) {
	db, reg, err := Bootstrap(context.Background(), testConfig(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"LIST_PER_PAGE", "SITE"}, reg.Names())

	names, err := setting.Names(db, []string{"LIST_PER_PAGE", "SITE", "OTHER"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"LIST_PER_PAGE", "SITE"}, names)

	def, err := reg.Default("LIST_PER_PAGE")
	require.NoError(t, err)
	assert.EqualValues(t, 25, def["per_page"])
}

func TestBootstrapNilConfig(t *testing.T) {
	_, _, err := Bootstrap(context.Background(), nil)
	require.ErrorIs(t, err, ErrNilConfig)

	_, err = New(context.Background(), nil)
	require.ErrorIs(t, err, ErrNilConfig)
}

func TestOpenDBUnknownEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.GormEngine = "oracle"

	_, err := OpenDB(cfg)
	require.ErrorIs(t, err, config.ErrUnknownEngine)
}

func TestAssetStores(t *testing.T) {
	cfg := &config.Config{Assets: []config.Asset{
		{Name: "static", Root: "testdata", URL: "/static/", Aliases: []string{"/assets/"}},
	}}

	stores := AssetStores(cfg)
	require.Len(t, stores, 1)
	assert.Equal(t, "static", stores[0].Name)
	assert.Equal(t, "/static/", stores[0].URL)
	assert.Equal(t, []string{"/assets/"}, stores[0].Aliases)
	assert.NotNil(t, stores[0].FS)
}

func TestCatalog(t *testing.T) {
	catalog := Catalog(nil)

	for _, ref := range []string{"presets.Pagination", user.OwnerRef, user.TeamRef} {
		_, ok := catalog.Lookup(ref)
		assert.True(t, ok, ref)
	}

	_, ok := catalog.Lookup("presets.Missing")
	assert.False(t, ok)
}

func TestSessionStorageSQLite(t *testing.T) {
	assert.Nil(t, sessionStorage(testConfig(t)))
}
