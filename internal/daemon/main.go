// Package daemon wires the database, the setting registry and the web service.
package daemon

import (
	"context"
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoStageSetting/GoStageSetting/internal/config"
	"github.com/GoStageSetting/GoStageSetting/internal/db/controller/user"
	"github.com/GoStageSetting/GoStageSetting/internal/db/dsn"
	"github.com/GoStageSetting/GoStageSetting/internal/db/models"
	"github.com/GoStageSetting/GoStageSetting/internal/logger/adapter/stdlogger"
	"github.com/GoStageSetting/GoStageSetting/internal/registry"
	"github.com/GoStageSetting/GoStageSetting/internal/schema"
	"github.com/GoStageSetting/GoStageSetting/internal/web"
	"github.com/GoStageSetting/GoStageSetting/internal/web/session"
)

const sessionTable = "sessions"

// ErrNilConfig is returned when no configuration is given.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
}

// Start serves http until SIGINT or SIGTERM. A listener that cannot be opened is fatal.
func (d *Daemon) Start() {
	go func() {
		if err := d.webService.Start(); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	db, reg, err := Bootstrap(ctx, cfg)
	if err != nil {
		return nil, err
	}

	session.Init(sessionStorage(cfg), cfg.Webserver.Session.ExpiryTime)

	svc, err := web.New(cfg, db, reg)
	if err != nil {
		return nil, err
	}

	return &Daemon{webService: svc}, nil
}

// Bootstrap opens the database and registers the declared settings.
func Bootstrap(ctx context.Context, cfg *config.Config) (*gorm.DB, *registry.Registry, error) {
	if cfg == nil {
		return nil, nil, ErrNilConfig
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New(registry.WithSynthesizer(Synthesizer(cfg)))

	if err := reg.Ready(ctx, db, cfg.Declarations(), Catalog(db)); err != nil {
		return nil, nil, err
	}

	log.Info().Int("settings", len(reg.Names())).Msg("runtime settings registered")

	return db, reg, nil
}

// OpenDB connects to the configured engine and migrates the models.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite, "":
		dialector = sqlite.Open(dsn.Create(cfg))
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.Create(cfg))
	default:
		return nil, config.ErrUnknownEngine
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: stdlogger.Gorm()})
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Setting{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

// AssetStores builds the configured asset stores on top of their directories.
func AssetStores(cfg *config.Config) []*schema.AssetStore {
	stores := make([]*schema.AssetStore, 0, len(cfg.Assets))
	for _, a := range cfg.Assets {
		stores = append(stores, &schema.AssetStore{
			Name:    a.Name,
			URL:     a.URL,
			Aliases: a.Aliases,
			FS:      os.DirFS(a.Root),
		})
	}

	return stores
}

// Synthesizer infers schemas with the configured asset stores.
func Synthesizer(cfg *config.Config) *schema.Synthesizer {
	return schema.NewSynthesizer(schema.WithAssetStores(AssetStores(cfg)...))
}

// Catalog is the set of schemas declarations can reference by name.
func Catalog(db *gorm.DB) schema.Catalog {
	return schema.Presets().Merge(user.Catalog(db))
}

// sessionStorage keeps sessions next to the settings when the database is
// shared, and in memory for sqlite.
func sessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	default:
		return nil
	}
}
