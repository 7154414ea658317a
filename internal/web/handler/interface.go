package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoStageSetting/GoStageSetting/internal/config"
	"github.com/GoStageSetting/GoStageSetting/internal/registry"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, reg *registry.Registry) error
}
