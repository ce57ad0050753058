package app

import (
	"job-tracker/config"
	"job-tracker/internal/companydir"
	"job-tracker/internal/session"
	"job-tracker/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

// Application holds core application dependencies. RedisClient and
// Directory may be nil.
type Application struct {
	Config      *config.Config
	Store       storage.Store
	RedisClient *redis.Client
	Validator   *validator.Validate
	Sessions    *session.Manager
	Directory   *companydir.Client
}
