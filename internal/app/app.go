// Package app wires dependencies and manages the service lifecycle.
package app

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/finlens/loanadvisor/internal/pkg/clock"
	"github.com/finlens/loanadvisor/internal/pkg/config"
	"github.com/finlens/loanadvisor/internal/pkg/goroutine"
	"github.com/finlens/loanadvisor/internal/pkg/hash"
	"github.com/finlens/loanadvisor/internal/pkg/instrument"
	"github.com/finlens/loanadvisor/internal/pkg/jwt"
	"github.com/finlens/loanadvisor/internal/pkg/limiter"
	"github.com/finlens/loanadvisor/internal/pkg/mail"
	"github.com/finlens/loanadvisor/internal/pkg/messaging"
	"github.com/finlens/loanadvisor/internal/pkg/router"
	"github.com/finlens/loanadvisor/internal/pkg/storage"
	"github.com/finlens/loanadvisor/internal/pkg/uid"
	"github.com/finlens/loanadvisor/internal/pkg/validator"
)

// App holds every long-lived dependency of the service.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	cooldown  limiter.Cooldown
	mail      mail.Mail
	messaging messaging.Broker
	storage   storage.Blob
	casbin    *casbin.Enforcer

	// server
	router     *router.Router
	httpServer *http.Server

	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initCasbin()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
