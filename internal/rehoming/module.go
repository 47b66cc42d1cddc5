// Package rehoming provides the rehoming intervention domain module: the
// persistence authority behind the sensitive-action wizard that gates
// listing a pet for rehoming.
package rehoming

import (
	"petcircle_backend/internal/events"
	apphttp "petcircle_backend/internal/http"
	"petcircle_backend/internal/rehoming/handler"
	"petcircle_backend/internal/rehoming/repository"
	"petcircle_backend/internal/rehoming/service"
	"petcircle_backend/platform/config"
	"petcircle_backend/platform/logger"
	"petcircle_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the rehoming domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new rehoming module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator, eventBus events.Bus, log *logger.Logger, cfg config.CoolingConfig) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log, cfg.GetCoolingPeriod())
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "rehoming"
}

// RegisterRoutes registers the module's routes under /api/v1/rehoming/interventions
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	interventions := ctx.Protected.Group("/rehoming/interventions")
	m.handler.RegisterRoutes(interventions)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
