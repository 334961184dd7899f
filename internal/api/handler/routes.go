package handler

import (
	"net/http"

	"github.com/leadflow/lead-manager-api/internal/api/handler/router"
	"github.com/leadflow/lead-manager-api/internal/usecases/authenticating"
	"github.com/leadflow/lead-manager-api/internal/usecases/resolving"
	"github.com/leadflow/lead-manager-api/internal/usecases/scoring"
	"github.com/leadflow/lead-manager-api/internal/usecases/tracking"
	"github.com/leadflow/lead-manager-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Leads concentra as rotas do ciclo de vida dos leads. A criação e o
// rastreamento são públicos (formulários e pixel de email); consulta é
// restrita a usuários autenticados.
func Leads(resolver resolving.Resolver, tracker tracking.Tracker) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/leads",
			Method:  http.MethodPost,
			Handler: CreateLead(resolver, tracker),
		},
		{
			Path:    "/v1/leads/:id/engagement",
			Method:  http.MethodPatch,
			Handler: BumpEngagement(tracker),
		},
		{
			Path:    "/v1/leads/:id/pixel.gif",
			Method:  http.MethodGet,
			Handler: TrackingPixel(tracker),
		},
		{
			Path:        "/v1/leads",
			Method:      http.MethodGet,
			Handler:     ListLeads(resolver),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/leads/:id",
			Method:      http.MethodGet,
			Handler:     GetLead(resolver),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

// Predictions agrupa a pontuação sob demanda e a manutenção da base
func Predictions(scoringService scoring.Scorer, resolver resolving.Resolver, cronServices CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/leads/:id/predict",
			Method:      http.MethodPost,
			Handler:     PredictLead(scoringService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/predictions/run",
			Method:      http.MethodPost,
			Handler:     PredictAllLeads(cronServices.LeadRescoreService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/duplicates/merge",
			Method:      http.MethodPost,
			Handler:     MergeDuplicateLeads(resolver),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}
