package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/metrics"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Events         *EventHandler
	Accounts       *AccountHandler
	Auth           Authenticator
	Metrics        *metrics.Metrics
	HealthChecks   []Check
	AllowedOrigins []string
}

// NewRouter builds the chi router with the global middleware stack and all
// routes. Paths keep their trailing slash.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger)
	if cfg.Metrics != nil {
		r.Use(Metrics(cfg.Metrics))
	}
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(CSRF(cfg.AllowedOrigins))

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/health", HealthCheck(cfg.HealthChecks...))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(cfg.Auth))

		ev := cfg.Events
		r.Get("/", ev.Home)
		r.Get("/eventos/", ev.ListEvents)
		r.Get("/mis-eventos/", ev.MyEvents)
		r.Get("/acceso-denegado/", AccessDenied)

		r.Get("/evento/crear/", ev.CreateForm)
		r.Post("/evento/crear/", ev.CreateEvent)
		r.Route("/evento/{id}", func(r chi.Router) {
			r.Get("/", ev.GetEvent)
			r.Get("/editar/", ev.EditForm)
			r.Post("/editar/", ev.UpdateEvent)
			r.Post("/eliminar/", ev.DeleteEvent)
			r.Post("/inscribirse/", ev.Enroll)
			r.Post("/cancelar/", ev.Cancel)
		})

		acc := cfg.Accounts
		r.Post("/registro/", acc.Register)
		r.Post("/login/", acc.Login)
		r.Post("/logout/", acc.Logout)
		r.Get("/perfil/", acc.Profile)
		r.Post("/perfil/", acc.UpdateProfile)
		r.Post("/usuarios/{id}/rol/", acc.ChangeRole)
	})

	return r
}
