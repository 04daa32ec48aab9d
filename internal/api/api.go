package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/meetapp-io/meetapp/internal/auth"
	"github.com/meetapp-io/meetapp/internal/config"
	"github.com/meetapp-io/meetapp/internal/database"
	"github.com/meetapp-io/meetapp/internal/queue"
	"github.com/meetapp-io/meetapp/internal/storage"
)

// BannerStorage is the slice of the object store the API needs.
type BannerStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (*storage.UploadResult, error)
}

// Api wires the HTTP surface to its collaborators. Every dependency is
// injected; there are no package-level singletons.
type Api struct {
	Config *config.Config
	Router *chi.Mux

	tokens        *auth.TokenManager
	users         *database.UserStore
	files         *database.FileStore
	meetups       *database.MeetupStore
	subscriptions *database.SubscriptionStore
	queue         queue.Enqueuer
	storage       BannerStorage
	validate      *validator.Validate
}

// NewApi builds the API with its routes registered.
func NewApi(cfg *config.Config, db *database.DB, enqueuer queue.Enqueuer, store BannerStorage) *Api {
	api := &Api{
		Config:        cfg,
		Router:        chi.NewRouter(),
		tokens:        auth.NewTokenManager(cfg.Auth.JWTSecret),
		users:         database.NewUserStore(db),
		files:         database.NewFileStore(db),
		meetups:       database.NewMeetupStore(db),
		subscriptions: database.NewSubscriptionStore(db),
		queue:         enqueuer,
		storage:       store,
		validate:      newValidator(),
	}

	api.setupRoutes()
	return api
}

func (a *Api) setupRoutes() {
	r := a.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/heartbeat"))

	// Public routes
	r.Post("/users", a.CreateUser)
	r.Post("/sessions", a.CreateSession)
	r.Post("/reset", a.RequestPasswordReset)
	r.Put("/reset/{token}", a.ConfirmPasswordReset)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(a.tokens))

		r.Put("/users", a.UpdateUser)
		r.Put("/users/password", a.UpdatePassword)

		r.Get("/files", a.ListFiles)
		r.Post("/files", a.UploadFile)

		r.Get("/meetups", a.ListMeetups)
		r.Post("/meetups", a.CreateMeetup)
		r.Put("/meetups/{id}", a.UpdateMeetup)
		r.Delete("/meetups/{id}", a.DeleteMeetup)

		r.Post("/meetups/{meetupID}/subscriptions", a.Subscribe)
		r.Delete("/meetups/{meetupID}/subscriptions", a.Unsubscribe)

		r.Get("/organizing", a.ListOrganizing)
	})
}

// Serve blocks listening for requests.
func (a *Api) Serve() error {
	addr := fmt.Sprintf("0.0.0.0:%d", a.Config.APIPort)
	return http.ListenAndServe(addr, a.Router)
}

// principal extracts the authenticated user claims; routes behind the
// auth middleware always have them.
func (a *Api) principal(r *http.Request) (*auth.TokenClaims, bool) {
	return auth.PrincipalFromContext(r.Context())
}
