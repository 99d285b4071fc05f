package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/judgerunner.net/internal/config"
	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	auth2 "gitlab.com/judgerunner.net/internal/core/services/auth"
	"gitlab.com/judgerunner.net/internal/core/services/room"
	"gitlab.com/judgerunner.net/internal/core/services/submission"
	"gitlab.com/judgerunner.net/internal/handlers"
	"gitlab.com/judgerunner.net/internal/handlers/auth"
	"gitlab.com/judgerunner.net/internal/handlers/response"
	"gitlab.com/judgerunner.net/internal/handlers/rooms"
	"gitlab.com/judgerunner.net/internal/handlers/submissions"
	"gitlab.com/judgerunner.net/internal/observability"
)

const welcomeText = "Welcome to the judge runner API"

type ServiceProvider struct {
	submissionService submission.ISubmissionService
	roomService       room.IRoomService

	ggAuth    auth2.IAuthService
	localAuth auth2.LocalAuthService
	jwt       primary.JWTService
}

func NewServiceProvider(
	submissionService submission.ISubmissionService,
	roomService room.IRoomService,
	ggAuth auth2.IAuthService,
	localAuth auth2.LocalAuthService,
	jwt primary.JWTService,
) *ServiceProvider {
	return &ServiceProvider{
		submissionService: submissionService,
		roomService:       roomService,
		ggAuth:            ggAuth,
		localAuth:         localAuth,
		jwt:               jwt,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	AllowedOrigin   string
	WriteTimeout    time.Duration
	GGAuthConfig    *config.GGAuthConfig
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(cfg *config.ServerConfig, ggAuthConfig *config.GGAuthConfig, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            cfg.Port,
		ServiceName:     cfg.ServiceName,
		AllowedOrigin:   cfg.AllowedOrigin,
		WriteTimeout:    cfg.WriteTimeout,
		GGAuthConfig:    ggAuthConfig,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	mw := handlers.New(s.ServiceProvider.jwt, s.AllowedOrigin)
	r.Use(observability.Middleware, mw.CORSMiddleware)

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(welcomeText))
	}).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteSuccess(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	auth.NewHandler(s.logger).RegisterRoutes(r, &auth.ServiceDependencies{
		GGAuthService:    s.ServiceProvider.ggAuth,
		LocalAuthService: s.ServiceProvider.localAuth,
		GGAuthConfig:     s.GGAuthConfig,
	})
	hub := rooms.NewHub(s.AllowedOrigin, s.logger)
	rooms.NewRoomHandler(s.ServiceProvider.roomService, hub, s.logger).RegisterRoutes(r)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mw.JWTMiddleware)
	submissions.NewSubmissionHandler(s.ServiceProvider.submissionService, s.logger).RegisterRoutes(api)

	// preflight requests never carry a token, answer them before the JWT check
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	s.router = r
	return nil
}

// Handler exposes the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background; errc receives the listener error, if any.
// WriteTimeout must outlast a judge call, zero when the call is unbounded.
func (s *Server) Start(_ context.Context) <-chan error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr, "service", s.ServiceName)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			errc <- err
		}
		close(errc)
	}()
	return errc
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
