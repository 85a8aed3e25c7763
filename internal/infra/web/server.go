package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"synomind-gateway/internal/domain/ports/repository"
	red "synomind-gateway/internal/infra/redis"
	"synomind-gateway/internal/usecase"
)

// Server wires the gateway and training endpoints. Role lookup and rate
// limiting are optional collaborators: nil disables them.
type Server struct {
	routerUC   usecase.RouterUseCase
	trainingUC usecase.TrainingUseCase
	auth       *AuthManager
	roles      repository.RoleLookup
	limiter    *red.RateLimiter
	limit      int
	window     time.Duration
	log        *zerolog.Logger
}

func NewServer(
	routerUC usecase.RouterUseCase,
	trainingUC usecase.TrainingUseCase,
	auth *AuthManager,
	roles repository.RoleLookup,
	limiter *red.RateLimiter,
	limit int,
	window time.Duration,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		routerUC:   routerUC,
		trainingUC: trainingUC,
		auth:       auth,
		roles:      roles,
		limiter:    limiter,
		limit:      limit,
		window:     window,
		log:        logger,
	}
}

// Routes builds the chi router for the whole HTTP surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log))

	r.Post("/route", s.handleRoute)
	r.Post("/training/start", s.handleTrainingStart)
	r.Get("/training/status/{sessionID}", s.handleTrainingStatus)
	r.Get("/training/sessions", s.handleTrainingSessions)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
