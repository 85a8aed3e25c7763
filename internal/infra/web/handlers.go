package web

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"synomind-gateway/internal/domain"
	"synomind-gateway/internal/domain/model"
	"synomind-gateway/internal/infra/logging"
	red "synomind-gateway/internal/infra/redis"
)

type routeRequest struct {
	Text    string               `json:"text"`
	Role    string               `json:"role"`
	UserID  string               `json:"userId"`
	Context model.RequestContext `json:"context"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// handleRoute serves POST /route. Provider failures never surface as a
// 5xx: the router degrades to a static fallback response internally.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	role := s.resolveRole(r, &req)
	ctx = logging.WithRole(ctx, role)

	if s.limiter != nil {
		key := red.RouteKey(callerKey(r, req.UserID))
		allowed, err := s.limiter.Allow(ctx, key, s.limit, s.window)
		if err != nil {
			// Limiter trouble must not take the gateway down; fail open.
			logging.With(ctx, s.log).Warn().Err(err).Msg("rate limiter unavailable")
		} else if !allowed {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Rate limit exceeded"})
			return
		}
	}

	res, err := s.routerUC.Route(ctx, req.Text, role, req.Context)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to process request"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// resolveRole picks the caller role: JWT claim first, then the request
// body, then the persistence store by user id, defaulting to user.
func (s *Server) resolveRole(r *http.Request, req *routeRequest) string {
	if s.auth != nil && s.auth.Enabled() {
		if role, err := s.auth.RoleFromRequest(r); err == nil && role != "" {
			return role
		}
	}
	if req.Role != "" {
		return req.Role
	}
	if s.roles != nil && req.UserID != "" {
		if role, err := s.roles.RoleByUserID(r.Context(), req.UserID); err == nil && role != "" {
			return role
		}
	}
	return model.RoleUser
}

func callerKey(r *http.Request, userID string) string {
	if userID != "" {
		return userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// handleTrainingStart serves POST /training/start and returns as soon as
// the session is registered; the pipeline runs in the background.
func (s *Server) handleTrainingStart(w http.ResponseWriter, r *http.Request) {
	var cfg model.TrainingConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	id, err := s.trainingUC.Start(cfg)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No modules specified"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to start training"})
		return
	}

	writeJSON(w, http.StatusAccepted, struct {
		SessionID string `json:"sessionId"`
	}{SessionID: id})
}

// handleTrainingStatus serves GET /training/status/{sessionID}.
func (s *Server) handleTrainingStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	snap, err := s.trainingUC.GetStatus(id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Session not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to get session status"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type sessionSummary struct {
	SessionID string    `json:"sessionId"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Modules   []string  `json:"modules"`
	StartTime time.Time `json:"startTime"`
}

// handleTrainingSessions serves GET /training/sessions.
func (s *Server) handleTrainingSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.trainingUC.List()

	summaries := make([]sessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, sessionSummary{
			SessionID: sess.ID,
			Status:    string(sess.Status),
			Progress:  sess.Progress,
			Modules:   sess.Modules,
			StartTime: sess.StartTime,
		})
	}

	writeJSON(w, http.StatusOK, struct {
		Sessions []sessionSummary `json:"sessions"`
	}{Sessions: summaries})
}
