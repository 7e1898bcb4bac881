package common

import (
	"net/http"

	"institute-app-go/internal/transport/httpserver/middleware"
	"institute-app-go/pkg/logger"
)

type Handlers struct {
	log logger.Logger
}

func New(log logger.Logger) *Handlers {
	return &Handlers{log: log}
}

type healthResponse struct {
	Status string `json:"status"`
}

type actorResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "missing actor")
		return
	}

	writeJSON(w, http.StatusOK, actorResponse{ID: actor.ID, Role: actor.Role})
}
