package stats

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"club-service/internal/riders"
	"club-service/pkg/jwt"
)

// Handler exposes stats and eligibility HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the stats service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router with all stats routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)

	r.Get("/participation/{id}", h.Participation)
	r.Get("/combined/{id}", h.Combined)
	r.Get("/eligibility/{id}", h.Eligibility)

	r.Group(func(r chi.Router) {
		r.Use(jwt.RequireRole(riders.RoleFlagHolder, riders.RoleAdmin))
		r.Get("/report", h.Report)
	})

	return r
}

func (h *Handler) Participation(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Participation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) Combined(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.CombinedStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) Eligibility(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.EligibilityFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.PrerideReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, riders.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
