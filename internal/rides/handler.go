package rides

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"club-service/internal/riders"
	"club-service/pkg/jwt"
)

// Handler exposes ride HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the ride service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router with all ride routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)

	r.Get("/upcoming", h.ListUpcoming)
	r.Get("/past", h.ListPast)
	r.Get("/meeting-points", h.MeetingPoints)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/join", h.Join)
	r.Post("/{id}/leave", h.Leave)

	// Flag holders run rides; admins can step in.
	r.Group(func(r chi.Router) {
		r.Use(jwt.RequireRole(riders.RoleFlagHolder, riders.RoleAdmin))
		r.Post("/", h.Create)
		r.Put("/{id}/days/{day}", h.UpdateDay)
		r.Patch("/{id}/status", h.SetStatus)
	})

	r.Group(func(r chi.Router) {
		r.Use(jwt.RequireRole(riders.RoleAdmin))
		r.Post("/meeting-points", h.AddMeetingPoint)
		r.Delete("/meeting-points/{name}", h.RemoveMeetingPoint)
	})

	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	ride, announcement, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, CreateResponse{Ride: ride, Announcement: announcement})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := rideID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ride id"})
		return
	}
	ride, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ride)
}

func (h *Handler) UpdateDay(w http.ResponseWriter, r *http.Request) {
	id, err := rideID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ride id"})
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day number"})
		return
	}

	var req UpdateDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	ok, err := h.svc.UpdateDay(r.Context(), id, day, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "ride or day not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	h.toggleParticipant(w, r, h.svc.AddParticipant)
}

func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	h.toggleParticipant(w, r, h.svc.RemoveParticipant)
}

func (h *Handler) toggleParticipant(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, rideID int64, riderID string) error) {
	claims := jwt.GetClaims(r.Context())
	id, err := rideID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ride id"})
		return
	}
	if err := op(r.Context(), id, claims.UserID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListUpcoming(r.Context(), time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) ListPast(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListPast(r.Context(), time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := rideID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ride id"})
		return
	}
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if err := h.svc.SetStatus(r.Context(), id, req.Status); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *Handler) MeetingPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.svc.MeetingPoints(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) AddMeetingPoint(w http.ResponseWriter, r *http.Request) {
	var req MeetingPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if err := h.svc.AddMeetingPoint(r.Context(), req.Name); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

func (h *Handler) RemoveMeetingPoint(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.svc.RemoveMeetingPoint(r.Context(), name); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"removed": name})
}

func rideID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
