package parcels_api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/BearBump/ParcelBox/internal/models"
	"github.com/BearBump/ParcelBox/internal/services/parcels"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

type ParcelsAPI struct {
	svc *parcels.Service
}

func New(svc *parcels.Service) *ParcelsAPI {
	return &ParcelsAPI{svc: svc}
}

func (a *ParcelsAPI) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/parcels", a.listParcels)
	r.Get("/api/parcels/{trackingNumber}", a.getParcel)
	r.Post("/api/parcels", a.createParcel)
	r.Put("/api/parcels/{id}/status", a.updateParcelStatus)
	return r
}

type parcelResponse struct {
	ID             string    `json:"id"`
	TrackingNumber string    `json:"trackingNumber"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type createParcelRequest struct {
	TrackingNumber string `json:"trackingNumber"`
	Status         string `json:"status"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *ParcelsAPI) getParcel(w http.ResponseWriter, r *http.Request) {
	trackingNumber := chi.URLParam(r, "trackingNumber")

	p, err := a.svc.GetByTrackingNumber(r.Context(), trackingNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(p))
}

func (a *ParcelsAPI) listParcels(w http.ResponseWriter, r *http.Request) {
	ps, err := a.svc.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]parcelResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *ParcelsAPI) createParcel(w http.ResponseWriter, r *http.Request) {
	var req createParcelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := a.svc.Create(r.Context(), models.ParcelCreateInput{
		TrackingNumber: req.TrackingNumber,
		Status:         req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(p))
}

func (a *ParcelsAPI) updateParcelStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	p, err := a.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(p))
}

func toResponse(p *models.Parcel) parcelResponse {
	return parcelResponse{
		ID:             p.ID,
		TrackingNumber: p.TrackingNumber,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		slog.Error("parcels api internal error", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
