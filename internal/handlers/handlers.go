package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/service"
	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

// Handler contains HTTP handlers for the ops API
type Handler struct {
	boxOffice service.BoxOffice
}

// NewHandler creates a new Handler instance
func NewHandler(boxOffice service.BoxOffice) *Handler {
	return &Handler{
		boxOffice: boxOffice,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logrus.Warnf("Failed to encode response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetMovies handles GET /api/movies
func (h *Handler) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies := h.boxOffice.Movies(r.Context())
	if movies == nil {
		movies = []models.Movie{}
	}
	respondJSON(w, http.StatusOK, movies)
}

// GetMovie handles GET /api/movies/{id}
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	movie, err := h.boxOffice.Movie(r.Context(), id)
	if err != nil {
		respondError(w, statusFor(err), "Movie not found")
		return
	}
	respondJSON(w, http.StatusOK, movie)
}

// GetRecommendations handles GET /api/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	movies := h.boxOffice.Recommendations(r.Context())
	if movies == nil {
		movies = []models.Movie{}
	}
	respondJSON(w, http.StatusOK, movies)
}

// GetDebug handles GET /api/debug
func (h *Handler) GetDebug(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.boxOffice.Debug(r.Context()))
}
