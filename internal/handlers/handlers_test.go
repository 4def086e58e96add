package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/catalog"
	"github.com/cx-tal-miterani/cinema-booking-system/internal/service/mocks"
	"github.com/cx-tal-miterani/cinema-booking-system/shared/models"
)

func setupTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/movies", h.GetMovies).Methods(http.MethodGet)
	api.HandleFunc("/movies/{id}", h.GetMovie).Methods(http.MethodGet)
	api.HandleFunc("/recommendations", h.GetRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/debug", h.GetDebug).Methods(http.MethodGet)
	return r
}

func TestHandler_GetMovies(t *testing.T) {
	mockService := new(mocks.MockBoxOffice)
	router := setupTestRouter(NewHandler(mockService))

	expected := []models.Movie{
		{ID: 1, Title: "Avengers: Secret Wars", BasePrice: 20, Showtimes: []string{"10:00 AM"}, Experiences: []string{"IMAX"}},
		{ID: 2, Title: "Frozen 3", BasePrice: 15},
	}
	mockService.On("Movies", mock.Anything).Return(expected)

	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response []models.Movie
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, expected, response)

	mockService.AssertExpectations(t)
}

func TestHandler_GetMovies_EmptyIsArray(t *testing.T) {
	mockService := new(mocks.MockBoxOffice)
	router := setupTestRouter(NewHandler(mockService))
	mockService.On("Movies", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_GetMovie(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		movieID        int
		mockReturn     models.Movie
		mockError      error
		shouldCallMock bool
		expectedStatus int
	}{
		{
			name:           "movie found",
			path:           "/api/movies/2",
			movieID:        2,
			mockReturn:     models.Movie{ID: 2, Title: "Frozen 3"},
			shouldCallMock: true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "movie not found",
			path:           "/api/movies/99",
			movieID:        99,
			mockError:      fmt.Errorf("%w: id 99", catalog.ErrMovieNotFound),
			shouldCallMock: true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			path:           "/api/movies/abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockBoxOffice)
			router := setupTestRouter(NewHandler(mockService))

			if tt.shouldCallMock {
				mockService.On("Movie", mock.Anything, tt.movieID).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var movie models.Movie
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&movie))
				assert.Equal(t, "Frozen 3", movie.Title)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetRecommendations(t *testing.T) {
	mockService := new(mocks.MockBoxOffice)
	router := setupTestRouter(NewHandler(mockService))
	mockService.On("Recommendations", mock.Anything).Return([]models.Movie{{ID: 1}, {ID: 2}, {ID: 3}})

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []models.Movie
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Len(t, response, 3)
}

func TestHandler_GetDebug(t *testing.T) {
	mockService := new(mocks.MockBoxOffice)
	router := setupTestRouter(NewHandler(mockService))

	dump := models.DebugDump{
		Users:        []models.DebugUser{{Name: "Admin", Email: "admin@test.com", TicketCount: 2}},
		Movies:       []string{"Frozen 3"},
		NextTicketID: 1002,
	}
	mockService.On("Debug", mock.Anything).Return(dump)

	req := httptest.NewRequest(http.MethodGet, "/api/debug", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":[{"name":"Admin","email":"admin@test.com","ticketCount":2}],"movies":["Frozen 3"],"nextTicketId":1002}`, rec.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", models.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: gone", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: dup", models.ErrConflict), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
