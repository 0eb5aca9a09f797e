package emulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pigeonworks-llc/gus-income/pkg/gus"
)

// APIPrefix is the versioned path the real API is served under.
const APIPrefix = "/api/1.1.0"

// Paging limits.
const (
	DefaultPageSize = 100
	MaxPageSize     = 5000
)

// Handler handles the variable-data-section endpoint.
type Handler struct {
	store  *Store
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(s *Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: s, logger: logger}
}

// NewRouter mounts the emulator endpoints on a chi router.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route(APIPrefix, func(r chi.Router) {
		r.Get(gus.VariableDataSectionPath, h.VariableDataSection)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}

// VariableDataSection handles GET /api/1.1.0/variable/variable-data-section.
func (h *Handler) VariableDataSection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ds, err := h.store.Dataset()
	if err != nil {
		h.logger.Error("failed to read dataset", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to read dataset")
		return
	}

	for _, p := range []struct {
		name     string
		expected int64
	}{
		{"id-zmienna", ds.VariableID},
		{"id-przekroj", ds.SectionID},
		{"id-okres", ds.PeriodID},
	} {
		v, err := strconv.ParseInt(q.Get(p.name), 10, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", fmt.Sprintf("Invalid %s", p.name))
			return
		}
		if v != p.expected {
			writeJSONError(w, http.StatusBadRequest, "invalid_parameter", fmt.Sprintf("Unknown %s %d", p.name, v))
			return
		}
	}

	year, err := strconv.Atoi(q.Get("id-rok"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid id-rok")
		return
	}

	pageSize, err := intParam(q.Get("ile-na-stronie"), DefaultPageSize)
	if err != nil || pageSize < 1 || pageSize > MaxPageSize {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", fmt.Sprintf("ile-na-stronie must be between 1 and %d", MaxPageSize))
		return
	}
	page, err := intParam(q.Get("numer-strony"), 0)
	if err != nil || page < 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid numer-strony")
		return
	}

	status, err := h.store.Fault(year)
	if err != nil {
		h.logger.Error("failed to read fault", "year", year, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to read dataset")
		return
	}
	if status != 0 {
		h.logger.Info("injected fault", "year", year, "status", status)
		writeJSONError(w, status, "injected_fault", fmt.Sprintf("Fault configured for %d", year))
		return
	}

	records, err := h.store.GetYear(year)
	if err != nil && !errors.Is(err, ErrNotFound) {
		h.logger.Error("failed to read records", "year", year, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to read records")
		return
	}

	response := gus.VariableDataResponse{
		PageNumber: page,
		PageSize:   pageSize,
		PageCount:  (len(records) + pageSize - 1) / pageSize,
		Data:       paginate(records, page, pageSize),
	}

	h.logger.Debug("served variable data", "year", year, "page", page, "records", len(response.Data))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// paginate returns the page-th slice of size records; never nil.
func paginate(records []gus.Record, page, size int) []gus.Record {
	start := page * size
	if start >= len(records) {
		return []gus.Record{}
	}
	end := min(start+size, len(records))
	return records[start:end]
}

func intParam(s string, defaultValue int) (int, error) {
	if s == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(s)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(gus.ErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}
