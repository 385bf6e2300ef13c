package jobs

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gaerrors "github.com/ducminhle1904/combo-optimizer/internal/errors"
	"github.com/ducminhle1904/combo-optimizer/pkg/config"
)

// maxConfigBytes bounds the size of a submitted configuration
const maxConfigBytes = 1 << 20

// Handler exposes the job manager over HTTP
type Handler struct {
	manager *Manager
	configs *config.GAConfigManager
}

// NewHandler creates the REST handler for m
func NewHandler(m *Manager) *Handler {
	return &Handler{
		manager: m,
		configs: config.NewGAConfigManager(),
	}
}

// Register mounts the job routes on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /jobs", h.submit)
	mux.HandleFunc("GET /jobs", h.list)
	mux.HandleFunc("GET /jobs/{id}", h.get)
	mux.HandleFunc("GET /jobs/{id}/result", h.result)
}

// ServeHTTP serves the job routes on their own mux
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	h.Register(mux)
	mux.ServeHTTP(w, r)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxConfigBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg, err := h.configs.ParseConfig(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	// Server runs never print to the console
	cfg.Output.Console = false

	job, err := h.manager.Submit(cfg)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrQueueFull) || errors.Is(err, ErrShuttingDown) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.List())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	job, err := h.manager.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) result(w http.ResponseWriter, r *http.Request) {
	report, err := h.manager.Result(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func statusFor(err error) int {
	if errors.Is(err, gaerrors.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusConflict
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
