package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qowq/IBuddy/internal/usecase"
)

const maxBodyBytes = 1 << 20

// RegisterRoutes mounts /chat and /feedback. Method checks happen in Serve so
// both transports answer non-POST requests the same way.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/chat", h.serveHTTP(usecase.RouteChat))
	r.HandleFunc("/feedback", h.serveHTTP(usecase.RouteFeedback))
}

func (h *Handler) serveHTTP(route usecase.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		correlationID := strings.TrimSpace(r.Header.Get(headerCorrelationID))
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		var resp Response
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			slog.WarnContext(r.Context(), "failed to read request body", "route", route, "err", err)
			resp = jsonResponse(http.StatusInternalServerError, errorResponse{Error: msgInternal})
			resp.Headers[headerCorrelationID] = correlationID
		} else {
			resp = h.Serve(r.Context(), r.Method, route, body, correlationID)
		}
		writeResponse(w, resp)
	}
}

func writeResponse(w http.ResponseWriter, resp Response) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}
