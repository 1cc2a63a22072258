package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/angeloszaimis/dbtime-app/internal/database"
)

// AppLabel is part of the response body clients match on.
const AppLabel = "Node.js App"

const (
	successFormat = "Hello from %s — DB time: %s\n"
	failurePrefix = "Cannot connect to DB: "
)

// TimeSource reports the database server's current time.
type TimeSource interface {
	Now(ctx context.Context) (string, error)
}

type TimeHandler struct {
	logger *slog.Logger
	source TimeSource
}

func NewTimeHandler(logger *slog.Logger, source TimeSource) *TimeHandler {
	return &TimeHandler{
		logger: logger,
		source: source,
	}
}

func (h *TimeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Received request",
		slog.String("from", extractClientIP(r)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("user_agent", r.UserAgent()))

	now, err := h.source.Now(r.Context())
	if err != nil {
		kind := "unknown"
		if k, ok := database.KindOf(err); ok {
			kind = k.String()
		}

		h.logger.Error("DB error",
			slog.String("kind", kind),
			slog.String("err", err.Error()))

		writeText(w, http.StatusInternalServerError, failurePrefix+err.Error())
		return
	}

	writeText(w, http.StatusOK, fmt.Sprintf(successFormat, AppLabel, now))
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}
