package transport

import (
	"log/slog"
	"net/http"
)

// Hook observes outgoing requests and incoming responses. Hooks run in
// registration order and must not retain the objects they are handed.
type Hook struct {
	BeforeSend   func(*http.Request)
	AfterReceive func(*http.Response)
}

// VerboseHook logs full request lines and response statuses at debug level.
// Wired by the CLI's verbose flag.
func VerboseHook(logger *slog.Logger) Hook {
	if logger == nil {
		logger = slog.Default()
	}
	return Hook{
		BeforeSend: func(req *http.Request) {
			logger.Debug("-> request",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Bool("bearer", req.Header.Get("Authorization") != ""),
			)
		},
		AfterReceive: func(res *http.Response) {
			logger.Debug("<- response",
				slog.Int("status", res.StatusCode),
				slog.String("content_type", res.Header.Get("Content-Type")),
			)
		},
	}
}
