package services

import (
	"context"
	"log/slog"

	"github.com/fmaignacio/observatorio-tere/internal/infrastructure"
)

// logServiceError logs a failed service call with the standard attributes
func logServiceError(ctx context.Context, component, action string, err error, attrs ...slog.Attr) {
	logger := infrastructure.LoggerWithContext(ctx)

	allAttrs := []slog.Attr{
		slog.String("component", component),
		slog.String("action", action),
		slog.String("error", err.Error()),
	}
	allAttrs = append(allAttrs, attrs...)

	logger.LogAttrs(ctx, slog.LevelWarn, "service call failed", allAttrs...)
}
