// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"blogapi/internal/database"
	"blogapi/internal/models"
	"blogapi/internal/observability"
)

// instrumentation bundles the latency histogram, write logger and tracing
// for one table.
type instrumentation struct {
	table   string
	metrics *observability.DatabaseMetrics
	log     *observability.RepoLogger
}

func newInstrumentation(table string) instrumentation {
	return instrumentation{
		table:   table,
		metrics: observability.NewDatabaseMetrics(table),
		log:     observability.NewRepoLogger(table),
	}
}

// begin starts a span and a latency timer. The returned func ends both and
// logs unexpected errors.
func (i instrumentation) begin(ctx context.Context, method string) (context.Context, func(error)) {
	ctx, span := observability.StartRepositorySpan(ctx, i.table, method)
	done := i.metrics.TrackQuery(method)
	return ctx, func(err error) {
		done()
		if err != nil && !models.IsCode(err, models.CodeNotFound) && !models.IsCode(err, models.CodeValidation) {
			i.log.LogError(ctx, err, method)
		}
		observability.EndSpan(span, err)
	}
}

// mapError turns gorm errors into AppErrors: record-not-found becomes a 404
// with notFound as the message, anything else is internal.
func mapError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if database.IsNotFound(err) {
		return models.NewNotFoundError(notFound)
	}
	return models.NewInternalError(err)
}
