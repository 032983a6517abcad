// Package aggregate answers the cross-collection questions of the invoicing
// backend: invoices joined with their client, clients with billing totals,
// and validated invoice creation.
//
// Queries work on copies taken from the stores, then filter, sort and
// paginate in memory. Sorting is stable: records that compare equal keep the
// order they have in their collection.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mmynk/invoicer/internal/observability/metrics"
	"github.com/mmynk/invoicer/internal/storage"
)

const (
	// DefaultLimit is the page size used when a query asks for none.
	DefaultLimit = 20

	tracerName = "github.com/mmynk/invoicer/internal/aggregate"
)

// ErrMissingClient reports an invoice whose client cannot be found.
var ErrMissingClient = errors.New("invoice references a missing client")

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Page is one slice of a filtered and sorted result set.
type Page[T any] struct {
	Result []T `json:"result"`

	// Total counts every match before pagination.
	Total int `json:"total"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine joins the invoice and client stores.
type Engine struct {
	invoices *storage.InvoiceStore
	clients  *storage.ClientStore
	logger   *slog.Logger
	now      func() time.Time
	tracer   trace.Tracer
}

// New creates an engine over the given stores.
func New(invoices *storage.InvoiceStore, clients *storage.ClientStore, opts ...Option) *Engine {
	e := &Engine{
		invoices: invoices,
		clients:  clients,
		logger:   slog.Default(),
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// observe starts a span and returns the function that ends it, recording
// err and the query duration.
func (e *Engine) observe(ctx context.Context, name, userID string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "aggregate."+name)
	span.SetAttributes(attribute.String("invoicer.user_id", userID))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.ObserveQuery(name, time.Since(start))
	}
}

func parseDirection(d Direction) (Direction, error) {
	switch d {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	default:
		return "", fmt.Errorf("%w: unknown sort direction %q", storage.ErrValidation, d)
	}
}

// sortStable orders items by cmp, reversing it for descending order.
func sortStable[T any](items []T, cmp func(a, b T) int, dir Direction) {
	if dir == Desc {
		slices.SortStableFunc(items, func(a, b T) int { return cmp(b, a) })
		return
	}
	slices.SortStableFunc(items, cmp)
}

// paginate clamps offset and limit to items. A negative offset counts as 0
// and a non-positive limit as DefaultLimit.
func paginate[T any](items []T, offset, limit int) Page[T] {
	total := len(items)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset >= total {
		return Page[T]{Result: []T{}, Total: total}
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return Page[T]{Result: slices.Clone(items[offset:end]), Total: total}
}
