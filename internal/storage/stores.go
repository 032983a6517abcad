package storage

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Stores is the set of entity stores of one process. It is built once at
// startup and handed to whatever needs it.
type Stores struct {
	Users    *UserStore
	Clients  *ClientStore
	Invoices *InvoiceStore

	backend Backend
	logger  *slog.Logger
}

// NewStores creates uninitialized, in-memory stores sharing opts.
func NewStores(opts ...Option) *Stores {
	return &Stores{
		Users:    NewUserStore(opts...),
		Clients:  NewClientStore(opts...),
		Invoices: NewInvoiceStore(opts...),
		logger:   slog.Default(),
	}
}

// Open creates the stores and loads all three collections from backend.
func Open(ctx context.Context, backend Backend, logger *slog.Logger, opts ...Option) (*Stores, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := NewStores(append([]Option{WithLogger(logger)}, opts...)...)
	s.backend = backend
	s.logger = logger
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads every collection from the backend, discarding in-memory
// state. Use it after the durable copy was replaced out of band.
func (s *Stores) Reload(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Users.Initialize(ctx, s.backend) })
	g.Go(func() error { return s.Clients.Initialize(ctx, s.backend) })
	g.Go(func() error { return s.Invoices.Initialize(ctx, s.backend) })
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load stores", "error", err)
		return err
	}

	s.logger.Info("stores loaded",
		"users", s.Users.Len(),
		"clients", s.Clients.Len(),
		"invoices", s.Invoices.Len(),
	)
	return nil
}

// SetAutoPersist toggles write-after-mutation on all three stores.
func (s *Stores) SetAutoPersist(enabled bool) {
	s.Users.SetAutoPersist(enabled)
	s.Clients.SetAutoPersist(enabled)
	s.Invoices.SetAutoPersist(enabled)
}
