// Package book manages the account books: isolated datasets of which exactly
// one is open at a time.
package book

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"tradebook/internal/dto"
	"tradebook/internal/infra"
	"tradebook/internal/model"
	"tradebook/internal/service"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownBook = errors.New("unknown book")
	ErrNoBook      = errors.New("no book is open")
)

// Config describes where books live.
type Config struct {
	Driver string
	// Dir holds one sqlite file per book.
	Dir string
	// DSNTemplate is a postgres DSN where "{book}" stands for the book name.
	DSNTemplate string
	Books       []string
	// Events returns the notification sink bound to one book. Optional.
	Events func(book string) service.OrderEvents
}

// DSN returns the storage location of book name.
func (c Config) DSN(name string) string {
	if c.Driver == infra.DriverPostgres {
		return strings.ReplaceAll(c.DSNTemplate, "{book}", name)
	}
	return infra.SQLiteDSN(filepath.Join(c.Dir, name+".db"))
}

// Manager owns the current session. Requests run under the read lock;
// switching books takes the write lock, so a session is never closed while
// a request is using it.
type Manager struct {
	mu      sync.RWMutex
	cfg     Config
	current *Session
}

func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// Open closes the current book, if any, and opens name. Opening the book
// that is already current is a no-op.
func (m *Manager) Open(name string) error {
	if !slices.Contains(m.cfg.Books, name) {
		return fmt.Errorf("%w: %q", ErrUnknownBook, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && m.current.Name == name {
		return nil
	}

	db, err := infra.NewDatabase(m.cfg.Driver, m.cfg.DSN(name))
	if err != nil {
		return fmt.Errorf("open book %q: %w", name, err)
	}

	if m.current != nil {
		prev := m.current.Name
		if err := m.current.Close(); err != nil {
			log.Warn().Err(err).Str("book", prev).Msg("book: close failed")
		}
		log.Info().Str("book", prev).Msg("book closed")
	}

	var events service.OrderEvents
	if m.cfg.Events != nil {
		events = m.cfg.Events(name)
	}
	m.current = NewSession(name, db, events)
	log.Info().Str("book", name).Str("driver", m.cfg.Driver).Msg("book opened")
	return nil
}

// Current returns the name of the open book, or "" when none is open.
func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Name
}

// With runs fn against the current session while holding the read lock.
func (m *Manager) With(ctx context.Context, fn func(ctx context.Context, s *Session) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ErrNoBook
	}
	return fn(ctx, m.current)
}

func (m *Manager) List() []dto.BookResponse {
	current := m.Current()
	out := make([]dto.BookResponse, 0, len(m.cfg.Books))
	for _, b := range m.cfg.Books {
		out = append(out, dto.BookResponse{Name: b, Current: b == current})
	}
	return out
}

// LowStock returns the products among ids that sit at or below their
// reorder threshold in book. ok is false when book is not the open one.
func (m *Manager) LowStock(ctx context.Context, book string, ids []model.ProductID) (low []dto.ProductResponse, ok bool, err error) {
	err = m.With(ctx, func(ctx context.Context, s *Session) error {
		if s.Name != book {
			return nil
		}
		ok = true
		all, err := s.Inventory.ListLowStock(ctx)
		if err != nil {
			return err
		}
		for _, p := range all {
			if slices.Contains(ids, p.ID) {
				low = append(low, p)
			}
		}
		return nil
	})
	if errors.Is(err, ErrNoBook) {
		return nil, false, nil
	}
	return low, ok, err
}

// Close closes the current book.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	err := m.current.Close()
	m.current = nil
	return err
}
