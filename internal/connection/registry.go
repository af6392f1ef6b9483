package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
)

// Registry owns named connections.
type Registry struct {
	mu     sync.Mutex
	conns  map[string]*Connection
	logger *slog.Logger
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		conns:  make(map[string]*Connection),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add opens a connection for p and registers it under p.Name, or under a
// generated name when p.Name is empty.
func (r *Registry) Add(ctx context.Context, p Parameters) (*Connection, error) {
	name := p.Name
	if name == "" {
		name = r.GenerateConnectionName(string(p.Driver))
	}
	if r.Contains(name) {
		return nil, fmt.Errorf("connection %q already exists", name)
	}

	db, err := open(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("connection %q: %w", name, err)
	}

	c := &Connection{name: name, typ: p.Driver, db: db}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[name]; ok {
		_ = db.Close()
		return nil, fmt.Errorf("connection %q already exists", name)
	}
	r.conns[name] = c
	r.logger.DebugContext(ctx, "connection opened", slog.String("name", name), slog.String("dialect", string(p.Driver)))
	return c, nil
}

// Register adds an already opened connection.
func (r *Registry) Register(c *Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[c.Name()]; ok {
		return fmt.Errorf("connection %q already exists", c.Name())
	}
	r.conns[c.Name()] = c
	return nil
}

func (r *Registry) Get(name string) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[name]
	return c, ok
}

func (r *Registry) Contains(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.conns))
	for name := range r.conns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Remove closes and unregisters the connection named name.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	c, ok := r.conns[name]
	delete(r.conns, name)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("connection %q not found", name)
	}
	r.logger.Debug("connection closed", slog.String("name", name))
	return c.Close()
}

// Close removes every connection.
func (r *Registry) Close() error {
	var errs []error
	for _, name := range r.Names() {
		if err := r.Remove(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GenerateConnectionName returns base if it is free, else base followed by the
// first free numeric suffix. The name is not reserved: two goroutines may get the
// same one, and Add then fails for the second.
func (r *Registry) GenerateConnectionName(base string) string {
	if base == "" {
		base = "connection"
	}
	if !r.Contains(base) {
		return base
	}
	for i := 1; ; i++ {
		name := base + strconv.Itoa(i)
		if !r.Contains(name) {
			return name
		}
	}
}
