// Package brewhouse runs ledger operations against stored containers. Every
// container is loaded once and shared, so concurrent callers contend on the
// same container lock, and each mutation is saved before it returns.
package brewhouse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fattybrewing"
	"fattybrewing/archive"
	"fattybrewing/internal/logger"
	"fattybrewing/internal/metrics"
)

type Service struct {
	store   fattybrewing.Store
	metrics *metrics.Metrics
	hooks   []fattybrewing.HookFunc
	now     func() time.Time

	mu   sync.Mutex
	live map[string]*fattybrewing.Container
}

type Option func(*Service)

// WithMetrics counts events of every live container and failed operations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
		s.hooks = append(s.hooks, m.Hook())
	}
}

func WithHook(h fattybrewing.HookFunc) Option {
	return func(s *Service) { s.hooks = append(s.hooks, h) }
}

func New(store fattybrewing.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		live:  make(map[string]*fattybrewing.Container),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, kind fattybrewing.Kind, name string, size fattybrewing.Quantity) (fattybrewing.State, error) {
	c, err := fattybrewing.New(kind, name, size)
	if err != nil {
		return fattybrewing.State{}, s.fail("create", err)
	}
	id, err := s.store.Save(ctx, c)
	if err != nil {
		return fattybrewing.State{}, s.fail("create", err)
	}
	s.track(id, c)
	logger.L().Info("brewhouse.created", "container", id, "type", string(kind), "size", size.String())
	return c.Snapshot(), nil
}

func (s *Service) Get(ctx context.Context, id string) (fattybrewing.State, error) {
	c, err := s.container(ctx, id)
	if err != nil {
		return fattybrewing.State{}, err
	}
	return c.Snapshot(), nil
}

func (s *Service) List(ctx context.Context) ([]fattybrewing.State, error) {
	return s.store.List(ctx)
}

func (s *Service) Find(ctx context.Context, pattern string) ([]fattybrewing.State, error) {
	return s.store.Find(ctx, pattern)
}

// ParseAmount parses amount for container id. An ambiguous unit such as
// "oz" takes the category of the container's size; a non-empty category
// overrides that.
func (s *Service) ParseAmount(ctx context.Context, id, amount, category string) (fattybrewing.Quantity, error) {
	var hint fattybrewing.Category
	if category != "" {
		c, err := fattybrewing.ParseCategory(category)
		if err != nil {
			return fattybrewing.Quantity{}, err
		}
		hint = c
	} else {
		c, err := s.container(ctx, id)
		if err != nil {
			return fattybrewing.Quantity{}, err
		}
		hint = c.Size().Unit.Category
	}
	return fattybrewing.ParseQuantity(amount, hint)
}

// Add records e in container id. On overflow the accepted part is saved and
// the *fattybrewing.CapacityExceededError is still returned.
func (s *Service) Add(ctx context.Context, id string, e fattybrewing.Entry) (fattybrewing.State, error) {
	c, err := s.container(ctx, id)
	if err != nil {
		return fattybrewing.State{}, err
	}
	err = c.AddEntry(e)
	return c.Snapshot(), s.persist(ctx, "add", err, c)
}

func (s *Service) Remove(ctx context.Context, id, substance string, q fattybrewing.Quantity) ([]fattybrewing.Removed, error) {
	c, err := s.container(ctx, id)
	if err != nil {
		return nil, err
	}
	removed, err := c.RemoveContent(substance, q)
	return removed, s.persist(ctx, "remove", err, c)
}

func (s *Service) Heat(ctx context.Context, id string, t fattybrewing.Temperature) error {
	c, err := s.container(ctx, id)
	if err != nil {
		return err
	}
	return s.persist(ctx, "heat", c.HeatContents(t), c)
}

func (s *Service) FillTo(ctx context.Context, id, substance string, level fattybrewing.Quantity) (fattybrewing.State, error) {
	c, err := s.container(ctx, id)
	if err != nil {
		return fattybrewing.State{}, err
	}
	err = c.FillTo(substance, level)
	return c.Snapshot(), s.persist(ctx, "fill", err, c)
}

func (s *Service) ConvertToWort(ctx context.Context, id string) ([]fattybrewing.Entry, error) {
	c, err := s.container(ctx, id)
	if err != nil {
		return nil, err
	}
	tun, err := fattybrewing.AsMashTun(c)
	if err != nil {
		return nil, s.fail("wort", err)
	}
	replaced, err := tun.ConvertToWort()
	return replaced, s.persist(ctx, "wort", err, c)
}

func (s *Service) Ferment(ctx context.Context, id string, d time.Duration) ([]fattybrewing.Removed, error) {
	c, err := s.container(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := fattybrewing.AsFermenter(c)
	if err != nil {
		return nil, s.fail("ferment", err)
	}
	removed, err := f.FermentWort(d)
	return removed, s.persist(ctx, "ferment", err, c)
}

// Keg packages the fermenter's beer into the kegs in the order given. Beer
// already moved is saved even when the kegs run out.
func (s *Service) Keg(ctx context.Context, fermenterID string, kegIDs []string) error {
	c, err := s.container(ctx, fermenterID)
	if err != nil {
		return err
	}
	f, err := fattybrewing.AsFermenter(c)
	if err != nil {
		return s.fail("keg", err)
	}
	touched := []*fattybrewing.Container{c}
	kegs := make([]*fattybrewing.Keg, 0, len(kegIDs))
	for _, id := range kegIDs {
		kc, err := s.container(ctx, id)
		if err != nil {
			return err
		}
		k, err := fattybrewing.AsKeg(kc)
		if err != nil {
			return s.fail("keg", err)
		}
		kegs = append(kegs, k)
		touched = append(touched, kc)
	}
	return s.persist(ctx, "keg", f.IntoKegs(kegs...), touched...)
}

// Transfer moves everything but rubbish from src to dst and returns the
// rubbish.
func (s *Service) Transfer(ctx context.Context, srcID, dstID string) ([]fattybrewing.Removed, error) {
	src, err := s.container(ctx, srcID)
	if err != nil {
		return nil, err
	}
	dst, err := s.container(ctx, dstID)
	if err != nil {
		return nil, err
	}
	rubbish, err := fattybrewing.MoveAll(src, dst)
	return rubbish, s.persist(ctx, "transfer", err, src, dst)
}

// Archive appends the container's snapshot to w and deletes it from the
// store.
func (s *Service) Archive(ctx context.Context, id string, w *archive.Writer) error {
	c, err := s.container(ctx, id)
	if err != nil {
		return err
	}
	if err := w.Append(c.Snapshot(), s.now()); err != nil {
		return s.fail("archive", fmt.Errorf("archive %s: %w", id, err))
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail("archive", err)
	}
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
	logger.L().Info("brewhouse.archived", "container", id)
	return nil
}

// Restore brings an archived container back under its original id.
func (s *Service) Restore(ctx context.Context, rec archive.Record) (fattybrewing.State, error) {
	c, err := fattybrewing.Restore(rec.State)
	if err != nil {
		return fattybrewing.State{}, s.fail("restore", err)
	}
	id, err := s.store.Save(ctx, c)
	if err != nil {
		return fattybrewing.State{}, s.fail("restore", err)
	}
	s.track(id, c)
	logger.L().Info("brewhouse.restored", "container", id, "archived_at", rec.ArchivedAt)
	return c.Snapshot(), nil
}

func (s *Service) container(ctx context.Context, id string) (*fattybrewing.Container, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.live[id]; ok {
		return c, nil
	}
	c, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attach(c)
	s.live[id] = c
	return c, nil
}

func (s *Service) track(id string, c *fattybrewing.Container) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attach(c)
	s.live[id] = c
}

func (s *Service) attach(c *fattybrewing.Container) {
	for _, h := range s.hooks {
		c.OnEvent(h)
	}
}

// persist saves cs whatever opErr is: a failed operation may still have
// committed part of its work.
func (s *Service) persist(ctx context.Context, op string, opErr error, cs ...*fattybrewing.Container) error {
	var errs []error
	if opErr != nil {
		errs = append(errs, opErr)
	}
	for _, c := range cs {
		if _, err := s.store.Save(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", c.ID(), err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return s.fail(op, errs[0])
	}
	return s.fail(op, errors.Join(errs...))
}

func (s *Service) fail(op string, err error) error {
	if s.metrics != nil {
		s.metrics.OpFailed(op)
	}
	logger.L().Warn("brewhouse.failed", "op", op, "err", err)
	return err
}
