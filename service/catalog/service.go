package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"giftshop.GO/catalog"
	"giftshop.GO/core/metrics"
	catalogEntity "giftshop.GO/model/entity/catalog"
)

// Source is the backend the snapshot is read from.
type Source interface {
	ListProducts(ctx context.Context) ([]catalogEntity.Product, error)
	ListVariations(ctx context.Context) ([]catalogEntity.ProductVariation, error)
	ListCollections(ctx context.Context) ([]catalogEntity.Collection, error)
	ListRecipients(ctx context.Context) ([]catalogEntity.Recipient, error)
	BatchGetVendorNames(ctx context.Context, ids []string) (map[string]string, error)
}

// Archiver persists snapshots outside the database.
type Archiver interface {
	Save(ctx context.Context, s catalog.Snapshot) error
	Latest(ctx context.Context) (catalog.Snapshot, error)
}

// Stats describes the loaded snapshot.
type Stats struct {
	Products    int       `json:"products"`
	Collections int       `json:"collections"`
	Recipients  int       `json:"recipients"`
	Deals       int       `json:"deals"`
	FetchedAt   time.Time `json:"fetched_at"`
	LastError   string    `json:"last_error,omitempty"`
	Refreshes   int       `json:"refreshes"`
}

// Service keeps the query engine loaded with the latest backend snapshot.
type Service struct {
	source   Source
	engine   *catalog.Engine
	vendors  VendorCache
	archive  Archiver
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
	refreshM sync.Mutex

	mu        sync.RWMutex
	lastErr   error
	refreshes int
}

// Option configures a Service.
type Option func(*Service)

func WithVendorCache(c VendorCache) Option { return func(s *Service) { s.vendors = c } }
func WithArchive(a Archiver) Option        { return func(s *Service) { s.archive = a } }
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.log = l } }
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a service around engine. Without a vendor cache an
// unbounded in-memory one is used.
func NewService(source Source, engine *catalog.Engine, opts ...Option) *Service {
	s := &Service{
		source: source,
		engine: engine,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.vendors == nil {
		s.vendors = NewMemoryVendorCache(0)
	}
	return s
}

// Engine returns the query engine.
func (s *Service) Engine() *catalog.Engine {
	return s.engine
}

// Vendors returns the vendor cache.
func (s *Service) Vendors() VendorCache {
	return s.vendors
}

// Refresh fetches a new snapshot and loads it. On failure the engine keeps
// serving the previous snapshot.
func (s *Service) Refresh(ctx context.Context) (catalog.Snapshot, error) {
	s.refreshM.Lock()
	defer s.refreshM.Unlock()

	start := s.now()
	snap, err := s.fetch(ctx)
	s.observeRefresh(start, err)
	if err != nil {
		s.setResult(err)
		s.log.Error("catalog refresh failed", zap.Error(err))
		return catalog.Snapshot{}, err
	}

	s.engine.Load(snap)
	s.setResult(nil)
	s.observeSnapshot(snap)
	s.log.Info("catalog refreshed",
		zap.Int("products", len(snap.Products)),
		zap.Int("collections", len(snap.Collections)),
		zap.Int("recipients", len(snap.Recipients)),
		zap.Duration("took", s.now().Sub(start)))

	if s.archive != nil {
		if err := s.archive.Save(ctx, snap); err != nil {
			s.log.Warn("snapshot archive failed", zap.Error(err))
		}
	}
	return snap, nil
}

// Start runs the first refresh. When it fails and an archive is configured,
// the engine is warm-started from the archived snapshot instead.
func (s *Service) Start(ctx context.Context) error {
	_, err := s.Refresh(ctx)
	if err == nil || s.archive == nil {
		return err
	}
	snap, aerr := s.archive.Latest(ctx)
	if aerr != nil {
		return errors.Join(err, fmt.Errorf("warm start: %w", aerr))
	}
	s.engine.Load(snap)
	s.observeSnapshot(snap)
	s.log.Warn("catalog warm-started from archive",
		zap.Time("fetched_at", snap.FetchedAt),
		zap.Int("products", len(snap.Products)))
	return nil
}

func (s *Service) fetch(ctx context.Context) (catalog.Snapshot, error) {
	var (
		products    []catalogEntity.Product
		variations  []catalogEntity.ProductVariation
		collections []catalogEntity.Collection
		recipients  []catalogEntity.Recipient
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { products, err = s.source.ListProducts(gctx); return })
	g.Go(func() (err error) { variations, err = s.source.ListVariations(gctx); return })
	g.Go(func() (err error) { collections, err = s.source.ListCollections(gctx); return })
	g.Go(func() (err error) { recipients, err = s.source.ListRecipients(gctx); return })
	if err := g.Wait(); err != nil {
		return catalog.Snapshot{}, fmt.Errorf("fetch catalog: %w", err)
	}

	varsByProduct := make(map[string][]catalog.RawVariation, len(products))
	for _, v := range variations {
		varsByProduct[v.ProductID] = append(varsByProduct[v.ProductID], toRawVariation(v))
	}

	snap := catalog.Snapshot{
		Products:    make([]catalog.Product, 0, len(products)),
		Collections: make([]catalog.Collection, 0, len(collections)),
		Recipients:  make([]catalog.Recipient, 0, len(recipients)),
		FetchedAt:   s.now(),
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, row := range products {
		p := catalog.Normalize(toRawProduct(row), varsByProduct[row.ID])
		snap.Products = append(snap.Products, p)
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}

	s.resolveVendors(ctx, snap.Products)
	for i := range snap.Products {
		byID[snap.Products[i].ID] = snap.Products[i]
	}

	for _, c := range collections {
		snap.Collections = append(snap.Collections, toCollection(c, byID))
	}
	for _, r := range recipients {
		snap.Recipients = append(snap.Recipients, toRecipient(r))
	}
	return snap, nil
}

// resolveVendors fills VendorName from the cache, batch-loading misses. A
// failed lookup leaves names empty.
func (s *Service) resolveVendors(ctx context.Context, products []catalog.Product) {
	names := make(map[string]string)
	var missing []string
	seen := make(map[string]bool)
	for _, p := range products {
		if p.VendorID == "" || seen[p.VendorID] {
			continue
		}
		seen[p.VendorID] = true
		if name, ok := s.vendors.Get(ctx, p.VendorID); ok {
			names[p.VendorID] = name
			s.countVendor("hit")
			continue
		}
		s.countVendor("miss")
		missing = append(missing, p.VendorID)
	}
	if len(missing) > 0 {
		loaded, err := s.source.BatchGetVendorNames(ctx, missing)
		if err != nil {
			s.log.Warn("vendor lookup failed", zap.Int("vendors", len(missing)), zap.Error(err))
		}
		for id, name := range loaded {
			names[id] = name
			s.vendors.Put(ctx, id, name)
		}
	}
	for i := range products {
		products[i].VendorName = names[products[i].VendorID]
	}
}

// InvalidateVendors drops cached vendor names; none means all.
func (s *Service) InvalidateVendors(ctx context.Context, ids ...string) {
	s.vendors.Invalidate(ctx, ids...)
}

// Stats summarizes the loaded snapshot.
func (s *Service) Stats() Stats {
	snap := s.engine.Snapshot()
	deals := 0
	for _, p := range snap.Products {
		if p.DiscountPercentage > 0 {
			deals++
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{
		Products:    len(snap.Products),
		Collections: len(snap.Collections),
		Recipients:  len(snap.Recipients),
		Deals:       deals,
		FetchedAt:   snap.FetchedAt,
		Refreshes:   s.refreshes,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *Service) setResult(err error) {
	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.refreshes++
	}
	s.mu.Unlock()
}

func (s *Service) observeRefresh(start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.Refreshes.WithLabelValues(result).Inc()
	s.metrics.RefreshDuration.Observe(s.now().Sub(start).Seconds())
}

func (s *Service) observeSnapshot(snap catalog.Snapshot) {
	if s.metrics == nil {
		return
	}
	s.metrics.SnapshotSize.WithLabelValues("products").Set(float64(len(snap.Products)))
	s.metrics.SnapshotSize.WithLabelValues("collections").Set(float64(len(snap.Collections)))
	s.metrics.SnapshotSize.WithLabelValues("recipients").Set(float64(len(snap.Recipients)))
}

func (s *Service) countVendor(result string) {
	if s.metrics != nil {
		s.metrics.VendorCache.WithLabelValues(result).Inc()
	}
}
