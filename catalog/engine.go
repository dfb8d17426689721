package catalog

import (
	"errors"
	"sync"
)

var (
	ErrRecipientNotFound  = errors.New("catalog: recipient not found")
	ErrCollectionNotFound = errors.New("catalog: collection not found")
)

// DefaultRecommendationLimit bounds the recipient gate's recommendation set.
const DefaultRecommendationLimit = 12

// Option configures an Engine.
type Option func(*Engine)

// WithKeywordTable replaces the recommendation keyword table.
func WithKeywordTable(t KeywordTable) Option {
	return func(e *Engine) { e.scorer = NewScorer(t) }
}

// WithRecommendationLimit sets how many recommendations back the recipient
// filter.
func WithRecommendationLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.recLimit = n
		}
	}
}

// Engine answers feed queries over the latest loaded snapshot. Queries are
// synchronous and safe for concurrent use; Load swaps the snapshot atomically.
type Engine struct {
	mu          sync.RWMutex
	snap        Snapshot
	products    map[string]int
	collections map[string]int
	recipients  map[string]int

	scorer   *Scorer
	recLimit int

	// membership sets are built on first selection and kept until Load
	gateMu         sync.Mutex
	collectionSets map[string]*IdentifierSet
	recipientSets  map[string]*IdentifierSet
}

// NewEngine returns an engine with an empty snapshot.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{recLimit: DefaultRecommendationLimit}
	for _, opt := range opts {
		opt(e)
	}
	if e.scorer == nil {
		e.scorer = NewScorer(nil)
	}
	e.Load(Snapshot{})
	return e
}

// Load replaces the snapshot and drops every cached membership set.
func (e *Engine) Load(s Snapshot) {
	products := make(map[string]int, len(s.Products))
	for i, p := range s.Products {
		if _, ok := products[p.ID]; !ok {
			products[p.ID] = i
		}
	}
	collections := make(map[string]int, len(s.Collections))
	for i, c := range s.Collections {
		collections[c.ID] = i
	}
	recipients := make(map[string]int, len(s.Recipients))
	for i, r := range s.Recipients {
		recipients[r.ID] = i
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.snap = s
	e.products = products
	e.collections = collections
	e.recipients = recipients
	e.gateMu.Lock()
	e.collectionSets = make(map[string]*IdentifierSet)
	e.recipientSets = make(map[string]*IdentifierSet)
	e.gateMu.Unlock()
}

// Snapshot returns the loaded snapshot.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Scorer returns the recommendation scorer.
func (e *Engine) Scorer() *Scorer {
	return e.scorer
}

// Product looks a product up by id.
func (e *Engine) Product(id string) (Product, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	i, ok := e.products[id]
	if !ok {
		return Product{}, false
	}
	return e.snap.Products[i], true
}

// Collections returns every bundle in backend order.
func (e *Engine) Collections() []Collection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.Collections
}

// Collection looks a bundle up by id.
func (e *Engine) Collection(id string) (Collection, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	i, ok := e.collections[id]
	if !ok {
		return Collection{}, false
	}
	return e.snap.Collections[i], true
}

// Recipients returns every saved recipient.
func (e *Engine) Recipients() []Recipient {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.Recipients
}

// Recipient looks a recipient up by id.
func (e *Engine) Recipient(id string) (Recipient, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	i, ok := e.recipients[id]
	if !ok {
		return Recipient{}, false
	}
	return e.snap.Recipients[i], true
}

// Query filters and sorts the catalog feed.
func (e *Engine) Query(f FilterState) []Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Apply(e.snap.Products, f, e.gates(f))
}

// Deals returns discounted products. Without a sort key the order comes from
// shuffler; a nil shuffler keeps catalog order.
func (e *Engine) Deals(f FilterState, shuffler *Shuffler) []Product {
	if f.MinDiscount == nil || *f.MinDiscount < 1 {
		one := 1
		f.MinDiscount = &one
	}
	result := e.Query(f)
	if f.Sort == SortNone && shuffler != nil {
		result = shuffler.Shuffle(result)
	}
	return result
}

// CollectionProducts searches inside one bundle, as the bundle page does.
func (e *Engine) CollectionProducts(id string, f FilterState) ([]Product, error) {
	c, ok := e.Collection(id)
	if !ok {
		return nil, ErrCollectionNotFound
	}
	f.CollectionID = ""
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Apply(c.Products, f, e.gates(f)), nil
}

// Recommend returns up to limit products for the recipient; limit <= 0 uses
// the engine's configured recommendation limit.
func (e *Engine) Recommend(recipientID string, limit int) ([]Product, error) {
	r, ok := e.Recipient(recipientID)
	if !ok {
		return nil, ErrRecipientNotFound
	}
	if limit <= 0 {
		limit = e.recLimit
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scorer.Recommend(r, e.snap.Products, limit), nil
}

// gates resolves the membership sets f asks for; callers hold mu for reading.
func (e *Engine) gates(f FilterState) Gates {
	var g Gates
	if f.CollectionID == "" && f.RecipientID == "" {
		return g
	}
	e.gateMu.Lock()
	defer e.gateMu.Unlock()

	if id := f.CollectionID; id != "" {
		set, ok := e.collectionSets[id]
		if !ok {
			if i, found := e.collections[id]; found {
				set = NewIdentifierSet(e.snap.Collections[i].Products)
			} else {
				set = NewIdentifierSet(nil)
			}
			e.collectionSets[id] = set
		}
		g.Collection = set
	}
	if id := f.RecipientID; id != "" {
		set, ok := e.recipientSets[id]
		if !ok {
			if i, found := e.recipients[id]; found {
				recs := e.scorer.Recommend(e.snap.Recipients[i], e.snap.Products, e.recLimit)
				set = NewIdentifierSet(recs)
			} else {
				set = NewIdentifierSet(nil)
			}
			e.recipientSets[id] = set
		}
		g.Recipient = set
	}
	return g
}
