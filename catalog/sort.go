package catalog

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
)

// SortKey selects the ordering of a result list.
type SortKey string

const (
	SortNone         SortKey = ""
	SortDiscountDesc SortKey = "discount_desc"
	SortDiscountAsc  SortKey = "discount_asc"
	SortPriceAsc     SortKey = "price_asc"
	SortPriceDesc    SortKey = "price_desc"
	SortNameAsc      SortKey = "name_asc"
	SortNameDesc     SortKey = "name_desc"
)

// ValidSortKeys lists the orderings the feeds accept.
func ValidSortKeys() []SortKey {
	return []SortKey{SortDiscountDesc, SortDiscountAsc, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc}
}

// IsValidSort reports whether key is a known ordering. The empty key is valid
// and keeps source order.
func IsValidSort(key SortKey) bool {
	if key == SortNone {
		return true
	}
	for _, k := range ValidSortKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// Sort orders products in place. Equal elements keep their relative order;
// unknown keys leave the slice untouched.
func Sort(products []Product, key SortKey) {
	less := comparator(key)
	if less == nil {
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

func comparator(key SortKey) func(a, b Product) bool {
	switch key {
	case SortDiscountDesc:
		return func(a, b Product) bool { return a.DiscountPercentage > b.DiscountPercentage }
	case SortDiscountAsc:
		return func(a, b Product) bool { return a.DiscountPercentage < b.DiscountPercentage }
	case SortPriceAsc:
		return func(a, b Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		return func(a, b Product) bool { return a.Price > b.Price }
	case SortNameAsc:
		return func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortNameDesc:
		return func(a, b Product) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	}
	return nil
}

// Shuffler randomizes display order from an injected source, so a fixed seed
// always yields the same order.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewShuffler returns a shuffler seeded with seed.
func NewShuffler(seed int64) *Shuffler {
	return &Shuffler{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a shuffled copy of products (Fisher-Yates).
func (s *Shuffler) Shuffle(products []Product) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(out) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
