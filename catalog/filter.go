package catalog

import "strings"

// FilterState is the ephemeral filter selection of one screen.
type FilterState struct {
	Query        string   `json:"query,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	MinPrice     *Money   `json:"min_price,omitempty"`
	MaxPrice     *Money   `json:"max_price,omitempty"`
	MinDiscount  *int     `json:"min_discount,omitempty"`
	MaxDiscount  *int     `json:"max_discount,omitempty"`
	CollectionID string   `json:"collection_id,omitempty"`
	RecipientID  string   `json:"recipient_id,omitempty"`
	Sort         SortKey  `json:"sort,omitempty"`
}

// IdentifierSet is an allow-list of products by id or lowercase name.
type IdentifierSet struct {
	ids   map[string]struct{}
	names map[string]struct{}
}

// NewIdentifierSet indexes products. Ids shaped like prefix-index-baseId also
// register baseId, so a product copied into a bundle still matches its
// catalog entry.
func NewIdentifierSet(products []Product) *IdentifierSet {
	s := &IdentifierSet{
		ids:   make(map[string]struct{}, len(products)*2),
		names: make(map[string]struct{}, len(products)),
	}
	for _, p := range products {
		if p.ID != "" {
			s.ids[p.ID] = struct{}{}
			if base := BaseID(p.ID); base != "" {
				s.ids[base] = struct{}{}
			}
		}
		if name := strings.ToLower(strings.TrimSpace(p.Name)); name != "" {
			s.names[name] = struct{}{}
		}
	}
	return s
}

// BaseID returns the catalog id embedded in a bundle-scoped id, or "" when id
// has fewer than three dash-separated parts.
func BaseID(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) <= 2 {
		return ""
	}
	return strings.Join(parts[2:], "-")
}

// Allows reports whether p is a member by id or lowercase name. A nil set
// admits nothing.
func (s *IdentifierSet) Allows(p Product) bool {
	if s == nil {
		return false
	}
	if _, ok := s.ids[p.ID]; ok {
		return true
	}
	_, ok := s.names[strings.ToLower(strings.TrimSpace(p.Name))]
	return ok
}

// Len is the number of distinct ids in the set.
func (s *IdentifierSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Gates carries the membership sets resolved for the active collection and
// recipient. A gate is applied only when its id is set in the FilterState.
type Gates struct {
	Collection *IdentifierSet
	Recipient  *IdentifierSet
}

// Apply filters products with f and sorts the survivors by f.Sort. It never
// fails; records that cannot be matched are dropped.
func Apply(products []Product, f FilterState, g Gates) []Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	var categories map[string]struct{}
	if len(f.Categories) > 0 {
		categories = make(map[string]struct{}, len(f.Categories))
		for _, c := range f.Categories {
			categories[c] = struct{}{}
		}
	}

	out := make([]Product, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		if f.CollectionID != "" && !g.Collection.Allows(p) {
			continue
		}
		if f.RecipientID != "" && !g.Recipient.Allows(p) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if categories != nil && !inCategories(p, categories) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.MinDiscount != nil && p.DiscountPercentage < *f.MinDiscount {
			continue
		}
		if f.MaxDiscount != nil && p.DiscountPercentage > *f.MaxDiscount {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	Sort(out, f.Sort)
	return out
}

func inCategories(p Product, set map[string]struct{}) bool {
	if _, ok := set[p.Category]; ok && p.Category != "" {
		return true
	}
	for _, c := range p.Categories {
		if _, ok := set[c]; ok {
			return true
		}
	}
	return false
}
