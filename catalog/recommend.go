package catalog

import "strings"

// KeywordRule maps a lowercase substring of a recipient profile to the names
// of products worth suggesting for it.
type KeywordRule struct {
	Keyword  string   `json:"keyword"`
	Products []string `json:"products"`
}

// KeywordTable is scanned in order; earlier rules rank first.
type KeywordTable []KeywordRule

// DefaultKeywordTable returns the storefront's built-in gift table.
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		{Keyword: "spa", Products: []string{"Luxury Spa Gift Set", "Aromatherapy Candle Trio", "Silk Sleep Mask"}},
		{Keyword: "cozy", Products: []string{"Chunky Knit Throw Blanket", "Sherpa Lounge Socks", "Hot Cocoa Sampler"}},
		{Keyword: "tech", Products: []string{"Wireless Charging Stand", "Noise Cancelling Earbuds", "Smart Mug Warmer"}},
		{Keyword: "book", Products: []string{"Leather Bound Journal", "Book Lover's Tote", "Brass Reading Light"}},
		{Keyword: "coffee", Products: []string{"Pour Over Coffee Kit", "Single Origin Bean Trio", "Smart Mug Warmer"}},
		{Keyword: "cook", Products: []string{"Chef's Knife Roll", "Artisan Spice Collection", "Olive Wood Cutting Board"}},
		{Keyword: "garden", Products: []string{"Herb Garden Starter Kit", "Copper Watering Can", "Pressed Flower Frame"}},
		{Keyword: "travel", Products: []string{"Leather Passport Wallet", "Packing Cube Set", "Scratch Off World Map"}},
		{Keyword: "fitness", Products: []string{"Insulated Sports Bottle", "Resistance Band Set", "Massage Gun Mini"}},
		{Keyword: "yoga", Products: []string{"Cork Yoga Mat", "Meditation Cushion", "Aromatherapy Candle Trio"}},
		{Keyword: "music", Products: []string{"Vinyl Record Cleaning Kit", "Noise Cancelling Earbuds", "Mini Bluetooth Speaker"}},
		{Keyword: "art", Products: []string{"Watercolor Travel Set", "Sketchbook Bundle", "Pressed Flower Frame"}},
		{Keyword: "wine", Products: []string{"Wine Aerator Set", "Marble Wine Chiller", "Cheese Board Set"}},
		{Keyword: "golf", Products: []string{"Personalized Golf Balls", "Golf Towel Set"}},
		{Keyword: "pet", Products: []string{"Custom Pet Portrait", "Paw Print Keepsake"}},
		{Keyword: "baby", Products: []string{"Baby Memory Book", "Organic Swaddle Set"}},
		{Keyword: "wedding", Products: []string{"Engraved Champagne Flutes", "Custom Couple Portrait"}},
		{Keyword: "graduat", Products: []string{"Leather Bound Journal", "Engraved Pen Set"}},
		{Keyword: "new home", Products: []string{"Olive Wood Cutting Board", "Houseplant Trio", "Custom Address Sign"}},
	}
}

// ProfileText joins every preference field of r into one lowercase string.
func ProfileText(r Recipient) string {
	fields := []string{
		r.Hobbies,
		r.Sports,
		r.FavoriteColors,
		r.StylePreferences,
		r.GiftTypePreference,
		r.PersonalityLifestyle,
		r.RecentLifeEvents,
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// Scorer selects recommendations for a recipient with keyword matching.
type Scorer struct {
	table KeywordTable
}

// NewScorer returns a scorer over table, or the default table when nil.
func NewScorer(table KeywordTable) *Scorer {
	if table == nil {
		table = DefaultKeywordTable()
	}
	return &Scorer{table: table}
}

// Table returns the keyword table in scan order.
func (s *Scorer) Table() KeywordTable {
	return s.table
}

// Recommend returns at most limit products from candidates. Keyword hits come
// first, then the remaining candidates in their given order.
func (s *Scorer) Recommend(r Recipient, candidates []Product, limit int) []Product {
	if limit <= 0 || len(candidates) == 0 {
		return []Product{}
	}

	byName := make(map[string]int, len(candidates))
	for i, c := range candidates {
		if _, ok := byName[c.Name]; !ok {
			byName[c.Name] = i
		}
	}

	text := ProfileText(r)
	result := make([]Product, 0, limit)
	picked := make(map[string]bool)
	for _, rule := range s.table {
		if rule.Keyword == "" || !strings.Contains(text, rule.Keyword) {
			continue
		}
		for _, name := range rule.Products {
			i, ok := byName[name]
			if !ok || picked[candidates[i].ID] {
				continue
			}
			picked[candidates[i].ID] = true
			result = append(result, candidates[i])
		}
	}

	for _, c := range candidates {
		if len(result) >= limit {
			break
		}
		if picked[c.ID] {
			continue
		}
		picked[c.ID] = true
		result = append(result, c)
	}

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
