package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int       { return &v }
func moneyPtr(v Money) *Money { return &v }

func sampleCatalog() []Product {
	return []Product{
		{ID: "prod123", Name: "Silk Sleep Mask", Price: 2500, OriginalPrice: 2500, Category: "wellness"},
		{ID: "prod124", Name: "Copper Watering Can", Price: 3000, OriginalPrice: 4000, DiscountPercentage: 25, Category: "garden"},
		{ID: "prod125", Name: "", Price: 100, Category: "garden"},
		{ID: "prod126", Name: "Herb Garden Starter Kit", Price: 1800, OriginalPrice: 3600, DiscountPercentage: 50, Category: "garden", Categories: []string{"garden", "kitchen"}},
		{ID: "prod124", Name: "Copper Watering Can (dup)", Price: 3000, Category: "garden"},
		{ID: "prod127", Name: "Leather Bound Journal", Price: 0, Category: "stationery"},
	}
}

func TestApply_DropsNamelessAndDuplicates(t *testing.T) {
	got := Apply(sampleCatalog(), FilterState{}, Gates{})
	assert.Equal(t, []string{"prod123", "prod124", "prod126", "prod127"}, ids(got))
	assert.Equal(t, "Copper Watering Can", got[1].Name, "first occurrence wins")
}

func TestApply_CollectionGateMatchesBaseID(t *testing.T) {
	bundle := []Product{{ID: "bundleA-2-prod123", Name: "Bundled Mask"}}
	f := FilterState{CollectionID: "bundleA"}
	got := Apply(sampleCatalog(), f, Gates{Collection: NewIdentifierSet(bundle)})
	assert.Equal(t, []string{"prod123"}, ids(got))
}

func TestApply_CollectionGateMatchesLowercaseName(t *testing.T) {
	bundle := []Product{{ID: "x-1", Name: "  herb garden STARTER kit "}}
	got := Apply(sampleCatalog(), FilterState{CollectionID: "c"}, Gates{Collection: NewIdentifierSet(bundle)})
	assert.Equal(t, []string{"prod126"}, ids(got))
}

func TestApply_MissingGateAdmitsNothing(t *testing.T) {
	assert.Empty(t, Apply(sampleCatalog(), FilterState{RecipientID: "r"}, Gates{}))
	assert.Len(t, Apply(sampleCatalog(), FilterState{}, Gates{Recipient: NewIdentifierSet(nil)}), 4,
		"gates are ignored when no id is selected")
}

func TestApply_QueryCategoryPriceDiscount(t *testing.T) {
	catalog := sampleCatalog()

	assert.Equal(t, []string{"prod124"}, ids(Apply(catalog, FilterState{Query: "  COPPER "}, Gates{})))
	assert.Equal(t, []string{"prod126"}, ids(Apply(catalog, FilterState{Categories: []string{"kitchen"}}, Gates{})))
	assert.Equal(t, []string{"prod124", "prod126"}, ids(Apply(catalog, FilterState{Categories: []string{"garden"}}, Gates{})))

	f := FilterState{MinPrice: moneyPtr(1800), MaxPrice: moneyPtr(2500)}
	assert.Equal(t, []string{"prod123", "prod126"}, ids(Apply(catalog, f, Gates{})))

	f = FilterState{MaxPrice: moneyPtr(0)}
	assert.Equal(t, []string{"prod127"}, ids(Apply(catalog, f, Gates{})))

	f = FilterState{MinDiscount: intPtr(1), MaxDiscount: intPtr(30)}
	assert.Equal(t, []string{"prod124"}, ids(Apply(catalog, f, Gates{})))
}

func TestApply_SortsSurvivors(t *testing.T) {
	got := Apply(sampleCatalog(), FilterState{Sort: SortDiscountDesc}, Gates{})
	assert.Equal(t, []string{"prod126", "prod124", "prod123", "prod127"}, ids(got))

	got = Apply(sampleCatalog(), FilterState{Sort: SortPriceAsc}, Gates{})
	assert.Equal(t, []string{"prod127", "prod126", "prod123", "prod124"}, ids(got))
}

func TestApply_Idempotent(t *testing.T) {
	filters := []FilterState{
		{},
		{Query: "a", Sort: SortNameDesc},
		{Categories: []string{"garden"}, Sort: SortPriceDesc},
		{MinDiscount: intPtr(0), Sort: SortDiscountAsc},
	}
	for _, f := range filters {
		once := Apply(sampleCatalog(), f, Gates{})
		assert.Equal(t, once, Apply(once, f, Gates{}))
	}
}

func TestApply_NeverEmitsDuplicateIDs(t *testing.T) {
	var products []Product
	for i := 0; i < 3; i++ {
		products = append(products, sampleCatalog()...)
	}
	seen := map[string]bool{}
	for _, p := range Apply(products, FilterState{Sort: SortNameAsc}, Gates{}) {
		assert.False(t, seen[p.ID], "duplicate %s", p.ID)
		seen[p.ID] = true
	}
}

func TestBaseID(t *testing.T) {
	assert.Equal(t, "prod123", BaseID("bundleA-2-prod123"))
	assert.Equal(t, "a-b", BaseID("c-0-a-b"))
	assert.Equal(t, "", BaseID("prod-123"))
	assert.Equal(t, "", BaseID("prod123"))
}

func TestIdentifierSet_Nil(t *testing.T) {
	var s *IdentifierSet
	assert.False(t, s.Allows(Product{ID: "x", Name: "x"}))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 2, NewIdentifierSet([]Product{{ID: "b-1-p"}}).Len())
}
