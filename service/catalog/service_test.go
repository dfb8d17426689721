package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"giftshop.GO/catalog"
	"giftshop.GO/core/metrics"
	catalogEntity "giftshop.GO/model/entity/catalog"
	catalogRepo "giftshop.GO/model/repository/catalog"
)

type fakeSource struct {
	mu          sync.Mutex
	products    []catalogEntity.Product
	variations  []catalogEntity.ProductVariation
	collections []catalogEntity.Collection
	recipients  []catalogEntity.Recipient
	vendors     map[string]string
	err         error
	vendorCalls int
}

func (f *fakeSource) ListProducts(context.Context) ([]catalogEntity.Product, error) {
	return f.products, f.err
}
func (f *fakeSource) ListVariations(context.Context) ([]catalogEntity.ProductVariation, error) {
	return f.variations, nil
}
func (f *fakeSource) ListCollections(context.Context) ([]catalogEntity.Collection, error) {
	return f.collections, nil
}
func (f *fakeSource) ListRecipients(context.Context) ([]catalogEntity.Recipient, error) {
	return f.recipients, nil
}
func (f *fakeSource) BatchGetVendorNames(_ context.Context, ids []string) (map[string]string, error) {
	f.mu.Lock()
	f.vendorCalls++
	f.mu.Unlock()
	out := map[string]string{}
	for _, id := range ids {
		if n, ok := f.vendors[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type fakeArchive struct {
	saved  []catalog.Snapshot
	latest catalog.Snapshot
	err    error
}

func (a *fakeArchive) Save(_ context.Context, s catalog.Snapshot) error {
	a.saved = append(a.saved, s)
	return nil
}
func (a *fakeArchive) Latest(context.Context) (catalog.Snapshot, error) { return a.latest, a.err }

func f64(v float64) *float64 { return &v }

func newFakeSource() *fakeSource {
	return &fakeSource{
		products: []catalogEntity.Product{
			{ID: "prod1", Name: "Mug", Price: 20, VendorID: "v1", Tags: datatypes.JSON(`["kitchen"]`), CategoryIDs: datatypes.JSON(`not json`)},
			{ID: "prod2", Name: "Luxury Spa Gift Set", Price: 60, DiscountPercentage: 25, VendorID: "v2", CategoryID: "wellness"},
			{ID: "prod3", Name: "Scarf", Price: 10},
		},
		variations: []catalogEntity.ProductVariation{
			{ProductID: "prod1", PriceModifier: f64(-5), IsActive: true},
			{ProductID: "prod1", PriceModifier: f64(10), Attributes: `{"discount_percentage":50}`, IsActive: true},
			{ProductID: "prod3", Attributes: `{"format":"combination","combinations":[{"priceModifier":20,"discountPercentage":50}]}`, IsActive: true},
		},
		collections: []catalogEntity.Collection{{
			ID: "bundleA", Title: "Relax",
			Items: []catalogEntity.CollectionItem{{ProductID: "prod2"}, {ProductID: "ghost"}, {ProductID: "prod1"}},
		}},
		recipients: []catalogEntity.Recipient{{ID: "r1", FirstName: "Ana", Hobbies: "spa"}},
		vendors:    map[string]string{"v1": "Acme"},
	}
}

func TestService_Refresh_BuildsSnapshot(t *testing.T) {
	src := newFakeSource()
	m := metrics.New(false)
	svc := NewService(src, catalog.NewEngine(), WithMetrics(m))

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Products, 3)

	mug := snap.Products[0]
	assert.Equal(t, catalog.Money(1500), mug.Price)
	assert.Equal(t, catalog.Money(1500), mug.OriginalPrice)
	assert.Equal(t, []string{"kitchen"}, mug.Tags)
	assert.Empty(t, mug.Categories)
	assert.Equal(t, "Acme", mug.VendorName)

	spa := snap.Products[1]
	assert.Equal(t, catalog.Money(4500), spa.Price)
	assert.Equal(t, "", spa.VendorName, "unknown vendor stays blank")

	scarf := snap.Products[2]
	assert.Equal(t, catalog.Money(1500), scarf.Price)
	assert.Equal(t, catalog.Money(3000), scarf.OriginalPrice)

	require.Len(t, snap.Collections, 1)
	assert.Equal(t, []string{"bundleA-0-prod2", "bundleA-2-prod1"}, productIDs(snap.Collections[0].Products))
	assert.Equal(t, "Acme", snap.Collections[0].Products[1].VendorName)

	got := svc.Engine().Query(catalog.FilterState{CollectionID: "bundleA"})
	assert.ElementsMatch(t, []string{"prod1", "prod2"}, productIDs(got))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SnapshotSize.WithLabelValues("products")))
}

func TestService_Refresh_UsesVendorCache(t *testing.T) {
	src := newFakeSource()
	svc := NewService(src, catalog.NewEngine())
	ctx := context.Background()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.vendorCalls, "v2 is unknown, so it is looked up again")

	src.vendors["v2"] = "Globex"
	_, err = svc.Refresh(ctx)
	require.NoError(t, err)
	src.vendors["v1"] = "Renamed"
	snap, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, src.vendorCalls, "every vendor cached")
	assert.Equal(t, "Acme", snap.Products[0].VendorName)

	svc.InvalidateVendors(ctx, "v1")
	snap, err = svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", snap.Products[0].VendorName)
}

func TestService_Refresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	src := newFakeSource()
	svc := NewService(src, catalog.NewEngine())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	src.err = errors.New("db down")
	_, err = svc.Refresh(context.Background())
	require.Error(t, err)

	assert.Len(t, svc.Engine().Query(catalog.FilterState{}), 3)
	st := svc.Stats()
	assert.Contains(t, st.LastError, "db down")
	assert.Equal(t, 1, st.Refreshes)
	assert.Equal(t, 2, st.Deals)
}

func TestService_ArchiveAndWarmStart(t *testing.T) {
	src := newFakeSource()
	arch := &fakeArchive{}
	svc := NewService(src, catalog.NewEngine(), WithArchive(arch))
	require.NoError(t, svc.Start(context.Background()))
	require.Len(t, arch.saved, 1)

	src.err = errors.New("db down")
	arch.latest = catalog.Snapshot{Products: []catalog.Product{{ID: "old", Name: "Archived"}}}
	cold := NewService(src, catalog.NewEngine(), WithArchive(arch))
	require.NoError(t, cold.Start(context.Background()))
	assert.Equal(t, []string{"old"}, productIDs(cold.Engine().Query(catalog.FilterState{})))

	arch.err = errors.New("bucket missing")
	broken := NewService(src, catalog.NewEngine(), WithArchive(arch))
	err := broken.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.Contains(t, err.Error(), "bucket missing")
}

func TestService_WithRepository(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "svc.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	repo, err := catalogRepo.NewCatalogRepository(db)
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate())

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&catalogEntity.Vendor{ID: "v1", Name: "Acme"}).Error)
	require.NoError(t, db.Create(&[]catalogEntity.Product{
		{ID: "prod123", Name: "Silk Sleep Mask", Price: 25, VendorID: "v1", CreatedAt: base},
		{ID: "prod124", Name: "Copper Watering Can", Price: 40, DiscountPercentage: 25, CreatedAt: base.Add(time.Minute)},
	}).Error)
	require.NoError(t, db.Create(&catalogEntity.Collection{
		ID: "bundleA", Title: "Sleep",
		Items: []catalogEntity.CollectionItem{{ProductID: "prod123"}},
	}).Error)

	svc := NewService(repo, catalog.NewEngine())
	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Products, 2)
	assert.Equal(t, "Acme", snap.Products[0].VendorName)
	assert.Equal(t, catalog.Money(3000), snap.Products[1].Price)

	got := svc.Engine().Query(catalog.FilterState{CollectionID: "bundleA"})
	assert.Equal(t, []string{"prod123"}, productIDs(got))
}

func productIDs(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
