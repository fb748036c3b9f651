package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aquilabot/SmartPC-API/internal/catalog"
	"github.com/Aquilabot/SmartPC-API/internal/models"
)

func part(id string, slot models.SlotType, price float64, score *float64) models.Component {
	return models.Component{
		ID:               id,
		Name:             "part " + id,
		Type:             slot,
		Price:            price,
		Currency:         models.DefaultCurrency,
		InStock:          true,
		PerformanceScore: score,
		Specifications:   models.Specifications{"socket": "AM5"},
	}
}

func TestMemoryStoreProducts(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()

	require.NoError(t, store.Put(ctx, part("a", models.SlotCPU, 100, nil)))
	require.NoError(t, store.Put(ctx, part("b", models.SlotGPU, 200, nil)))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "part a", got.Name)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	found, err := store.Resolve(ctx, []string{"a", "missing", "b"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.NotContains(t, found, "missing")

	// callers get copies
	got.Specifications["socket"] = "LGA1700"
	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "AM5", again.Specifications.Text("socket"))

	err = store.Put(ctx, models.Component{ID: "x", Name: "no type"})
	assert.ErrorIs(t, err, catalog.ErrInvalidRecord)
}

func TestMemoryStoreListPaging(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	for _, id := range []string{"1", "2", "3", "4"} {
		require.NoError(t, store.Put(ctx, part(id, models.SlotRAM, 10, nil)))
	}
	out := part("5", models.SlotRAM, 10, nil)
	out.InStock = false
	require.NoError(t, store.Put(ctx, out))

	all, err := store.List(ctx, catalog.ProductFilter{Type: models.SlotRAM})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	inStock := true
	page, err := store.List(ctx, catalog.ProductFilter{InStock: &inStock, Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "2", page[0].ID)
	assert.Equal(t, "3", page[1].ID)

	empty, err := store.List(ctx, catalog.ProductFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStorePresets(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()

	presets := []models.Preset{
		{ID: "p1", Name: "cheap", DeviceType: models.DevicePC, Segment: models.SegmentGaming, IsActive: true, MaxBudget: models.Float(5000)},
		{ID: "p2", Name: "off", DeviceType: models.DevicePC, Segment: models.SegmentGaming},
		{ID: "p3", Name: "laptop", DeviceType: models.DeviceLaptop, Segment: models.SegmentGaming, IsActive: true},
	}
	for _, p := range presets {
		require.NoError(t, store.PutPreset(ctx, p))
	}

	queried, err := store.Query(ctx, models.DevicePC, models.SegmentGaming)
	require.NoError(t, err)
	assert.Len(t, queried, 2, "query keeps inactive presets")

	budget := 6000.0
	listed, err := store.ListPresets(ctx, catalog.PresetFilter{DeviceType: models.DevicePC, Budget: &budget})
	require.NoError(t, err)
	assert.Empty(t, listed)

	listed, err = store.ListPresets(ctx, catalog.PresetFilter{Segment: models.SegmentGaming})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	_, err = store.GetPreset(ctx, "nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	err = store.PutPreset(ctx, models.Preset{ID: "bad", Name: "bad", DeviceType: "tablet", Segment: models.SegmentHome})
	assert.ErrorIs(t, err, catalog.ErrInvalidRecord)
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := catalog.NewMemoryStore().Resolve(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}

type countingStore struct {
	*catalog.MemoryStore
	resolves int
	lastIDs  []string
}

func (s *countingStore) Resolve(ctx context.Context, ids []string) (map[string]models.Component, error) {
	s.resolves++
	s.lastIDs = ids
	return s.MemoryStore.Resolve(ctx, ids)
}

func TestCachedStore(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{MemoryStore: catalog.NewMemoryStore()}
	require.NoError(t, backing.Put(ctx, part("a", models.SlotCPU, 100, nil)))
	require.NoError(t, backing.Put(ctx, part("b", models.SlotGPU, 200, nil)))

	cached := catalog.NewCachedStore(backing, 16, time.Minute)

	found, err := cached.Resolve(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, 1, backing.resolves)
	assert.Equal(t, 1, cached.Len())

	found, err = cached.Resolve(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, 2, backing.resolves)
	assert.Equal(t, []string{"a", "b"}, backing.lastIDs, "a miss sends the whole batch to the store")

	_, err = cached.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, backing.resolves)

	updated := part("a", models.SlotCPU, 80, nil)
	require.NoError(t, cached.Put(ctx, updated))
	got, err := cached.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.Price)
	assert.Equal(t, 3, backing.resolves)

	_, err = cached.Get(ctx, "zzz")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCachedStoreBatchIsOneRead(t *testing.T) {
	ctx := context.Background()
	backing := catalog.NewMemoryStore()
	require.NoError(t, backing.Put(ctx, part("a", models.SlotCPU, 100, nil)))

	cached := catalog.NewCachedStore(backing, 16, time.Minute)
	_, err := cached.Resolve(ctx, []string{"a"})
	require.NoError(t, err)

	// written behind the cache's back
	require.NoError(t, backing.Put(ctx, part("a", models.SlotCPU, 90, nil)))
	require.NoError(t, backing.Put(ctx, part("b", models.SlotGPU, 190, nil)))

	found, err := cached.Resolve(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 90.0, found["a"].Price)
	assert.Equal(t, 190.0, found["b"].Price)

	// the refreshed entry now answers on its own
	got, err := cached.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Price)
}

func TestAlternatives(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	require.NoError(t, store.Put(ctx, part("current", models.SlotGPU, 3000, models.Float(70))))
	require.NoError(t, store.Put(ctx, part("unrated", models.SlotGPU, 100, nil)))
	require.NoError(t, store.Put(ctx, part("fast", models.SlotGPU, 5000, models.Float(90))))
	require.NoError(t, store.Put(ctx, part("fast-cheap", models.SlotGPU, 4000, models.Float(90))))
	require.NoError(t, store.Put(ctx, part("cpu", models.SlotCPU, 100, models.Float(99))))
	gone := part("gone", models.SlotGPU, 10, models.Float(99))
	gone.InStock = false
	require.NoError(t, store.Put(ctx, gone))

	alts, err := catalog.Alternatives(ctx, store, "current", "", 5)
	require.NoError(t, err)
	ids := make([]string, 0, len(alts))
	for _, c := range alts {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"fast-cheap", "fast", "unrated"}, ids)

	alts, err = catalog.Alternatives(ctx, store, "current", "", 1)
	require.NoError(t, err)
	assert.Len(t, alts, 1)

	_, err = catalog.Alternatives(ctx, store, "nope", "", 5)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestResolveBuild(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	require.NoError(t, store.Put(ctx, part("a", models.SlotCPU, 100, nil)))

	build, missing, err := catalog.ResolveBuild(ctx, store, models.SlotMap{
		models.SlotCPU: "a",
		models.SlotGPU: "ghost",
		models.SlotRAM: " ",
	})
	require.NoError(t, err)
	assert.Len(t, build, 1)
	assert.Equal(t, []string{"ghost"}, missing)
	assert.Equal(t, 100.0, build.TotalPrice())
}

type flatScorer float64

func (f flatScorer) ScoreBuild(models.Build, models.Segment) float64 { return float64(f) }

func TestDefaultSeed(t *testing.T) {
	ctx := context.Background()
	seed, err := catalog.DefaultSeed()
	require.NoError(t, err)
	require.NotEmpty(t, seed.Products)
	require.NotEmpty(t, seed.Presets)

	store := catalog.NewMemoryStore()
	require.NoError(t, seed.Apply(ctx, store, flatScorer(42)))

	presets, err := store.ListPresets(ctx, catalog.PresetFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, presets)
	for _, p := range presets {
		_, missing, err := catalog.ResolveBuild(ctx, store, p.ComponentMap)
		require.NoError(t, err)
		assert.Empty(t, missing, "preset %s references unknown parts", p.Name)
		assert.Greater(t, p.TotalPrice, 0.0, p.Name)
		require.NotNil(t, p.PerformanceScore, p.Name)
		assert.Equal(t, 42.0, *p.PerformanceScore)
	}

	inactive, err := store.Query(ctx, models.DevicePC, models.SegmentGaming)
	require.NoError(t, err)
	assert.Greater(t, len(inactive), 3)
}

func TestLoadSeedRejectsBadIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - id: nope\n    name: x\n    type: cpu\n"), 0o600))

	_, err := catalog.LoadSeed(path)
	assert.ErrorIs(t, err, catalog.ErrInvalidRecord)

	_, err = catalog.LoadSeed(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("SMARTPC_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SMARTPC_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	store, err := catalog.NewPostgres(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()

	seed, err := catalog.DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, seed.Apply(ctx, store, nil))

	ids := []string{seed.Products[0].ID, seed.Products[1].ID, "00000000-0000-0000-0000-000000000000"}
	found, err := store.Resolve(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	got, err := store.Get(ctx, seed.Products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, seed.Products[0].Name, got.Name)

	budget := 5000.0
	presets, err := store.ListPresets(ctx, catalog.PresetFilter{DeviceType: models.DevicePC, Segment: models.SegmentGaming, Budget: &budget})
	require.NoError(t, err)
	for _, p := range presets {
		assert.True(t, p.IsActive)
		assert.True(t, p.InBudget(budget))
	}

	_, err = store.GetPreset(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

type offerPages map[string]*models.PartOffers

func (o offerPages) FetchOffers(URL string) (*models.PartOffers, error) {
	if offers, ok := o[URL]; ok {
		return offers, nil
	}
	return nil, errors.New("page not found")
}

func TestSyncPrices(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()

	cheaper := part("cheaper", models.SlotCPU, 800, nil)
	cheaper.SourceURL = "https://pl.pcpartpicker.com/product/AAAA11/cpu"
	soldOut := part("sold-out", models.SlotGPU, 2500, nil)
	soldOut.SourceURL = "https://pl.pcpartpicker.com/product/BBBB22/gpu"
	broken := part("broken", models.SlotRAM, 300, nil)
	broken.SourceURL = "https://pl.pcpartpicker.com/product/CCCC33/ram"
	local := part("local", models.SlotPSU, 400, nil)
	local.SourceURL = "https://x-kom.pl/p/1"
	abroad := part("abroad", models.SlotCase, 350, nil)
	abroad.SourceURL = "https://pcpartpicker.com/product/DDDD44/case"
	for _, c := range []models.Component{cheaper, soldOut, broken, local, abroad} {
		require.NoError(t, store.Put(ctx, c))
	}

	pages := offerPages{
		cheaper.SourceURL: {Vendors: []models.Vendor{
			{Name: "x-kom", InStock: true, Price: models.Price{Total: 779, Currency: "PLN"}},
			{Name: "amazon.de", InStock: true, Price: models.Price{Total: 150, Currency: "EUR"}},
			{Name: "morele", InStock: true, Price: models.Price{Total: 759, Currency: "PLN"}},
		}},
		soldOut.SourceURL: {Vendors: []models.Vendor{
			{Name: "x-kom", InStock: false, Price: models.Price{Total: 2300, Currency: "PLN"}},
		}},
		abroad.SourceURL: {Vendors: []models.Vendor{
			{Name: "Amazon", InStock: true, Price: models.Price{Total: 89.99, Currency: "USD"}},
			{Name: "amazon.de", InStock: true, Price: models.Price{Total: 84, Currency: "EUR"}},
		}},
	}

	changes := map[string]catalog.PriceChange{}
	err := catalog.SyncPrices(ctx, store, pages, func(c catalog.PriceChange) { changes[c.ID] = c })
	require.NoError(t, err)

	require.Len(t, changes, 4)
	assert.Equal(t, catalog.PriceUpdated, changes["cheaper"].Result)
	assert.Equal(t, "morele", changes["cheaper"].Vendor)
	assert.Equal(t, catalog.PriceUpdated, changes["sold-out"].Result)
	assert.Equal(t, catalog.PriceFailed, changes["broken"].Result)
	assert.Error(t, changes["broken"].Err)

	got, err := store.Get(ctx, "cheaper")
	require.NoError(t, err)
	assert.Equal(t, 759.0, got.Price)
	assert.True(t, got.InStock)

	got, err = store.Get(ctx, "sold-out")
	require.NoError(t, err)
	assert.Equal(t, 2500.0, got.Price)
	assert.False(t, got.InStock)

	// offers only in other currencies say nothing about the local price
	assert.Equal(t, catalog.PriceUnchanged, changes["abroad"].Result)
	got, err = store.Get(ctx, "abroad")
	require.NoError(t, err)
	assert.Equal(t, 350.0, got.Price)
	assert.True(t, got.InStock)

	// a second run finds nothing new
	changes = map[string]catalog.PriceChange{}
	require.NoError(t, catalog.SyncPrices(ctx, store, pages, func(c catalog.PriceChange) { changes[c.ID] = c }))
	assert.Equal(t, catalog.PriceUnchanged, changes["cheaper"].Result)
	assert.Equal(t, catalog.PriceUnchanged, changes["sold-out"].Result)
}

type searchIndex map[string]string

func (s searchIndex) FindProduct(term, _ string) (string, error) {
	if link, ok := s[term]; ok {
		return link, nil
	}
	return "", errors.New("no search results")
}

func TestLinkSources(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()

	byModel := part("by-model", models.SlotCPU, 800, nil)
	byModel.Brand, byModel.Model = "AMD", "Ryzen 5 7600"
	byName := part("by-name", models.SlotGPU, 2500, nil)
	linked := part("linked", models.SlotRAM, 300, nil)
	linked.SourceURL = "https://pl.pcpartpicker.com/product/CCCC33/ram"
	unknown := part("unknown", models.SlotPSU, 400, nil)
	for _, c := range []models.Component{byModel, byName, linked, unknown} {
		require.NoError(t, store.Put(ctx, c))
	}

	index := searchIndex{
		"AMD Ryzen 5 7600": "https://pl.pcpartpicker.com/product/AAAA11/amd-ryzen-5-7600",
		"part by-name":     "https://pl.pcpartpicker.com/product/BBBB22/gpu",
		"part linked":      "https://pl.pcpartpicker.com/product/DDDD44/other",
	}

	n, err := catalog.LinkSources(ctx, store, index, "pl")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := store.Get(ctx, "by-model")
	require.NoError(t, err)
	assert.Equal(t, index["AMD Ryzen 5 7600"], got.SourceURL)

	got, err = store.Get(ctx, "linked")
	require.NoError(t, err)
	assert.Equal(t, "https://pl.pcpartpicker.com/product/CCCC33/ram", got.SourceURL)

	got, err = store.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, got.SourceURL)
}
