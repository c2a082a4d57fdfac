package reconcile

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"catalog-sync/core/catalog"
	"catalog-sync/core/feeds"
	"catalog-sync/core/inventory"
	"catalog-sync/core/sku"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type priceWrite struct {
	variantID string
	price     string
}

type inventoryWrite struct {
	inventoryItemID string
	locationID      string
	quantity        int
}

// fakeAPI records writes and serves a fixed variant list. Write methods are
// safe for the engine's concurrent fan-out.
type fakeAPI struct {
	mu       sync.Mutex
	variants []catalog.Variant

	priceWrites     []priceWrite
	inventoryWrites []inventoryWrite

	priceErr     map[string]error
	inventoryErr map[string]error
}

func (f *fakeAPI) ListVariants(_ context.Context, _ string, _ int) (*catalog.VariantPage, error) {
	return &catalog.VariantPage{Variants: f.variants}, nil
}

func (f *fakeAPI) UpdatePrice(_ context.Context, variantID, price string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.priceErr[variantID]; err != nil {
		return err
	}
	f.priceWrites = append(f.priceWrites, priceWrite{variantID, price})
	return nil
}

func (f *fakeAPI) SetInventory(_ context.Context, inventoryItemID, locationID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.inventoryErr[inventoryItemID]; err != nil {
		return err
	}
	f.inventoryWrites = append(f.inventoryWrites, inventoryWrite{inventoryItemID, locationID, quantity})
	return nil
}

func (f *fakeAPI) ActiveLocation(_ context.Context) (string, error) {
	return "loc-1", nil
}

func testOpts() Options {
	return Options{
		Mode:        ModeLocalFirst,
		Type:        TypeBoth,
		SkuMode:     sku.ModeAlphanumeric,
		SafetyStock: 3,
		LocationID:  "loc-1",
	}
}

func state(key string, published int) inventory.State {
	return inventory.State{Key: key, Calculated: published, Published: published}
}

func TestRun_DiscountedPriceUpdate(t *testing.T) {
	api := &fakeAPI{}
	snap := &Snapshot{
		Products:  []feeds.Product{{SKU: "ABC-1", Price: "100.00"}},
		Discounts: map[string]float64{"ABC-1": 10},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "ABC-1", Price: "100.00", Quantity: 4, Tracked: true, InventoryItemID: "i1"},
		},
	}

	stats := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts())
	sum := stats.Summary()

	assert.Equal(t, int64(1), sum.PriceUpdated)
	require.Len(t, api.priceWrites, 1)
	assert.Equal(t, priceWrite{"v1", "90.00"}, api.priceWrites[0])
	assert.Empty(t, api.inventoryWrites)
}

func TestRun_IdempotentRerunIssuesNoWrites(t *testing.T) {
	qty := 7
	snap := &Snapshot{
		Products:  []feeds.Product{{SKU: "ABC-1", Price: "100.00"}},
		Discounts: map[string]float64{"ABC-1": 10},
		Inventory: map[string]inventory.State{"ABC-1": state("ABC-1", qty)},
		Variants: []catalog.Variant{
			// Remote already reflects the targets.
			{ID: "v1", SKU: "ABC-1", Price: "90.00", Quantity: qty, Tracked: true, InventoryItemID: "i1"},
		},
	}

	api := &fakeAPI{}
	stats := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts())
	sum := stats.Summary()

	assert.Equal(t, int64(1), sum.NoChange)
	assert.Zero(t, sum.TotalWrites())
	assert.Empty(t, api.priceWrites)
	assert.Empty(t, api.inventoryWrites)
}

func TestRun_InventoryUpdateUsesLocation(t *testing.T) {
	snap := &Snapshot{
		Products:  []feeds.Product{{SKU: "42", Price: "10.00"}},
		Inventory: map[string]inventory.State{"42": state("42", 9)},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Quantity: 2, Tracked: true, InventoryItemID: "i1"},
		},
	}

	api := &fakeAPI{}
	stats := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts())
	sum := stats.Summary()

	assert.Equal(t, int64(1), sum.InventoryUpdated)
	require.Len(t, api.inventoryWrites, 1)
	assert.Equal(t, inventoryWrite{"i1", "loc-1", 9}, api.inventoryWrites[0])
}

func TestRun_BothFieldsUpdated(t *testing.T) {
	snap := &Snapshot{
		Products:  []feeds.Product{{SKU: "42", Price: "15.50"}},
		Inventory: map[string]inventory.State{"42": state("42", 4)},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Quantity: 2, Tracked: true, InventoryItemID: "i1"},
		},
	}

	api := &fakeAPI{}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts()).Summary()

	assert.Equal(t, int64(1), sum.BothUpdated)
	require.Len(t, api.priceWrites, 1)
	require.Len(t, api.inventoryWrites, 1)
}

func TestRun_UntrackedVariantSuppressesInventoryWrite(t *testing.T) {
	snap := &Snapshot{
		Products:  []feeds.Product{{SKU: "42", Price: "10.00"}},
		Inventory: map[string]inventory.State{"42": state("42", 9)},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Quantity: 2, Tracked: false, InventoryItemID: "i1"},
		},
	}

	api := &fakeAPI{}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts()).Summary()

	assert.Equal(t, int64(1), sum.NoChange)
	assert.Empty(t, api.inventoryWrites)
}

func TestRun_LocalFirstSkipsMissingRemote(t *testing.T) {
	snap := &Snapshot{
		Products: []feeds.Product{
			{SKU: "42", Price: "10.00"},
			{SKU: "43", Price: "12.00"},
		},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Tracked: true, InventoryItemID: "i1"},
		},
	}

	api := &fakeAPI{}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts()).Summary()

	assert.Equal(t, int64(1), sum.SkippedNotFoundRemote)
	assert.Equal(t, int64(1), sum.NoChange)
}

func TestRun_ShopifyFirstSkipsMissingLocal(t *testing.T) {
	snap := &Snapshot{
		Products: []feeds.Product{{SKU: "42", Price: "10.00"}},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Tracked: true, InventoryItemID: "i1"},
			{ID: "v2", SKU: "99", Price: "5.00", Tracked: true, InventoryItemID: "i2"},
		},
	}

	opts := testOpts()
	opts.Mode = ModeShopifyFirst

	api := &fakeAPI{}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, opts).Summary()

	assert.Equal(t, int64(1), sum.SkippedNotFoundLocal)
	assert.Equal(t, int64(1), sum.NoChange)
}

func TestRun_ZeroPaddedAliasJoinsBothSides(t *testing.T) {
	snap := &Snapshot{
		Products:  []feeds.Product{{SKU: "42", Price: "20.00"}},
		Inventory: map[string]inventory.State{"42": state("42", 6)},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "00042", Price: "10.00", Quantity: 6, Tracked: true, InventoryItemID: "i1"},
		},
	}

	for _, mode := range []Mode{ModeLocalFirst, ModeShopifyFirst} {
		opts := testOpts()
		opts.Mode = mode

		api := &fakeAPI{}
		sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, opts).Summary()

		assert.Equal(t, int64(1), sum.PriceUpdated, "mode %s", mode)
		require.Len(t, api.priceWrites, 1, "mode %s", mode)
		assert.Equal(t, "20.00", api.priceWrites[0].price)
	}
}

func TestRun_DryRunIssuesNoWrites(t *testing.T) {
	snap := &Snapshot{
		Products:  []feeds.Product{{SKU: "42", Price: "20.00"}},
		Inventory: map[string]inventory.State{"42": state("42", 9)},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Quantity: 2, Tracked: true, InventoryItemID: "i1"},
		},
	}

	opts := testOpts()
	opts.DryRun = true

	api := &fakeAPI{}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, opts).Summary()

	assert.Equal(t, int64(1), sum.BothUpdated)
	assert.Empty(t, api.priceWrites)
	assert.Empty(t, api.inventoryWrites)
}

func TestRun_WriteFailureIsIsolated(t *testing.T) {
	snap := &Snapshot{
		Products: []feeds.Product{
			{SKU: "A-1", Price: "10.00"},
			{SKU: "A-2", Price: "20.00"},
		},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "A-1", Price: "9.00", Tracked: true, InventoryItemID: "i1"},
			{ID: "v2", SKU: "A-2", Price: "19.00", Tracked: true, InventoryItemID: "i2"},
		},
	}

	api := &fakeAPI{priceErr: map[string]error{"v1": errors.New("boom")}}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts()).Summary()

	assert.Equal(t, int64(1), sum.Errors)
	assert.Equal(t, int64(1), sum.PriceUpdated)
	require.Len(t, api.priceWrites, 1)
	assert.Equal(t, "v2", api.priceWrites[0].variantID)
}

func TestRun_FailedPriceWriteStillUpdatesInventory(t *testing.T) {
	snap := &Snapshot{
		Products:  []feeds.Product{{SKU: "42", Price: "20.00"}},
		Inventory: map[string]inventory.State{"42": state("42", 9)},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Quantity: 2, Tracked: true, InventoryItemID: "i1"},
		},
	}

	api := &fakeAPI{priceErr: map[string]error{"v1": errors.New("boom")}}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts()).Summary()

	assert.Equal(t, int64(1), sum.Errors)
	require.Len(t, api.inventoryWrites, 1)
	assert.Equal(t, 9, api.inventoryWrites[0].quantity)
}

func TestRun_NonNumericLocalPriceSkipped(t *testing.T) {
	snap := &Snapshot{
		Products: []feeds.Product{{SKU: "42", Price: "n/a"}},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Tracked: true, InventoryItemID: "i1"},
		},
	}

	api := &fakeAPI{}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts()).Summary()

	assert.Equal(t, int64(1), sum.SkippedInvalid)
	assert.Empty(t, api.priceWrites)
}

func TestRun_NonNumericPriceStillSyncsInventory(t *testing.T) {
	snap := &Snapshot{
		Products:  []feeds.Product{{SKU: "42", Price: "n/a"}},
		Inventory: map[string]inventory.State{"42": state("42", 9)},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Quantity: 2, Tracked: true, InventoryItemID: "i1"},
		},
	}

	api := &fakeAPI{}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts()).Summary()

	assert.Equal(t, int64(1), sum.InventoryUpdated)
	assert.Empty(t, api.priceWrites)
	require.Len(t, api.inventoryWrites, 1)
}

func TestRun_TypePriceNeverWritesInventory(t *testing.T) {
	snap := &Snapshot{
		Products:  []feeds.Product{{SKU: "42", Price: "20.00"}},
		Inventory: map[string]inventory.State{"42": state("42", 9)},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Quantity: 2, Tracked: true, InventoryItemID: "i1"},
		},
	}

	opts := testOpts()
	opts.Type = TypePrice

	api := &fakeAPI{}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, opts).Summary()

	assert.Equal(t, int64(1), sum.PriceUpdated)
	assert.Empty(t, api.inventoryWrites)
}

func TestRun_DuplicateFeedEntryLastWins(t *testing.T) {
	snap := &Snapshot{
		Products: []feeds.Product{
			{SKU: "42", Price: "10.00"},
			{SKU: "42", Price: "30.00"},
		},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "42", Price: "10.00", Tracked: true, InventoryItemID: "i1"},
		},
	}

	api := &fakeAPI{}
	sum := NewEngine(api, zap.NewNop()).Run(context.Background(), snap, testOpts()).Summary()

	assert.Equal(t, int64(1), sum.PriceUpdated)
	require.Len(t, api.priceWrites, 1)
	assert.Equal(t, "30.00", api.priceWrites[0].price)
}

func TestRun_DiscountedItemsProcessedFirst(t *testing.T) {
	snap := &Snapshot{
		Products: []feeds.Product{
			{SKU: "A-1", Price: "10.00"},
			{SKU: "A-2", Price: "20.00"},
		},
		Discounts: map[string]float64{"A-2": 50},
		Variants: []catalog.Variant{
			{ID: "v1", SKU: "A-1", Price: "10.00", Tracked: true, InventoryItemID: "i1"},
			{ID: "v2", SKU: "A-2", Price: "20.00", Tracked: true, InventoryItemID: "i2"},
		},
	}

	e := NewEngine(&fakeAPI{}, zap.NewNop())
	stats := NewRunStats()
	items := e.buildItems(snap, testOpts(), stats, zap.NewNop())
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].pct != nil && items[j].pct == nil
	})

	require.Len(t, items, 2)
	assert.Equal(t, "A-2", items[0].key)
	assert.Equal(t, "A-1", items[1].key)
}

func TestConfig_Options(t *testing.T) {
	cfg := Config{Mode: "shopify_first", Type: "price", SafetyStock: 5, SkuMode: "numeric", DryRun: true}
	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, ModeShopifyFirst, opts.Mode)
	assert.Equal(t, TypePrice, opts.Type)
	assert.Equal(t, sku.ModeNumeric, opts.SkuMode)
	assert.Equal(t, 5, opts.SafetyStock)
	assert.True(t, opts.DryRun)

	_, err = Config{Mode: "sideways", Type: "both", SkuMode: "numeric"}.Options()
	assert.Error(t, err)

	_, err = Config{Mode: "local_first", Type: "everything", SkuMode: "numeric"}.Options()
	assert.Error(t, err)

	_, err = Config{Mode: "local_first", Type: "both", SkuMode: "fuzzy"}.Options()
	assert.Error(t, err)
}
