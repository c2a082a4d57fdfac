package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-sync/core/inventory"

	"github.com/go-resty/resty/v2"
)

// httpFeed reads both feeds from internal JSON endpoints.
type httpFeed struct {
	client *resty.Client
	cfg    Config
}

func newHTTPFeed(cfg Config) *httpFeed {
	client := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetHeader("User-Agent", "Catalog-Sync/1.0").
		SetHeader("Accept", "application/json")
	return &httpFeed{client: client, cfg: cfg}
}

func (f *httpFeed) FetchProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := f.fetchCollection(ctx, f.cfg.ProductURL, "price feed", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (f *httpFeed) FetchLedger(ctx context.Context) ([]inventory.LedgerEntry, error) {
	var raw []struct {
		SKU       string `json:"sku"`
		Timestamp string `json:"timestamp"`
		Initial   string `json:"initial"`
		Received  string `json:"received"`
		Shipped   string `json:"shipped"`
	}
	if err := f.fetchCollection(ctx, f.cfg.LedgerURL, "inventory ledger", &raw); err != nil {
		return nil, err
	}

	entries := make([]inventory.LedgerEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, inventory.LedgerEntry{
			SKU:       r.SKU,
			Timestamp: r.Timestamp,
			Initial:   r.Initial,
			Received:  r.Received,
			Shipped:   r.Shipped,
		})
	}
	return entries, nil
}

// fetchCollection GETs a URL and decodes a JSON array into out. A body that
// is not a collection is a configuration error: the feed contract is a list
// of records, anything else means the URL points at the wrong thing.
func (f *httpFeed) fetchCollection(ctx context.Context, url, name string, out any) error {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("%s returned status %d", name, resp.StatusCode())
	}

	var probe json.RawMessage
	if err := json.Unmarshal(resp.Body(), &probe); err != nil {
		return fmt.Errorf("%s returned invalid JSON: %w", name, err)
	}
	if len(probe) == 0 || probe[0] != '[' {
		return fmt.Errorf("%s returned a non-collection response, check feed configuration", name)
	}

	if err := json.Unmarshal(probe, out); err != nil {
		return fmt.Errorf("%s records malformed: %w", name, err)
	}
	return nil
}
