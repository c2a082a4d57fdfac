package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// API is the abstract catalog capability the engine reconciles against.
type API interface {
	// ListVariants fetches one page of the variant catalog starting after
	// the given cursor. An empty cursor starts from the beginning.
	ListVariants(ctx context.Context, cursor string, pageSize int) (*VariantPage, error)

	// UpdatePrice writes a new price for a variant.
	UpdatePrice(ctx context.Context, variantID, price string) error

	// SetInventory writes an absolute on-hand quantity for an inventory
	// item at a location.
	SetInventory(ctx context.Context, inventoryItemID, locationID string, quantity int) error

	// ActiveLocation returns the id of the single active location.
	ActiveLocation(ctx context.Context) (string, error)
}

// waiter is the token-bucket seam; *rate.Limiter satisfies it and tests can
// swap in an instant one.
type waiter interface {
	Wait(ctx context.Context) error
}

// throttleDelay is the fixed wait after a THROTTLED semantic error, instead
// of the exponential formula.
const throttleDelay = 2 * time.Second

// Client is the rate-limited, retrying implementation of API.
type Client struct {
	http       *resty.Client
	limiter    waiter
	maxRetries int
	log        *zap.Logger

	// sleep and jitter are injected so tests can run the retry loop on an
	// instant clock.
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration

	loc locationCache
}

var _ API = (*Client)(nil)

// New creates a catalog client from configuration. All calls made through it
// share one token bucket.
func New(cfg Config, log *zap.Logger) *Client {
	httpc := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetHeader("User-Agent", "Catalog-Sync/1.0").
		SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		httpc.SetHeader("X-Catalog-Access-Token", cfg.Token)
	}

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		http:       httpc,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		maxRetries: cfg.MaxRetries,
		log:        log,
		sleep:      sleepContext,
		jitter: func() time.Duration {
			return time.Duration(rand.Int64N(1000)) * time.Millisecond
		},
	}
}

const listVariantsQuery = `query variants($first: Int!, $after: String) {
  productVariants(first: $first, after: $after) {
    edges {
      cursor
      node {
        id
        sku
        price
        inventoryQuantity
        inventoryItem { id tracked }
        product { title }
      }
    }
    pageInfo { hasNextPage }
  }
}`

const priceUpdateMutation = `mutation priceUpdate($id: ID!, $price: Money!) {
  productVariantUpdate(input: {id: $id, price: $price}) {
    userErrors { field message }
  }
}`

const inventorySetMutation = `mutation inventorySet($inventoryItemId: ID!, $locationId: ID!, $quantity: Int!) {
  inventorySetOnHandQuantities(input: {
    reason: "correction",
    setQuantities: [{inventoryItemId: $inventoryItemId, locationId: $locationId, quantity: $quantity}]
  }) {
    userErrors { field message }
  }
}`

const locationsQuery = `query locations {
  locations(first: 1, query: "active:true") {
    edges { node { id } }
  }
}`

// ListVariants implements API.
func (c *Client) ListVariants(ctx context.Context, cursor string, pageSize int) (*VariantPage, error) {
	vars := map[string]any{"first": pageSize}
	if cursor != "" {
		vars["after"] = cursor
	}

	var data listVariantsData
	if err := c.call(ctx, "listVariants", listVariantsQuery, vars, &data); err != nil {
		return nil, err
	}

	page := &VariantPage{HasNextPage: data.ProductVariants.PageInfo.HasNextPage}
	for _, edge := range data.ProductVariants.Edges {
		page.EndCursor = edge.Cursor
		page.Variants = append(page.Variants, Variant{
			ID:              edge.Node.ID,
			SKU:             edge.Node.SKU,
			Price:           edge.Node.Price,
			Quantity:        edge.Node.InventoryQuantity,
			Tracked:         edge.Node.InventoryItem.Tracked,
			InventoryItemID: edge.Node.InventoryItem.ID,
			ProductTitle:    edge.Node.Product.Title,
		})
	}
	return page, nil
}

// UpdatePrice implements API. Validation failures come back as permanent
// errors carrying the joined userError messages.
func (c *Client) UpdatePrice(ctx context.Context, variantID, price string) error {
	vars := map[string]any{"id": variantID, "price": price}

	var data priceUpdateData
	if err := c.call(ctx, "priceUpdate", priceUpdateMutation, vars, &data); err != nil {
		return err
	}
	return userErrorsToErr("priceUpdate", data.ProductVariantUpdate.UserErrors)
}

// SetInventory implements API. The write is absolute: the remote quantity is
// set to the target, never adjusted by a delta.
func (c *Client) SetInventory(ctx context.Context, inventoryItemID, locationID string, quantity int) error {
	vars := map[string]any{
		"inventoryItemId": inventoryItemID,
		"locationId":      locationID,
		"quantity":        quantity,
	}

	var data inventorySetData
	if err := c.call(ctx, "inventorySet", inventorySetMutation, vars, &data); err != nil {
		return err
	}
	return userErrorsToErr("inventorySet", data.InventorySetOnHandQuantities.UserErrors)
}

// fetchLocation does the uncached lookup; ActiveLocation in location.go adds
// the per-run cache.
func (c *Client) fetchLocation(ctx context.Context) (string, error) {
	var data locationsData
	if err := c.call(ctx, "locations", locationsQuery, nil, &data); err != nil {
		return "", err
	}
	if len(data.Locations.Edges) == 0 || data.Locations.Edges[0].Node.ID == "" {
		return "", &Error{Kind: KindPermanent, Op: "locations", Err: fmt.Errorf("no active location found")}
	}
	return data.Locations.Edges[0].Node.ID, nil
}

// call runs one operation through the limiter and the bounded retry loop.
// The loop is explicit (no recursion) so a long retry chain cannot grow the
// call stack.
func (c *Client) call(ctx context.Context, op, query string, vars map[string]any, out any) error {
	var last *Error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := last.retryAfter
			if delay == 0 {
				// 2^attempt seconds plus up to 1s of jitter, counted
				// from the attempt that just failed.
				delay = (1 << (attempt - 1)) * time.Second
				delay += c.jitter()
			}
			c.log.Warn("catalog call retrying",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(last))
			if err := c.sleep(ctx, delay); err != nil {
				last.Attempts = attempt
				return last
			}
		}

		// Cooperative backpressure: block for a token before any call.
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Kind: KindPermanent, Op: op, Attempts: attempt + 1, Err: err}
		}

		cerr := c.once(ctx, op, query, vars, out)
		if cerr == nil {
			return nil
		}
		cerr.Attempts = attempt + 1
		if cerr.Kind == KindPermanent {
			return cerr
		}
		last = cerr
	}

	return last
}

// once performs a single request/decode cycle and classifies any failure.
func (c *Client) once(ctx context.Context, op, query string, vars map[string]any, out any) *Error {
	body := map[string]any{"query": query}
	if vars != nil {
		body["variables"] = vars
	}

	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post("")
	if err != nil {
		return &Error{Kind: classifyTransport(err), Op: op, Err: err}
	}

	status := resp.StatusCode()
	if status != 200 {
		return &Error{Kind: classifyStatus(status), Op: op, Status: status, Body: string(resp.Body())}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return &Error{Kind: KindPermanent, Op: op, Status: status,
			Err: fmt.Errorf("malformed response shape: %w", err)}
	}

	if len(env.Errors) > 0 {
		if allThrottled(env.Errors) {
			return &Error{Kind: KindTransient, Op: op, Status: status,
				Body: joinSemantic(env.Errors), retryAfter: throttleDelay}
		}
		return &Error{Kind: KindPermanent, Op: op, Status: status, Body: joinSemantic(env.Errors)}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: KindPermanent, Op: op, Status: status,
				Err: fmt.Errorf("malformed response shape: %w", err)}
		}
	}
	return nil
}

func allThrottled(errs []semanticError) bool {
	for _, e := range errs {
		if e.Extensions.Code != "THROTTLED" {
			return false
		}
	}
	return len(errs) > 0
}

func joinSemantic(errs []semanticError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// userErrorsToErr converts write validation failures into one permanent
// error. These are item-level: callers record them against the SKU and move
// on.
func userErrorsToErr(op string, errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if len(e.Field) > 0 {
			msgs = append(msgs, strings.Join(e.Field, ".")+": "+e.Message)
		} else {
			msgs = append(msgs, e.Message)
		}
	}
	return &Error{Kind: KindPermanent, Op: op, Status: 200, Attempts: 1, Body: strings.Join(msgs, "; ")}
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
