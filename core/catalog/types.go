package catalog

import "encoding/json"

// Variant is the local, non-authoritative snapshot of one remote catalog
// variant. Authority over price and quantity stays with the local feeds.
type Variant struct {
	// ID is the remote variant identifier used for price writes.
	ID string
	// SKU is the raw SKU string as published remotely.
	SKU string
	// Price is the current remote price, kept as the wire string so the
	// engine can diff prices by string comparison.
	Price string
	// Quantity is the current remote on-hand quantity.
	Quantity int
	// Tracked is false when the remote system does not manage inventory
	// for this variant; inventory writes are suppressed then.
	Tracked bool
	// InventoryItemID keys inventory writes. Variants without one are
	// skipped during fetch.
	InventoryItemID string
	// ProductTitle is the parent product display name, for log context.
	ProductTitle string
}

// VariantPage is one page of the paginated variant listing.
type VariantPage struct {
	Variants []Variant
	// EndCursor is the cursor of the last edge, used to continue paging.
	EndCursor string
	// HasNextPage is the API's continuation flag.
	HasNextPage bool
}

// envelope is the GraphQL-style response wrapper. Semantic errors live next
// to the data, even on HTTP 200.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []semanticError `json:"errors"`
}

type semanticError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// userError is a structured validation failure attached to a write result.
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// Typed response shapes, validated once at this boundary. A body that does
// not decode into these maps to a single permanent decoding error.

type variantNode struct {
	ID                string `json:"id"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventoryQuantity"`
	InventoryItem     struct {
		ID      string `json:"id"`
		Tracked bool   `json:"tracked"`
	} `json:"inventoryItem"`
	Product struct {
		Title string `json:"title"`
	} `json:"product"`
}

type listVariantsData struct {
	ProductVariants struct {
		Edges []struct {
			Cursor string      `json:"cursor"`
			Node   variantNode `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool `json:"hasNextPage"`
		} `json:"pageInfo"`
	} `json:"productVariants"`
}

type priceUpdateData struct {
	ProductVariantUpdate struct {
		UserErrors []userError `json:"userErrors"`
	} `json:"productVariantUpdate"`
}

type inventorySetData struct {
	InventorySetOnHandQuantities struct {
		UserErrors []userError `json:"userErrors"`
	} `json:"inventorySetOnHandQuantities"`
}

type locationsData struct {
	Locations struct {
		Edges []struct {
			Node struct {
				ID string `json:"id"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"locations"`
}
