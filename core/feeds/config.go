package feeds

// Config holds configuration for the local feed collaborators.
type Config struct {
	// Source selects the feed implementation: "database" or "http".
	Source string `mapstructure:"source" default:"database"`

	// ProductTable is the price-feed table for the database source.
	ProductTable string `mapstructure:"product_table" default:"products"`
	// LedgerTable is the inventory-ledger table for the database source.
	LedgerTable string `mapstructure:"ledger_table" default:"inventory_ledger"`

	// ProductURL is the price-feed endpoint for the http source.
	ProductURL string `mapstructure:"product_url" default:""`
	// LedgerURL is the inventory-ledger endpoint for the http source.
	LedgerURL string `mapstructure:"ledger_url" default:""`
	// TimeoutSeconds bounds http feed fetches.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	SourceDatabase = "database"
	SourceHTTP     = "http"
)

// IsValidSource checks if the configured feed source is valid.
func (c Config) IsValidSource() bool {
	switch c.Source {
	case SourceDatabase, SourceHTTP:
		return true
	default:
		return false
	}
}
