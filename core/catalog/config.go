package catalog

// Config holds configuration for the remote catalog API client.
type Config struct {
	// Endpoint is the URL of the catalog API.
	Endpoint string `mapstructure:"endpoint" default:""`
	// Token is the access token sent with every request.
	Token string `mapstructure:"token" default:""`
	// RequestsPerSecond caps outbound call rate through the token bucket.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"2"`
	// Burst is the token-bucket burst size.
	Burst int `mapstructure:"burst" default:"1"`
	// MaxRetries bounds retry attempts for transient failures.
	MaxRetries int `mapstructure:"max_retries" default:"5"`
	// TimeoutSeconds is the per-call HTTP timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PageSize is the variant page size for bulk fetches.
	PageSize int `mapstructure:"page_size" default:"100"`
	// MaxPages is the hard ceiling on pages fetched in one run. A safety
	// valve against server-side pagination bugs; hitting it logs a warning.
	MaxPages int `mapstructure:"max_pages" default:"500"`
}
