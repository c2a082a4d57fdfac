package discount

// Config holds configuration for the discount source.
type Config struct {
	// Location is where discount CSV rows live. Supported schemes:
	// a plain filesystem path, http(s)://host/path, or s3://bucket/object.
	// Empty means no discounts for the run.
	Location string `mapstructure:"location" default:""`
	// TimeoutSeconds bounds HTTP discount fetches.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
}
