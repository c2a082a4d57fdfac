package logger

// Config controls log verbosity and output encoding.
type Config struct {
	// Level is the minimum level emitted: debug, info, warn or error.
	Level string `mapstructure:"level" default:"info"`
	// Format selects the encoder: console for humans, json for shipping.
	Format string `mapstructure:"format" default:"console"`
}
