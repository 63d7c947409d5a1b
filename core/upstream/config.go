package upstream

// Config holds configuration for the CardCommand REST backend.
type Config struct {
	// BaseURL is the API root, including any path prefix.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:3001/api"`
	// Token is sent as a bearer token when set.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// RatePerSecond caps outbound requests. Zero or less disables the limiter.
	RatePerSecond int `mapstructure:"rate_per_second" default:"10"`
	// MaxRetries is the number of retries for 429, 5xx and transport errors.
	// Zero keeps source failures visible to the reconciler so it can fall back.
	MaxRetries int `mapstructure:"max_retries" default:"0"`
}
