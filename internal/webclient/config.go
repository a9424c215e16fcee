package webclient

import "time"

type Client string

const (
	ClientNetHTTP Client = "nethttp"
)

// DefaultTimeout bounds every outbound request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent unless the caller supplies its own User-Agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config is the minimal configuration required for constructing a WebClient.
// It is embedded by app.Config without creating an import cycle.
type Config struct {
	Client Client `yaml:"client"`

	// Timeout is the per-request deadline covering connect, headers and body read.
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent overrides DefaultUserAgent.
	UserAgent string `yaml:"user_agent"`

	// RateLimit caps outbound requests per second across the client; 0 disables it.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}
