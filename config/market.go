package config

import (
	"strings"
	"time"
)

// MarketConfig controls the upstream market data feed.
//
// The feed is any HTTP endpoint returning JSON; the FieldPath settings are
// JMESPath expressions that locate each quote field inside the response, so
// the dashboard can sit on top of different providers without code changes.
type MarketConfig struct {
	// FeedBaseURL is the quote endpoint. A literal "{symbol}" segment is
	// replaced with the ticker; otherwise the ticker is sent as the
	// "symbol" query parameter. Empty disables the live feed and quotes
	// come from stored prices only.
	FeedBaseURL string `env:"MARKET_FEED_URL"`

	// FeedTimeout bounds a single quote fetch.
	FeedTimeout time.Duration `env:"MARKET_FEED_TIMEOUT" envDefault:"5s"`

	// JMESPath expressions for quote fields. Last is required when the
	// feed is enabled; the rest default to empty (field omitted).
	FieldPathBid           string `env:"MARKET_FIELD_BID"            envDefault:"bid"`
	FieldPathAsk           string `env:"MARKET_FIELD_ASK"            envDefault:"ask"`
	FieldPathLast          string `env:"MARKET_FIELD_LAST"           envDefault:"last"`
	FieldPathChange        string `env:"MARKET_FIELD_CHANGE"         envDefault:"change"`
	FieldPathChangePercent string `env:"MARKET_FIELD_CHANGE_PERCENT" envDefault:"change_percent"`
	FieldPathVolume        string `env:"MARKET_FIELD_VOLUME"         envDefault:"volume"`
}

// Sanitize applies guardrails to market configuration values.
func (m *MarketConfig) Sanitize() {
	m.FeedBaseURL = strings.TrimSpace(m.FeedBaseURL)
	if m.FeedTimeout <= 0 {
		m.FeedTimeout = 5 * time.Second
	}
}

// FeedEnabled reports whether a live quote feed is configured.
func (m *MarketConfig) FeedEnabled() bool {
	return m.FeedBaseURL != ""
}
