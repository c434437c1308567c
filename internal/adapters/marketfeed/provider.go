// Package marketfeed fetches quotes from an upstream market data HTTP API.
// Upstream payload shapes vary by vendor, so field locations are configured
// as JMESPath expressions instead of hard-coded struct tags.
package marketfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/tradepro/ui-api/internal/domain/market"
	apperrors "github.com/tradepro/ui-api/internal/errors"
)

// FieldPaths holds the JMESPath expression for each quote field. Last is
// required; the rest may be empty and default to zero.
type FieldPaths struct {
	Bid           string
	Ask           string
	Last          string
	Change        string
	ChangePercent string
	Volume        string
}

// Config describes the upstream quote endpoint.
type Config struct {
	// BaseURL is the quote endpoint; "{symbol}" is replaced with the
	// ticker, otherwise the ticker is appended as ?symbol=.
	BaseURL    string
	Paths      FieldPaths
	HTTPClient *http.Client // optional, defaults to a 10s-timeout client
}

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// Provider implements ports.QuoteFeed over a JSON HTTP endpoint.
type Provider struct {
	baseURL string
	paths   FieldPaths
	client  *http.Client
	jems    JMESPathEvaluator
}

// NewProvider validates the configured expressions and returns a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("market feed: base URL is required")
	}
	if strings.TrimSpace(cfg.Paths.Last) == "" {
		return nil, errors.New("market feed: last-price path is required")
	}

	jems := jmespathLibEvaluator{}
	for name, expr := range map[string]string{
		"bid":            cfg.Paths.Bid,
		"ask":            cfg.Paths.Ask,
		"last":           cfg.Paths.Last,
		"change":         cfg.Paths.Change,
		"change_percent": cfg.Paths.ChangePercent,
		"volume":         cfg.Paths.Volume,
	} {
		if err := jems.Validate(expr); err != nil {
			return nil, fmt.Errorf("market feed: invalid %s path: %w", name, err)
		}
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Provider{
		baseURL: cfg.BaseURL,
		paths:   cfg.Paths,
		client:  client,
		jems:    jems,
	}, nil
}

// Fetch retrieves and extracts one quote. Transport failures come back as
// network errors so the service layer can fall back to the last stored row.
func (p *Provider) Fetch(ctx context.Context, ticker string) (market.Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return market.Quote{}, errors.New("ticker is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.quoteURL(ticker), nil)
	if err != nil {
		return market.Quote{}, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return market.Quote{}, apperrors.Network(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return market.Quote{}, apperrors.Network(fmt.Errorf("quote endpoint returned %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return market.Quote{}, apperrors.Network(err)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return market.Quote{}, fmt.Errorf("decode quote payload: %w", err)
	}
	return p.extract(ticker, doc)
}

func (p *Provider) quoteURL(ticker string) string {
	if strings.Contains(p.baseURL, "{symbol}") {
		return strings.ReplaceAll(p.baseURL, "{symbol}", url.PathEscape(ticker))
	}
	sep := "?"
	if strings.Contains(p.baseURL, "?") {
		sep = "&"
	}
	return p.baseURL + sep + "symbol=" + url.QueryEscape(ticker)
}

func (p *Provider) extract(ticker string, doc any) (market.Quote, error) {
	last, ok, err := p.number(p.paths.Last, doc)
	if err != nil {
		return market.Quote{}, err
	}
	if !ok {
		return market.Quote{}, fmt.Errorf("quote payload missing last price for %s", ticker)
	}

	q := market.Quote{Ticker: ticker, Last: last, AsOf: time.Now().UTC()}
	if q.Bid, _, err = p.number(p.paths.Bid, doc); err != nil {
		return market.Quote{}, err
	}
	if q.Ask, _, err = p.number(p.paths.Ask, doc); err != nil {
		return market.Quote{}, err
	}
	if q.Change, _, err = p.number(p.paths.Change, doc); err != nil {
		return market.Quote{}, err
	}
	if q.ChangePercent, _, err = p.number(p.paths.ChangePercent, doc); err != nil {
		return market.Quote{}, err
	}
	vol, _, err := p.number(p.paths.Volume, doc)
	if err != nil {
		return market.Quote{}, err
	}
	q.Volume = int64(vol)
	return q, nil
}

// number evaluates expr against doc and coerces the result to float64.
// An empty expression or a missing value yields (0, false, nil).
func (p *Provider) number(expr string, doc any) (float64, bool, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, false, nil
	}
	raw, err := p.jems.Evaluate(expr, doc)
	if err != nil {
		return 0, false, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	case json.Number:
		f, convErr := v.Float64()
		if convErr != nil {
			return 0, false, fmt.Errorf("coerce %q: %w", expr, convErr)
		}
		return f, true, nil
	case string:
		var f float64
		if _, scanErr := fmt.Sscanf(strings.TrimSpace(v), "%g", &f); scanErr != nil {
			return 0, false, fmt.Errorf("coerce %q from %q", expr, v)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("unexpected type %T for %q", raw, expr)
	}
}
