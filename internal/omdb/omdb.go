package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const maxBodySize = 1 << 20

var (
	ErrUnexpectedStatus = errors.New("omdb: unexpected status code")
	ErrInvalidBody      = errors.New("omdb: response body is not valid JSON")
	ErrRequestFailed    = errors.New("omdb: request failed")
)

type Config struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client queries the movie-data API. All calls made through one Client share
// a single outbound rate, whatever client they are made for.
type Client struct {
	conf       Config
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(conf Config) (*Client, error) {
	u, err := url.Parse(conf.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("omdb: invalid base url: %w", err)
	}
	if conf.RequestsPerSecond <= 0 {
		return nil, errors.New("omdb: RequestsPerSecond must be > 0")
	}

	burst := int(conf.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		conf:       conf,
		baseURL:    u,
		httpClient: &http.Client{Timeout: conf.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(conf.RequestsPerSecond), burst),
	}, nil
}

// SearchByTitle returns the upstream JSON document for title untouched.
//
// The returned errors never carry the request url, it holds the api key.
func (c *Client) SearchByTitle(ctx context.Context, title string) (json.RawMessage, error) {
	log := zerolog.Ctx(ctx).With().Str("title", title).Logger()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for the outbound limiter: %w", ErrRequestFailed, err)
	}

	u := *c.baseURL
	q := u.Query()
	q.Set("apikey", c.conf.APIKey)
	q.Set("t", title)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building the request", ErrRequestFailed)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		log.Err(err).Msg("omdb request failed")
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading the body: %w", ErrRequestFailed, err)
	}

	log.Debug().Int("status", res.StatusCode).Dur("duration", time.Since(start)).Msg("omdb response")

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
	}
	if !json.Valid(body) {
		return nil, ErrInvalidBody
	}

	return json.RawMessage(body), nil
}
