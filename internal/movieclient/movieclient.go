package movieclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultAPIURL = "http://localhost:4000/"

var (
	ErrNetworkResponse = errors.New("Network response was not ok")
	ErrMovieNotFound   = errors.New("movie not found")
)

// Movie holds the fields of the movie-data document the client shows.
type Movie struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer"`
	Actors     string `json:"Actors"`
	Country    string `json:"Country"`
	Plot       string `json:"Plot"`
	ImdbRating string `json:"imdbRating"`
	Poster     string `json:"Poster"`
	Response   string `json:"Response"`
	Error      string `json:"Error,omitempty"`
}

type Client struct {
	apiURL     *url.URL
	httpClient *http.Client
}

func New(apiURL string, timeout time.Duration) (*Client, error) {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	return &Client{
		apiURL:     u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Search asks the proxy for title. A lookup the upstream could not resolve
// returns ErrMovieNotFound wrapped with the upstream message.
func (c *Client) Search(ctx context.Context, title string) (Movie, error) {
	u := c.apiURL.JoinPath("searchMovie")
	u.RawQuery = url.Values{"title": {title}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Movie{}, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Movie{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Movie{}, fmt.Errorf("%w: %s", ErrNetworkResponse, res.Status)
	}

	var m Movie
	if err := json.NewDecoder(res.Body).Decode(&m); err != nil {
		return Movie{}, fmt.Errorf("can not decode the response: %w", err)
	}
	if m.Response == "False" {
		return Movie{}, fmt.Errorf("%w: %s", ErrMovieNotFound, m.Error)
	}
	return m, nil
}
