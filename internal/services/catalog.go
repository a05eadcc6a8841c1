// Catalog service client implementing [Catalog]
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackbrowse/internal/models"
	"github.com/desertthunder/trackbrowse/internal/query"
	"github.com/desertthunder/trackbrowse/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "http://localhost:4004/browse-tracks"

	// maxErrorBody bounds how much of a failed response body is kept in a [RemoteError].
	maxErrorBody = 512
)

var _ Catalog = (*CatalogService)(nil)

// CatalogOpts contains configuration for a [CatalogService].
type CatalogOpts struct {
	BaseURL     string
	HTTPClient  *http.Client
	TokenSource oauth2.TokenSource // enables the personalized collection
	RateLimit   float64            // requests per second, 0 disables limiting
	Logger      *log.Logger
}

// CatalogService issues list, count and genre requests against the catalog service.
//
// It holds no state besides its configuration and is safe for concurrent use.
type CatalogService struct {
	baseURL    string
	httpClient *http.Client
	authClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

type envelope[T any] struct {
	Value *[]T `json:"value"`
}

// NewCatalogService creates a catalog client. Authenticated requests carry the token source's bearer token.
func NewCatalogService(opts CatalogOpts) *CatalogService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	s := &CatalogService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		logger:     shared.WithLogger(opts.Logger, "service", "catalog"),
	}

	if opts.TokenSource != nil {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, opts.HTTPClient)
		s.authClient = oauth2.NewClient(ctx, opts.TokenSource)
		s.authClient.Timeout = opts.HTTPClient.Timeout
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return s
}

// TokenSource builds the [oauth2.TokenSource] described by the credentials, or nil when none are configured.
//
// A static access token takes precedence over the client-credentials flow.
func TokenSource(ctx context.Context, creds shared.CredentialsConfig) oauth2.TokenSource {
	switch {
	case creds.AccessToken != "":
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.AccessToken, TokenType: "Bearer"})
	case creds.HasClientCredentials():
		cfg := &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
		}
		return cfg.TokenSource(ctx)
	default:
		return nil
	}
}

// Authenticated reports whether the client was configured with credentials.
func (s *CatalogService) Authenticated() bool {
	return s.authClient != nil
}

// BaseURL returns the catalog service root.
func (s *CatalogService) BaseURL() string {
	return s.baseURL
}

// ListTracks fetches a page of tracks from Tracks, or MarkedTracks when authenticated.
func (s *CatalogService) ListTracks(ctx context.Context, authenticated bool, f query.Filter, p query.Page) ([]models.Track, error) {
	path := Collection(authenticated) + "?" + query.ListQuery(f, p)
	return fetchValues[models.Track](ctx, s, "list tracks", authenticated, path)
}

// CountTracks returns the number of tracks matching f from the collection's $count endpoint.
func (s *CatalogService) CountTracks(ctx context.Context, authenticated bool, f query.Filter) (int, error) {
	const op = "count tracks"
	path := Collection(authenticated) + "/$count?" + query.CountQuery(f)

	body, u, err := s.get(ctx, op, authenticated, path)
	if err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return 0, &RemoteError{Op: op, URL: u, Kind: KindDecode, Err: fmt.Errorf("count is not an integer: %w", err)}
	}
	if count < 0 {
		return 0, &RemoteError{Op: op, URL: u, Kind: KindDecode, Err: fmt.Errorf("negative count %d", count)}
	}
	return count, nil
}

// ListGenres fetches the full genre list.
func (s *CatalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return fetchValues[models.Genre](ctx, s, "list genres", false, GenreCollection)
}

// fetchValues performs a GET and decodes an OData `{"value": [...]}` envelope.
func fetchValues[T any](ctx context.Context, s *CatalogService, op string, authenticated bool, path string) ([]T, error) {
	body, u, err := s.get(ctx, op, authenticated, path)
	if err != nil {
		return nil, err
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &RemoteError{Op: op, URL: u, Kind: KindDecode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if env.Value == nil {
		return nil, &RemoteError{Op: op, URL: u, Kind: KindDecode, Err: fmt.Errorf("response has no value array")}
	}
	return *env.Value, nil
}

// get performs a rate-limited GET of path relative to the base URL and returns the body of a 2xx response.
func (s *CatalogService) get(ctx context.Context, op string, authenticated bool, path string) ([]byte, string, error) {
	u := s.baseURL + "/" + path

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, u, &RemoteError{Op: op, URL: u, Kind: KindNetwork, Err: err}
		}
	}

	client := s.httpClient
	if authenticated && s.authClient != nil {
		client = s.authClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, u, &RemoteError{Op: op, URL: u, Kind: KindNetwork, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("catalog request", "op", op, "url", u, "authenticated", authenticated)

	resp, err := client.Do(req)
	if err != nil {
		return nil, u, &RemoteError{Op: op, URL: u, Kind: KindNetwork, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, u, &RemoteError{Op: op, URL: u, Kind: KindNetwork, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		s.logger.Warn("catalog request failed", "op", op, "status", resp.StatusCode)
		return nil, u, &RemoteError{Op: op, URL: u, Kind: statusKind(resp.StatusCode), StatusCode: resp.StatusCode, Body: snippet}
	}

	return body, u, nil
}
