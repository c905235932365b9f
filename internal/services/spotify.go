// Spotify Web API implementation of the catalog capability.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/radar/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// MaxListLimit is the page-size ceiling for simple listings.
	MaxListLimit = 50
	// MaxAlbumBatch is the ceiling for the several-albums lookup.
	MaxAlbumBatch = 20
	// maxPlaylistWrite is the number of URIs accepted by a single playlist mutation.
	maxPlaylistWrite = 100

	defaultRedirectURI = "http://127.0.0.1:9090/callback"
	defaultMaxRetries  = 5
	defaultBackoff     = time.Second
	maxBackoff         = 30 * time.Second
)

// OAuthService is implemented by catalog services that authenticate with an OAuth2 authorization code flow.
type OAuthService interface {
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}

// SpotifyService talks to the Spotify Web API.
// Uses [oauth2] for authentication, paces requests with a [rate.Limiter], and retries rate-limited calls.
type SpotifyService struct {
	config         *oauth2.Config
	token          *oauth2.Token
	httpClient     *http.Client
	baseClient     *http.Client
	baseURL        string
	limiter        *rate.Limiter
	maxRetries     int
	backoff        time.Duration
	logger         *log.Logger
	onTokenRefresh func(*oauth2.Token)
}

// Option configures a [SpotifyService].
type Option func(*SpotifyService)

// WithBaseURL points the service at a different API root (used by tests).
func WithBaseURL(base string) Option {
	return func(s *SpotifyService) { s.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient sets the client underneath the OAuth2 transport.
func WithHTTPClient(c *http.Client) Option {
	return func(s *SpotifyService) { s.baseClient = c }
}

// WithRateLimit caps outgoing requests per second. Zero disables pacing.
func WithRateLimit(rps float64) Option {
	return func(s *SpotifyService) {
		if rps <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxRetries sets how often a rate-limited or failing request is retried.
func WithMaxRetries(n int) Option {
	return func(s *SpotifyService) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(s *SpotifyService) { s.logger = l }
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string, opts ...Option) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-follow-read",
			"playlist-read-private",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	s := &SpotifyService{
		config:     config,
		baseClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(10), 1),
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 configuration for the callback handler.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenRefreshCallback registers fn to receive every token the token source issues after the first.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

// Authenticate accepts either an "access_token" or an "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		return s.OAuthenticate(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(s.clientContext(ctx), authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		return s.OAuthenticate(ctx, token)
	}

	return fmt.Errorf("%w: missing access_token or auth_code in credentials", shared.ErrMissingCredentials)
}

// OAuthenticate installs token. Expired tokens with a refresh token are renewed transparently.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", shared.ErrNotAuthenticated)
	}

	s.token = token
	cctx := s.clientContext(ctx)

	var source oauth2.TokenSource = oauth2.StaticTokenSource(token)
	if token.RefreshToken != "" {
		source = s.config.TokenSource(cctx, token)
	}
	source = &refreshableTokenSource{source: source, last: token.AccessToken, callback: s.refreshed}

	s.httpClient = oauth2.NewClient(cctx, oauth2.ReuseTokenSource(token, source))
	return nil
}

func (s *SpotifyService) refreshed(token *oauth2.Token) {
	s.token = token
	if s.onTokenRefresh != nil {
		s.onTokenRefresh(token)
	}
}

func (s *SpotifyService) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.baseClient)
}

// refreshableTokenSource reports tokens whose access token differs from the last one seen.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	mu       sync.Mutex
	last     string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	r.mu.Unlock()

	if changed && r.callback != nil {
		r.callback(token)
	}
	return token, nil
}

// resolve turns an endpoint or a "next" link into an absolute URL on the API host.
func (s *SpotifyService) resolve(endpoint string) (string, error) {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return s.baseURL + endpoint, nil
	}
	if !strings.HasPrefix(endpoint, s.baseURL+"/") {
		return "", fmt.Errorf("%w: refusing to follow link outside %s: %s", shared.ErrAPIRequest, s.baseURL, endpoint)
	}
	return endpoint, nil
}

// doRequest performs an authenticated request, retrying on 429 and 5xx responses.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.token == nil || s.httpClient == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL, err := s.resolve(endpoint)
	if err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	backoff := s.backoff
	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		retryAfter, err := s.attempt(ctx, method, apiURL, payload, result)
		if err == nil {
			return nil
		}
		if retryAfter < 0 || attempt >= s.maxRetries {
			return err
		}

		wait := backoff
		if retryAfter > 0 {
			wait = retryAfter
		}
		s.logger.Debug("retrying request", "method", method, "url", apiURL, "attempt", attempt+1, "wait", wait, "error", err)

		if err := sleepWithContext(ctx, wait); err != nil {
			return err
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// attempt sends a single request. A non-negative duration marks the error as retriable.
func (s *SpotifyService) attempt(ctx context.Context, method, apiURL string, payload []byte, result any) (time.Duration, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return -1, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return -1, fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
		}
		return -1, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return parseRetryAfter(resp.Header.Get("Retry-After")), fmt.Errorf("%w: %s", shared.ErrRateLimited, apiMessage(resp))
	case resp.StatusCode == http.StatusUnauthorized:
		return -1, fmt.Errorf("%w: %s", shared.ErrTokenExpired, apiMessage(resp))
	case resp.StatusCode >= 500:
		return 0, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, apiMessage(resp))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return -1, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, apiMessage(resp))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return -1, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return 0, nil
}

func apiMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e apiError
	if err := json.Unmarshal(data, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(data))
}

// parseRetryAfter reads a Retry-After header in seconds. Missing or malformed values yield zero.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func checkLimit(limit, ceiling int) error {
	if limit <= 0 || limit > ceiling {
		return fmt.Errorf("%w: limit %d outside 1..%d", shared.ErrInvalidArgument, limit, ceiling)
	}
	return nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	s.logger.Debug("requesting current user")
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FollowedArtists retrieves one cursor page of the artists the user follows. An empty after starts at the beginning.
func (s *SpotifyService) FollowedArtists(ctx context.Context, after string, limit int) (*SpotifyCursorPage[SpotifyArtist], error) {
	if err := checkLimit(limit, MaxListLimit); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("type", "artist")
	q.Set("limit", strconv.Itoa(limit))
	if after != "" {
		q.Set("after", after)
	}

	var response followedArtistsResponse
	s.logger.Debug("requesting page of followed artists", "after", after)
	if err := s.doRequest(ctx, http.MethodGet, "/me/following?"+q.Encode(), nil, &response); err != nil {
		return nil, err
	}
	return &response.Artists, nil
}

// ArtistAlbums retrieves one page of the albums an artist appears on as primary or co-credited artist.
func (s *SpotifyService) ArtistAlbums(ctx context.Context, artistID string, offset, limit int) (*SpotifyPage[SpotifyAlbum], error) {
	if err := checkLimit(limit, MaxListLimit); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/artists/%s/albums?limit=%d&offset=%d", url.PathEscape(artistID), limit, offset)

	var response SpotifyPage[SpotifyAlbum]
	s.logger.Debug("requesting page of artist albums", "artist", artistID, "offset", offset)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SeveralAlbums retrieves full album objects, including their first page of tracks, for up to 20 ids.
// Unknown ids come back as nil entries.
func (s *SpotifyService) SeveralAlbums(ctx context.Context, albumIDs []string) ([]*SpotifyAlbum, error) {
	if len(albumIDs) == 0 {
		return nil, fmt.Errorf("%w: no album IDs provided", shared.ErrInvalidArgument)
	}
	if len(albumIDs) > MaxAlbumBatch {
		return nil, fmt.Errorf("%w: maximum %d album IDs allowed", shared.ErrInvalidArgument, MaxAlbumBatch)
	}

	endpoint := "/albums?ids=" + url.QueryEscape(strings.Join(albumIDs, ","))

	var response severalAlbumsResponse
	s.logger.Debug("requesting batch of full albums", "count", len(albumIDs))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Albums, nil
}

// AlbumTracks retrieves one page of an album's tracks.
func (s *SpotifyService) AlbumTracks(ctx context.Context, albumID string, offset, limit int) (*SpotifyPage[SpotifyTrack], error) {
	if err := checkLimit(limit, MaxListLimit); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/albums/%s/tracks?limit=%d&offset=%d", url.PathEscape(albumID), limit, offset)

	var response SpotifyPage[SpotifyTrack]
	s.logger.Debug("requesting page of album tracks", "album", albumID, "offset", offset)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// NextTracks follows the "next" link of a track page.
func (s *SpotifyService) NextTracks(ctx context.Context, next string) (*SpotifyPage[SpotifyTrack], error) {
	var response SpotifyPage[SpotifyTrack]
	s.logger.Debug("requesting next page of tracks", "url", next)
	if err := s.doRequest(ctx, http.MethodGet, next, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// UserPlaylists retrieves one page of a user's playlists.
func (s *SpotifyService) UserPlaylists(ctx context.Context, userID string, offset, limit int) (*SpotifyPage[SpotifySimplePlaylist], error) {
	if err := checkLimit(limit, MaxListLimit); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/users/%s/playlists?limit=%d&offset=%d", url.PathEscape(userID), limit, offset)

	var response SpotifyPage[SpotifySimplePlaylist]
	s.logger.Debug("requesting page of user playlists", "user", userID, "offset", offset)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// PlaylistItems retrieves one page of a playlist's entries.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string, offset, limit int) (*SpotifyPage[SpotifyPlaylistItem], error) {
	if err := checkLimit(limit, MaxListLimit); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("fields", "href,total,limit,offset,next,previous,items(added_at,track(id,name,is_local,artists(id,name)))")
	endpoint := fmt.Sprintf("/playlists/%s/tracks?%s", url.PathEscape(playlistID), q.Encode())

	var response SpotifyPage[SpotifyPlaylistItem]
	s.logger.Debug("requesting page of playlist items", "playlist", playlistID, "offset", offset)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// CreatePlaylist creates a non-collaborative playlist owned by userID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*SpotifySimplePlaylist, error) {
	body := map[string]any{
		"name":          name,
		"public":        public,
		"collaborative": false,
		"description":   description,
	}

	var playlist SpotifySimplePlaylist
	s.logger.Debug("creating playlist", "name", name, "public", public)
	if err := s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID)), body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// ReplacePlaylistItems replaces the playlist contents with trackIDs in order.
//
// The first 100 ids replace the playlist; the remainder are appended in batches of 100.
// The returned snapshot is the one issued by the final mutation.
func (s *SpotifyService) ReplacePlaylistItems(ctx context.Context, playlistID string, trackIDs []string) (*SpotifySnapshot, error) {
	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = "spotify:track:" + id
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	first := uris[:min(len(uris), maxPlaylistWrite)]

	snapshot := &SpotifySnapshot{}
	s.logger.Debug("replacing playlist items", "playlist", playlistID, "count", len(uris))
	if err := s.doRequest(ctx, http.MethodPut, endpoint, map[string]any{"uris": first}, snapshot); err != nil {
		return nil, err
	}

	for i := maxPlaylistWrite; i < len(uris); i += maxPlaylistWrite {
		batch := uris[i:min(i+maxPlaylistWrite, len(uris))]
		s.logger.Debug("appending playlist items", "playlist", playlistID, "from", i, "count", len(batch))
		appended := &SpotifySnapshot{}
		if err := s.doRequest(ctx, http.MethodPost, endpoint, map[string]any{"uris": batch}, appended); err != nil {
			return nil, fmt.Errorf("adding tracks (batch %d-%d): %w", i+1, i+len(batch), err)
		}
		snapshot = appended
	}

	return snapshot, nil
}
