// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
)

const (
	maxListLimit  = services.MaxListLimit
	maxAlbumBatch = services.MaxAlbumBatch
)

// Write records a playlist replacement made through [FakeCatalog].
type Write struct {
	PlaylistID string
	TrackIDs   []string
}

// FakeCatalog is an in-memory catalog.
//
// It enforces the page-size ceilings of the real service, records every call, and serves
// pages of at most PageSize items when PageSize is set.
type FakeCatalog struct {
	UserID string
	// PageSize caps the items per page below the requested limit.
	PageSize int
	// OmitSnapshot makes playlist replacements return no confirmation.
	OmitSnapshot bool
	// Fail makes the named method return the error.
	Fail map[string]error
	// Hook runs before every call with the method name.
	Hook func(method string)

	mu         sync.Mutex
	artists    []services.SpotifyArtist
	discograph map[string][]string
	albums     map[string]*services.SpotifyAlbum
	albumOrder []string
	playlists  []services.SpotifySimplePlaylist
	items      map[string][]string
	calls      []string
	writes     []Write
	seq        int
}

// NewFakeCatalog creates an empty catalog for userID.
func NewFakeCatalog(userID string) *FakeCatalog {
	return &FakeCatalog{
		UserID:     userID,
		Fail:       map[string]error{},
		discograph: map[string][]string{},
		albums:     map[string]*services.SpotifyAlbum{},
		items:      map[string][]string{},
	}
}

// Artist builds a wire artist.
func Artist(id, name string) services.SpotifyArtist {
	return services.SpotifyArtist{ID: id, Name: name}
}

// Track builds a wire track.
func Track(id, name string, artists ...services.SpotifyArtist) services.SpotifyTrack {
	return services.SpotifyTrack{ID: id, Name: name, Artists: artists}
}

// Album builds a wire album released on a YYYY-MM-DD date.
func Album(id, name, date string, artists ...services.SpotifyArtist) services.SpotifyAlbum {
	return services.SpotifyAlbum{
		ID:                   id,
		Name:                 name,
		AlbumType:            "album",
		Artists:              artists,
		ReleaseDate:          date,
		ReleaseDatePrecision: "day",
	}
}

// YearAlbum builds a wire album whose release date is known only to the year.
func YearAlbum(id, name, year string, artists ...services.SpotifyArtist) services.SpotifyAlbum {
	a := Album(id, name, year, artists...)
	a.ReleaseDatePrecision = "year"
	return a
}

// Follow adds artists to the user's followed artists.
func (f *FakeCatalog) Follow(artists ...services.SpotifyArtist) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.artists = append(f.artists, artists...)
}

// AddAlbum stores an album with its tracks and lists it in the discography of each credited artist.
func (f *FakeCatalog) AddAlbum(album services.SpotifyAlbum, tracks ...services.SpotifyTrack) {
	f.mu.Lock()
	defer f.mu.Unlock()

	album.Tracks = &services.SpotifyPage[services.SpotifyTrack]{Items: tracks, Total: len(tracks)}
	album.TotalTracks = len(tracks)
	f.albums[album.ID] = &album
	f.albumOrder = append(f.albumOrder, album.ID)

	for _, a := range album.Artists {
		f.discograph[a.ID] = append(f.discograph[a.ID], album.ID)
	}
}

// AppearsOn lists an existing album in the discography of an artist it does not credit.
func (f *FakeCatalog) AppearsOn(artistID, albumID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discograph[artistID] = append(f.discograph[artistID], albumID)
}

// AddPlaylist stores a playlist owned by the user and returns its id.
func (f *FakeCatalog) AddPlaylist(name string, trackIDs ...string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addPlaylistLocked(name, trackIDs)
}

func (f *FakeCatalog) addPlaylistLocked(name string, trackIDs []string) string {
	f.seq++
	id := fmt.Sprintf("pl%d", f.seq)
	f.playlists = append(f.playlists, services.SpotifySimplePlaylist{
		ID:    id,
		Name:  name,
		Owner: services.Owner{ID: f.UserID},
	})
	f.items[id] = append([]string{}, trackIDs...)
	return id
}

// PlaylistTrackIDs returns the current contents of a playlist.
func (f *FakeCatalog) PlaylistTrackIDs(playlistID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.items[playlistID]...)
}

// PlaylistNames returns the names of the user's playlists in creation order.
func (f *FakeCatalog) PlaylistNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.playlists))
	for i, p := range f.playlists {
		names[i] = p.Name
	}
	return names
}

// Writes returns every playlist replacement in call order.
func (f *FakeCatalog) Writes() []Write {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Write{}, f.writes...)
}

// Calls returns every recorded call as "Method" or "Method:arg".
func (f *FakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

// CallCount counts recorded calls starting with prefix.
func (f *FakeCatalog) CallCount(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// enter records a call and returns the injected failure, if any. Callers hold no lock.
func (f *FakeCatalog) enter(ctx context.Context, method, arg string) error {
	if f.Hook != nil {
		f.Hook(method)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	call := method
	if arg != "" {
		call += ":" + arg
	}
	f.calls = append(f.calls, call)
	return f.Fail[method]
}

func (f *FakeCatalog) pageSize(limit int) (int, error) {
	if limit <= 0 || limit > maxListLimit {
		return 0, fmt.Errorf("%w: limit %d outside 1..%d", shared.ErrInvalidArgument, limit, maxListLimit)
	}
	if f.PageSize > 0 && f.PageSize < limit {
		return f.PageSize, nil
	}
	return limit, nil
}

func window[T any](all []T, offset, size int) []T {
	if offset >= len(all) {
		return []T{}
	}
	return append([]T{}, all[offset:min(offset+size, len(all))]...)
}

func offsetPage[T any](all []T, offset, limit, size int) *services.SpotifyPage[T] {
	return &services.SpotifyPage[T]{
		Items:  window(all, offset, size),
		Total:  len(all),
		Limit:  limit,
		Offset: offset,
	}
}

func (f *FakeCatalog) CurrentUser(ctx context.Context) (*services.SpotifyUser, error) {
	if err := f.enter(ctx, "CurrentUser", ""); err != nil {
		return nil, err
	}
	return &services.SpotifyUser{ID: f.UserID, DisplayName: f.UserID}, nil
}

func (f *FakeCatalog) FollowedArtists(ctx context.Context, after string, limit int) (*services.SpotifyCursorPage[services.SpotifyArtist], error) {
	if err := f.enter(ctx, "FollowedArtists", after); err != nil {
		return nil, err
	}
	size, err := f.pageSize(limit)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	start := 0
	if after != "" {
		start = -1
		for i, a := range f.artists {
			if a.ID == after {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, fmt.Errorf("%w: unknown cursor %q", shared.ErrAPIRequest, after)
		}
	}

	items := window(f.artists, start, size)
	page := &services.SpotifyCursorPage[services.SpotifyArtist]{
		Items: items,
		Total: len(f.artists),
		Limit: limit,
	}
	if len(items) == size {
		last := items[len(items)-1].ID
		page.Cursors.After = &last
	}
	return page, nil
}

func (f *FakeCatalog) ArtistAlbums(ctx context.Context, artistID string, offset, limit int) (*services.SpotifyPage[services.SpotifyAlbum], error) {
	if err := f.enter(ctx, "ArtistAlbums", artistID); err != nil {
		return nil, err
	}
	size, err := f.pageSize(limit)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var simple []services.SpotifyAlbum
	for _, id := range f.discograph[artistID] {
		a := *f.albums[id]
		a.Tracks = nil
		simple = append(simple, a)
	}
	return offsetPage(simple, offset, limit, size), nil
}

func (f *FakeCatalog) SeveralAlbums(ctx context.Context, albumIDs []string) ([]*services.SpotifyAlbum, error) {
	if err := f.enter(ctx, "SeveralAlbums", strings.Join(albumIDs, ",")); err != nil {
		return nil, err
	}
	if len(albumIDs) == 0 || len(albumIDs) > maxAlbumBatch {
		return nil, fmt.Errorf("%w: %d album ids", shared.ErrInvalidArgument, len(albumIDs))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	size := maxListLimit
	if f.PageSize > 0 {
		size = f.PageSize
	}

	albums := make([]*services.SpotifyAlbum, len(albumIDs))
	for i, id := range albumIDs {
		stored, ok := f.albums[id]
		if !ok {
			continue
		}
		a := *stored
		a.Tracks = f.trackPage(id, 0, size)
		albums[i] = &a
	}
	return albums, nil
}

// trackPage returns a page of an album's tracks with a next link when more remain.
func (f *FakeCatalog) trackPage(albumID string, offset, size int) *services.SpotifyPage[services.SpotifyTrack] {
	all := f.albums[albumID].Tracks.Items
	page := offsetPage(all, offset, size, size)
	if end := offset + len(page.Items); end < len(all) {
		next := fmt.Sprintf("fake://albums/%s/tracks?offset=%d&limit=%d", albumID, end, size)
		page.Next = &next
	}
	return page
}

func (f *FakeCatalog) AlbumTracks(ctx context.Context, albumID string, offset, limit int) (*services.SpotifyPage[services.SpotifyTrack], error) {
	if err := f.enter(ctx, "AlbumTracks", albumID); err != nil {
		return nil, err
	}
	size, err := f.pageSize(limit)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.albums[albumID]; !ok {
		return nil, fmt.Errorf("%w: album %s not found", shared.ErrAPIRequest, albumID)
	}
	return f.trackPage(albumID, offset, size), nil
}

func (f *FakeCatalog) NextTracks(ctx context.Context, next string) (*services.SpotifyPage[services.SpotifyTrack], error) {
	if err := f.enter(ctx, "NextTracks", next); err != nil {
		return nil, err
	}

	var albumID, query string
	rest, ok := strings.CutPrefix(next, "fake://albums/")
	if ok {
		albumID, query, ok = strings.Cut(rest, "/tracks?")
	}
	if !ok {
		return nil, fmt.Errorf("%w: bad next link %q", shared.ErrAPIRequest, next)
	}

	var offset, size int
	for _, kv := range strings.Split(query, "&") {
		k, v, _ := strings.Cut(kv, "=")
		n, _ := strconv.Atoi(v)
		switch k {
		case "offset":
			offset = n
		case "limit":
			size = n
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.albums[albumID]; !ok {
		return nil, fmt.Errorf("%w: album %s not found", shared.ErrAPIRequest, albumID)
	}
	return f.trackPage(albumID, offset, size), nil
}

func (f *FakeCatalog) UserPlaylists(ctx context.Context, userID string, offset, limit int) (*services.SpotifyPage[services.SpotifySimplePlaylist], error) {
	if err := f.enter(ctx, "UserPlaylists", strconv.Itoa(offset)); err != nil {
		return nil, err
	}
	size, err := f.pageSize(limit)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	all := make([]services.SpotifySimplePlaylist, len(f.playlists))
	for i, p := range f.playlists {
		p.Tracks.Total = len(f.items[p.ID])
		all[i] = p
	}
	return offsetPage(all, offset, limit, size), nil
}

func (f *FakeCatalog) PlaylistItems(ctx context.Context, playlistID string, offset, limit int) (*services.SpotifyPage[services.SpotifyPlaylistItem], error) {
	if err := f.enter(ctx, "PlaylistItems", playlistID); err != nil {
		return nil, err
	}
	size, err := f.pageSize(limit)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ids, ok := f.items[playlistID]
	if !ok {
		return nil, fmt.Errorf("%w: playlist %s not found", shared.ErrAPIRequest, playlistID)
	}

	items := make([]services.SpotifyPlaylistItem, len(ids))
	for i, id := range ids {
		if id == "" {
			continue
		}
		items[i] = services.SpotifyPlaylistItem{Track: &services.SpotifyTrack{ID: id}}
	}
	return offsetPage(items, offset, limit, size), nil
}

func (f *FakeCatalog) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*services.SpotifySimplePlaylist, error) {
	if err := f.enter(ctx, "CreatePlaylist", name); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.addPlaylistLocked(name, nil)
	for i, p := range f.playlists {
		if p.ID == id {
			p.Description = description
			p.Public = public
			f.playlists[i] = p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("playlist %s vanished", id)
}

// PlaylistPublic reports the visibility a playlist was created with.
func (f *FakeCatalog) PlaylistPublic(playlistID string) (public, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.playlists {
		if p.ID == playlistID {
			return p.Public, true
		}
	}
	return false, false
}

func (f *FakeCatalog) ReplacePlaylistItems(ctx context.Context, playlistID string, trackIDs []string) (*services.SpotifySnapshot, error) {
	if err := f.enter(ctx, "ReplacePlaylistItems", playlistID); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[playlistID]; !ok {
		return nil, fmt.Errorf("%w: playlist %s not found", shared.ErrAPIRequest, playlistID)
	}

	ids := append([]string{}, trackIDs...)
	f.items[playlistID] = ids
	f.writes = append(f.writes, Write{PlaylistID: playlistID, TrackIDs: ids})

	if f.OmitSnapshot {
		return &services.SpotifySnapshot{}, nil
	}
	f.seq++
	return &services.SpotifySnapshot{SnapshotID: fmt.Sprintf("snap%d", f.seq)}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
