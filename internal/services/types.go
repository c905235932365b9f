package services

// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	Product     string    `json:"product"` // premium, free, etc.
	Followers   followers `json:"followers"`
}

// SpotifyArtist represents a Spotify artist. Popularity is only present on full artist objects.
type SpotifyArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Popularity *int     `json:"popularity,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	URI        string   `json:"uri"`
}

// SpotifyTrack represents a simplified Spotify track as embedded in albums and playlists.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	DurationMS  int             `json:"duration_ms"`
	TrackNumber int             `json:"track_number"`
	IsLocal     bool            `json:"is_local"`
	URI         string          `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
//
// Tracks is only populated by the several-albums lookup.
type SpotifyAlbum struct {
	ID                   string                     `json:"id"`
	Name                 string                     `json:"name"`
	AlbumType            string                     `json:"album_type"`
	Artists              []SpotifyArtist            `json:"artists"`
	ReleaseDate          string                     `json:"release_date"`
	ReleaseDatePrecision string                     `json:"release_date_precision"`
	TotalTracks          int                        `json:"total_tracks"`
	URI                  string                     `json:"uri"`
	Tracks               *SpotifyPage[SpotifyTrack] `json:"tracks,omitempty"`
}

// SpotifyPage is an offset-paginated listing.
type SpotifyPage[T any] struct {
	Href     string  `json:"href"`
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// SpotifyCursors holds the continuation tokens of a cursor-paginated listing.
type SpotifyCursors struct {
	After  *string `json:"after"`
	Before *string `json:"before,omitempty"`
}

// SpotifyCursorPage is a cursor-paginated listing (used for followed artists).
type SpotifyCursorPage[T any] struct {
	Href    string         `json:"href"`
	Items   []T            `json:"items"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Next    *string        `json:"next"`
	Cursors SpotifyCursors `json:"cursors"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type simplePlaylistTrack struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists and creation responses).
type SpotifySimplePlaylist struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Owner       Owner               `json:"owner"`
	Public      bool                `json:"public"`
	SnapshotID  string              `json:"snapshot_id"`
	Tracks      simplePlaylistTrack `json:"tracks"`
	URI         string              `json:"uri"`
}

// SpotifyPlaylistItem is a playlist entry. Track is nil for removed or unavailable items.
type SpotifyPlaylistItem struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifySnapshot is returned by playlist mutations; SnapshotID confirms the change.
type SpotifySnapshot struct {
	SnapshotID string `json:"snapshot_id"`
}

type followedArtistsResponse struct {
	Artists SpotifyCursorPage[SpotifyArtist] `json:"artists"`
}

type severalAlbumsResponse struct {
	Albums []*SpotifyAlbum `json:"albums"`
}

type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
