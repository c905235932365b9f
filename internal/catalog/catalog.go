package catalog

import (
	"context"

	"github.com/desertthunder/radar/internal/services"
)

// Catalog is the remote catalog capability.
type Catalog interface {
	CurrentUser(ctx context.Context) (*services.SpotifyUser, error)
	FollowedArtists(ctx context.Context, after string, limit int) (*services.SpotifyCursorPage[services.SpotifyArtist], error)
	ArtistAlbums(ctx context.Context, artistID string, offset, limit int) (*services.SpotifyPage[services.SpotifyAlbum], error)
	SeveralAlbums(ctx context.Context, albumIDs []string) ([]*services.SpotifyAlbum, error)
	AlbumTracks(ctx context.Context, albumID string, offset, limit int) (*services.SpotifyPage[services.SpotifyTrack], error)
	NextTracks(ctx context.Context, next string) (*services.SpotifyPage[services.SpotifyTrack], error)
	UserPlaylists(ctx context.Context, userID string, offset, limit int) (*services.SpotifyPage[services.SpotifySimplePlaylist], error)
	PlaylistItems(ctx context.Context, playlistID string, offset, limit int) (*services.SpotifyPage[services.SpotifyPlaylistItem], error)
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*services.SpotifySimplePlaylist, error)
	ReplacePlaylistItems(ctx context.Context, playlistID string, trackIDs []string) (*services.SpotifySnapshot, error)
}

var _ Catalog = (*services.SpotifyService)(nil)

// CurrentUserID returns the id of the authenticated user.
func CurrentUserID(ctx context.Context, c Catalog) (string, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if user == nil || user.ID == "" {
		return "", malformed("current user", "missing id")
	}
	return user.ID, nil
}
