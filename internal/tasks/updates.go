package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchArtists Phase = iota
	FetchAlbums
	Discovered
	ResolvePlaylist
	CreatePlaylist
	FetchPlaylist
	Compute
	WritePlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchArtists:
		return "fetch_artists"
	case FetchAlbums:
		return "fetch_albums"
	case Discovered:
		return "discovered"
	case ResolvePlaylist:
		return "resolve_playlist"
	case CreatePlaylist:
		return "create_playlist"
	case FetchPlaylist:
		return "fetch_playlist"
	case Compute:
		return "compute"
	case WritePlaylist:
		return "write_playlist"
	default:
		return ""
	}
}

func fetchArtistsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtists,
		Step:    1,
		Total:   1,
		Message: "Fetching followed artists...",
	}
}

func fetchAlbumsUpdate(step, total int, artist string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAlbums,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Checking releases of %s...", step, total, artist),
	}
}

func discoveredUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Discovered,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d new tracks", count),
		Data:    count,
	}
}

func resolvePlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking up playlist %s...", name),
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %s...", name),
	}
}

func fetchPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Reading playlist %s...", step, total, name),
	}
}

func computeUpdate(op Operator, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compute,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Computed %s: %d tracks", op, count),
		Data:    count,
	}
}

func writePlaylistUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WritePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %d tracks to %s...", count, name),
	}
}
