package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/radar/internal/catalog"
	"github.com/desertthunder/radar/internal/shared"
)

// Operator selects the set operation.
type Operator int

const (
	Union Operator = iota
	Intersection
)

func (o Operator) String() string {
	switch o {
	case Union:
		return "union"
	case Intersection:
		return "intersection"
	default:
		return ""
	}
}

// ParseOperator parses "union" or "intersection".
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "union":
		return Union, nil
	case "intersection":
		return Intersection, nil
	default:
		return 0, fmt.Errorf("%w: unknown set operation %q", shared.ErrInvalidArgument, s)
	}
}

// Apply folds the sets left to right.
func (o Operator) Apply(sets []*catalog.TrackSet) *catalog.TrackSet {
	if len(sets) == 0 {
		return catalog.NewTrackSet()
	}

	result := sets[0]
	for _, s := range sets[1:] {
		switch o {
		case Intersection:
			result = result.Intersect(s)
		default:
			result = result.Union(s)
		}
	}
	return result
}

// SetOperation combines the tracks of the input playlists and writes them to output.
//
// Every input must exist; a missing input aborts the operation before anything is created or written.
// The output playlist is created when absent.
func (e *Engine) SetOperation(ctx context.Context, op Operator, inputs []string, output string, progress chan<- ProgressUpdate) (*SetOperationResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one input playlist is required", shared.ErrMissingArgument)
	}
	if output == "" {
		return nil, fmt.Errorf("%w: result playlist name is required", shared.ErrMissingArgument)
	}

	userID, err := e.userID(ctx)
	if err != nil {
		return nil, err
	}

	result := &SetOperationResult{Operator: op}
	sets := make([]*catalog.TrackSet, 0, len(inputs))

	for i, name := range inputs {
		e.sendProgress(progress, fetchPlaylistUpdate(i+1, len(inputs), name))

		playlist, err := catalog.FindPlaylist(ctx, e.catalog, userID, name)
		if err != nil {
			return nil, err
		}

		tracks, err := playlist.Tracks(ctx, e.catalog)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("read playlist", "name", name, "tracks", len(tracks))

		result.Inputs = append(result.Inputs, playlist)
		sets = append(sets, catalog.NewTrackSet(tracks...))
	}

	combined := op.Apply(sets)
	e.sendProgress(progress, computeUpdate(op, combined.Len()))

	target, created, err := e.resolveOrCreate(ctx, userID, output, progress)
	if err != nil {
		return nil, err
	}

	result.Output = target
	result.Created = created
	result.Tracks = combined.Tracks()

	result.SnapshotID, result.Confirmed, err = e.write(ctx, target, result.Tracks, progress)
	if err != nil {
		return nil, err
	}
	if result.Confirmed {
		e.logger.Info("wrote playlist", "operation", op, "name", output, "tracks", len(result.Tracks))
	}
	return result, nil
}
