package catalog

import (
	"context"

	"github.com/desertthunder/radar/internal/services"
)

const (
	// MaxPageSize is the page-size ceiling for simple listings.
	MaxPageSize = services.MaxListLimit
	// MaxBatchSize is the ceiling for batched full-detail album lookups.
	MaxBatchSize = services.MaxAlbumBatch
)

// PageFunc retrieves one offset-paginated page.
type PageFunc[T any] func(ctx context.Context, offset, limit int) (*services.SpotifyPage[T], error)

// CursorFunc retrieves one cursor-paginated page. An empty after requests the first page.
type CursorFunc[T any] func(ctx context.Context, after string, limit int) (*services.SpotifyCursorPage[T], error)

// Scan walks an offset-paginated listing from offset 0 and calls visit for every item in order.
// Returning false from visit ends the walk without requesting further pages.
func Scan[T any](ctx context.Context, op string, fetch PageFunc[T], visit func(T) bool) error {
	offset, total := 0, -1

	for total < 0 || offset < total {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := fetch(ctx, offset, MaxPageSize)
		if err != nil {
			return err
		}
		if page == nil {
			return malformed(op, "missing page")
		}

		switch {
		case len(page.Items) > MaxPageSize:
			return violation(op, "page of %d items exceeds ceiling %d", len(page.Items), MaxPageSize)
		case page.Limit > MaxPageSize:
			return violation(op, "page limit %d exceeds ceiling %d", page.Limit, MaxPageSize)
		case total >= 0 && page.Total != total:
			return violation(op, "total changed from %d to %d", total, page.Total)
		}
		total = page.Total

		if len(page.Items) == 0 && offset < total {
			return violation(op, "empty page at offset %d of %d", offset, total)
		}

		for _, item := range page.Items {
			if !visit(item) {
				return nil
			}
		}
		offset += len(page.Items)
	}

	return nil
}

// Collect returns every item of an offset-paginated listing in server order.
func Collect[T any](ctx context.Context, op string, fetch PageFunc[T]) ([]T, error) {
	var items []T
	err := Scan(ctx, op, fetch, func(item T) bool {
		items = append(items, item)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CollectCursor returns every item of a cursor-paginated listing in server order.
//
// After each page the returned cursor must equal the id of the page's last item, or be null
// when the page was not full.
func CollectCursor[T any](ctx context.Context, op string, fetch CursorFunc[T], idOf func(T) string) ([]T, error) {
	var (
		items []T
		after string
		total = -1
	)

	for total < 0 || len(items) < total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := fetch(ctx, after, MaxPageSize)
		if err != nil {
			return nil, err
		}
		if page == nil {
			return nil, malformed(op, "missing page")
		}

		switch {
		case len(page.Items) > MaxPageSize:
			return nil, violation(op, "page of %d items exceeds ceiling %d", len(page.Items), MaxPageSize)
		case page.Limit > MaxPageSize:
			return nil, violation(op, "page limit %d exceeds ceiling %d", page.Limit, MaxPageSize)
		case total >= 0 && page.Total != total:
			return nil, violation(op, "total changed from %d to %d", total, page.Total)
		}
		total = page.Total

		cursor := page.Cursors.After
		if cursor == nil {
			if len(page.Items) >= MaxPageSize {
				return nil, violation(op, "null cursor after a full page")
			}
		} else if len(page.Items) == 0 || *cursor != idOf(page.Items[len(page.Items)-1]) {
			return nil, violation(op, "cursor %q does not match the last item of the page", *cursor)
		}

		items = append(items, page.Items...)

		if len(items) < total {
			if len(page.Items) == 0 {
				return nil, violation(op, "empty page after %d of %d items", len(items), total)
			}
			if cursor == nil {
				return nil, violation(op, "cursor exhausted after %d of %d items", len(items), total)
			}
			after = *cursor
		}
	}

	return items, nil
}
