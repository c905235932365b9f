package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/radar/internal/services"
)

// partitioned serves items in pages of the given sizes, ignoring the requested limit.
func partitioned(items []int, sizes []int, requests *int) PageFunc[int] {
	return func(ctx context.Context, offset, limit int) (*services.SpotifyPage[int], error) {
		page := *requests
		*requests++
		if page >= len(sizes) {
			return nil, fmt.Errorf("unexpected request %d at offset %d", page, offset)
		}
		return &services.SpotifyPage[int]{
			Items:  items[offset : offset+sizes[page]],
			Total:  len(items),
			Limit:  limit,
			Offset: offset,
		}, nil
	}
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestCollect(t *testing.T) {
	items := seq(100)

	t.Run("returns every item in order regardless of partition", func(t *testing.T) {
		tests := []struct {
			name  string
			sizes []int
		}{
			{name: "two full pages", sizes: []int{50, 50}},
			{name: "uneven pages", sizes: []int{1, 49, 13, 37}},
			{name: "short first page", sizes: []int{10, 50, 40}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				requests := 0
				got, err := Collect(context.Background(), "test", partitioned(items, tt.sizes, &requests))
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if len(got) != len(items) {
					t.Fatalf("expected %d items, got %d", len(items), len(got))
				}
				for i := range got {
					if got[i] != i {
						t.Fatalf("item %d out of order: %d", i, got[i])
					}
				}
				if requests != len(tt.sizes) {
					t.Errorf("expected %d requests, got %d", len(tt.sizes), requests)
				}
			})
		}
	})

	t.Run("one page of N equals N pages of one", func(t *testing.T) {
		small := seq(7)
		ones := []int{1, 1, 1, 1, 1, 1, 1}

		a, b := 0, 0
		whole, err := Collect(context.Background(), "test", partitioned(small, []int{7}, &a))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		single, err := Collect(context.Background(), "test", partitioned(small, ones, &b))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if fmt.Sprint(whole) != fmt.Sprint(single) {
			t.Errorf("expected equal results, got %v and %v", whole, single)
		}
	})

	t.Run("empty listing makes one request", func(t *testing.T) {
		requests := 0
		got, err := Collect(context.Background(), "test", partitioned(nil, []int{0}, &requests))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 || requests != 1 {
			t.Errorf("expected empty result after one request, got %v after %d", got, requests)
		}
	})

	t.Run("requests never exceed the ceiling", func(t *testing.T) {
		fetch := func(ctx context.Context, offset, limit int) (*services.SpotifyPage[int], error) {
			if limit > MaxPageSize {
				t.Errorf("requested limit %d", limit)
			}
			end := min(offset+limit, len(items))
			return &services.SpotifyPage[int]{Items: items[offset:end], Total: len(items), Limit: limit}, nil
		}
		if _, err := Collect(context.Background(), "test", fetch); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("protocol violations", func(t *testing.T) {
		tests := []struct {
			name  string
			pages []*services.SpotifyPage[int]
		}{
			{
				name:  "oversized page",
				pages: []*services.SpotifyPage[int]{{Items: seq(51), Total: 60, Limit: 50}},
			},
			{
				name:  "oversized limit",
				pages: []*services.SpotifyPage[int]{{Items: seq(10), Total: 10, Limit: 100}},
			},
			{
				name: "total changes",
				pages: []*services.SpotifyPage[int]{
					{Items: seq(50), Total: 60, Limit: 50},
					{Items: seq(5), Total: 55, Limit: 50},
				},
			},
			{
				name:  "empty page before total",
				pages: []*services.SpotifyPage[int]{{Items: []int{}, Total: 3, Limit: 50}},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				i := 0
				fetch := func(ctx context.Context, offset, limit int) (*services.SpotifyPage[int], error) {
					if i >= len(tt.pages) {
						t.Fatalf("unexpected request %d", i)
					}
					p := tt.pages[i]
					i++
					return p, nil
				}

				_, err := Collect(context.Background(), "test", fetch)
				if !errors.Is(err, ErrProtocolViolation) {
					t.Fatalf("expected ErrProtocolViolation, got %v", err)
				}
				var perr *ProtocolError
				if !errors.As(err, &perr) || perr.Op != "test" {
					t.Errorf("expected ProtocolError for op test, got %#v", err)
				}
			})
		}
	})

	t.Run("fetch errors propagate", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Collect(context.Background(), "test", func(ctx context.Context, offset, limit int) (*services.SpotifyPage[int], error) {
			return nil, boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})

	t.Run("cancellation stops before the next request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		requests := 0
		fetch := func(ctx context.Context, offset, limit int) (*services.SpotifyPage[int], error) {
			requests++
			cancel()
			return &services.SpotifyPage[int]{Items: items[offset : offset+50], Total: len(items), Limit: 50}, nil
		}

		_, err := Collect(ctx, "test", fetch)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if requests != 1 {
			t.Errorf("expected 1 request, got %d", requests)
		}
	})
}

func TestScan(t *testing.T) {
	t.Run("stops requesting once visit returns false", func(t *testing.T) {
		requests := 0
		var seen []int
		err := Scan(context.Background(), "test", partitioned(seq(100), []int{50, 50}, &requests), func(i int) bool {
			seen = append(seen, i)
			return i < 10
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if requests != 1 || len(seen) != 11 {
			t.Errorf("expected 1 request and 11 visits, got %d and %d", requests, len(seen))
		}
	})
}

type item struct{ id string }

// cursorPages serves k items through a cursor listing of pages of size p.
func cursorPages(k, p int, requests *int) CursorFunc[item] {
	all := make([]item, k)
	for i := range all {
		all[i] = item{id: fmt.Sprintf("a%d", i)}
	}
	return func(ctx context.Context, after string, limit int) (*services.SpotifyCursorPage[item], error) {
		*requests++
		start := 0
		if after != "" {
			fmt.Sscanf(after, "a%d", &start)
			start++
		}
		end := min(start+p, k)
		page := &services.SpotifyCursorPage[item]{Items: all[start:end], Total: k, Limit: limit}
		if end-start == p {
			last := all[end-1].id
			page.Cursors.After = &last
		}
		return page, nil
	}
}

func TestCollectCursor(t *testing.T) {
	idOf := func(i item) string { return i.id }

	t.Run("requests ceil(K/P) pages", func(t *testing.T) {
		tests := []struct{ k, p, pages int }{
			{k: 0, p: 50, pages: 1},
			{k: 7, p: 50, pages: 1},
			{k: 120, p: 50, pages: 3},
			{k: 10, p: 3, pages: 4},
			{k: 100, p: 50, pages: 2},
		}

		for _, tt := range tests {
			t.Run(fmt.Sprintf("K=%d P=%d", tt.k, tt.p), func(t *testing.T) {
				requests := 0
				got, err := CollectCursor(context.Background(), "test", cursorPages(tt.k, tt.p, &requests), idOf)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if len(got) != tt.k {
					t.Errorf("expected %d items, got %d", tt.k, len(got))
				}
				if requests != tt.pages {
					t.Errorf("expected %d requests, got %d", tt.pages, requests)
				}
				for i, it := range got {
					if it.id != fmt.Sprintf("a%d", i) {
						t.Fatalf("item %d out of order: %s", i, it.id)
					}
				}
			})
		}
	})

	t.Run("cursor violations", func(t *testing.T) {
		wrong := "a0"
		full := make([]item, MaxPageSize)
		for i := range full {
			full[i] = item{id: fmt.Sprintf("a%d", i)}
		}

		tests := []struct {
			name string
			page *services.SpotifyCursorPage[item]
		}{
			{
				name: "cursor is not the last id",
				page: &services.SpotifyCursorPage[item]{
					Items:   []item{{"a0"}, {"a1"}},
					Total:   5,
					Cursors: services.SpotifyCursors{After: &wrong},
				},
			},
			{
				name: "null cursor after full page",
				page: &services.SpotifyCursorPage[item]{Items: full, Total: 80},
			},
			{
				name: "null cursor before total",
				page: &services.SpotifyCursorPage[item]{Items: []item{{"a0"}}, Total: 5},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				requests := 0
				fetch := func(ctx context.Context, after string, limit int) (*services.SpotifyCursorPage[item], error) {
					requests++
					if requests > 1 {
						t.Fatal("no further request expected")
					}
					return tt.page, nil
				}

				_, err := CollectCursor(context.Background(), "test", fetch, idOf)
				if !errors.Is(err, ErrProtocolViolation) {
					t.Errorf("expected ErrProtocolViolation, got %v", err)
				}
			})
		}
	})

	t.Run("total change is fatal", func(t *testing.T) {
		requests := 0
		inner := cursorPages(10, 5, &requests)
		fetch := func(ctx context.Context, after string, limit int) (*services.SpotifyCursorPage[item], error) {
			page, err := inner(ctx, after, limit)
			if after != "" {
				page.Total = 11
			}
			return page, err
		}

		_, err := CollectCursor(context.Background(), "test", fetch, idOf)
		if !errors.Is(err, ErrProtocolViolation) {
			t.Errorf("expected ErrProtocolViolation, got %v", err)
		}
	})
}
