// package formatter renders discovery results and playlist listings as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/radar/internal/catalog"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/tasks"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const dateLayout = "2006-01-02"

// Format selects an output format.
type Format string

const (
	Text     Format = "text"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// Formats lists the accepted format names.
var Formats = []Format{Text, CSV, Markdown, JSON}

// ParseFormat maps a flag value to a [Format]. "md" and "txt" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// AlbumRow is one album of a new-album listing.
type AlbumRow struct {
	Artist      string `json:"artist"`
	ArtistID    string `json:"artist_id"`
	Album       string `json:"album"`
	AlbumID     string `json:"album_id"`
	Type        string `json:"type,omitempty"`
	ReleaseDate string `json:"release_date"`
}

// ReleaseRow is one track of a release list.
type ReleaseRow struct {
	Position    int    `json:"position"`
	TrackID     string `json:"track_id"`
	Track       string `json:"track"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	ReleaseDate string `json:"release_date"`
}

// AlbumRows flattens a new-album listing.
func AlbumRows(groups []tasks.ArtistAlbums) []AlbumRow {
	var rows []AlbumRow
	for _, g := range groups {
		for _, a := range g.Albums {
			rows = append(rows, AlbumRow{
				Artist:      g.Artist.Name,
				ArtistID:    g.Artist.ID,
				Album:       a.Name,
				AlbumID:     a.ID,
				Type:        a.Type,
				ReleaseDate: a.ReleaseDate.Format(dateLayout),
			})
		}
	}
	return rows
}

// ReleaseRows numbers releases in order.
func ReleaseRows(releases []tasks.Release) []ReleaseRow {
	rows := make([]ReleaseRow, len(releases))
	for i, r := range releases {
		rows[i] = ReleaseRow{
			Position:    i + 1,
			TrackID:     r.Track.ID,
			Track:       r.Track.Name,
			Artist:      r.Artist.Name,
			Album:       r.Album.Name,
			ReleaseDate: r.Album.ReleaseDate.Format(dateLayout),
		}
	}
	return rows
}

func writeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderAlbums renders a new-album listing grouped by artist.
// Artists without new albums are listed with no entries in text and Markdown output.
func RenderAlbums(f Format, groups []tasks.ArtistAlbums) ([]byte, error) {
	switch f {
	case CSV:
		rows := AlbumRows(groups)
		records := make([][]string, len(rows))
		for i, r := range rows {
			records[i] = []string{r.Artist, r.ArtistID, r.Album, r.AlbumID, r.ReleaseDate}
		}
		return writeCSV([]string{"Artist", "ArtistID", "Album", "AlbumID", "ReleaseDate"}, records)

	case JSON:
		rows := AlbumRows(groups)
		if rows == nil {
			rows = []AlbumRow{}
		}
		return shared.MarshalJSON(rows, true)

	case Markdown:
		var buf bytes.Buffer
		buf.WriteString("# New Albums\n\n")
		for _, g := range groups {
			fmt.Fprintf(&buf, "## %s\n\n", g.Artist.Name)
			for _, a := range g.Albums {
				fmt.Fprintf(&buf, "- %s %s\n", a.ReleaseDate.Format(dateLayout), a.Name)
			}
			if len(g.Albums) > 0 {
				buf.WriteString("\n")
			}
		}
		return buf.Bytes(), nil

	case Text:
		var buf bytes.Buffer
		for _, g := range groups {
			fmt.Fprintf(&buf, "%s:\n", g.Artist.Name)
			for _, a := range g.Albums {
				fmt.Fprintf(&buf, "%s %s\n", a.ReleaseDate.Format(dateLayout), a.Name)
			}
			buf.WriteString("\n")
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
}

// RenderReleases renders an ordered release list under title.
func RenderReleases(f Format, title string, releases []tasks.Release) ([]byte, error) {
	rows := ReleaseRows(releases)

	switch f {
	case CSV:
		records := make([][]string, len(rows))
		for i, r := range rows {
			records[i] = []string{strconv.Itoa(r.Position), r.TrackID, r.Track, r.Artist, r.Album, r.ReleaseDate}
		}
		return writeCSV([]string{"Position", "TrackID", "Track", "Artist", "Album", "ReleaseDate"}, records)

	case JSON:
		return shared.MarshalJSON(rows, true)

	case Markdown:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "# %s\n\n", title)
		fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(rows))
		buf.WriteString("## Tracks\n\n")
		for _, r := range rows {
			fmt.Fprintf(&buf, "%d. %s - %s (%s) [%s]\n", r.Position, r.Artist, r.Track, r.Album, r.ReleaseDate)
		}
		return buf.Bytes(), nil

	case Text:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "Playlist: %s\n", title)
		fmt.Fprintf(&buf, "Tracks: %d\n\n", len(rows))
		for _, r := range rows {
			fmt.Fprintf(&buf, "%d. %s %s - %s\n", r.Position, r.ReleaseDate, r.Artist, r.Track)
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
}

// RenderPlaylists renders the user's playlist library.
func RenderPlaylists(f Format, playlists []catalog.Summary) ([]byte, error) {
	switch f {
	case CSV:
		records := make([][]string, len(playlists))
		for i, p := range playlists {
			records[i] = []string{p.ID, p.Name, p.Owner, strconv.Itoa(p.TrackCount), visibility(p.Public)}
		}
		return writeCSV([]string{"ID", "Name", "Owner", "Tracks", "Visibility"}, records)

	case JSON:
		if playlists == nil {
			playlists = []catalog.Summary{}
		}
		return shared.MarshalJSON(playlists, true)

	case Markdown:
		var buf bytes.Buffer
		buf.WriteString("| Name | Tracks | Visibility | ID |\n|---|---|---|---|\n")
		for _, p := range playlists {
			fmt.Fprintf(&buf, "| %s | %d | %s | %s |\n", p.Name, p.TrackCount, visibility(p.Public), p.ID)
		}
		return buf.Bytes(), nil

	case Text:
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Name", "Tracks", "Visibility", "ID"})
		for _, p := range playlists {
			tw.AppendRow(table.Row{p.Name, p.TrackCount, visibility(p.Public), p.ID})
		}
		tw.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		})
		return []byte(tw.Render() + "\n"), nil
	}

	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
}

func visibility(public bool) string {
	if public {
		return "Public"
	}
	return "Private"
}

// WriteExport writes data to path, creating parent directories, or to w when path is empty.
func WriteExport(data []byte, path string, w io.Writer) error {
	if path == "" {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
