package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/radar/internal/tasks"
)

var (
	_ list.Item = releaseItem{}
)

// releaseItem wraps [tasks.Release] to implement [list.Item].
type releaseItem struct {
	release tasks.Release
}

func (i releaseItem) FilterValue() string {
	return i.release.Artist.Name + " " + i.release.Track.Name
}

func (i releaseItem) Title() string { return i.release.Track.Name }

func (i releaseItem) Description() string {
	return fmt.Sprintf("%s • %s • %s",
		i.release.Artist.Name,
		i.release.Album.Name,
		i.release.Album.ReleaseDate.Format("2006-01-02"),
	)
}

// newReleaseList builds the release browser with the palette applied to titles and selection.
func newReleaseList(releases []tasks.Release, title string) list.Model {
	items := make([]list.Item, len(releases))
	for i, r := range releases {
		items[i] = releaseItem{release: r}
	}

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(styles.heading.GetForeground()).BorderForeground(styles.heading.GetForeground())
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(styles.detail.GetForeground()).BorderForeground(styles.heading.GetForeground())

	l := list.New(items, d, 0, 0)
	l.Title = title
	l.Styles.Title = styles.heading.UnsetMarginBottom().Padding(0, 1)
	return l
}
