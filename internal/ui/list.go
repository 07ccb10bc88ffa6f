package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/tvx/internal/models"
)

var (
	_ list.Item = genreItem{}
	_ list.Item = showItem{}
)

// genreItem is one genre bucket of the current page.
type genreItem struct {
	name  string
	count int
}

func (i genreItem) FilterValue() string { return i.name }
func (i genreItem) Title() string       { return i.name }
func (i genreItem) Description() string {
	if i.count == 1 {
		return "1 show"
	}
	return fmt.Sprintf("%d shows", i.count)
}

// showItem wraps [models.Show] to implement [list.Item].
type showItem struct {
	show models.Show
}

func (i showItem) FilterValue() string { return i.show.Name }
func (i showItem) Title() string       { return i.show.Name }
func (i showItem) Description() string {
	parts := []string{"★ " + i.show.RatingString()}
	if year, _, ok := strings.Cut(i.show.PremieredString(), "-"); ok {
		parts = append(parts, year)
	}
	if channel := i.show.Channel(); channel != "" {
		parts = append(parts, channel)
	}
	if len(i.show.Genres) > 0 {
		parts = append(parts, strings.Join(i.show.Genres, ", "))
	}
	return strings.Join(parts, " • ")
}

func genreItems(grouped models.GroupedShows) []list.Item {
	genres := grouped.Genres()
	items := make([]list.Item, len(genres))
	for i, name := range genres {
		items[i] = genreItem{name: name, count: len(grouped[name])}
	}
	return items
}

func showItems(shows []models.Show) []list.Item {
	items := make([]list.Item, len(shows))
	for i, s := range shows {
		items[i] = showItem{show: s}
	}
	return items
}

func newList(items []list.Item, title string, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return l
}
