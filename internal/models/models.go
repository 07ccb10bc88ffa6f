package models

import (
	"errors"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// UncategorizedGenre is the bucket for shows that list no genres.
const UncategorizedGenre = "Uncategorized"

// ErrEmptyQuery is returned when a history entry has no query text.
var ErrEmptyQuery = errors.New("query cannot be empty")

// Model defines the base interface for persisted records.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	List(criteria map[string]any) ([]T, error)
}

type Image struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// Rating holds the community average; nil when TVmaze has no votes.
type Rating struct {
	Average *float64 `json:"average"`
}

type Country struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Timezone string `json:"timezone"`
}

type Network struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Country      *Country `json:"country"`
	OfficialSite *string  `json:"officialSite"`
}

type WebChannel struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Country      *Country `json:"country"`
	OfficialSite *string  `json:"officialSite"`
}

type Externals struct {
	TVRage  *int    `json:"tvrage"`
	TheTVDB *int    `json:"thetvdb"`
	IMDB    *string `json:"imdb"`
}

type Schedule struct {
	Time string   `json:"time"`
	Days []string `json:"days"`
}

type Link struct {
	Href string `json:"href"`
}

type Links struct {
	Self            Link  `json:"self"`
	PreviousEpisode *Link `json:"previousepisode,omitempty"`
	NextEpisode     *Link `json:"nextepisode,omitempty"`
}

// Show is the basic catalogue entry used in listings and search results.
type Show struct {
	ID             int         `json:"id"`
	URL            string      `json:"url"`
	Name           string      `json:"name"`
	Type           string      `json:"type"`
	Language       string      `json:"language"`
	Genres         []string    `json:"genres"`
	Status         string      `json:"status"`
	Runtime        *int        `json:"runtime"`
	AverageRuntime *int        `json:"averageRuntime"`
	Premiered      *string     `json:"premiered"`
	Ended          *string     `json:"ended"`
	OfficialSite   *string     `json:"officialSite"`
	Schedule       Schedule    `json:"schedule"`
	Rating         Rating      `json:"rating"`
	Weight         int         `json:"weight"`
	Network        *Network    `json:"network"`
	WebChannel     *WebChannel `json:"webChannel"`
	Externals      Externals   `json:"externals"`
	Image          *Image      `json:"image"`
	Summary        *string     `json:"summary"`
	Updated        int64       `json:"updated"`
	Links          Links       `json:"_links"`
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PlainSummary returns the summary with HTML tags stripped and entities unescaped.
func (s Show) PlainSummary() string {
	if s.Summary == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(*s.Summary, "")))
}

// RatingString formats the average rating, or "-" when unrated.
func (s Show) RatingString() string {
	if s.Rating.Average == nil {
		return "-"
	}
	return strconv.FormatFloat(*s.Rating.Average, 'f', 1, 64)
}

// PremieredString returns the premiere date or an empty string.
func (s Show) PremieredString() string {
	if s.Premiered == nil {
		return ""
	}
	return *s.Premiered
}

// Channel names the network or web channel that airs the show.
func (s Show) Channel() string {
	switch {
	case s.Network != nil:
		return s.Network.Name
	case s.WebChannel != nil:
		return s.WebChannel.Name
	default:
		return ""
	}
}

type Person struct {
	ID       int      `json:"id"`
	URL      string   `json:"url"`
	Name     string   `json:"name"`
	Country  *Country `json:"country"`
	Birthday *string  `json:"birthday"`
	Deathday *string  `json:"deathday"`
	Gender   *string  `json:"gender"`
	Image    *Image   `json:"image"`
	Updated  int64    `json:"updated"`
	Links    Links    `json:"_links"`
}

type Character struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Name  string `json:"name"`
	Image *Image `json:"image"`
	Links Links  `json:"_links"`
}

type CastMember struct {
	Person    Person    `json:"person"`
	Character Character `json:"character"`
	Self      bool      `json:"self"`
	Voice     bool      `json:"voice"`
}

type Embedded struct {
	Cast []CastMember `json:"cast,omitempty"`
}

// ShowDetails is a [Show] with embedded resources requested through ?embed=.
type ShowDetails struct {
	Show
	Embedded *Embedded `json:"_embedded,omitempty"`
}

// Cast returns the embedded cast, or nil when the response carried none.
func (d *ShowDetails) Cast() []CastMember {
	if d == nil || d.Embedded == nil {
		return nil
	}
	return d.Embedded.Cast
}

// SearchResultItem is one scored hit from /search/shows.
type SearchResultItem struct {
	Score float64 `json:"score"`
	Show  Show    `json:"show"`
}

// ShowsFromResults drops scores and keeps result order.
func ShowsFromResults(items []SearchResultItem) []Show {
	shows := make([]Show, len(items))
	for i, item := range items {
		shows[i] = item.Show
	}
	return shows
}

// GroupedShows maps a genre name to the shows listing it.
type GroupedShows map[string][]Show

// GroupByGenre buckets shows under every genre they list, preserving input order
// within each genre.
func GroupByGenre(shows []Show) GroupedShows {
	grouped := make(GroupedShows)
	for _, show := range shows {
		if len(show.Genres) == 0 {
			grouped[UncategorizedGenre] = append(grouped[UncategorizedGenre], show)
			continue
		}
		for _, genre := range show.Genres {
			grouped[genre] = append(grouped[genre], show)
		}
	}
	return grouped
}

// Genres returns the genre names sorted alphabetically.
func (g GroupedShows) Genres() []string {
	genres := make([]string, 0, len(g))
	for genre := range g {
		genres = append(genres, genre)
	}
	sort.Strings(genres)
	return genres
}

// SearchHistoryEntry is one persisted search attempt.
type SearchHistoryEntry struct {
	EntryID     string    `json:"id"`
	Sequence    int64     `json:"sequence"`
	Query       string    `json:"query"`
	Normalized  string    `json:"normalized"`
	ResultCount int       `json:"result_count"`
	Error       string    `json:"error,omitempty"`
	Created     time.Time `json:"created_at"`
}

func (e *SearchHistoryEntry) ID() string           { return e.EntryID }
func (e *SearchHistoryEntry) CreatedAt() time.Time { return e.Created }

func (e *SearchHistoryEntry) Validate() error {
	if strings.TrimSpace(e.Query) == "" {
		return ErrEmptyQuery
	}
	return nil
}
