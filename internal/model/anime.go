package model

import (
	"fmt"
	"strings"
)

// Kind discriminates the catalog shapes an Anime can come from.
type Kind int

const (
	// KindGeneric is used for search results, genre listings and
	// recommendations, which carry no episode information.
	KindGeneric Kind = iota

	// KindOngoing is a title that is still airing.
	// CurrentEpisode, ReleaseDay and NewestReleaseDate are set.
	KindOngoing

	// KindComplete is a finished title.
	// EpisodeCount and LastReleaseDate are set.
	KindComplete
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOngoing:
		return "ongoing"
	case KindComplete:
		return "complete"
	default:
		return "generic"
	}
}

// Genre is a catalog genre.
type Genre struct {
	Name      string `json:"name" yaml:"name"`
	Slug      string `json:"slug" yaml:"slug"`
	SourceURL string `json:"otakudesu_url,omitempty" yaml:"-"`
}

// Anime is a catalog entry.
//
// Only the fields belonging to its Kind are meaningful; the others are left
// at their zero value.
type Anime struct {
	Kind   Kind
	Title  string
	Slug   string
	Poster string
	Rating string
	Genres []Genre

	// Ongoing fields.
	CurrentEpisode    string
	ReleaseDay        string
	NewestReleaseDate string

	// Complete fields.
	EpisodeCount    string
	LastReleaseDate string
}

// Badge returns the short episode label shown next to a title.
//
// Returns "Ep 5" for an ongoing title at "Episode 5", "12 Eps" for a
// completed title with 12 episodes and an empty string otherwise.
func (a Anime) Badge() string {
	switch a.Kind {
	case KindOngoing:
		if a.CurrentEpisode == "" {
			return ""
		}
		return strings.Replace(a.CurrentEpisode, "Episode ", "Ep ", 1)
	case KindComplete:
		if a.EpisodeCount == "" {
			return ""
		}
		return fmt.Sprintf("%s Eps", a.EpisodeCount)
	}
	return ""
}

// Episode is one entry of an anime's episode list.
type Episode struct {
	Episode   string
	Slug      string
	SourceURL string
}

// Label returns the compact episode label, see EpisodeLabel.
func (e Episode) Label() string {
	return EpisodeLabel(e.Episode)
}

// Recommendation is a related title shown on the detail page.
type Recommendation struct {
	Title  string
	Slug   string
	Poster string
}

// BatchRef points at the batch download page of a finished title.
type BatchRef struct {
	Slug       string
	UploadedAt string
}

// AnimeDetail is the full record returned by the detail endpoint.
type AnimeDetail struct {
	Anime

	JapaneseTitle   string
	Producer        string
	Type            string
	Status          string
	Duration        string
	ReleaseDate     string
	Studio          string
	Synopsis        string
	Batch           *BatchRef
	Episodes        []Episode
	Recommendations []Recommendation
}

// Ongoing reports whether the title is still airing, either by its airing
// status or by having been decoded from an ongoing listing.
func (d *AnimeDetail) Ongoing() bool {
	return d.Status == "Ongoing" || d.Kind == KindOngoing
}

// HomeData is the home feed.
type HomeData struct {
	Ongoing  []Anime
	Complete []Anime
}

// Pagination describes the position of a page within a listing.
type Pagination struct {
	CurrentPage     int
	LastVisiblePage int
	HasNextPage     bool
	NextPage        int
	HasPreviousPage bool
	PreviousPage    int
}

// String returns the position as "current/last", e.g. "2/14".
func (p *Pagination) String() string {
	return fmt.Sprintf("%d/%d", p.CurrentPage, p.LastVisiblePage)
}

// Page is one page of a paginated listing.
//
// Pagination is nil when the API did not report any.
type Page struct {
	Items      []Anime
	Pagination *Pagination
}

// HasNext reports whether another page can be requested.
func (p *Page) HasNext() bool {
	return p.Pagination != nil && p.Pagination.HasNextPage
}
