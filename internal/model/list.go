package model

import (
	"fmt"
	"strings"
	"time"
)

// ListStatus is the category a title is filed under in the personal list.
type ListStatus string

const (
	StatusPlanToWatch ListStatus = "plan_to_watch"
	StatusWatching    ListStatus = "watching"
	StatusCompleted   ListStatus = "completed"
	StatusOnHold      ListStatus = "on_hold"
	StatusDropped     ListStatus = "dropped"
)

// ListStatuses returns every status in display order.
func ListStatuses() []ListStatus {
	return []ListStatus{
		StatusWatching,
		StatusPlanToWatch,
		StatusCompleted,
		StatusOnHold,
		StatusDropped,
	}
}

// Valid reports whether s is one of the known statuses.
func (s ListStatus) Valid() bool {
	switch s {
	case StatusPlanToWatch, StatusWatching, StatusCompleted, StatusOnHold, StatusDropped:
		return true
	}
	return false
}

// Label returns the human readable form, e.g. "Plan To Watch".
func (s ListStatus) Label() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ParseListStatus parses a status name. Both "on_hold" and "on-hold" are accepted.
func ParseListStatus(s string) (ListStatus, error) {
	st := ListStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !st.Valid() {
		return "", fmt.Errorf("unknown list status %q", s)
	}
	return st, nil
}

// ListItem is one title in the personal list.
//
// CurrentEpisode and EpisodeCount are mutually exclusive: airing titles
// remember the most recent episode, finished ones their episode count.
type ListItem struct {
	Slug           string     `json:"slug" yaml:"slug"`
	Title          string     `json:"title" yaml:"title"`
	Poster         string     `json:"poster" yaml:"poster"`
	Rating         string     `json:"rating,omitempty" yaml:"rating,omitempty"`
	Genres         []Genre    `json:"genres,omitempty" yaml:"genres,omitempty"`
	Status         ListStatus `json:"list_status" yaml:"list_status"`
	AddedAt        time.Time  `json:"added_at" yaml:"added_at"`
	CurrentEpisode string     `json:"current_episode,omitempty" yaml:"current_episode,omitempty"`
	EpisodeCount   string     `json:"episode_count,omitempty" yaml:"episode_count,omitempty"`
}

// NewListItem builds the record persisted for d under status.
//
// For an airing title with a non-empty episode list the first entry (the
// most recent episode) becomes CurrentEpisode; an airing title without one
// keeps the current episode it was listed with, if any. Otherwise
// EpisodeCount is copied from d.
func NewListItem(d *AnimeDetail, status ListStatus, now time.Time) ListItem {
	item := ListItem{
		Slug:    d.Slug,
		Title:   d.Title,
		Poster:  d.Poster,
		Rating:  d.Rating,
		Genres:  d.Genres,
		Status:  status,
		AddedAt: now,
	}
	switch {
	case d.Ongoing() && len(d.Episodes) > 0:
		item.CurrentEpisode = d.Episodes[0].Episode
	case d.Ongoing() && d.CurrentEpisode != "":
		item.CurrentEpisode = d.CurrentEpisode
	default:
		item.EpisodeCount = d.EpisodeCount
	}
	return item
}

// Anime returns the list item as a catalog entry so it can be rendered
// like any other card.
func (i ListItem) Anime() Anime {
	a := Anime{
		Kind:   KindGeneric,
		Title:  i.Title,
		Slug:   i.Slug,
		Poster: i.Poster,
		Rating: i.Rating,
		Genres: i.Genres,
	}
	switch {
	case i.CurrentEpisode != "":
		a.Kind = KindOngoing
		a.CurrentEpisode = i.CurrentEpisode
	case i.EpisodeCount != "":
		a.Kind = KindComplete
		a.EpisodeCount = i.EpisodeCount
	}
	return a
}
