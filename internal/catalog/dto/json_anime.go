package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/handiism/otokonime/internal/model"
)

// FlexString is a string field the API sometimes sends as a number.
type FlexString string

// UnmarshalJSON accepts a string, a number or null.
func (fs *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*fs = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*fs = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*fs = FlexString(n.String())
	return nil
}

// JSONGenre is a genre as sent by the API.
type JSONGenre struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	URL  string `json:"otakudesu_url"`
}

// ToGenre converts JSONGenre to a model.Genre.
func (jg JSONGenre) ToGenre() model.Genre {
	return model.Genre{Name: jg.Name, Slug: jg.Slug, SourceURL: jg.URL}
}

// ToGenres converts a genre slice, keeping nil as nil.
func ToGenres(in []JSONGenre) []model.Genre {
	if in == nil {
		return nil
	}
	out := make([]model.Genre, len(in))
	for i, g := range in {
		out[i] = g.ToGenre()
	}
	return out
}

// JSONAnime is a listing card. The ongoing and complete variants share it;
// fields a variant does not carry decode to the zero value.
type JSONAnime struct {
	Title  string      `json:"title"`
	Slug   string      `json:"slug"`
	Poster string      `json:"poster"`
	Rating FlexString  `json:"rating"`
	Genres []JSONGenre `json:"genres"`

	CurrentEpisode    string `json:"current_episode"`
	ReleaseDay        string `json:"release_day"`
	NewestReleaseDate string `json:"newest_release_date"`

	EpisodeCount    FlexString `json:"episode_count"`
	LastReleaseDate string     `json:"last_release_date"`
}

// ToAnime converts JSONAnime to a model.Anime of the given kind.
func (ja *JSONAnime) ToAnime(kind model.Kind) model.Anime {
	a := model.Anime{
		Kind:   kind,
		Title:  ja.Title,
		Slug:   ja.Slug,
		Poster: ja.Poster,
		Rating: string(ja.Rating),
		Genres: ToGenres(ja.Genres),
	}
	switch kind {
	case model.KindOngoing:
		a.CurrentEpisode = ja.CurrentEpisode
		a.ReleaseDay = ja.ReleaseDay
		a.NewestReleaseDate = ja.NewestReleaseDate
	case model.KindComplete:
		a.EpisodeCount = string(ja.EpisodeCount)
		a.LastReleaseDate = ja.LastReleaseDate
	}
	return a
}

// ToAnimes converts a listing of the given kind.
func ToAnimes(in []JSONAnime, kind model.Kind) []model.Anime {
	out := make([]model.Anime, 0, len(in))
	for i := range in {
		out = append(out, in[i].ToAnime(kind))
	}
	return out
}

// JSONHome is the home feed.
type JSONHome struct {
	Ongoing  []JSONAnime `json:"ongoing_anime"`
	Complete []JSONAnime `json:"complete_anime"`
}

// ToHome converts JSONHome to a model.HomeData.
func (jh *JSONHome) ToHome() *model.HomeData {
	return &model.HomeData{
		Ongoing:  ToAnimes(jh.Ongoing, model.KindOngoing),
		Complete: ToAnimes(jh.Complete, model.KindComplete),
	}
}

// JSONEpisode is an entry of the episode list.
type JSONEpisode struct {
	Episode string `json:"episode"`
	Slug    string `json:"slug"`
	URL     string `json:"otakudesu_url"`
}

// JSONRecommendation is a related title.
type JSONRecommendation struct {
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Poster string `json:"poster"`
}

// JSONBatchRef points at a batch page.
type JSONBatchRef struct {
	Slug       string `json:"slug"`
	UploadedAt string `json:"uploaded_at"`
}

// JSONAnimeDetail is the payload of the detail endpoint.
type JSONAnimeDetail struct {
	JSONAnime

	JapaneseTitle   string               `json:"japanese_title"`
	Producer        string               `json:"produser"`
	Type            string               `json:"type"`
	Status          string               `json:"status"`
	Duration        string               `json:"duration"`
	ReleaseDate     string               `json:"release_date"`
	Studio          string               `json:"studio"`
	Synopsis        string               `json:"synopsis"`
	Batch           *JSONBatchRef        `json:"batch"`
	Episodes        []JSONEpisode        `json:"episode_lists"`
	Recommendations []JSONRecommendation `json:"recommendations"`
}

// Kind derives the card variant from the airing status.
func (jd *JSONAnimeDetail) Kind() model.Kind {
	switch jd.Status {
	case "Ongoing":
		return model.KindOngoing
	case "Completed", "Complete":
		return model.KindComplete
	}
	return model.KindGeneric
}

// ToDetail converts JSONAnimeDetail to a model.AnimeDetail.
func (jd *JSONAnimeDetail) ToDetail() *model.AnimeDetail {
	anime := jd.JSONAnime.ToAnime(jd.Kind())
	// The detail payload always carries the episode count.
	anime.EpisodeCount = string(jd.EpisodeCount)

	d := &model.AnimeDetail{
		Anime:         anime,
		JapaneseTitle: jd.JapaneseTitle,
		Producer:      jd.Producer,
		Type:          jd.Type,
		Status:        jd.Status,
		Duration:      jd.Duration,
		ReleaseDate:   jd.ReleaseDate,
		Studio:        jd.Studio,
		Synopsis:      jd.Synopsis,
	}
	if jd.Batch != nil && jd.Batch.Slug != "" {
		d.Batch = &model.BatchRef{Slug: jd.Batch.Slug, UploadedAt: jd.Batch.UploadedAt}
	}
	for _, e := range jd.Episodes {
		d.Episodes = append(d.Episodes, model.Episode{Episode: e.Episode, Slug: e.Slug, SourceURL: e.URL})
	}
	for _, r := range jd.Recommendations {
		d.Recommendations = append(d.Recommendations, model.Recommendation{Title: r.Title, Slug: r.Slug, Poster: r.Poster})
	}
	return d
}

// JSONPagination is the pagination block of a listing.
type JSONPagination struct {
	CurrentPage     int  `json:"current_page"`
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	NextPage        *int `json:"next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
	PreviousPage    *int `json:"previous_page"`
}

// ParsePagination decodes a raw pagination block.
//
// The API sends false instead of an object when a listing has a single
// page; that, null and a missing block all yield nil.
func ParsePagination(raw json.RawMessage) (*model.Pagination, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("false")) {
		return nil, nil
	}

	var jp JSONPagination
	if err := json.Unmarshal(raw, &jp); err != nil {
		return nil, fmt.Errorf("decode pagination: %w", err)
	}
	p := &model.Pagination{
		CurrentPage:     jp.CurrentPage,
		LastVisiblePage: jp.LastVisiblePage,
		HasNextPage:     jp.HasNextPage,
		HasPreviousPage: jp.HasPreviousPage,
	}
	if jp.NextPage != nil {
		p.NextPage = *jp.NextPage
	}
	if jp.PreviousPage != nil {
		p.PreviousPage = *jp.PreviousPage
	}
	return p, nil
}
