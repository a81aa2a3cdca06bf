package dto

import "github.com/handiism/otokonime/internal/model"

// JSONStream is a playable mirror.
type JSONStream struct {
	Quality  string `json:"quality"`
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

// JSONDownloadLink is one file host.
type JSONDownloadLink struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

// JSONDownloadFormat groups the hosts of one resolution.
type JSONDownloadFormat struct {
	Resolution string             `json:"resolution"`
	Size       string             `json:"size"`
	Links      []JSONDownloadLink `json:"links"`
}

// ToFormat converts JSONDownloadFormat to a model.DownloadFormat.
func (jf *JSONDownloadFormat) ToFormat() model.DownloadFormat {
	f := model.DownloadFormat{Resolution: jf.Resolution, Size: jf.Size}
	for _, l := range jf.Links {
		f.Links = append(f.Links, model.DownloadLink(l))
	}
	return f
}

// JSONDownloadGroup groups formats under a container title.
type JSONDownloadGroup struct {
	Title   string               `json:"format_title"`
	Formats []JSONDownloadFormat `json:"formats"`
}

// JSONWatch is the payload of the episode endpoint.
type JSONWatch struct {
	Episode string `json:"episode"`
	Anime   struct {
		Slug string `json:"slug"`
	} `json:"anime"`
	HasNextEpisode      bool                `json:"has_next_episode"`
	NextEpisodeSlug     *string             `json:"next_episode_slug"`
	HasPreviousEpisode  bool                `json:"has_previous_episode"`
	PreviousEpisodeSlug *string             `json:"previous_episode_slug"`
	StreamURL           string              `json:"stream_url"`
	Streams             []JSONStream        `json:"streamList"`
	Downloads           []JSONDownloadGroup `json:"download_urls"`
}

// ToWatch converts JSONWatch to a model.WatchData.
func (jw *JSONWatch) ToWatch() *model.WatchData {
	w := &model.WatchData{
		Episode:   jw.Episode,
		AnimeSlug: jw.Anime.Slug,
		StreamURL: jw.StreamURL,
	}
	if jw.HasNextEpisode && jw.NextEpisodeSlug != nil && *jw.NextEpisodeSlug != "" {
		w.HasNextEpisode = true
		w.NextEpisodeSlug = *jw.NextEpisodeSlug
	}
	if jw.HasPreviousEpisode && jw.PreviousEpisodeSlug != nil && *jw.PreviousEpisodeSlug != "" {
		w.HasPrevEpisode = true
		w.PrevEpisodeSlug = *jw.PreviousEpisodeSlug
	}
	for _, s := range jw.Streams {
		w.Streams = append(w.Streams, model.StreamLink(s))
	}
	for _, g := range jw.Downloads {
		group := model.DownloadGroup{Title: g.Title}
		for i := range g.Formats {
			group.Formats = append(group.Formats, g.Formats[i].ToFormat())
		}
		w.DownloadGroups = append(w.DownloadGroups, group)
	}
	return w
}

// JSONBatch is the payload of the batch endpoint.
type JSONBatch struct {
	Title     string `json:"batch"`
	Downloads []struct {
		Resolution string             `json:"resolution"`
		Size       string             `json:"file_size"`
		Links      []JSONDownloadLink `json:"urls"`
	} `json:"download_urls"`
}

// ToBatch converts JSONBatch to a model.BatchData.
func (jb *JSONBatch) ToBatch() *model.BatchData {
	b := &model.BatchData{Title: jb.Title}
	for _, d := range jb.Downloads {
		jf := JSONDownloadFormat{Resolution: d.Resolution, Size: d.Size, Links: d.Links}
		b.Formats = append(b.Formats, jf.ToFormat())
	}
	return b
}

// JSONScheduleDay lists the titles airing on one weekday.
type JSONScheduleDay struct {
	Day    string `json:"day"`
	Titles []struct {
		Title string `json:"title"`
		Slug  string `json:"slug"`
	} `json:"animeList"`
}

// ToSchedule converts the schedule payload.
func ToSchedule(in []JSONScheduleDay) []model.ScheduleDay {
	out := make([]model.ScheduleDay, 0, len(in))
	for _, d := range in {
		day := model.ScheduleDay{Day: d.Day}
		for _, t := range d.Titles {
			day.Titles = append(day.Titles, model.ScheduleEntry{Title: t.Title, Slug: t.Slug})
		}
		out = append(out, day)
	}
	return out
}
