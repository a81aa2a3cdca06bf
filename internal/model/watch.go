package model

// StreamLink is a playable mirror of an episode.
type StreamLink struct {
	Quality  string
	Provider string
	URL      string
}

// DownloadLink is a single file host offering an episode or batch.
type DownloadLink struct {
	Provider string
	URL      string
}

// DownloadFormat groups the hosts offering one resolution.
type DownloadFormat struct {
	Resolution string
	Size       string
	Links      []DownloadLink
}

// DownloadGroup groups formats under a container title, e.g. "Mp4".
type DownloadGroup struct {
	Title   string
	Formats []DownloadFormat
}

// WatchData is the payload of the episode endpoint.
type WatchData struct {
	Episode         string
	AnimeSlug       string
	StreamURL       string
	HasNextEpisode  bool
	NextEpisodeSlug string
	HasPrevEpisode  bool
	PrevEpisodeSlug string
	Streams         []StreamLink
	DownloadGroups  []DownloadGroup
}

// BatchData is the payload of the batch endpoint.
type BatchData struct {
	Title   string
	Formats []DownloadFormat
}

// ScheduleEntry is a title airing on a given day.
type ScheduleEntry struct {
	Title string
	Slug  string
}

// ScheduleDay lists the titles airing on one weekday.
type ScheduleDay struct {
	Day    string
	Titles []ScheduleEntry
}
