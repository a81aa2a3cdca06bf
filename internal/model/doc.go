// Package model defines the core data structures used throughout
// the otokonime client.
//
// # Anime
//
// Anime is a catalog entry as returned by the remote API. Listing endpoints
// return different shapes for airing and finished titles, so every Anime
// carries an explicit Kind resolved once when the payload is decoded:
//
//	switch a.Kind {
//	case model.KindOngoing:
//	    fmt.Println(a.CurrentEpisode)
//	case model.KindComplete:
//	    fmt.Println(a.EpisodeCount)
//	}
//
// Badge returns the short label shown on cards ("Ep 5", "12 Eps").
//
// # List items
//
// ListItem is one entry of the user's personal list, keyed by slug and
// filed under a ListStatus:
//
//	item := model.NewListItem(detail, model.StatusWatching, time.Now())
//
// # Episode labels
//
// EpisodeLabel derives a compact label from the free-text episode names used
// by the catalog:
//
//	model.EpisodeLabel("Boruto Episode 293 Subtitle Indonesia") // "293"
//	model.EpisodeLabel("Naruto OVA Subtitle Indonesia")         // "OVA"
//
// # Releases
//
// Release and File describe a set of links about to be downloaded and the
// local paths they will be written to. Paths are computed from a PathConfig
// using the placeholders {title}, {episode}, {resolution} and {provider}.
package model
