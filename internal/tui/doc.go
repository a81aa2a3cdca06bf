// Package tui provides a Bubble Tea terminal user interface for browsing
// the catalog.
//
// Screens are addressed by locations such as "/anime/one-piece" held in a
// router.Router; every navigation resolves the location to a page and
// loads its data with a tea.Cmd. A result arriving after the user has
// navigated elsewhere is discarded.
//
// # Routes
//
//	/                 home feed and genres
//	/schedule         weekly release schedule
//	/search?q=        search
//	/my-list?status=  personal list, one tab per status
//	/anime/:slug      detail page, "a" opens the add-to-list sheet
//	/watch/:slug      streams and downloads of an episode
//	/list/:type       all ongoing or complete titles
//	/batch/:slug      batch downloads
//	/genre/:slug      titles of a genre
//
// # Usage
//
//	err := tui.Run(tui.Options{
//	    Catalog:  client,
//	    Fetcher:  client,
//	    List:     mylist.NewCache(store),
//	    Settings: settings,
//	    Log:      log,
//	})
package tui
