// Package router provides the in-memory navigation engine of the TUI.
//
// The Router keeps a linear history of visited locations. Locations are
// plain strings made of a path and an optional query, e.g.
// "/anime/one-piece?tab=episodes". Nothing is persisted and there is no
// bookmarkable URL: the history lives for the session.
//
// # Navigation
//
//	r := router.New()        // history: ["/"]
//	r.Navigate("/search?q=x") // history: ["/", "/search?q=x"]
//	path, query := r.Location()
//	// path = "/search", query = "?q=x"
//	r.Back()                  // history: ["/"]
//	r.Back()                  // no-op at the root
//
// # Matching
//
// Patterns are path templates whose segments are either literals or named
// parameters prefixed with ':':
//
//	ok, params := r.Match("/anime/:slug")
//	if ok {
//	    slug := params["slug"]
//	}
//
// Pattern and path must have the same number of segments. Empty segments
// produced by leading or trailing slashes are ignored.
//
// # Dispatch
//
// Switch evaluates routes in declaration order and runs the first match,
// so more specific patterns must be declared before general ones that share
// a segment count:
//
//	view, ok := router.Switch(r,
//	    router.Route[string]{Pattern: "/list/new", Handle: newList},
//	    router.Route[string]{Pattern: "/list/:type", Handle: listByType},
//	)
//
// A Router is not safe for concurrent use; it is owned by the UI loop and
// handed explicitly to whatever needs it. Calling any method on a nil
// *Router panics.
package router
