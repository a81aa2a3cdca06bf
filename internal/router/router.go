package router

import (
	"net/url"
	"strings"
)

// Root is the initial location of every Router.
const Root = "/"

// Router is a memory-backed navigation history.
type Router struct {
	history   []string
	listeners []func(location string)
}

// New creates a Router whose history holds only Root.
func New() *Router {
	return NewAt(Root)
}

// NewAt creates a Router whose history holds only location.
func NewAt(location string) *Router {
	return &Router{history: []string{location}}
}

func (r *Router) mustBeActive(op string) {
	if r == nil {
		panic("router: " + op + " called outside an active router")
	}
}

// OnChange registers fn to be called with the new current location after
// every Navigate and every Back that removed an entry.
func (r *Router) OnChange(fn func(location string)) {
	r.mustBeActive("OnChange")
	r.listeners = append(r.listeners, fn)
}

func (r *Router) notify() {
	loc := r.Current()
	for _, fn := range r.listeners {
		fn(loc)
	}
}

// Navigate appends target to the history.
func (r *Router) Navigate(target string) {
	r.mustBeActive("Navigate")
	r.history = append(r.history, target)
	r.notify()
}

// Back removes the current location unless it is the only one left.
func (r *Router) Back() {
	r.mustBeActive("Back")
	if len(r.history) <= 1 {
		return
	}
	r.history = r.history[:len(r.history)-1]
	r.notify()
}

// CanGoBack reports whether Back would change the current location.
func (r *Router) CanGoBack() bool {
	r.mustBeActive("CanGoBack")
	return len(r.history) > 1
}

// Depth returns the number of entries in the history.
func (r *Router) Depth() int {
	r.mustBeActive("Depth")
	return len(r.history)
}

// Current returns the current location, query included.
func (r *Router) Current() string {
	r.mustBeActive("Current")
	return r.history[len(r.history)-1]
}

// Location splits the current location on the first '?'.
//
// The query keeps its leading '?' and is empty when there is none.
func (r *Router) Location() (path, query string) {
	r.mustBeActive("Location")
	return splitLocation(r.Current())
}

// Path returns the path part of the current location.
func (r *Router) Path() string {
	path, _ := r.Location()
	return path
}

// Query parses the query part of the current location.
// Malformed pairs are dropped.
func (r *Router) Query() url.Values {
	_, query := r.Location()
	v, _ := url.ParseQuery(strings.TrimPrefix(query, "?"))
	return v
}

// Match matches the current path against pattern, see MatchPath.
func (r *Router) Match(pattern string) (bool, Params) {
	r.mustBeActive("Match")
	return MatchPath(pattern, r.Path())
}

func splitLocation(loc string) (path, query string) {
	path, rest, found := strings.Cut(loc, "?")
	if !found || rest == "" {
		return path, ""
	}
	return path, "?" + rest
}
