package router

// Route pairs a pattern with the handler invoked when it matches.
type Route[T any] struct {
	Pattern string
	Handle  func(Params) T
}

// Dispatch runs the handler of the first route whose pattern matches path.
//
// It returns the zero value and false when no route matches.
func Dispatch[T any](path string, routes ...Route[T]) (T, bool) {
	for _, rt := range routes {
		if ok, params := MatchPath(rt.Pattern, path); ok {
			return rt.Handle(params), true
		}
	}
	var zero T
	return zero, false
}

// Switch dispatches the current path of r, see Dispatch.
func Switch[T any](r *Router, routes ...Route[T]) (T, bool) {
	r.mustBeActive("Switch")
	return Dispatch(r.Path(), routes...)
}
