// Package catalog is the client of the remote anime catalog API.
//
// Every endpoint answers with an envelope:
//
//	{"status": "Ok", "data": ..., "pagination": {...}}
//
// A response is successful only when the HTTP status is 2xx and the
// envelope status is "Ok". Any other outcome, including transport and
// decoding failures, is returned as an *Error naming the endpoint:
//
//	failed to fetch from /anime/one-piece: HTTP error 404: not found
//
// Requests are made once; there are no retries. Listings return a
// model.Page whose Pagination is nil when the API sent none (it sends
// false for single-page listings).
//
// # Basic Usage
//
//	client := catalog.New("", catalog.WithLogger(log))
//
//	page, err := client.Ongoing(ctx, 1)
//	var cerr *catalog.Error
//	if errors.As(err, &cerr) {
//	    fmt.Println("endpoint:", cerr.Endpoint)
//	}
//
// The JSON shapes of the API live in the dto subpackage.
package catalog
