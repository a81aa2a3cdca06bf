// Package mylist stores the user's personal watch list.
//
// # Store
//
// Store is a slug-keyed record store backed by a single SQLite database
// file with one table, my_lists, and a non-unique index on list_status:
//
//	st := mylist.Open("/home/me/.local/share/otokonime/otokonime.db")
//	defer st.Close()
//
//	err := st.Upsert(ctx, detail, model.StatusWatching)
//	item, err := st.Get(ctx, "one-piece")   // nil, nil when absent
//	items, err := st.GetAll(ctx)            // unordered
//	err = st.Remove(ctx, "one-piece")       // absent slugs are not an error
//
// The database is opened lazily by the first operation and shared by all
// later ones. Upsert replaces the whole record, added_at included.
//
// # Cache
//
// Cache is the read-only projection the UI renders from. Every mutation
// made through it is followed by a full reload, and mutations are
// serialized so the last reload always reflects every completed write:
//
//	c := mylist.NewCache(st)
//	_ = c.Refresh(ctx)
//	_ = c.Add(ctx, detail, model.StatusCompleted)
//	status, ok := c.Status(detail.Slug)
//
// When a reload fails the cache falls back to an empty, non-loading list
// and the error is returned to the caller.
package mylist
