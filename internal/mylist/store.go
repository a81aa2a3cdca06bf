package mylist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/handiism/otokonime/internal/model"
	"go.uber.org/zap"
)

var (
	// ErrMissingSlug is returned when a record without slug is written.
	ErrMissingSlug = errors.New("mylist: cannot add item to list: slug is missing")

	// ErrInvalidStatus is returned for statuses outside model.ListStatuses.
	ErrInvalidStatus = errors.New("mylist: invalid list status")
)

// Store is the persisted personal list.
type Store struct {
	h   *handle
	log *zap.Logger
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report storage failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock overrides the clock used for added_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open returns a Store for the database file at path.
//
// No I/O happens until the first operation.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		h:   &handle{path: path},
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Close closes the database once in-flight operations have finished.
func (s *Store) Close() error {
	return s.h.close()
}

// view runs fn against the shared database for reads.
func (s *Store) view(ctx context.Context, op string, fn func(*sql.DB) error) error {
	db, err := s.h.acquire(ctx)
	if err != nil {
		s.log.Warn("list store unavailable", zap.String("op", op), zap.Error(err))
		return err
	}
	defer s.h.release()

	if err := fn(db); err != nil {
		s.log.Warn("list store read failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("mylist: %s: %w", op, err)
	}
	return nil
}

// update runs fn inside a write transaction.
func (s *Store) update(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	db, err := s.h.acquire(ctx)
	if err != nil {
		s.log.Warn("list store unavailable", zap.String("op", op), zap.Error(err))
		return err
	}
	defer s.h.release()

	err = func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()
		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit()
	}()
	if err != nil {
		s.log.Warn("list store write failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("mylist: %s: %w", op, err)
	}
	return nil
}

// Upsert files d under status, replacing any existing record for its slug.
//
// added_at is set to the current time. For an airing title with episodes
// the most recent episode is remembered, otherwise the episode count.
func (s *Store) Upsert(ctx context.Context, d *model.AnimeDetail, status model.ListStatus) error {
	if d == nil || strings.TrimSpace(d.Slug) == "" {
		return ErrMissingSlug
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.Put(ctx, model.NewListItem(d, status, s.now()))
}

// UpsertAnime files a listing entry under status, see Upsert.
func (s *Store) UpsertAnime(ctx context.Context, a model.Anime, status model.ListStatus) error {
	return s.Upsert(ctx, &model.AnimeDetail{Anime: a}, status)
}

// Put writes item as is, replacing any existing record for its slug.
func (s *Store) Put(ctx context.Context, item model.ListItem) error {
	if strings.TrimSpace(item.Slug) == "" {
		return ErrMissingSlug
	}
	if !item.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, item.Status)
	}

	var genres sql.NullString
	if len(item.Genres) > 0 {
		b, err := json.Marshal(item.Genres)
		if err != nil {
			return fmt.Errorf("mylist: encode genres: %w", err)
		}
		genres = sql.NullString{String: string(b), Valid: true}
	}

	return s.update(ctx, "put", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO my_lists
				(slug, title, poster, rating, genres_json, list_status, added_at_unixms, current_episode, episode_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.Slug,
			item.Title,
			item.Poster,
			nullString(item.Rating),
			genres,
			string(item.Status),
			item.AddedAt.UnixMilli(),
			nullString(item.CurrentEpisode),
			nullString(item.EpisodeCount),
		)
		return err
	})
}

// Remove deletes the record for slug. Removing an absent slug is a no-op.
func (s *Store) Remove(ctx context.Context, slug string) error {
	return s.update(ctx, "remove", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM my_lists WHERE slug = ?`, slug)
		return err
	})
}

const selectColumns = `slug, title, poster, rating, genres_json, list_status, added_at_unixms, current_episode, episode_count`

// Get returns the record for slug, or nil when there is none.
func (s *Store) Get(ctx context.Context, slug string) (*model.ListItem, error) {
	var out *model.ListItem
	err := s.view(ctx, "get", func(db *sql.DB) error {
		row := db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM my_lists WHERE slug = ?`, slug)
		item, err := scanItem(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		out = &item
		return nil
	})
	return out, err
}

// GetAll returns every record in no particular order.
func (s *Store) GetAll(ctx context.Context) ([]model.ListItem, error) {
	return s.query(ctx, "get all", `SELECT `+selectColumns+` FROM my_lists`)
}

// ByStatus returns the records filed under status, using the status index.
func (s *Store) ByStatus(ctx context.Context, status model.ListStatus) ([]model.ListItem, error) {
	return s.query(ctx, "by status", `SELECT `+selectColumns+` FROM my_lists WHERE list_status = ?`, string(status))
}

func (s *Store) query(ctx context.Context, op, q string, args ...any) ([]model.ListItem, error) {
	items := []model.ListItem{}
	err := s.view(ctx, op, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			item, err := scanItem(rows)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (model.ListItem, error) {
	var (
		item                                         model.ListItem
		status                                       string
		addedAt                                      int64
		rating, genres, currentEpisode, episodeCount sql.NullString
	)
	if err := sc.Scan(&item.Slug, &item.Title, &item.Poster, &rating, &genres, &status, &addedAt, &currentEpisode, &episodeCount); err != nil {
		return model.ListItem{}, err
	}
	item.Rating = rating.String
	item.Status = model.ListStatus(status)
	item.AddedAt = time.UnixMilli(addedAt)
	item.CurrentEpisode = currentEpisode.String
	item.EpisodeCount = episodeCount.String
	if genres.Valid && genres.String != "" {
		if err := json.Unmarshal([]byte(genres.String), &item.Genres); err != nil {
			return model.ListItem{}, fmt.Errorf("decode genres of %s: %w", item.Slug, err)
		}
	}
	return item, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
