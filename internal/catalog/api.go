package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/handiism/otokonime/internal/catalog/dto"
	"github.com/handiism/otokonime/internal/model"
)

// Home fetches the home feed of ongoing and complete titles.
func (c *Client) Home(ctx context.Context) (*model.HomeData, error) {
	var jh dto.JSONHome
	if _, err := c.fetch(ctx, "/home", &jh); err != nil {
		return nil, err
	}
	return jh.ToHome(), nil
}

// Anime fetches the detail record of slug.
func (c *Client) Anime(ctx context.Context, slug string) (*model.AnimeDetail, error) {
	var jd dto.JSONAnimeDetail
	if _, err := c.fetch(ctx, "/anime/"+url.PathEscape(slug), &jd); err != nil {
		return nil, err
	}
	return jd.ToDetail(), nil
}

// Ongoing fetches one page of the airing titles. Pages start at 1.
func (c *Client) Ongoing(ctx context.Context, page int) (*model.Page, error) {
	return c.page(ctx, fmt.Sprintf("/ongoing-anime/%d", max(page, 1)), model.KindOngoing)
}

// Complete fetches one page of the finished titles. Pages start at 1.
func (c *Client) Complete(ctx context.Context, page int) (*model.Page, error) {
	return c.page(ctx, fmt.Sprintf("/complete-anime/%d", max(page, 1)), model.KindComplete)
}

// Genre fetches one page of the titles filed under genre slug.
func (c *Client) Genre(ctx context.Context, slug string, page int) (*model.Page, error) {
	return c.page(ctx, fmt.Sprintf("/genres/%s/%d", url.PathEscape(slug), max(page, 1)), model.KindGeneric)
}

func (c *Client) page(ctx context.Context, endpoint string, kind model.Kind) (*model.Page, error) {
	var items []dto.JSONAnime
	raw, err := c.fetch(ctx, endpoint, &items)
	if err != nil {
		return nil, err
	}
	p, err := dto.ParsePagination(raw)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Err: err}
	}
	return &model.Page{Items: dto.ToAnimes(items, kind), Pagination: p}, nil
}

// Search fetches the titles matching keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]model.Anime, error) {
	var items []dto.JSONAnime
	if _, err := c.fetch(ctx, "/search/"+url.PathEscape(keyword), &items); err != nil {
		return nil, err
	}
	return dto.ToAnimes(items, model.KindGeneric), nil
}

// Episode fetches the streams and downloads of an episode.
func (c *Client) Episode(ctx context.Context, slug string) (*model.WatchData, error) {
	var jw dto.JSONWatch
	if _, err := c.fetch(ctx, "/episode/"+url.PathEscape(slug), &jw); err != nil {
		return nil, err
	}
	return jw.ToWatch(), nil
}

// Genres fetches every genre.
func (c *Client) Genres(ctx context.Context) ([]model.Genre, error) {
	var genres []dto.JSONGenre
	if _, err := c.fetch(ctx, "/genres", &genres); err != nil {
		return nil, err
	}
	return dto.ToGenres(genres), nil
}

// Batch fetches the batch downloads of slug.
func (c *Client) Batch(ctx context.Context, slug string) (*model.BatchData, error) {
	var jb dto.JSONBatch
	if _, err := c.fetch(ctx, "/batch/"+url.PathEscape(slug), &jb); err != nil {
		return nil, err
	}
	return jb.ToBatch(), nil
}

// Schedule fetches the weekly release schedule.
func (c *Client) Schedule(ctx context.Context) ([]model.ScheduleDay, error) {
	var days []dto.JSONScheduleDay
	if _, err := c.fetch(ctx, "/schedule", &days); err != nil {
		return nil, err
	}
	return dto.ToSchedule(days), nil
}
