// Package fetcher assembles import-ready track candidates: it searches the
// catalog, then enriches every hit with lyrics, album detail, and canonical
// artist names.
package fetcher

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/songla/songla/data"
)

// Catalog is the slice of the catalog client the fetcher needs.
type Catalog interface {
	Search(ctx context.Context, query string) ([]data.Candidate, error)
	Lyrics(ctx context.Context, videoID string) (string, error)
	Album(ctx context.Context, albumID string) (*data.AlbumDetail, error)
	Artist(ctx context.Context, artistID string) (*data.ArtistDetail, error)
}

type Fetcher struct {
	catalog Catalog
	limit   int
}

func New(catalog Catalog, limit int) *Fetcher {
	return &Fetcher{
		catalog: catalog,
		limit:   limit,
	}
}

// Search returns up to limit enriched candidates for a free-text query, in
// the order the catalog returned them.
//
// Only the search call itself can fail the operation. Each candidate's
// facets (lyrics, album, per-artist detail) are fetched concurrently, and so
// are the candidates themselves; a failed facet keeps the raw search value
// for that facet only.
func (f *Fetcher) Search(ctx context.Context, query string) ([]data.Candidate, error) {
	candidates, err := f.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error searching for '%s': %w", query, err)
	}
	if len(candidates) == 0 {
		return []data.Candidate{}, nil
	}
	if len(candidates) > f.limit {
		candidates = candidates[:f.limit]
	}

	var g errgroup.Group
	for i := range candidates {
		candidate := &candidates[i]
		g.Go(func() error {
			f.enrich(ctx, candidate)
			return nil
		})
	}
	g.Wait()

	return candidates, nil
}

// enrich fills in a candidate's lyrics, album detail, and artist names.
// Facet results land in disjoint fields, and artist detail is written back
// by input position, so the fan-out never reorders anything.
func (f *Fetcher) enrich(ctx context.Context, candidate *data.Candidate) {
	var g errgroup.Group

	g.Go(func() error {
		if lyrics, ok := facet(func() (string, error) {
			return f.catalog.Lyrics(ctx, candidate.VideoID)
		}); ok {
			candidate.Lyrics = lyrics
		}
		return nil
	})

	if candidate.AlbumID != "" {
		g.Go(func() error {
			album, ok := facet(func() (*data.AlbumDetail, error) {
				return f.catalog.Album(ctx, candidate.AlbumID)
			})
			if !ok {
				return nil
			}
			if album.Name != "" {
				candidate.AlbumName = album.Name
			}
			candidate.ReleaseYear = album.ReleaseYear
			return nil
		})
	}

	for i := range candidate.Artists {
		artist := &candidate.Artists[i]
		if artist.ArtistID == "" {
			continue
		}
		g.Go(func() error {
			detail, ok := facet(func() (*data.ArtistDetail, error) {
				return f.catalog.Artist(ctx, artist.ArtistID)
			})
			if ok && detail.Name != "" {
				artist.Name = detail.Name
			}
			return nil
		})
	}

	g.Wait()
}

// facet runs one fallible enrichment call and reports whether its result is
// usable. Enrichment is best-effort everywhere, so this is the only failure
// handling a facet gets.
func facet[T any](f func() (T, error)) (T, bool) {
	v, err := f()
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}
