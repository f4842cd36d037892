package db

import (
	"context"
	"fmt"

	"github.com/songla/songla/data"
)

// ListArtists returns every artist referenced by at least one stored track,
// ordered by name. Artist rows linger after their last track is deleted;
// those are filtered out here rather than garbage-collected.
func (db *DB) ListArtists(ctx context.Context) ([]data.Artist, error) {
	var artists []data.Artist
	if err := db.WithContext(ctx).
		Table("artists").
		Where("artist_id in (?)",
			db.Table("track_artists").Select("distinct artist_id")).
		Order("name asc").
		Find(&artists).
		Error; err != nil {
		return nil, fmt.Errorf("error listing artists: %w", err)
	}
	return artists, nil
}
