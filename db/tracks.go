package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/songla/songla/data"
)

// CreateTracks inserts a batch of tracks with their artist associations.
//
// The whole batch is checked for already-stored video ids first: if any are
// found, nothing is written and the display names of the conflicting tracks
// are returned. The check and the insert are separate steps; a concurrent
// create racing between them loses at insert time on the video_id primary
// key, inside its own transaction.
//
// Referenced artists are upserted (created if absent, name refreshed if
// present) because artist identity is shared across tracks.
func (db *DB) CreateTracks(ctx context.Context, tracks []data.Track) (created []data.Track, duplicates []string, err error) {
	ids := make([]string, len(tracks))
	for i, track := range tracks {
		if track.VideoID == "" {
			return nil, nil, fmt.Errorf("no video id")
		}
		ids[i] = track.VideoID
	}

	if err := db.WithContext(ctx).
		Table("tracks").
		Where("video_id in ?", ids).
		Pluck("name", &duplicates).
		Error; err != nil {
		return nil, nil, fmt.Errorf("error checking %d tracks for duplicates: %w", len(ids), err)
	}
	if len(duplicates) > 0 {
		return nil, duplicates, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range tracks {
			track := &tracks[i]
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("canceled: %w", err)
			}

			for _, artist := range track.Artists {
				if artist.ArtistID == "" {
					return fmt.Errorf("no artist id")
				}
				if err := tx.
					Clauses(clause.OnConflict{
						Columns:   []clause.Column{{Name: "artist_id"}},
						DoUpdates: clause.AssignmentColumns([]string{"name"}),
					}).
					Create(&artist).
					Error; err != nil {
					return fmt.Errorf("error upserting artist '%s': %w", artist.Name, err)
				}
			}

			if err := tx.Create(track).Error; err != nil {
				return fmt.Errorf("error inserting track '%s': %w", track.Name, err)
			}

			for _, artist := range track.Artists {
				if err := tx.
					Clauses(clause.OnConflict{DoNothing: true}).
					Create(&data.TrackArtist{
						TrackVideoID: track.VideoID,
						ArtistID:     artist.ArtistID,
					}).
					Error; err != nil {
					return fmt.Errorf("error inserting track artist {'%s', '%s'}: %w", track.Name, artist.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	created = make([]data.Track, len(ids))
	for i, id := range ids {
		track, err := db.GetTrack(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("error rereading created track '%s': %w", id, err)
		}
		created[i] = *track
	}
	return created, nil, nil
}

// GetTrack reads one track with its artist and tag associations.
func (db *DB) GetTrack(ctx context.Context, videoID string) (*data.Track, error) {
	var track data.Track
	if err := db.WithContext(ctx).
		Table("tracks").
		Where("video_id = ?", videoID).
		First(&track).
		Error; err != nil {
		return nil, fmt.Errorf("error getting track '%s': %w", videoID, err)
	}

	var artistIDs []string
	if err := db.WithContext(ctx).
		Table("track_artists").
		Where("track_video_id = ?", videoID).
		Pluck("artist_id", &artistIDs).
		Error; err != nil {
		return nil, fmt.Errorf("error getting artist ids for track '%s': %w", videoID, err)
	}

	track.Artists = make([]data.Artist, len(artistIDs))
	for i, artistID := range artistIDs {
		var artist data.Artist
		if err := db.WithContext(ctx).
			Table("artists").
			Where("artist_id = ?", artistID).
			First(&artist).
			Error; err != nil {
			return nil, fmt.Errorf("error getting artist '%s': %w", artistID, err)
		}
		track.Artists[i] = artist
	}

	track.TagIDs = []int64{}
	if err := db.WithContext(ctx).
		Table("track_tags").
		Where("track_video_id = ?", videoID).
		Order("tag_id asc").
		Pluck("tag_id", &track.TagIDs).
		Error; err != nil {
		return nil, fmt.Errorf("error getting tag ids for track '%s': %w", videoID, err)
	}

	return &track, nil
}

// QueryTracks returns tracks whose name, album name, or any artist name
// contains the filter, case-insensitively. An empty filter returns every
// track. Results are ordered by release year descending with absent years
// last, then by name.
func (db *DB) QueryTracks(ctx context.Context, filter string) ([]data.Track, error) {
	q := db.WithContext(ctx).
		Table("tracks").
		Order("release_year is null, release_year desc, tracks.name asc")

	if filter != "" {
		pattern := "%" + filter + "%"
		byArtist := db.Table("track_artists").
			Select("track_video_id").
			Joins("join artists on artists.artist_id = track_artists.artist_id").
			Where("artists.name like ? collate nocase", pattern)
		q = q.Where(
			"tracks.name like ? collate nocase or tracks.album_name like ? collate nocase or tracks.video_id in (?)",
			pattern, pattern, byArtist)
	}

	var ids []string
	if err := q.Pluck("tracks.video_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("error querying tracks for '%s': %w", filter, err)
	}

	return db.getTracks(ctx, ids)
}

// QueryTracksByFilter returns tracks that have at least one artist in
// artistIDs and at least one tag in tagIDs. Either filter may be empty, in
// which case that condition is dropped. Both empty returns every track.
func (db *DB) QueryTracksByFilter(ctx context.Context, artistIDs []string, tagIDs []int64) ([]data.Track, error) {
	q := db.WithContext(ctx).
		Table("tracks").
		Order("release_year is null, release_year desc, tracks.name asc")

	if len(artistIDs) > 0 {
		q = q.Where("video_id in (?)",
			db.Table("track_artists").
				Select("track_video_id").
				Where("artist_id in ?", artistIDs))
	}
	if len(tagIDs) > 0 {
		q = q.Where("video_id in (?)",
			db.Table("track_tags").
				Select("track_video_id").
				Where("tag_id in ?", tagIDs))
	}

	var ids []string
	if err := q.Pluck("tracks.video_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("error querying tracks by filter: %w", err)
	}

	return db.getTracks(ctx, ids)
}

// ReplaceTrackTags swaps out the full tag set of each listed track: existing
// associations are deleted, the requested set is inserted, and the track's
// updated_at is touched. The batch runs in one transaction; an unknown video
// id fails the whole batch, so no association rows land without their track.
func (db *DB) ReplaceTrackTags(ctx context.Context, updates []data.TagUpdate) ([]data.Track, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, update := range updates {
			if update.VideoID == "" {
				return fmt.Errorf("no video id")
			}
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("canceled: %w", err)
			}

			if err := tx.
				Where("track_video_id = ?", update.VideoID).
				Delete(&data.TrackTag{}).
				Error; err != nil {
				return fmt.Errorf("error clearing tags for track '%s': %w", update.VideoID, err)
			}

			for _, tagID := range update.TagIDs {
				if err := tx.
					Clauses(clause.OnConflict{DoNothing: true}).
					Create(&data.TrackTag{
						TrackVideoID: update.VideoID,
						TagID:        tagID,
					}).
					Error; err != nil {
					return fmt.Errorf("error tagging track '%s' with tag %d: %w", update.VideoID, tagID, err)
				}
			}

			touch := tx.
				Table("tracks").
				Where("video_id = ?", update.VideoID).
				Update("updated_at", now)
			if touch.Error != nil {
				return fmt.Errorf("error touching track '%s': %w", update.VideoID, touch.Error)
			}
			if touch.RowsAffected == 0 {
				return fmt.Errorf("no track '%s'", update.VideoID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tracks := make([]data.Track, len(updates))
	for i, update := range updates {
		track, err := db.GetTrack(ctx, update.VideoID)
		if err != nil {
			return nil, fmt.Errorf("error rereading track '%s': %w", update.VideoID, err)
		}
		tracks[i] = *track
	}
	return tracks, nil
}

// DeleteTracks removes tracks and their association rows. Unknown ids are
// no-ops.
func (db *DB) DeleteTracks(ctx context.Context, videoIDs []string) error {
	if len(videoIDs) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("track_video_id in ?", videoIDs).
			Delete(&data.TrackTag{}).
			Error; err != nil {
			return fmt.Errorf("error deleting tag rows for %d tracks: %w", len(videoIDs), err)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("canceled: %w", err)
		}

		if err := tx.
			Where("track_video_id in ?", videoIDs).
			Delete(&data.TrackArtist{}).
			Error; err != nil {
			return fmt.Errorf("error deleting artist rows for %d tracks: %w", len(videoIDs), err)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("canceled: %w", err)
		}

		if err := tx.
			Where("video_id in ?", videoIDs).
			Delete(&data.Track{}).
			Error; err != nil {
			return fmt.Errorf("error deleting %d tracks: %w", len(videoIDs), err)
		}
		return nil
	})
}

func (db *DB) getTracks(ctx context.Context, ids []string) ([]data.Track, error) {
	tracks := make([]data.Track, len(ids))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("canceled: %w", err)
		}

		track, err := db.GetTrack(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error getting track '%s': %w", id, err)
		}
		tracks[i] = *track
	}
	return tracks, nil
}
