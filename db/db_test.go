package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/songla/songla/data"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testTrack(videoID, name string, artists ...data.Artist) data.Track {
	return data.Track{
		VideoID:   videoID,
		Name:      name,
		AlbumID:   "alb-" + videoID,
		AlbumName: "Album " + name,
		Artists:   artists,
	}
}

func mustCreate(t *testing.T, db *DB, tracks ...data.Track) []data.Track {
	t.Helper()
	created, duplicates, err := db.CreateTracks(context.Background(), tracks)
	require.NoError(t, err)
	require.Empty(t, duplicates)
	require.Len(t, created, len(tracks))
	return created
}

func mustCreateTag(t *testing.T, db *DB, name string) *data.Tag {
	t.Helper()
	tag, duplicate, err := db.CreateTag(context.Background(), name)
	require.NoError(t, err)
	require.False(t, duplicate)
	return tag
}
