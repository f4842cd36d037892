package data

// Tags are the curated vocabulary used to annotate tracks. Names are unique
// across the whole table, deprecated tags included.
//
// Tags are never hard-deleted: deleting one drops its track associations and
// sets Deprecated. Renaming a deprecated tag revives it.
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Deprecated bool   `json:"deprecated"`

	// Count of associated tracks, computed at query time, never written.
	TrackCount int64 `gorm:"->" json:"track_count"`
}
