package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/songla/songla/data"
)

// CreateTag adds a tag to the vocabulary. Tag names are unique across the
// whole table, deprecated tags included; a name collision is reported via
// the duplicate flag, not an error.
func (db *DB) CreateTag(ctx context.Context, name string) (*data.Tag, bool, error) {
	if name == "" {
		return nil, false, fmt.Errorf("no tag name")
	}

	var existing data.Tag
	err := db.WithContext(ctx).
		Table("tags").
		Where("name = ?", name).
		First(&existing).
		Error
	if err == nil {
		return nil, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("error checking tag name '%s': %w", name, err)
	}

	tag := data.Tag{Name: name}
	if err := db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, false, fmt.Errorf("error inserting tag '%s': %w", name, err)
	}
	return &tag, false, nil
}

// UpdateTag renames a tag. Renaming to a name held by a different tag is
// reported via the duplicate flag. A successful rename clears the deprecated
// flag, reviving soft-deleted tags.
func (db *DB) UpdateTag(ctx context.Context, id int64, name string) (*data.Tag, bool, error) {
	if name == "" {
		return nil, false, fmt.Errorf("no tag name")
	}

	var existing data.Tag
	err := db.WithContext(ctx).
		Table("tags").
		Where("name = ? and id != ?", name, id).
		First(&existing).
		Error
	if err == nil {
		return nil, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("error checking tag name '%s': %w", name, err)
	}

	if err := db.WithContext(ctx).
		Table("tags").
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"deprecated": false,
		}).
		Error; err != nil {
		return nil, false, fmt.Errorf("error renaming tag %d to '%s': %w", id, name, err)
	}

	var tag data.Tag
	if err := db.WithContext(ctx).
		Table("tags").
		Where("id = ?", id).
		First(&tag).
		Error; err != nil {
		return nil, false, fmt.Errorf("error rereading tag %d: %w", id, err)
	}
	return &tag, false, nil
}

// ListTags returns the tag vocabulary, optionally name-filtered, each
// annotated with its live track count. Active tags sort before deprecated
// ones, then by name.
func (db *DB) ListTags(ctx context.Context, filter string) ([]data.Tag, error) {
	q := db.WithContext(ctx).
		Table("tags").
		Select("tags.id, tags.name, tags.deprecated, count(track_tags.tag_id) as track_count").
		Joins("left join track_tags on track_tags.tag_id = tags.id").
		Group("tags.id").
		Order("tags.deprecated asc, tags.name asc")

	if filter != "" {
		q = q.Where("tags.name like ? collate nocase", "%"+filter+"%")
	}

	var tags []data.Tag
	if err := q.Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("error listing tags for '%s': %w", filter, err)
	}
	return tags, nil
}

// DeleteTags soft-deletes tags: their track associations are removed and the
// tags are marked deprecated. Tag rows are never physically removed, so the
// operation is idempotent.
func (db *DB) DeleteTags(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("tag_id in ?", ids).
			Delete(&data.TrackTag{}).
			Error; err != nil {
			return fmt.Errorf("error clearing associations for %d tags: %w", len(ids), err)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("canceled: %w", err)
		}

		if err := tx.
			Table("tags").
			Where("id in ?", ids).
			Update("deprecated", true).
			Error; err != nil {
			return fmt.Errorf("error deprecating %d tags: %w", len(ids), err)
		}
		return nil
	})
}
