package model

import (
	"time"
)

type File struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`       // Owner, immutable
	StorageID string    `db:"storage_id" json:"storageId"` // Blob handle in storage
	FileName  string    `db:"file_name" json:"fileName"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// Computed fields (not in database)
	URL string `db:"-" json:"url"`
}

// HasURL reports whether storage produced a retrieval URL for the file.
func (f *File) HasURL() bool {
	return f != nil && f.URL != ""
}
