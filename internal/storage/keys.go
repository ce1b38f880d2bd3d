package storage

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

const storagePrefix = "uploads/"

// NewStorageID returns a fresh object key of the form uploads/<ULID>.
func NewStorageID() string {
	return storagePrefix + ulid.Make().String()
}

// ValidStorageID reports whether id has the shape NewStorageID produces.
// It says nothing about whether an object was ever stored under it.
func ValidStorageID(id string) bool {
	rest, ok := strings.CutPrefix(id, storagePrefix)
	if !ok {
		return false
	}
	_, err := ulid.ParseStrict(rest)
	return err == nil
}
