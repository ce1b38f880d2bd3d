package model

import "time"

// UploadTarget describes a single-use destination the client sends file bytes to.
type UploadTarget struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	StorageID string            `json:"storageId"`
	ExpiresAt time.Time         `json:"expiresAt"`
}
