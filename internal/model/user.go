package model

import (
	"time"
)

// DefaultUserName is stored when the identity provider supplies no name.
const DefaultUserName = "Anonymous"

type User struct {
	ID         string    `db:"id" json:"id"`
	ExternalID string    `db:"external_id" json:"externalId"` // Identity provider subject
	Name       string    `db:"name" json:"name"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
