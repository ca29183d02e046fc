package model

import "time"

// SlotLock is an advisory lock document guarding booking creation for one
// area+date. The unique _id makes concurrent acquisition a duplicate-key
// error, serializing the conflict re-check and insert.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
