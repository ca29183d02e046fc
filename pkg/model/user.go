package model

import "time"

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	DisplayName  string    `json:"display_name" bson:"display_name" validate:"required,min=2,max=100"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
