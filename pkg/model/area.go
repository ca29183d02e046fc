package model

// Area is a bookable amenity. A single area exists today; keeping it as a
// collection means adding a second one is a seed entry, not a schema change.
type Area struct {
	ID   string `json:"id" bson:"_id" validate:"required,min=1,max=64"`
	Name string `json:"name" bson:"name" validate:"required,min=2,max=100"`
}
