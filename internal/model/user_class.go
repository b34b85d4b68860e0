package model

import "time"

// UserClass is a named cohort. Users, assignments and submissions all
// belong to exactly one class, and deleting a class removes all of them.
type UserClass struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c UserClass) String() string {
	return c.Name
}

// UserClassRequest is the payload for creating or renaming a class.
type UserClassRequest struct {
	Name string `json:"name" binding:"required,notblank,max=20"`
}
