package model

import "time"

// AssignmentStatus is the publication state of an assignment.
type AssignmentStatus string

const (
	AssignmentStatusDraft     AssignmentStatus = "DRAFT"
	AssignmentStatusPublished AssignmentStatus = "PUBLISHED"
	AssignmentStatusClosed    AssignmentStatus = "CLOSED"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusDraft:     {AssignmentStatusPublished},
	AssignmentStatusPublished: {AssignmentStatusClosed},
	AssignmentStatusClosed:    {AssignmentStatusPublished},
}

// Valid reports whether s is a known status.
func (s AssignmentStatus) Valid() bool {
	_, ok := assignmentTransitions[s]
	return ok
}

// CanTransitionTo reports whether an assignment may move from s to next.
// Staying in the same state is always allowed.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range assignmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Assignment is a task authored by a user for one class.
type Assignment struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Course     string `json:"course"`
	CourseCode string `json:"course_code"`
	AuthorID   int    `json:"author_id"`
	ClassID    int    `json:"class_id"`
	// Duration is the submission deadline.
	Duration  time.Time        `json:"duration"`
	Status    AssignmentStatus `json:"status"`
	Marks     int              `json:"marks"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (a Assignment) String() string {
	return a.Title
}

// PastDeadline reports whether now is after the assignment deadline.
func (a Assignment) PastDeadline(now time.Time) bool {
	return now.After(a.Duration)
}

// AssignmentRequest is the add/change form for an assignment.
type AssignmentRequest struct {
	Title      string           `json:"title" binding:"required,notblank,max=300"`
	Course     string           `json:"course" binding:"required,max=50"`
	CourseCode string           `json:"course_code" binding:"required,max=10"`
	AuthorID   int              `json:"author_id" binding:"omitempty,min=1"`
	ClassID    int              `json:"class_id" binding:"required,min=1"`
	Duration   time.Time        `json:"duration" binding:"required"`
	Status     AssignmentStatus `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED CLOSED"`
	Marks      *int             `json:"marks" binding:"required,min=0"`
}
