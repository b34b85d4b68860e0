package model

import "time"

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	SubmissionStatusDraft     SubmissionStatus = "DRAFT"
	SubmissionStatusSubmitted SubmissionStatus = "SUBMITTED"
	SubmissionStatusGraded    SubmissionStatus = "GRADED"
	SubmissionStatusReturned  SubmissionStatus = "RETURNED"
)

var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionStatusDraft:     {SubmissionStatusSubmitted},
	SubmissionStatusSubmitted: {SubmissionStatusGraded, SubmissionStatusReturned},
	SubmissionStatusGraded:    {SubmissionStatusReturned},
	SubmissionStatusReturned:  {SubmissionStatusDraft, SubmissionStatusSubmitted},
}

// Valid reports whether s is a known status.
func (s SubmissionStatus) Valid() bool {
	_, ok := submissionTransitions[s]
	return ok
}

// CanTransitionTo reports whether a submission may move from s to next.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range submissionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Flags returns the (is_draft, is_submitted) pair implied by the status.
// The two are never both true.
func (s SubmissionStatus) Flags() (isDraft, isSubmitted bool) {
	switch s {
	case SubmissionStatusSubmitted, SubmissionStatusGraded:
		return false, true
	default:
		return true, false
	}
}

// Submission is a student's response to an assignment.
type Submission struct {
	ID           int              `json:"id"`
	AssignmentID int              `json:"assignment_id"`
	AuthorID     int              `json:"author_id"`
	ClassID      int              `json:"class_id"`
	Title        string           `json:"title"`
	Content      string           `json:"content"`
	Status       SubmissionStatus `json:"status"`
	Score        float64          `json:"score"`
	IsDraft      bool             `json:"is_draft"`
	IsSubmitted  bool             `json:"is_submitted"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (s Submission) String() string {
	return s.Title
}

// SetStatus updates the status together with the derived flags.
func (s *Submission) SetStatus(status SubmissionStatus) {
	s.Status = status
	s.IsDraft, s.IsSubmitted = status.Flags()
}

// SubmissionRequest is the add/change form for a submission. ClassID is
// optional; when omitted it is taken from the assignment. Score is only
// read on change and a missing score keeps the stored one.
type SubmissionRequest struct {
	AssignmentID int              `json:"assignment_id" binding:"required,min=1"`
	AuthorID     int              `json:"author_id" binding:"required,min=1"`
	ClassID      int              `json:"class_id" binding:"omitempty,min=1"`
	Title        string           `json:"title" binding:"required,notblank,max=255"`
	Content      string           `json:"content"`
	Status       SubmissionStatus `json:"status" binding:"omitempty,oneof=DRAFT SUBMITTED GRADED RETURNED"`
	Score        *float64         `json:"score" binding:"omitempty,min=0"`
}

// GradeRequest records a score for a submission.
type GradeRequest struct {
	Score *float64 `json:"score" binding:"required,min=0"`
}
