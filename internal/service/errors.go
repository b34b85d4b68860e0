package service

import "errors"

// Domain errors shared by the record services.
var (
	ErrInvalidRole       = errors.New("role must be ADMIN, STUDENT or INSTRUCTOR")
	ErrClassMismatch     = errors.New("records belong to different classes")
	ErrScoreOutOfRange   = errors.New("score must be between 0 and the assignment marks")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrAssignmentNotOpen = errors.New("assignment is not open for submissions")
	ErrDeadlinePassed    = errors.New("assignment deadline has passed")
	ErrNotAuthor         = errors.New("not the author of this record")
	ErrSelfAction        = errors.New("cannot perform this action on your own account")
)

// checkClassMove rejects moving a record to another class while rows
// scoped to its current class still reference it.
func checkClassMove(from, to int, hasDependents bool) error {
	if from != to && hasDependents {
		return ErrClassMismatch
	}
	return nil
}
