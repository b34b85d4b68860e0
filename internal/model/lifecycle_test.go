package model

import (
	"testing"
	"time"
)

func TestAssignmentAndSubmissionStringIsTitle(t *testing.T) {
	a := Assignment{Title: "Essay on tides"}
	if a.String() != "Essay on tides" {
		t.Errorf("Assignment.String() = %q", a.String())
	}
	s := Submission{Title: "My essay"}
	if s.String() != "My essay" {
		t.Errorf("Submission.String() = %q", s.String())
	}
	c := UserClass{Name: "7B"}
	if c.String() != "7B" {
		t.Errorf("UserClass.String() = %q", c.String())
	}
}

func TestAssignmentTransitions(t *testing.T) {
	tests := []struct {
		from, to AssignmentStatus
		ok       bool
	}{
		{AssignmentStatusDraft, AssignmentStatusDraft, true},
		{AssignmentStatusDraft, AssignmentStatusPublished, true},
		{AssignmentStatusDraft, AssignmentStatusClosed, false},
		{AssignmentStatusPublished, AssignmentStatusClosed, true},
		{AssignmentStatusPublished, AssignmentStatusDraft, false},
		{AssignmentStatusClosed, AssignmentStatusPublished, true},
		{AssignmentStatusClosed, "ARCHIVED", false},
	}
	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestSubmissionTransitions(t *testing.T) {
	tests := []struct {
		from, to SubmissionStatus
		ok       bool
	}{
		{SubmissionStatusDraft, SubmissionStatusSubmitted, true},
		{SubmissionStatusDraft, SubmissionStatusGraded, false},
		{SubmissionStatusSubmitted, SubmissionStatusGraded, true},
		{SubmissionStatusSubmitted, SubmissionStatusReturned, true},
		{SubmissionStatusSubmitted, SubmissionStatusDraft, false},
		{SubmissionStatusGraded, SubmissionStatusGraded, true},
		{SubmissionStatusGraded, SubmissionStatusReturned, true},
		{SubmissionStatusGraded, SubmissionStatusDraft, false},
		{SubmissionStatusReturned, SubmissionStatusDraft, true},
		{SubmissionStatusReturned, SubmissionStatusSubmitted, true},
	}
	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestSubmissionFlagsNeverBothTrue(t *testing.T) {
	for _, st := range []SubmissionStatus{
		SubmissionStatusDraft, SubmissionStatusSubmitted,
		SubmissionStatusGraded, SubmissionStatusReturned,
	} {
		var s Submission
		s.SetStatus(st)
		if s.IsDraft && s.IsSubmitted {
			t.Errorf("%s: both flags set", st)
		}
		if !s.IsDraft && !s.IsSubmitted {
			t.Errorf("%s: neither flag set", st)
		}
	}
}

func TestAssignmentPastDeadline(t *testing.T) {
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Assignment{Duration: due}
	if a.PastDeadline(due.Add(-time.Minute)) {
		t.Error("before deadline reported as past")
	}
	if !a.PastDeadline(due.Add(time.Minute)) {
		t.Error("after deadline not reported as past")
	}
}
