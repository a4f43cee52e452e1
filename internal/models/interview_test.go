package models

import "testing"

func TestInterviewTransitions(t *testing.T) {
	cases := []struct {
		from    InterviewStatus
		to      InterviewStatus
		allowed bool
	}{
		{InterviewScheduled, InterviewConfirmed, true},
		{InterviewConfirmed, InterviewInProgress, true},
		{InterviewConfirmed, InterviewCompleted, true},
		{InterviewInProgress, InterviewCompleted, true},
		{InterviewScheduled, InterviewCompleted, false},
		{InterviewScheduled, InterviewNoShow, true},
		{InterviewConfirmed, InterviewNoShow, true},
		{InterviewInProgress, InterviewNoShow, false},
		{InterviewScheduled, InterviewRescheduled, true},
		{InterviewCompleted, InterviewConfirmed, false},
		{InterviewCancelled, InterviewConfirmed, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestInterviewCancellation(t *testing.T) {
	for _, from := range []InterviewStatus{InterviewScheduled, InterviewConfirmed, InterviewInProgress, InterviewNoShow, InterviewRescheduled} {
		if !from.CanTransition(InterviewCancelled) {
			t.Fatalf("expected cancellation from %s to be allowed", from)
		}
	}

	for _, from := range []InterviewStatus{InterviewCompleted, InterviewCancelled} {
		if from.CanTransition(InterviewCancelled) {
			t.Fatalf("expected cancellation from %s to be rejected", from)
		}
	}
}
