package models

import (
	"testing"
	"time"
)

func TestJobDaysOpen(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	job := Job{SLADays: 21}
	if job.DaysOpen(now) != 0 {
		t.Fatal("unposted job must report zero days open")
	}
	if job.IsOverdue(now) {
		t.Fatal("unposted job must not be overdue")
	}

	posted := now.AddDate(0, 0, -25)
	job.PostedDate = &posted

	if got := job.DaysOpen(now); got != 25 {
		t.Fatalf("days open = %d, want 25", got)
	}
	if !job.IsOverdue(now) {
		t.Fatal("job open 25 days with 21-day SLA must be overdue")
	}
}

func TestJobNotOverdueWithinSLA(t *testing.T) {
	now := time.Now()
	posted := now.AddDate(0, 0, -10)

	job := Job{SLADays: 21, PostedDate: &posted}
	if job.IsOverdue(now) {
		t.Fatal("job open 10 days with 21-day SLA must not be overdue")
	}
}
