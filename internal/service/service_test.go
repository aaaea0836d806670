package service

import (
	"context"
	"time"

	"github.com/folio-labs/portfolio-server/internal/session"
)

const testAdminID = "7b0e4c8e-2b8f-4a43-9d0e-1f3f5c1b2a90"

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func adminCtx() context.Context {
	return session.WithClaims(context.Background(), &session.Claims{
		AdminID: testAdminID,
		Email:   "a@x.com",
		Name:    "Admin",
	})
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// stepClock returns a clock that advances by one second per call.
func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Second)
		return t
	}
}

func boolPtr(b bool) *bool { return &b }
