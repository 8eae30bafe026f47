// Package usercontext defines the per-request, immutable User Context
// and the credential-extraction helper it is built from.
package usercontext

import (
	"fmt"
	"time"
)

// Context is the per-request User Context. It is constructed once from RPC
// params, passed read-only through the pipeline, and never persisted.
type Context struct {
	// Timezone is an IANA timezone name (e.g. "America/New_York").
	Timezone string
	// CurrentDate is YYYY-MM-DD in Timezone.
	CurrentDate string
	// CurrentTime is HH:MM:SS in Timezone.
	CurrentTime string
	// UserName is an optional display name for the caller.
	UserName string
	// UserEmail is an optional email for the caller.
	UserEmail string
	// Credentials holds opaque, per-request provider credentials keyed by
	// provider-specific names (e.g. "RECLAIM_API_KEY", "NYLAS_API_KEY",
	// "NYLAS_GRANT_ID"). Never logged, never persisted beyond the request.
	Credentials map[string]string

	loc *time.Location
	now time.Time
}

// New builds a Context from RPC-supplied fields, resolving the IANA timezone
// and deriving the timezone-aware `now` instant. All timestamps crossing the
// system are timezone-aware instants; naive datetimes are rejected by
// returning an error here rather than downstream.
func New(timezone, currentDate, currentTime, userName, userEmail string, credentials map[string]string) (*Context, error) {
	if timezone == "" {
		timezone = "UTC"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("usercontext: invalid timezone %q: %w", timezone, err)
	}
	if currentDate == "" || currentTime == "" {
		return nil, fmt.Errorf("usercontext: current_date and current_time are required")
	}
	now, err := time.ParseInLocation("2006-01-02 15:04:05", currentDate+" "+currentTime, loc)
	if err != nil {
		return nil, fmt.Errorf("usercontext: parsing current date/time: %w", err)
	}
	if credentials == nil {
		credentials = map[string]string{}
	}
	return &Context{
		Timezone: timezone,
		CurrentDate: currentDate,
		CurrentTime: currentTime,
		UserName: userName,
		UserEmail: userEmail,
		Credentials: credentials,
		loc: loc,
		now: now,
	}, nil
}

// Now returns the timezone-aware instant derived from CurrentDate/CurrentTime.
func (c *Context) Now() time.Time { return c.now }

// Location returns the resolved *time.Location for Timezone.
func (c *Context) Location() *time.Location { return c.loc }

// HasTaskCredentials reports whether the task-provider credential is present.
func (c *Context) HasTaskCredentials() bool {
	return c.Credentials["RECLAIM_API_KEY"] != ""
}

// HasCalendarCredentials reports whether both calendar-provider credentials
// (API key and grant ID) are present.
func (c *Context) HasCalendarCredentials() bool {
	return c.Credentials["NYLAS_API_KEY"] != "" && c.Credentials["NYLAS_GRANT_ID"] != ""
}
