// Package calendar implements the calendar provider adapter:
// events.list/find/create/update/destroy and grants.find, normalized to the
// domain.EventDraft/Participant vocabulary. Event times cross the wire as
// Unix seconds with an explicit IANA timezone string on each side of the
// window, matching the provider's wire format.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/retry"
)

const defaultTimeout = 60 * time.Second

// Event is the normalized view of a provider calendar event.
type Event struct {
	ID string
	Title string
	Description string
	Start time.Time
	End time.Time
	Location string
	Participants []domain.Participant
	CalendarID string
}

// Adapter talks to the calendar provider's REST API on behalf of a single
// grant.
type Adapter struct {
	baseURL string
	apiKey string
	grantID string
	http *http.Client
}

// New constructs a per-request Adapter from the caller's API key and grant ID.
func New(apiKey, grantID, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = "https://api.us.nylas.com/v3"
	}
	return &Adapter{
		baseURL: baseURL,
		apiKey: apiKey,
		grantID: grantID,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// List returns events within [from, to), idempotent and safe to retry.
func (a *Adapter) List(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error) {
	path := fmt.Sprintf("/grants/%s/events?calendar_id=%s&start=%d&end=%d",
		a.grantID, calendarID, from.Unix(), to.Unix())
	var out []Event
	err := retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
		req, err := a.newRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		resp, err := a.do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		var env struct {
			Data []wireEvent `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return fmt.Errorf("calendar: decoding list response: %w", err)
		}
		out = make([]Event, 0, len(env.Data))
		for _, w := range env.Data {
			out = append(out, w.toEvent())
		}
		return nil
	})
	return out, err
}

// Find fetches a single event by ID.
func (a *Adapter) Find(ctx context.Context, calendarID, eventID string) (*Event, error) {
	path := fmt.Sprintf("/grants/%s/events/%s?calendar_id=%s", a.grantID, eventID, calendarID)
	var out Event
	err := retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
		req, err := a.newRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		resp, err := a.do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		var env struct {
			Data wireEvent `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return fmt.Errorf("calendar: decoding find response: %w", err)
		}
		out = env.Data.toEvent()
		return nil
	})
	return &out, err
}

// Create creates an event from a draft. Never auto-retried (mutation).
func (a *Adapter) Create(ctx context.Context, calendarID, tz string, draft *domain.EventDraft) (*Event, error) {
	path := fmt.Sprintf("/grants/%s/events?calendar_id=%s", a.grantID, calendarID)
	req, err := a.newRequest(ctx, http.MethodPost, path, fromDraft(draft, tz))
	if err != nil {
		return nil, err
	}
	resp, err := a.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var env struct {
		Data wireEvent `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("calendar: decoding create response: %w", err)
	}
	out := env.Data.toEvent()
	return &out, nil
}

// Update applies a patch of fields to an existing event.
func (a *Adapter) Update(ctx context.Context, calendarID, eventID string, patch map[string]any) (*Event, error) {
	path := fmt.Sprintf("/grants/%s/events/%s?calendar_id=%s", a.grantID, eventID, calendarID)
	req, err := a.newRequest(ctx, http.MethodPut, path, patch)
	if err != nil {
		return nil, err
	}
	resp, err := a.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var env struct {
		Data wireEvent `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("calendar: decoding update response: %w", err)
	}
	out := env.Data.toEvent()
	return &out, nil
}

// Destroy deletes an event by ID.
func (a *Adapter) Destroy(ctx context.Context, calendarID, eventID string) error {
	path := fmt.Sprintf("/grants/%s/events/%s?calendar_id=%s", a.grantID, eventID, calendarID)
	req, err := a.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	resp, err := a.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// GrantFind confirms the grant is live and returns the provider email
// associated with it, used by the needs-setup check.
func (a *Adapter) GrantFind(ctx context.Context) (string, error) {
	path := "/grants/" + a.grantID
	var email string
	err := retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
		req, err := a.newRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return err
		}
		resp, err := a.do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		var env struct {
			Data struct {
				Email string `json:"email"`
			} `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return fmt.Errorf("calendar: decoding grant response: %w", err)
		}
		email = env.Data.Email
		return nil
	})
	return email, err
}

func (a *Adapter) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("calendar: encoding request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("calendar: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (a *Adapter) do(req *http.Request) (*http.Response, error) {
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar: %s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, &retry.HTTPStatusError{StatusCode: resp.StatusCode, Message: string(msg)}
	}
	return resp, nil
}

// wireEvent is the provider's JSON representation: Unix-second times, a
// participants array with an explicit RSVP status per participant.
type wireEvent struct {
	ID string `json:"id"`
	Title string `json:"title"`
	Description string `json:"description"`
	Location string `json:"location"`
	CalendarID string `json:"calendar_id"`
	When struct {
		StartTime int64 `json:"start_time"`
		EndTime int64 `json:"end_time"`
		StartTimezone string `json:"start_timezone"`
		EndTimezone string `json:"end_timezone"`
	} `json:"when"`
	Participants []wireParticipant `json:"participants"`
}

type wireParticipant struct {
	Email string `json:"email"`
	Name string `json:"name"`
	Status string `json:"status"`
}

func (w wireEvent) toEvent() Event {
	loc := time.UTC
	if w.When.StartTimezone != "" {
		if l, err := time.LoadLocation(w.When.StartTimezone); err == nil {
			loc = l
		}
	}
	e := Event{
		ID: w.ID,
		Title: w.Title,
		Description: w.Description,
		Location: w.Location,
		CalendarID: w.CalendarID,
		Start: time.Unix(w.When.StartTime, 0).In(loc),
		End: time.Unix(w.When.EndTime, 0).In(loc),
	}
	for _, p := range w.Participants {
		e.Participants = append(e.Participants, domain.Participant{
			Name: p.Name,
			Email: p.Email,
			Status: domain.ParticipantStatus(p.Status),
		})
	}
	return e
}

func fromDraft(d *domain.EventDraft, tz string) map[string]any {
	body := map[string]any{
		"title": d.Title,
		"description": d.Description,
		"location": d.Location,
		"busy": d.Busy,
		"when": map[string]any{
			"start_time": d.Start.Unix(),
			"end_time": d.End.Unix(),
			"start_timezone": tz,
			"end_timezone": tz,
		},
	}
	if len(d.Participants) > 0 {
		parts := make([]map[string]any, 0, len(d.Participants))
		for _, p := range d.Participants {
			email := p.Email
			if email == "" {
				email = syntheticEmail(p.Name)
			}
			parts = append(parts, map[string]any{
				"email": email,
				"name": p.Name,
			})
		}
		body["participants"] = parts
	}
	return body
}

// syntheticEmail builds a placeholder address for a name-only participant,
// e.g. "Jane Doe" -> "jane.doe@example.com".
func syntheticEmail(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return "noreply@example.com"
	}
	return strings.Join(fields, ".") + "@example.com"
}
