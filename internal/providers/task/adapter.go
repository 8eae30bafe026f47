// Package task implements the task-management provider adapter:
// list/get/create/update/mark_complete/delete, normalized to the
// domain.TaskDraft/TaskStatus vocabulary. The adapter is constructed per RPC
// from the request's credentials — there is no process-wide singleton.
package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"agentcal/internal/domain"
	"agentcal/internal/retry"
)

const defaultTimeout = 60 * time.Second

// Task is the normalized view of a provider task.
type Task struct {
	ID string
	Title string
	Notes string
	Priority domain.Priority
	Due *time.Time
	DurationHours float64
	Status domain.TaskStatus
	EventCategory string
}

// Adapter talks to the task-management provider's REST API.
type Adapter struct {
	baseURL string
	token string
	http *http.Client
}

// New constructs a per-request Adapter from the caller's bearer token.
func New(token string, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = "https://api.reclaim.ai/api"
	}
	return &Adapter{
		baseURL: baseURL,
		token: token,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// List returns all tasks visible to the caller. Duration is quantized to
// 15-minute chunks by the provider; the adapter reports the provider's value
// as-is.
func (a *Adapter) List(ctx context.Context) ([]Task, error) {
	var out []Task
	err := retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
		req, err := a.newRequest(ctx, http.MethodGet, "/tasks", nil)
		if err != nil {
			return err
		}
		resp, err := a.do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		var wire []wireTask
		if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
			return fmt.Errorf("task: decoding list response: %w", err)
		}
		out = make([]Task, 0, len(wire))
		for _, w := range wire {
			out = append(out, w.toTask())
		}
		return nil
	})
	return out, err
}

// Get fetches a single task by ID.
func (a *Adapter) Get(ctx context.Context, id string) (*Task, error) {
	var out Task
	err := retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
		req, err := a.newRequest(ctx, http.MethodGet, "/tasks/"+id, nil)
		if err != nil {
			return err
		}
		resp, err := a.do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		var w wireTask
		if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
			return fmt.Errorf("task: decoding get response: %w", err)
		}
		out = w.toTask()
		return nil
	})
	return &out, err
}

// Create creates a task from a draft. Create is never auto-retried (mutation).
func (a *Adapter) Create(ctx context.Context, draft *domain.TaskDraft, eventCategory string) (*Task, error) {
	body := fromDraft(draft, eventCategory)
	req, err := a.newRequest(ctx, http.MethodPost, "/tasks", body)
	if err != nil {
		return nil, err
	}
	resp, err := a.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var w wireTask
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, fmt.Errorf("task: decoding create response: %w", err)
	}
	out := w.toTask()
	return &out, nil
}

// Update applies a patch of fields to an existing task.
func (a *Adapter) Update(ctx context.Context, id string, patch map[string]any) (*Task, error) {
	req, err := a.newRequest(ctx, http.MethodPatch, "/tasks/"+id, patch)
	if err != nil {
		return nil, err
	}
	resp, err := a.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var w wireTask
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, fmt.Errorf("task: decoding update response: %w", err)
	}
	out := w.toTask()
	return &out, nil
}

// MarkComplete calls the provider's dedicated mark-complete endpoint, which
// is distinct from generic update.
func (a *Adapter) MarkComplete(ctx context.Context, id string) (*Task, error) {
	req, err := a.newRequest(ctx, http.MethodPost, "/tasks/"+id+"/done", nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var w wireTask
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, fmt.Errorf("task: decoding mark-complete response: %w", err)
	}
	out := w.toTask()
	return &out, nil
}

// Delete removes a task by ID.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	req, err := a.newRequest(ctx, http.MethodDelete, "/tasks/"+id, nil)
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

func (a *Adapter) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("task: encoding request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("task: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (a *Adapter) do(req *http.Request) (*http.Response, error) {
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("task: %s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(resp.Body)
		return nil, &retry.HTTPStatusError{StatusCode: resp.StatusCode, Message: string(msg)}
	}
	return resp, nil
}

// wireTask is the provider's JSON representation.
type wireTask struct {
	ID any `json:"id"`
	Title string `json:"title"`
	Notes string `json:"notes"`
	Priority string `json:"priority"`
	Due string `json:"due"`
	Duration float64 `json:"timeChunksRequired"`
	Status string `json:"status"`
	Category string `json:"eventCategory"`
}

func (w wireTask) toTask() Task {
	t := Task{
		ID: fmt.Sprint(w.ID),
		Title: w.Title,
		Notes: w.Notes,
		Priority: domain.Priority(w.Priority),
		DurationHours: w.Duration / 4, // provider quantizes in 15-minute chunks
		Status: domain.TaskStatus(w.Status),
		EventCategory: w.Category,
	}
	if w.Due != "" {
		if due, err := time.Parse(time.RFC3339, w.Due); err == nil {
			t.Due = &due
		}
	}
	return t
}

func fromDraft(d *domain.TaskDraft, eventCategory string) map[string]any {
	body := map[string]any{
		"title": d.Title,
		"notes": d.Notes,
		"priority": string(d.Priority),
		"timeChunksRequired": strconv.FormatFloat(d.DurationHours*4, 'f', 0, 64),
		"eventCategory": eventCategory,
	}
	if d.Due != nil {
		body["due"] = d.Due.Format(time.RFC3339)
	}
	return body
}
