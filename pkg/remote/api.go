package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/session"
)

// Period selects a stats window.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// Days is the window length of p.
func (p Period) Days() int {
	if p == Monthly {
		return 30
	}
	return 7
}

// ParsePeriod accepts weekly or monthly.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	}
	return "", fmt.Errorf("remote: unknown period %q", s)
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	var resp struct {
		Token  string `json:"token"`
		Name   string `json:"name"`
		UserID id     `json:"userId"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return session.Session{}, err
	}
	if resp.Token == "" {
		return session.Session{}, fmt.Errorf("remote: login returned no token")
	}
	return session.Session{Token: resp.Token, Name: resp.Name, UserID: string(resp.UserID)}, nil
}

// Signup registers a new account. It does not sign in.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/signup", body, nil)
}

// Tasks lists the tasks due on date, or every task when date is empty.
func (c *Client) Tasks(ctx context.Context, date string) ([]domain.Task, error) {
	path := "/tasks"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	var resp []wireTask
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Task, 0, len(resp))
	for _, t := range resp {
		out = append(out, t.Task())
	}
	return out, nil
}

// CreateTask creates a task; the server assigns the id and status.
func (c *Client) CreateTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	in.Status = ""
	var resp wireTask
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &resp); err != nil {
		return domain.Task{}, err
	}
	return resp.Task(), nil
}

// ToggleTask flips a task between ACTIVE and COMPLETED.
func (c *Client) ToggleTask(ctx context.Context, taskID string) (domain.Task, error) {
	var resp wireTask
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+escape(taskID)+"/toggle", nil, &resp); err != nil {
		return domain.Task{}, err
	}
	return resp.Task(), nil
}

// UpdateTask replaces every editable field of a task, status included.
func (c *Client) UpdateTask(ctx context.Context, taskID string, in domain.TaskInput) (domain.Task, error) {
	var resp wireTask
	if err := c.do(ctx, http.MethodPut, "/tasks/"+escape(taskID), in, &resp); err != nil {
		return domain.Task{}, err
	}
	return resp.Task(), nil
}

// DeleteTask removes a task permanently.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+escape(taskID), nil, nil)
}

// Summary is today's server-side aggregate.
func (c *Client) Summary(ctx context.Context) (domain.Summary, error) {
	var s domain.Summary
	err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, &s)
	return s, err
}

// Stats returns the daily snapshots the server holds for p.
func (c *Client) Stats(ctx context.Context, p Period) ([]domain.Snapshot, error) {
	var resp []domain.Snapshot
	if err := c.do(ctx, http.MethodGet, "/stats/"+string(p), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Streak is the server's current streak.
func (c *Client) Streak(ctx context.Context) (int, error) {
	var resp struct {
		Streak int `json:"streak"`
	}
	err := c.do(ctx, http.MethodGet, "/stats/streak", nil, &resp)
	return resp.Streak, err
}

// PushToday upserts today's snapshot.
func (c *Client) PushToday(ctx context.Context, p domain.Push) error {
	return c.do(ctx, http.MethodPost, "/stats/today", p, nil)
}

// id accepts either a JSON string or number.
type id string

func (i *id) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*i = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = id(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*i = id(n.String())
	return nil
}

// wireTask is a task as the server sends it.
type wireTask struct {
	ID          id              `json:"id"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Time        json.RawMessage `json:"time"`
	Priority    domain.Priority `json:"priority"`
	Date        string          `json:"date"`
	Status      domain.Status   `json:"status"`
	CompletedAt json.RawMessage `json:"completedAt"`
}

func (w wireTask) Task() domain.Task {
	t := domain.Task{
		ID:          string(w.ID),
		Title:       w.Title,
		Category:    w.Category,
		Time:        timeLabel(w.Time),
		Priority:    w.Priority,
		Date:        w.Date,
		Status:      w.Status,
		CompletedAt: timestamp(w.CompletedAt),
	}
	if t.Status == "" {
		t.Status = domain.StatusActive
	}
	return t
}

// timeLabel keeps string labels as-is and renders bare minutes as "<n> min".
func timeLabel(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.Itoa(int(n)) + " min"
	}
	return ""
}

// timestamp accepts RFC 3339 as well as zone-less local date-times.
func timestamp(raw json.RawMessage) *time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
