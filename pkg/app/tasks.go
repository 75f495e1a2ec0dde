package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/focusflow/pkg/day"
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/remote"
)

const (
	DefaultCategory = "General"
	DefaultMinutes  = 25
)

// Tasks returns the cached task domain.
func (s *Service) Tasks() domain.Tasks {
	return s.Store().LoadTasks()
}

// Refresh replaces the cache with the server's task list. Unsynced local
// edits and pending deletions win over what the server returns. On failure
// the cache is returned together with the error.
func (s *Service) Refresh(ctx context.Context) (domain.Tasks, error) {
	st := s.Store()
	if !s.Online() {
		return st.LoadTasks(), nil
	}
	list, err := s.remote.Tasks(ctx, "")
	if err != nil {
		s.log.Warn("task refresh failed, using cache", "err", err)
		return st.LoadTasks(), err
	}
	ts := st.UpdateTasks(func(ts *domain.Tasks) {
		*ts = merge(*ts, list)
	})
	return ts, nil
}

func merge(local domain.Tasks, server []domain.Task) domain.Tasks {
	dirty := make(map[string]domain.Task)
	for _, t := range local.Unsynced() {
		dirty[t.ID] = t
	}
	next := domain.Tasks{
		Active:    []domain.Task{},
		Completed: []domain.Task{},
		Pending:   local.Pending,
	}
	for _, t := range server {
		if local.PendingIndex(t.ID) >= 0 {
			continue
		}
		if d, ok := dirty[t.ID]; ok {
			next.Put(d)
			delete(dirty, t.ID)
			continue
		}
		next.Put(t)
	}
	// Anything still dirty is either not created yet or gone from the server.
	for _, t := range local.All() {
		if _, ok := dirty[t.ID]; ok && t.Local() {
			next.Put(t)
		}
	}
	return next
}

// TaskPatch holds the fields an edit changes; nil leaves a field alone.
type TaskPatch struct {
	Title    *string
	Category *string
	Time     *string
	Priority *string
	Date     *string
}

func (p TaskPatch) apply(in domain.TaskInput) domain.TaskInput {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Time != nil {
		in.Time = *p.Time
	}
	if p.Priority != nil {
		in.Priority = domain.Priority(*p.Priority)
	}
	if p.Date != nil {
		in.Date = *p.Date
	}
	return in
}

// normalize validates in and fills defaults. Nothing is sent to the server
// when it fails.
func normalize(in domain.TaskInput, today string) (domain.TaskInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, fmt.Errorf("%w: title is required", ErrValidation)
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = DefaultCategory
	}
	in.Time = timeLabel(in.Time)
	p, err := domain.ParsePriority(string(in.Priority))
	if err != nil {
		return in, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	in.Priority = p
	if strings.TrimSpace(in.Date) == "" {
		in.Date = today
	} else {
		d, err := day.ParseLoose(in.Date, today)
		if err != nil {
			return in, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		in.Date = d
	}
	return in, nil
}

// timeLabel turns "30" into "30 min"; other labels pass through.
func timeLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return strconv.Itoa(DefaultMinutes) + " min"
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return strconv.Itoa(n) + " min"
	}
	return s
}

// AddTask creates a task. It is saved locally under a temporary id first and
// renamed once the server assigns one.
func (s *Service) AddTask(ctx context.Context, in domain.TaskInput) (domain.Task, error) {
	today := s.clock.Today()
	in, err := normalize(in, today)
	if err != nil {
		return domain.Task{}, err
	}
	t := domain.Task{
		ID:       domain.LocalIDPrefix + uuid.NewString(),
		Title:    in.Title,
		Category: in.Category,
		Time:     in.Time,
		Priority: in.Priority,
		Date:     in.Date,
		Status:   domain.StatusActive,
		Unsynced: true,
	}
	s.Store().UpdateTasks(func(ts *domain.Tasks) { ts.Put(t) })
	s.changed(true)

	if !s.Online() {
		return t, nil
	}
	server, err := s.create(ctx, t)
	if server.ID != "" {
		t = s.settle(t, server, err == nil)
	}
	if err != nil {
		return t, &SyncError{Op: "add", Err: err}
	}
	return t, nil
}

// create sends a local-only task. The returned task carries the server id
// whenever creation itself succeeded, even if a follow-up call failed.
func (s *Service) create(ctx context.Context, t domain.Task) (domain.Task, error) {
	created, err := s.remote.CreateTask(ctx, t.Input())
	if err != nil {
		return domain.Task{}, err
	}
	if t.Done() && !created.Done() {
		updated, err := s.remote.UpdateTask(ctx, created.ID, t.Input())
		if err != nil {
			return created, err
		}
		return updated, nil
	}
	return created, nil
}

// settle folds the server's answer for sent into the cache. When the task
// was edited again while the call was in flight the newer local edit is
// kept and stays unsynced.
func (s *Service) settle(sent, server domain.Task, synced bool) domain.Task {
	out := sent
	s.Store().UpdateTasks(func(ts *domain.Tasks) {
		cur, ok := ts.Find(sent.ID)
		if !ok {
			if i := ts.PendingIndex(sent.ID); i >= 0 && server.ID != "" {
				ts.Pending[i].Task.ID = server.ID
			}
			return
		}
		merged := cur
		if server.ID != "" {
			merged.ID = server.ID
		}
		if synced && cur.Input() == sent.Input() {
			merged.Unsynced = false
			if server.CompletedAt != nil {
				merged.CompletedAt = server.CompletedAt
			}
		}
		ts.Rename(sent.ID, merged)
		out = merged
	})
	return out
}

// Toggle moves a task between the active and completed collections.
func (s *Service) Toggle(ctx context.Context, id string) (domain.Task, error) {
	var before, after domain.Task
	found := false
	now := s.now()
	s.Store().UpdateTasks(func(ts *domain.Tasks) {
		t, ok := ts.Find(id)
		if !ok {
			return
		}
		found = true
		before, after = t, t
		if t.Done() {
			after.Status = domain.StatusActive
			after.CompletedAt = nil
		} else {
			after.Status = domain.StatusCompleted
			after.CompletedAt = &now
		}
		after.Unsynced = true
		ts.Put(after)
	})
	if !found {
		return domain.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.changed(true)

	if !s.Online() {
		return after, nil
	}
	var (
		server domain.Task
		err    error
	)
	switch {
	case after.Local():
		server, err = s.create(ctx, after)
	case !before.Unsynced:
		server, err = s.remote.ToggleTask(ctx, id)
		if err == nil && server.Status != after.Status {
			server, err = s.remote.UpdateTask(ctx, id, after.Input())
		}
	default:
		server, err = s.remote.UpdateTask(ctx, id, after.Input())
	}
	if server.ID != "" {
		after = s.settle(after, server, err == nil)
	}
	if err != nil {
		return after, &SyncError{Op: "toggle", Err: err}
	}
	return after, nil
}

// Edit changes a task's fields.
func (s *Service) Edit(ctx context.Context, id string, patch TaskPatch) (domain.Task, error) {
	today := s.clock.Today()
	var (
		after   domain.Task
		found   bool
		invalid error
	)
	s.Store().UpdateTasks(func(ts *domain.Tasks) {
		t, ok := ts.Find(id)
		if !ok {
			return
		}
		found = true
		in, err := normalize(patch.apply(t.Input()), today)
		if err != nil {
			invalid = err
			return
		}
		after = t
		after.Title, after.Category, after.Time = in.Title, in.Category, in.Time
		after.Priority, after.Date = in.Priority, in.Date
		after.Unsynced = true
		ts.Put(after)
	})
	if !found {
		return domain.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if invalid != nil {
		return domain.Task{}, invalid
	}
	s.changed(true)
	return s.pushEdit(ctx, "edit", after)
}

// Reschedule moves a task to another due date.
func (s *Service) Reschedule(ctx context.Context, id, date string) (domain.Task, error) {
	return s.Edit(ctx, id, TaskPatch{Date: &date})
}

func (s *Service) pushEdit(ctx context.Context, op string, t domain.Task) (domain.Task, error) {
	if !s.Online() {
		return t, nil
	}
	var (
		server domain.Task
		err    error
	)
	if t.Local() {
		server, err = s.create(ctx, t)
	} else {
		server, err = s.remote.UpdateTask(ctx, t.ID, t.Input())
	}
	if server.ID != "" {
		t = s.settle(t, server, err == nil)
	}
	if err != nil {
		return t, &SyncError{Op: op, Err: err}
	}
	return t, nil
}

// Delete removes a task locally and opens the undo window. The server is
// told only once the window has closed.
func (s *Service) Delete(ctx context.Context, id string) (domain.PendingDelete, error) {
	var pd domain.PendingDelete
	found := false
	s.Store().UpdateTasks(func(ts *domain.Tasks) {
		t, ok := ts.Remove(id)
		if !ok {
			return
		}
		found = true
		pd = domain.PendingDelete{Task: t, Source: t.Status, Deadline: s.now().Add(s.undo)}
		ts.Pending = append(ts.Pending, pd)
	})
	if !found {
		return pd, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.changed(true)
	s.armDeletions()
	return pd, nil
}

// armDeletions flushes expired deletions once the newest window closes, for
// processes that outlive it.
func (s *Service) armDeletions() {
	s.deleteMu.Lock()
	defer s.deleteMu.Unlock()
	if s.deleteTimer != nil {
		s.deleteTimer.Stop()
	}
	s.deleteTimer = time.AfterFunc(s.undo+10*time.Millisecond, func() {
		if err := s.FlushDeletions(context.Background()); err != nil {
			s.log.Warn("deferred delete failed", "err", err)
		}
	})
}

// Undo restores a deleted task into the collection it came from. An empty
// id restores the most recent deletion.
func (s *Service) Undo(ctx context.Context, id string) (domain.Task, error) {
	var (
		restored domain.Task
		err      error
	)
	now := s.now()
	s.Store().UpdateTasks(func(ts *domain.Tasks) {
		i := len(ts.Pending) - 1
		if id != "" {
			i = ts.PendingIndex(id)
		}
		if i < 0 {
			err = fmt.Errorf("%w: nothing to undo", ErrNotFound)
			return
		}
		pd := ts.Pending[i]
		if now.After(pd.Deadline) {
			err = fmt.Errorf("%w: %q", ErrUndoExpired, pd.Task.Title)
			return
		}
		ts.Pending = append(ts.Pending[:i:i], ts.Pending[i+1:]...)
		restored = pd.Task
		restored.Status = pd.Source
		ts.Put(restored)
	})
	if err != nil {
		return domain.Task{}, err
	}
	s.changed(true)
	return restored, nil
}

// FlushDeletions sends the deletions whose undo window has closed. Local-only
// tasks are simply dropped. Failed deletions stay queued for the next flush.
func (s *Service) FlushDeletions(ctx context.Context) error {
	st := s.Store()
	now := s.now()
	var due []domain.PendingDelete
	for _, pd := range st.LoadTasks().Pending {
		if now.After(pd.Deadline) {
			due = append(due, pd)
		}
	}
	if len(due) == 0 {
		return nil
	}

	done := make(map[string]bool, len(due))
	var errs []error
	for _, pd := range due {
		switch {
		case pd.Task.Local():
			done[pd.Task.ID] = true
		case !s.Online():
			// Keep it until someone signed in can delete it.
		default:
			err := s.remote.DeleteTask(ctx, pd.Task.ID)
			var se *remote.StatusError
			if err == nil || (errors.As(err, &se) && se.Code == http.StatusNotFound) {
				done[pd.Task.ID] = true
				continue
			}
			errs = append(errs, fmt.Errorf("delete %q: %w", pd.Task.Title, err))
		}
	}
	if len(done) > 0 {
		st.UpdateTasks(func(ts *domain.Tasks) {
			kept := ts.Pending[:0:0]
			for _, pd := range ts.Pending {
				if !done[pd.Task.ID] {
					kept = append(kept, pd)
				}
			}
			ts.Pending = kept
		})
	}
	return errors.Join(errs...)
}

// Reconcile retries every unsynced task and expired deletion. It returns
// how many tasks were brought in sync.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	if !s.Online() {
		return 0, ErrSignedOut
	}
	var errs []error
	n := 0
	for _, t := range s.Store().LoadTasks().Unsynced() {
		got, err := s.pushEdit(ctx, "reconcile", t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !got.Unsynced {
			n++
		}
	}
	if err := s.FlushDeletions(ctx); err != nil {
		errs = append(errs, err)
	}
	return n, errors.Join(errs...)
}
