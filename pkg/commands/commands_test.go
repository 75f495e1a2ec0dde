package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/focusflow/pkg/app"
	"tableflip.dev/focusflow/pkg/day"
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/store"
)

const today = "2024-03-09"

func withService(t *testing.T) *app.Service {
	t.Helper()
	prevColor := color.NoColor
	color.NoColor = true

	b := store.NewMemoryBackend()
	svc := app.New(app.Options{
		Backend:  b,
		Clock:    day.Fixed(today),
		Debounce: time.Hour,
	})
	cfg := &store.FileConfig{Kind: store.BackendMemory, Path: t.TempDir()}

	prev := openService
	openService = func(context.Context) (*runtime, error) {
		return &runtime{svc: svc, cfg: cfg, backend: b}, nil
	}
	t.Cleanup(func() {
		Close()
		openService = prev
		color.NoColor = prevColor
	})
	return svc
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddAndList(t *testing.T) {
	withService(t)

	out, err := run(t, "add", "-o", "json", "-p", "high", "-c", "Work", "write", "report")
	require.NoError(t, err)
	var task domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, "write report", task.Title)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, today, task.Date)
	assert.Equal(t, "25 min", task.Time)

	_, err = run(t, "add", "--on", "tomorrow", "call", "mum")
	require.NoError(t, err)

	out, err = run(t, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "TODAY - 1 task")
	assert.Contains(t, out, "TOMORROW - 1 task")
	assert.Contains(t, out, "write report")
}

func TestAddRequiresTitle(t *testing.T) {
	withService(t)
	_, err := run(t, "add")
	assert.Error(t, err)
}

func TestDoneAndUndoDelete(t *testing.T) {
	svc := withService(t)
	task, err := svc.AddTask(context.Background(), domain.TaskInput{Title: "stretch"})
	require.NoError(t, err)

	out, err := run(t, "done", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, `"stretch" is done`)
	assert.Len(t, svc.Tasks().Completed, 1)

	out, err = run(t, "rm", task.ID[:12])
	require.NoError(t, err)
	assert.Contains(t, out, `deleted "stretch"`)
	assert.Empty(t, svc.Tasks().All())

	out, err = run(t, "undo")
	require.NoError(t, err)
	assert.Contains(t, out, `restored "stretch"`)
	require.Len(t, svc.Tasks().Completed, 1)
}

func TestEditAndMove(t *testing.T) {
	svc := withService(t)
	task, err := svc.AddTask(context.Background(), domain.TaskInput{Title: "draft"})
	require.NoError(t, err)

	_, err = run(t, "edit", task.ID, "--title", "final draft", "-p", "low")
	require.NoError(t, err)
	_, err = run(t, "mv", task.ID, "2024-03-12")
	require.NoError(t, err)

	got, ok := svc.Tasks().Find(task.ID)
	require.True(t, ok)
	assert.Equal(t, "final draft", got.Title)
	assert.Equal(t, domain.PriorityLow, got.Priority)
	assert.Equal(t, "2024-03-12", got.Date)

	_, err = run(t, "mv", task.ID, "mon")
	require.NoError(t, err)
	got, _ = svc.Tasks().Find(task.ID)
	assert.Equal(t, "2024-03-11", got.Date)

	_, err = run(t, "edit", task.ID)
	assert.Error(t, err)
}

func TestWaterAndMood(t *testing.T) {
	svc := withService(t)

	_, err := run(t, "water", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, svc.Health().Glasses)

	out, err := run(t, "water", "add")
	require.NoError(t, err)
	assert.Contains(t, out, "4/8 glasses")

	_, err = run(t, "mood", "good")
	require.NoError(t, err)
	assert.Equal(t, domain.MoodGood, svc.Health().Mood)

	_, err = run(t, "mood", "grumpy")
	assert.Error(t, err)
}

func TestTimerCommands(t *testing.T) {
	svc := withService(t)

	out, err := run(t, "timer", "start", "-o", "json")
	require.NoError(t, err)
	var tm domain.Timer
	require.NoError(t, json.Unmarshal([]byte(out), &tm))
	assert.True(t, tm.IsRunning)

	_, err = run(t, "timer", "reset")
	assert.ErrorIs(t, err, app.ErrTimerRunning)

	_, err = run(t, "timer", "mode", "3")
	require.NoError(t, err)
	assert.Equal(t, 2, svc.Timer().ModeIdx)
	assert.False(t, svc.Timer().IsRunning)

	_, err = run(t, "timer", "mode", "9")
	assert.ErrorIs(t, err, app.ErrValidation)
}

func TestQuoteCommands(t *testing.T) {
	svc := withService(t)

	_, err := run(t, "quote", "next")
	require.NoError(t, err)
	_, err = run(t, "quote", "like")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, svc.Motivation().Liked)

	out, err := run(t, "quote", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, domain.Quotes[len(domain.Quotes)-1].Author)

	_, err = run(t, "quote", "star", "x")
	assert.ErrorIs(t, err, app.ErrValidation)
}

func TestStatsAsGuest(t *testing.T) {
	withService(t)

	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "weekly stats, last 7 days")
	assert.Contains(t, out, "focusflow login")

	_, err = run(t, "stats", "--last", "3h")
	assert.Error(t, err)
}

func TestSyncNeedsLogin(t *testing.T) {
	withService(t)
	_, err := run(t, "sync")
	assert.Error(t, err)
}

func TestDashboard(t *testing.T) {
	svc := withService(t)
	svc.AddWater()

	out, err := run(t, "dashboard", "-o", "json")
	require.NoError(t, err)
	var r app.DashboardReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, today, r.Date)
	assert.Equal(t, 1, r.Snapshot.WaterGlasses)
	assert.Len(t, r.Week, 7)

	out, err = run(t, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello, guest")
}

func TestInfo(t *testing.T) {
	withService(t)
	out, err := run(t, "info", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "backend: memory")
	assert.Contains(t, out, "namespace: guest")
}

func TestStructuredError(t *testing.T) {
	withService(t)
	out, err := run(t, "done", "nope", "-o", "json")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"error"`))
}

func TestMatchID(t *testing.T) {
	ids := []string{"local-abc", "local-abd", "42"}

	got, err := matchID(ids, "local-abc")
	require.NoError(t, err)
	assert.Equal(t, "local-abc", got)

	got, err = matchID(ids, "4")
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	_, err = matchID(ids, "local-ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = matchID(ids, "7")
	assert.ErrorIs(t, err, app.ErrNotFound)
}
