package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/focusflow/pkg/day"
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/metrics"
)

// PrettyPrint renders domain state for a terminal.
type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

var (
	spacing = strings.Repeat(" ", len("local-00000000  "))
)

// QuoteWidth is where quote text wraps.
const QuoteWidth = 48

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " task")
	default:
		_, _ = c.Fprintln(pp.out(), " tasks")
	}
}

// Tasks prints open tasks grouped by due date, then the completed ones.
func (pp *PrettyPrint) Tasks(tasks domain.Tasks, today string, showCompleted bool) {
	keys, groups := tasks.GroupByDate(today)
	if len(keys) == 0 {
		pp.Title("Tasks")
		pp.List()
	}
	for _, k := range keys {
		pp.TitleWithCount(day.Label(k, today), len(groups[k]))
		pp.List(groups[k]...)
	}
	if showCompleted {
		pp.TitleWithCount("COMPLETED", len(tasks.Completed))
		pp.List(tasks.Completed...)
	}
}

// List prints one line per task.
func (pp *PrettyPrint) List(tasks ...domain.Task) {
	if len(tasks) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	for _, t := range tasks {
		pp.Task(t)
	}
	pp.NewLine()
}

// Task prints a single task line.
func (pp *PrettyPrint) Task(t domain.Task) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	f := color.New(color.Faint)
	p := color.New()
	if t.Done() {
		p = color.New(color.Faint, color.CrossedOut)
	}

	if pp.ShowID {
		id := t.ID
		if len(id) > len(spacing)-2 {
			id = id[:len(spacing)-2]
		}
		_, _ = y.Fprint(pp.out(), id)
		_, _ = y.Fprint(pp.out(), strings.Repeat(" ", len(spacing)-len(id)))
	}
	mark := "•"
	if t.Done() {
		mark = "✓"
	}
	_, _ = fmt.Fprintf(pp.out(), "%s ", priorityColor(t.Priority).Sprint(mark))
	_, _ = p.Fprintf(pp.out(), "%s  ", t.Title)
	_, _ = f.Fprintf(pp.out(), "%s · %s", t.Category, t.Time)
	if t.Unsynced {
		_, _ = color.New(color.FgYellow).Fprint(pp.out(), " *")
	}
	_, _ = fmt.Fprintln(pp.out())
}

func priorityColor(p domain.Priority) *color.Color {
	switch p {
	case domain.PriorityHigh:
		return color.New(color.FgRed, color.Bold)
	case domain.PriorityLow:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgYellow)
	}
}

// Progress prints the three goal gauges and the composite score.
func (pp *PrettyPrint) Progress(s domain.Snapshot, g domain.Goals) {
	p := metrics.Goal(s, g)
	b := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(b.Sprint("Goal"), b.Sprint("Today"), b.Sprint("Target"), "")
	tbl.AddRow("Tasks", s.TasksCompleted, g.Tasks, gauge(p.Tasks, 20))
	tbl.AddRow("Water", s.WaterGlasses, g.Water, gauge(p.Water, 20))
	tbl.AddRow("Focus", fmt.Sprintf("%dm", s.FocusMinutes), fmt.Sprintf("%dm", g.FocusMinutes), gauge(p.Focus, 20))
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(pp.out(), tbl)

	c := color.New(color.Faint)
	if s.GoalsMet {
		c = color.New(color.FgGreen, color.Bold)
	}
	_, _ = c.Fprintf(pp.out(), "\n%d%% of today's goals\n\n", p.Composite)
}

func gauge(percent float64, width int) string {
	n := int(percent / 100 * float64(width))
	if n > width {
		n = width
	}
	if n < 0 {
		n = 0
	}
	full := color.New(color.FgHiMagenta).Sprint(strings.Repeat("█", n))
	return full + color.New(color.Faint).Sprint(strings.Repeat("░", width-n))
}

// Health prints the water counter and mood.
func (pp *PrettyPrint) Health(h domain.Health, max, goal int) {
	pp.Title("Health")
	glass := color.New(color.FgHiBlue)
	f := color.New(color.Faint)

	_, _ = glass.Fprint(pp.out(), strings.Repeat("▮", h.Glasses))
	_, _ = f.Fprint(pp.out(), strings.Repeat("▯", max-h.Glasses))
	_, _ = fmt.Fprintf(pp.out(), "  %d/%d glasses (%d ml), goal %d\n", h.Glasses, max, h.Millilitres(), goal)

	mood := string(h.Mood)
	if mood == "" {
		mood = "not set"
	}
	_, _ = f.Fprintf(pp.out(), "mood: %s\n\n", mood)
}

// Timer prints the countdown and today's focus total.
func (pp *PrettyPrint) Timer(t domain.Timer) {
	pp.Title("Focus timer")
	b := color.New(color.Bold, color.FgHiMagenta)
	f := color.New(color.Faint)

	_, _ = b.Fprintf(pp.out(), "%02d:%02d", t.SecondsLeft/60, t.SecondsLeft%60)
	_, _ = fmt.Fprintf(pp.out(), "  %s\n", t.Mode().Label)
	_, _ = f.Fprintf(pp.out(), "%s, %d min focused today\n\n", t.Status(), t.FocusMinutesToday)
}

// Quote prints the current quote and the streak.
func (pp *PrettyPrint) Quote(m domain.Motivation) {
	pp.quote(m.Quote(), favourites(m, m.QIdx), m.Streak, m.Best)
}

// Streak prints q with the streak figures.
func (pp *PrettyPrint) Streak(q domain.Quote, streak, best int) {
	pp.quote(q, "", streak, best)
}

func (pp *PrettyPrint) quote(q domain.Quote, marks string, streak, best int) {
	i := color.New(color.Italic)
	f := color.New(color.Faint)

	_, _ = i.Fprintf(pp.out(), "“%s”\n", wordwrap.String(q.Text, QuoteWidth))
	_, _ = f.Fprintf(pp.out(), "  - %s #%s%s\n", q.Author, q.Tag, marks)
	_, _ = color.New(color.FgHiRed).Fprintf(pp.out(), "streak %d", streak)
	_, _ = f.Fprintf(pp.out(), " (best %d)\n\n", best)
}

// Quotes prints the whole catalog with favourite markers.
func (pp *PrettyPrint) Quotes(m domain.Motivation) {
	b := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	tbl.AddRow(b.Sprint("#"), "", b.Sprint("Quote"), b.Sprint("Author"))
	for n, q := range domain.Quotes {
		cur := ""
		if n == m.QIdx {
			cur = ">"
		}
		tbl.AddRow(n, cur+favourites(m, n), q.Text, q.Author)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func favourites(m domain.Motivation, i int) string {
	s := ""
	if domain.Contains(m.Liked, i) {
		s += " ♥"
	}
	if domain.Contains(m.Starred, i) {
		s += " ★"
	}
	return s
}

// Analytics prints the period summary followed by its trend.
func (pp *PrettyPrint) Analytics(r metrics.Report) {
	pp.Title(fmt.Sprintf("%s stats, last %d days", r.Period, r.Days))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Focus", fmt.Sprintf("%dm (%.1fh)", r.TotalFocus, r.FocusHours))
	tbl.AddRow("Tasks completed", r.TotalTasks)
	tbl.AddRow("Completion rate", fmt.Sprintf("%d%%", r.CompletionRate))
	tbl.AddRow("Water per day", fmt.Sprintf("%.1f", r.WaterAverage))
	tbl.AddRow("Goals met", fmt.Sprintf("%d/%d days", r.GoalsMet, r.Days))
	tbl.AddRow("Streak", r.Streak)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.Trend(r.Bars)
	if r.Days > 7 {
		pp.Calendar(r.Bars)
	}
}
