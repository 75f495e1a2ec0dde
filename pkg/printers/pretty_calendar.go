package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/focusflow/pkg/day"
	"tableflip.dev/focusflow/pkg/metrics"
)

const barWidth = 30

// Trend prints one horizontal focus bar per day, scaled to the focus goal.
func (pp *PrettyPrint) Trend(bars []metrics.Bar) {
	if len(bars) == 0 {
		return
	}
	p := color.New()
	b := color.New(color.Bold)
	full := color.New(color.FgHiMagenta)
	met := color.New(color.FgGreen)
	f := color.New(color.Faint)

	for _, bar := range bars {
		printer := p
		if bar.Today {
			printer = b
		}
		_, _ = printer.Fprintf(pp.out(), "%s %s ", bar.Weekday, shortDate(bar.Date))

		n := bar.Percent * barWidth / 100
		_, _ = full.Fprint(pp.out(), strings.Repeat("█", n))
		_, _ = f.Fprint(pp.out(), strings.Repeat("░", barWidth-n))
		_, _ = printer.Fprintf(pp.out(), " %4dm", bar.Focus)
		if bar.GoalsMet {
			_, _ = met.Fprint(pp.out(), " ✓")
		}
		_, _ = fmt.Fprintln(pp.out())
	}
	pp.NewLine()
}

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar lays the bars out as weeks starting on Sunday. Days that met
// every goal are bold; today is underlined.
func (pp *PrettyPrint) Calendar(bars []metrics.Bar) {
	if len(bars) == 0 {
		return
	}
	first, err := day.Parse(bars[0].Date)
	if err != nil {
		return
	}
	last, _ := day.Parse(bars[len(bars)-1].Date)

	tf := color.New(color.FgWhite, color.Italic)
	m := first.Month().String()
	if last.Month() != first.Month() {
		m = first.Month().String()[:3] + " - " + last.Month().String()[:3]
	}
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(pp.out(), "%s%s\n", strings.Repeat(" ", mid), m)

	d := first.Weekday()
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(pp.out(), "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)
	l3 := color.New(color.Bold, color.FgHiWhite, color.Underline)

	for _, bar := range bars {
		t, _ := day.Parse(bar.Date)
		printer := l1
		switch {
		case bar.GoalsMet && bar.Today:
			printer = l3
		case bar.GoalsMet:
			printer = l2
		case bar.Today:
			printer = color.New(color.Faint, color.Underline)
		}
		_, _ = printer.Fprintf(pp.out(), "%2d", t.Day())
		_, _ = fmt.Fprint(pp.out(), " ")

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(pp.out(), "\n")
		}
	}
	_, _ = fmt.Fprint(pp.out(), "\n\n")
}

func shortDate(date string) string {
	t, err := day.Parse(date)
	if err != nil {
		return date
	}
	return t.Format("01-02")
}
