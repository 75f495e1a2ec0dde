package domain

import "sort"

// Quote is a motivational quote.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Tag    string `json:"tag"`
}

// Quotes is the built-in catalog; Motivation indexes into it.
var Quotes = []Quote{
	{Text: "Success is the sum of small efforts repeated day in and day out.", Author: "Robert Collier", Tag: "Consistency"},
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs", Tag: "Passion"},
	{Text: "Don't watch the clock; do what it does. Keep going.", Author: "Sam Levenson", Tag: "Persistence"},
	{Text: "Believe you can and you're halfway there.", Author: "Theodore Roosevelt", Tag: "Mindset"},
	{Text: "It does not matter how slowly you go as long as you do not stop.", Author: "Confucius", Tag: "Patience"},
	{Text: "You don't have to be great to start, but you have to start to be great.", Author: "Zig Ziglar", Tag: "Action"},
	{Text: "Hard work beats talent when talent doesn't work hard.", Author: "Tim Notke", Tag: "Discipline"},
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain", Tag: "Momentum"},
}

// Motivation holds the quote cursor, favourites and the streak.
type Motivation struct {
	QIdx              int    `json:"qIdx"`
	Liked             []int  `json:"liked"`
	Starred           []int  `json:"starred"`
	Streak            int    `json:"streak"`
	Best              int    `json:"best"`
	StreakAwardedDate string `json:"streakAwardedDate"`
}

// Quote returns the current quote.
func (m Motivation) Quote() Quote {
	if m.QIdx < 0 || m.QIdx >= len(Quotes) {
		return Quotes[0]
	}
	return Quotes[m.QIdx]
}

// Normalize restores the invariants: Streak <= Best, index in range, sets sorted.
func (m *Motivation) Normalize() {
	if m.Streak < 0 {
		m.Streak = 0
	}
	if m.Best < m.Streak {
		m.Best = m.Streak
	}
	if m.QIdx < 0 || m.QIdx >= len(Quotes) {
		m.QIdx = 0
	}
	m.Liked = normalizeSet(m.Liked)
	m.Starred = normalizeSet(m.Starred)
}

// Award credits one qualifying day. It is a no-op if date was already awarded.
func (m *Motivation) Award(date string) bool {
	if m.StreakAwardedDate == date {
		return false
	}
	m.Streak++
	if m.Streak > m.Best {
		m.Best = m.Streak
	}
	m.StreakAwardedDate = date
	return true
}

// Toggle flips membership of i in set.
func Toggle(set []int, i int) []int {
	for n, v := range set {
		if v == i {
			return append(set[:n:n], set[n+1:]...)
		}
	}
	return normalizeSet(append(set, i))
}

// Contains reports whether i is in set.
func Contains(set []int, i int) bool {
	for _, v := range set {
		if v == i {
			return true
		}
	}
	return false
}

func normalizeSet(in []int) []int {
	out := make([]int, 0, len(in))
	seen := make(map[int]bool, len(in))
	for _, v := range in {
		if v < 0 || v >= len(Quotes) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
