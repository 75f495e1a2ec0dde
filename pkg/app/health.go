package app

import (
	"fmt"

	"tableflip.dev/focusflow/pkg/domain"
)

// Health returns today's hydration and mood.
func (s *Service) Health() domain.Health {
	return s.Store().LoadHealth()
}

// WaterMax caps the glasses counter.
func (s *Service) WaterMax() int {
	return s.max
}

// AddWater logs one glass, up to the cap.
func (s *Service) AddWater() domain.Health {
	h := s.Store().UpdateHealth(func(h *domain.Health) {
		h.Glasses++
		h.Clamp(s.max)
		h.Unsynced = true
	})
	s.changed(true)
	return h
}

// RemoveWater takes one glass back.
func (s *Service) RemoveWater() domain.Health {
	h := s.Store().UpdateHealth(func(h *domain.Health) {
		h.Glasses--
		h.Clamp(s.max)
		h.Unsynced = true
	})
	s.changed(true)
	return h
}

// SetMood records today's mood; MoodUnset clears it.
func (s *Service) SetMood(m domain.Mood) domain.Health {
	h := s.Store().UpdateHealth(func(h *domain.Health) { h.Mood = m })
	s.changed(false)
	return h
}

// Motivation returns quotes and streak state.
func (s *Service) Motivation() domain.Motivation {
	return s.Store().LoadMotivation()
}

// NextQuote advances to the next quote, wrapping around.
func (s *Service) NextQuote() domain.Motivation {
	return s.Store().UpdateMotivation(func(m *domain.Motivation) {
		m.QIdx = (m.QIdx + 1) % len(domain.Quotes)
	})
}

// ToggleLike flips the liked flag of quote i; a negative i means the
// current quote.
func (s *Service) ToggleLike(i int) (domain.Motivation, error) {
	return s.toggleQuote(i, func(m *domain.Motivation, i int) { m.Liked = domain.Toggle(m.Liked, i) })
}

// ToggleStar flips the starred flag of quote i; a negative i means the
// current quote.
func (s *Service) ToggleStar(i int) (domain.Motivation, error) {
	return s.toggleQuote(i, func(m *domain.Motivation, i int) { m.Starred = domain.Toggle(m.Starred, i) })
}

func (s *Service) toggleQuote(i int, fn func(*domain.Motivation, int)) (domain.Motivation, error) {
	if i >= len(domain.Quotes) {
		return s.Motivation(), fmt.Errorf("%w: quote %d, want 0 to %d", ErrValidation, i, len(domain.Quotes)-1)
	}
	return s.Store().UpdateMotivation(func(m *domain.Motivation) {
		idx := i
		if idx < 0 {
			idx = m.QIdx
		}
		fn(m, idx)
	}), nil
}
