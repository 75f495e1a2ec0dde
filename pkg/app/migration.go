package app

import (
	"tableflip.dev/focusflow/pkg/domain"
	"tableflip.dev/focusflow/pkg/store"
)

// adoptGuest moves the tasks a guest created into the active partition and
// clears them from the guest one. Today's water and focus are kept if they
// are higher than what the user already has. It returns the number of tasks
// moved.
func (s *Service) adoptGuest(guest *store.Store) int {
	gt := guest.LoadTasks()
	moved := gt.All()
	gh := guest.LoadHealth()
	gtm := guest.LoadTimer()
	today := s.clock.Today()

	st := s.Store()
	if len(moved) > 0 {
		st.UpdateTasks(func(ts *domain.Tasks) {
			for _, t := range moved {
				if _, exists := ts.Find(t.ID); exists {
					continue
				}
				t.Unsynced = true
				ts.Put(t)
			}
		})
		guest.SaveTasks(domain.Tasks{})
	}
	if gh.Glasses > 0 && gh.Glasses > st.LoadHealth().Glasses {
		st.UpdateHealth(func(h *domain.Health) {
			h.Glasses = gh.Glasses
			if h.Mood == domain.MoodUnset {
				h.Mood = gh.Mood
			}
			h.Clamp(s.max)
			h.Unsynced = true
		})
	}
	if focus := gtm.FocusMinutesOn(today); focus > st.LoadTimer().FocusMinutesOn(today) {
		st.UpdateTimer(func(t *domain.Timer) {
			t.FocusMinutesToday = focus
			t.FocusDate = today
			t.Unsynced = true
		})
	}
	if len(moved) > 0 || gh.Glasses > 0 {
		s.changed(true)
	}
	return len(moved)
}
