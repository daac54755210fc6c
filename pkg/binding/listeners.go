package binding

type listenerSet[F any] struct {
	nextID  int
	entries []listenerEntry[F]
}

type listenerEntry[F any] struct {
	id int
	fn F
}

func (s *listenerSet[F]) add(fn F) func() {
	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, listenerEntry[F]{id: id, fn: fn})
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		s.remove(id)
	}
}

func (s *listenerSet[F]) remove(id int) {
	for idx, entry := range s.entries {
		if entry.id == id {
			s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
			return
		}
	}
}

// snapshot copies the listeners so callbacks can add or remove listeners
// while a notification is in flight.
func (s *listenerSet[F]) snapshot() []F {
	if len(s.entries) == 0 {
		return nil
	}
	out := make([]F, len(s.entries))
	for idx, entry := range s.entries {
		out[idx] = entry.fn
	}
	return out
}

func (s *listenerSet[F]) len() int {
	return len(s.entries)
}
