package spawn

import (
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/otspawn/internal/model"
)

// Listener receives spawn events. Called outside point locks.
type Listener interface {
	OnMonsterSpawn(m *model.Monster, pos model.Position)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(m *model.Monster, pos model.Position)

func (f ListenerFunc) OnMonsterSpawn(m *model.Monster, pos model.Position) { f(m, pos) }

type spawnEvent struct {
	monster *model.Monster
	pos     model.Position
}

// listenerSet holds subscribed listeners keyed by subscription id.
type listenerSet struct {
	mu   sync.RWMutex
	ids  []string
	byID map[string]Listener
}

func newListenerSet() *listenerSet {
	return &listenerSet{byID: make(map[string]Listener)}
}

func (s *listenerSet) subscribe(l Listener) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
	s.byID[id] = l
	return id
}

func (s *listenerSet) unsubscribe(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

// notify calls listeners in subscription order. Nil set is a no-op.
func (s *listenerSet) notify(ev spawnEvent) {
	if s == nil {
		return
	}

	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.ids))
	for _, id := range s.ids {
		listeners = append(listeners, s.byID[id])
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l.OnMonsterSpawn(ev.monster, ev.pos)
	}
}
