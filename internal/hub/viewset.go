package hub

import (
	"sync"

	"github.com/techLii/chatobi/internal/views"
)

// viewSet holds the views mounted on one connection.
type viewSet struct {
	mu    sync.RWMutex
	views map[string]*views.Mounted
}

func newViewSet() *viewSet {
	return &viewSet{views: make(map[string]*views.Mounted)}
}

// add mounts v, closing any view previously mounted under the same id.
func (s *viewSet) add(v *views.Mounted) {
	s.mu.Lock()
	old := s.views[v.ID]
	s.views[v.ID] = v
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

// remove closes and forgets the view with the given id.
func (s *viewSet) remove(id string) bool {
	s.mu.Lock()
	v, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()
	if ok {
		v.Close()
	}
	return ok
}

func (s *viewSet) get(id string) (*views.Mounted, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[id]
	return v, ok
}

// closeKind closes every view of the given kind.
func (s *viewSet) closeKind(kind string) {
	s.mu.Lock()
	var closing []*views.Mounted
	for id, v := range s.views {
		if v.Kind == kind {
			closing = append(closing, v)
			delete(s.views, id)
		}
	}
	s.mu.Unlock()
	for _, v := range closing {
		v.Close()
	}
}

func (s *viewSet) closeAll() {
	s.mu.Lock()
	closing := s.views
	s.views = make(map[string]*views.Mounted)
	s.mu.Unlock()
	for _, v := range closing {
		v.Close()
	}
}

func (s *viewSet) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}
