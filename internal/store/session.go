package store

import "zask/internal/domain"

// LoadSession returns the cached session or ErrNotFound
func (s *Store) LoadSession() (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sess domain.Session
	if err := s.read(sessionFile, &sess); err != nil {
		return nil, err
	}
	if sess.User == nil {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// SaveSession caches sess; a nil session clears the cache
func (s *Store) SaveSession(sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess == nil || sess.User == nil {
		return s.remove(sessionFile)
	}
	return s.write(sessionFile, sess)
}

// ClearSession forgets the cached session
func (s *Store) ClearSession() error {
	return s.SaveSession(nil)
}
