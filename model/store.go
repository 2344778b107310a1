package model

import (
	"sort"
	"sync"
	"time"

	U "campaigniq/util"

	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// Session holds one analysis session's uploaded datasets. Raw entities
// are immutable once loaded; Version changes on every upload and is
// the cache key for derived views. All state is transient: sessions
// are rebuilt from uploaded data, never persisted.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Version   string    `json:"version"`

	Influencers []Influencer    `json:"-"`
	Posts       []Post          `json:"-"`
	Tracking    []TrackingEvent `json:"-"`
	Payouts     []Payout        `json:"-"`

	loaded map[string]bool
}

// DataStatus reports which datasets a session has uploaded.
type DataStatus struct {
	Uploaded    []string `json:"uploaded"`
	Missing     []string `json:"missing"`
	AllUploaded bool     `json:"all_uploaded"`
}

var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the in-memory registry of analysis sessions. Each
// concurrent caller holds an independent session; the store only
// guards the registry and per-session replacement of whole datasets.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// CreateSession registers a new empty session and returns its id.
func (s *SessionStore) CreateSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &Session{
		ID:        xid.New().String(),
		CreatedAt: U.TimeNowZ(),
		Version:   xid.New().String(),
		loaded:    make(map[string]bool),
	}
	s.sessions[session.ID] = session
	return session
}

// GetSession returns a point-in-time snapshot of the session for id.
// Dataset slices are immutable once loaded and uploads replace whole
// slices, so copying the headers and version under the read lock gives
// callers a consistent view against concurrent uploads.
func (s *SessionStore) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, errors.Wrap(ErrSessionNotFound, id)
	}
	snapshot := *session
	snapshot.loaded = nil
	return &snapshot, nil
}

// SetDataset replaces one dataset of the session with freshly loaded
// entities and bumps the dataset version.
func (s *SessionStore) SetDataset(sessionID, kind string, entities interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return errors.Wrap(ErrSessionNotFound, sessionID)
	}

	switch kind {
	case DatasetInfluencers:
		session.Influencers = entities.([]Influencer)
	case DatasetPosts:
		session.Posts = entities.([]Post)
	case DatasetTracking:
		session.Tracking = entities.([]TrackingEvent)
	case DatasetPayouts:
		session.Payouts = entities.([]Payout)
	default:
		return errors.Errorf("unknown dataset kind %q", kind)
	}
	session.loaded[kind] = true
	session.Version = xid.New().String()
	return nil
}

// Status reports uploaded and missing dataset kinds for the session.
func (s *SessionStore) Status(sessionID string) (*DataStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, errors.Wrap(ErrSessionNotFound, sessionID)
	}

	status := &DataStatus{Uploaded: []string{}, Missing: []string{}}
	kinds := []string{DatasetInfluencers, DatasetPosts, DatasetTracking, DatasetPayouts}
	for _, kind := range kinds {
		if session.loaded[kind] {
			status.Uploaded = append(status.Uploaded, kind)
		} else {
			status.Missing = append(status.Missing, kind)
		}
	}
	sort.Strings(status.Uploaded)
	sort.Strings(status.Missing)
	status.AllUploaded = len(status.Missing) == 0
	return status, nil
}
