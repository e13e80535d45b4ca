package telemetry

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"FlipSentinel/internal/model"
)

// ErrNoAccount is returned when an upsert arrives without an account hash.
var ErrNoAccount = errors.New("accountHash required")

// Store keeps the latest telemetry per bridge account in memory. Nothing
// here survives a restart; clients re-report on reconnect.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewStore creates an empty telemetry store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*model.Session)}
}

func (s *Store) ensure(accountHash string) (*model.Session, error) {
	key := strings.TrimSpace(accountHash)
	if key == "" {
		return nil, ErrNoAccount
	}
	if existing, ok := s.sessions[key]; ok {
		return existing, nil
	}
	created := &model.Session{AccountHash: key}
	s.sessions[key] = created
	return created, nil
}

// UpsertHeartbeat records a liveness ping and returns the updated session.
func (s *Store) UpsertHeartbeat(hb model.Heartbeat) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.ensure(hb.AccountHash)
	if err != nil {
		return model.Session{}, err
	}
	session.Heartbeat = &hb
	session.LastSeenTS = hb.TS
	return *session, nil
}

// UpsertWallet records a wallet report and returns the updated session.
func (s *Store) UpsertWallet(w model.Wallet) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.ensure(w.AccountHash)
	if err != nil {
		return model.Session{}, err
	}
	session.Wallet = &w
	session.LastSeenTS = w.TS
	return *session, nil
}

// UpsertOffers replaces the session's offer slots wholesale and returns the
// updated session.
func (s *Store) UpsertOffers(accountHash string, ts int64, offers []model.Offer) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.ensure(accountHash)
	if err != nil {
		return model.Session{}, err
	}
	stamped := make([]model.Offer, len(offers))
	for i, o := range offers {
		o.AccountHash = session.AccountHash
		o.TS = ts
		stamped[i] = o
	}
	session.Offers = stamped
	session.LastSeenTS = ts
	return *session, nil
}

// Session returns the session for the account, or false if unknown.
func (s *Store) Session(accountHash string) (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[strings.TrimSpace(accountHash)]
	if !ok {
		return model.Session{}, false
	}
	return *session, true
}

// Snapshot returns all sessions, ordered by account hash for stable output.
func (s *Store) Snapshot() []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, *session)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountHash < out[j].AccountHash })
	return out
}

// Status summarizes the store for the status endpoint.
type Status struct {
	Sessions int   `json:"sessions"`
	NewestTS int64 `json:"newestTs"`
}

// Status reports the session count and the newest last-seen timestamp.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{Sessions: len(s.sessions)}
	for _, session := range s.sessions {
		if session.LastSeenTS > st.NewestTS {
			st.NewestTS = session.LastSeenTS
		}
	}
	return st
}
