package memory

import (
	"sync"

	"github.com/riskibarqy/futplan/internal/domain/location"
	"github.com/riskibarqy/futplan/internal/domain/match"
	"github.com/riskibarqy/futplan/internal/domain/matchevent"
	"github.com/riskibarqy/futplan/internal/domain/roster"
	"github.com/riskibarqy/futplan/internal/domain/team"
	"github.com/riskibarqy/futplan/internal/domain/user"
)

// Store holds every table behind one mutex so that each repository call,
// including multi-row batches, is atomic.
type Store struct {
	mu sync.RWMutex

	matches   map[string]match.Match
	roster    map[string]map[string]roster.Entry
	events    map[string][]matchevent.Event
	teams     map[string]team.Team
	members   map[string][]team.Member
	locations map[string]location.Location
	users     map[string]user.Profile
	sequence  int64
}

func NewStore() *Store {
	return &Store{
		matches:   make(map[string]match.Match),
		roster:    make(map[string]map[string]roster.Entry),
		events:    make(map[string][]matchevent.Event),
		teams:     make(map[string]team.Team),
		members:   make(map[string][]team.Member),
		locations: make(map[string]location.Location),
		users:     make(map[string]user.Profile),
	}
}

// PutTeam registers a team and replaces its member list.
func (s *Store) PutTeam(item team.Team, members ...team.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teams[item.ID] = item
	copied := make([]team.Member, 0, len(members))
	for _, m := range members {
		m.TeamID = item.ID
		copied = append(copied, m)
	}
	s.members[item.ID] = copied
}

func (s *Store) PutLocation(item location.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[item.ID] = item
}

func (s *Store) PutUser(item user.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[item.ID] = item
}

func (s *Store) Matches() *MatchRepository {
	return &MatchRepository{store: s}
}

func (s *Store) Roster() *RosterRepository {
	return &RosterRepository{store: s}
}

func (s *Store) Events() *EventLedger {
	return &EventLedger{store: s}
}

func (s *Store) Teams() *TeamRepository {
	return &TeamRepository{store: s}
}

func (s *Store) Locations() *LocationRepository {
	return &LocationRepository{store: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

// withPlayer fills the display fields of an entry from the user table.
// Callers hold the lock.
func (s *Store) withPlayer(entry roster.Entry) roster.Entry {
	if profile, ok := s.users[entry.UserID]; ok {
		entry.PlayerName = profile.Name
		entry.PlayerEmail = profile.Email
	}
	return entry
}
