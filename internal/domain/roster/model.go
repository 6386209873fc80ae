package roster

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrDuplicateEntry = errors.New("roster entry already exists")
	ErrEntryNotFound  = errors.New("roster entry not found")
)

// Status is a player's attendance answer for a match.
type Status string

const (
	StatusPending         Status = "pending"
	StatusConfirmed       Status = "confirmed"
	StatusWaitingList     Status = "waiting_list"
	StatusPendingDecision Status = "pending_decision"
)

// Side is the team a roster entry plays for.
type Side string

const (
	SideHome       Side = "home"
	SideAway       Side = "away"
	SideUnassigned Side = "unassigned"
)

// Entry is one player's participation in a match.
type Entry struct {
	MatchID     string
	UserID      string
	Status      Status
	Side        Side
	PlayerName  string
	PlayerEmail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Assignment places one player on a side.
type Assignment struct {
	UserID  string
	Side    Side
	Confirm bool
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusWaitingList, StatusPendingDecision:
		return true
	default:
		return false
	}
}

// Playable reports whether the side is home or away.
func (s Side) Playable() bool {
	return s == SideHome || s == SideAway
}

func (s Side) Opposite() Side {
	switch s {
	case SideHome:
		return SideAway
	case SideAway:
		return SideHome
	default:
		return SideUnassigned
	}
}

func NormalizeSide(s Side) Side {
	if s == "" {
		return SideUnassigned
	}
	return s
}

// SplitSides partitions already shuffled user ids: the first ceil(n/2) play
// home, the rest play away.
func SplitSides(userIDs []string) []Assignment {
	homeCount := (len(userIDs) + 1) / 2
	out := make([]Assignment, 0, len(userIDs))
	for i, userID := range userIDs {
		side := SideAway
		if i < homeCount {
			side = SideHome
		}
		out = append(out, Assignment{UserID: userID, Side: side})
	}
	return out
}

func sideRank(s Side) int {
	switch s {
	case SideHome:
		return 0
	case SideAway:
		return 1
	default:
		return 2
	}
}

// SortEntries orders entries home, away, unassigned and then by player name.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := sideRank(NormalizeSide(entries[i].Side)), sideRank(NormalizeSide(entries[j].Side))
		if ri != rj {
			return ri < rj
		}
		ni, nj := strings.ToLower(entries[i].PlayerName), strings.ToLower(entries[j].PlayerName)
		if ni != nj {
			return ni < nj
		}
		return entries[i].UserID < entries[j].UserID
	})
}
