package matchevent

import (
	"errors"
	"sort"
	"time"

	"github.com/riskibarqy/futplan/internal/domain/roster"
)

var (
	// ErrMatchClosed is returned by the ledger when the match no longer accepts events.
	ErrMatchClosed   = errors.New("match is closed to new events")
	ErrMatchNotFound = errors.New("match not found")
)

type Kind string

const (
	KindGoal         Kind = "goal"
	KindOwnGoal      Kind = "own_goal"
	KindYellowCard   Kind = "yellow_card"
	KindRedCard      Kind = "red_card"
	KindSubstitution Kind = "substitution"
	KindFoul         Kind = "foul"
	KindOther        Kind = "other"
)

// Event is one timestamped occurrence during a match.
type Event struct {
	ID             string
	MatchID        string
	PlayerID       string
	AssistPlayerID string
	Kind           Kind
	Minute         int
	Detail         string
	Sequence       int64
	CreatedAt      time.Time

	// PlayerName is filled by ledger reads.
	PlayerName string
}

// Score is the running result of a match.
type Score struct {
	Home int
	Away int
}

func (k Kind) Valid() bool {
	switch k {
	case KindGoal, KindOwnGoal, KindYellowCard, KindRedCard, KindSubstitution, KindFoul, KindOther:
		return true
	default:
		return false
	}
}

// ApplyScore folds one event into the prior score. side is the acting
// player's roster side at the time of the event.
func ApplyScore(prior Score, kind Kind, side roster.Side) Score {
	credited := roster.SideUnassigned
	switch kind {
	case KindGoal:
		credited = side
	case KindOwnGoal:
		credited = side.Opposite()
	}

	next := prior
	switch credited {
	case roster.SideHome:
		next.Home++
	case roster.SideAway:
		next.Away++
	}
	return next
}

// SortChronological orders events by minute, ties by insertion sequence.
func SortChronological(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Minute != events[j].Minute {
			return events[i].Minute < events[j].Minute
		}
		return events[i].Sequence < events[j].Sequence
	})
}
