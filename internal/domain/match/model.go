package match

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusScheduled       Status = "scheduled"
	StatusInProgress      Status = "in_progress"
	StatusFinished        Status = "finished"
	StatusCanceled        Status = "canceled"
)

// Match is one officiated game between a home side and an optional away team.
type Match struct {
	ID          string
	LocationID  string
	HomeTeamID  string
	AwayTeamID  string
	ScheduledAt time.Time
	Status      Status
	HomeScore   int
	AwayScore   int
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InitialStatus returns the status a new match starts in. Matches against an
// away team wait for that team's owner to accept the invite.
func InitialStatus(awayTeamID string) Status {
	if strings.TrimSpace(awayTeamID) != "" {
		return StatusPendingApproval
	}
	return StatusScheduled
}

// HasFixedTeams reports whether both sides are official teams.
func (m Match) HasFixedTeams() bool {
	return strings.TrimSpace(m.HomeTeamID) != "" && strings.TrimSpace(m.AwayTeamID) != ""
}

func (m Match) ScoreSummary() string {
	return fmt.Sprintf("%d x %d", m.HomeScore, m.AwayScore)
}

func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusCanceled
}

func (s Status) Valid() bool {
	switch s {
	case StatusPendingApproval, StatusScheduled, StatusInProgress, StatusFinished, StatusCanceled:
		return true
	default:
		return false
	}
}

// StartableStatuses lists the states a match may be started from.
func StartableStatuses() []Status {
	return []Status{StatusScheduled, StatusPendingApproval}
}

func ContainsStatus(statuses []Status, status Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
