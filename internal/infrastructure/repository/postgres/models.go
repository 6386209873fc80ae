package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/futplan/internal/domain/location"
	"github.com/riskibarqy/futplan/internal/domain/match"
	"github.com/riskibarqy/futplan/internal/domain/matchevent"
	"github.com/riskibarqy/futplan/internal/domain/roster"
	"github.com/riskibarqy/futplan/internal/domain/team"
	"github.com/riskibarqy/futplan/internal/domain/user"
)

const matchColumns = "id, location_id, home_team_id, away_team_id, scheduled_at, status, home_score, away_score, created_by, created_at, updated_at"

type matchTableModel struct {
	ID          string         `db:"id"`
	LocationID  string         `db:"location_id"`
	HomeTeamID  string         `db:"home_team_id"`
	AwayTeamID  sql.NullString `db:"away_team_id"`
	ScheduledAt time.Time      `db:"scheduled_at"`
	Status      string         `db:"status"`
	HomeScore   int            `db:"home_score"`
	AwayScore   int            `db:"away_score"`
	CreatedBy   string         `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	ID          string         `db:"id"`
	LocationID  string         `db:"location_id"`
	HomeTeamID  string         `db:"home_team_id"`
	AwayTeamID  sql.NullString `db:"away_team_id"`
	ScheduledAt time.Time      `db:"scheduled_at"`
	Status      string         `db:"status"`
	CreatedBy   string         `db:"created_by"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:          m.ID,
		LocationID:  m.LocationID,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID.String,
		ScheduledAt: m.ScheduledAt.UTC(),
		Status:      match.Status(m.Status),
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type rosterRowModel struct {
	MatchID        string         `db:"match_id"`
	UserID         string         `db:"user_id"`
	Status         string         `db:"status"`
	TeamAssignment string         `db:"team_assignment"`
	PlayerName     sql.NullString `db:"player_name"`
	PlayerEmail    sql.NullString `db:"player_email"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type rosterInsertModel struct {
	MatchID        string `db:"match_id"`
	UserID         string `db:"user_id"`
	Status         string `db:"status"`
	TeamAssignment string `db:"team_assignment"`
}

func (m rosterRowModel) toDomain() roster.Entry {
	return roster.Entry{
		MatchID:     m.MatchID,
		UserID:      m.UserID,
		Status:      roster.Status(m.Status),
		Side:        roster.NormalizeSide(roster.Side(m.TeamAssignment)),
		PlayerName:  m.PlayerName.String,
		PlayerEmail: m.PlayerEmail.String,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type eventRowModel struct {
	ID             string         `db:"id"`
	Seq            int64          `db:"seq"`
	MatchID        string         `db:"match_id"`
	PlayerID       string         `db:"player_id"`
	AssistPlayerID sql.NullString `db:"assist_player_id"`
	EventType      string         `db:"event_type"`
	Minute         int            `db:"minute"`
	Detail         string         `db:"detail"`
	PlayerName     sql.NullString `db:"player_name"`
	CreatedAt      time.Time      `db:"created_at"`
}

type eventInsertModel struct {
	ID             string         `db:"id"`
	MatchID        string         `db:"match_id"`
	PlayerID       string         `db:"player_id"`
	AssistPlayerID sql.NullString `db:"assist_player_id"`
	EventType      string         `db:"event_type"`
	Minute         int            `db:"minute"`
	Detail         string         `db:"detail"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (m eventRowModel) toDomain() matchevent.Event {
	return matchevent.Event{
		ID:             m.ID,
		MatchID:        m.MatchID,
		PlayerID:       m.PlayerID,
		AssistPlayerID: m.AssistPlayerID.String,
		Kind:           matchevent.Kind(m.EventType),
		Minute:         m.Minute,
		Detail:         m.Detail,
		Sequence:       m.Seq,
		CreatedAt:      m.CreatedAt.UTC(),
		PlayerName:     m.PlayerName.String,
	}
}

type teamTableModel struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	ColorHex string `db:"color_hex"`
	OwnerID  string `db:"owner_id"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{ID: m.ID, Name: m.Name, ColorHex: m.ColorHex, OwnerID: m.OwnerID}
}

type teamMemberTableModel struct {
	TeamID       string `db:"team_id"`
	UserID       string `db:"user_id"`
	JerseyNumber int    `db:"jersey_number"`
}

type locationTableModel struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	MaxCapacity  int    `db:"max_capacity"`
	ZipCode      string `db:"zip_code"`
	Street       string `db:"street"`
	Number       string `db:"number"`
	Complement   string `db:"complement"`
	Neighborhood string `db:"neighborhood"`
	City         string `db:"city"`
	State        string `db:"state"`
	Country      string `db:"country"`
}

func (m locationTableModel) toDomain() location.Location {
	return location.Location(m)
}

type userTableModel struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
	Role  string `db:"role"`
}

func (m userTableModel) toDomain() user.Profile {
	return user.Profile{ID: m.ID, Name: m.Name, Email: m.Email, Role: m.Role}
}
