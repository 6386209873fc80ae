package httpapi

import (
	"time"

	"github.com/riskibarqy/futplan/internal/domain/location"
	"github.com/riskibarqy/futplan/internal/domain/match"
	"github.com/riskibarqy/futplan/internal/domain/matchevent"
	"github.com/riskibarqy/futplan/internal/domain/roster"
	"github.com/riskibarqy/futplan/internal/usecase"
)

type createMatchRequest struct {
	LocationID  string    `json:"location_id" validate:"required"`
	HomeTeamID  string    `json:"home_team_id" validate:"required"`
	AwayTeamID  string    `json:"away_team_id" validate:"omitempty,nefield=HomeTeamID"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

type inviteResponseRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

type recordEventRequest struct {
	PlayerID       string `json:"player_id" validate:"required"`
	AssistPlayerID string `json:"assist_player_id" validate:"omitempty,nefield=PlayerID"`
	Type           string `json:"type" validate:"required"`
	Minute         int    `json:"minute" validate:"gte=0"`
	Detail         string `json:"detail" validate:"omitempty,max=500"`
}

type addRosterPlayerRequest struct {
	UserID string `json:"user_id" validate:"required_without=Email"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type updateAttendanceRequest struct {
	Status string `json:"status" validate:"required"`
}

type manualAssignmentRequest struct {
	Assignments []manualAssignmentItem `json:"assignments" validate:"required,min=1,dive"`
}

type manualAssignmentItem struct {
	UserID string `json:"user_id" validate:"required"`
	Side   string `json:"side" validate:"required"`
}

type assignPlayerRequest struct {
	Side string `json:"side" validate:"required"`
}

type matchDTO struct {
	ID          string    `json:"id"`
	LocationID  string    `json:"location_id"`
	HomeTeamID  string    `json:"home_team_id"`
	AwayTeamID  string    `json:"away_team_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	HomeScore   int       `json:"home_score"`
	AwayScore   int       `json:"away_score"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type finishMatchDTO struct {
	Match   matchDTO `json:"match"`
	Summary string   `json:"summary"`
}

type rosterEntryDTO struct {
	UserID      string    `json:"user_id"`
	PlayerName  string    `json:"player_name"`
	PlayerEmail string    `json:"player_email,omitempty"`
	Status      string    `json:"status"`
	Side        string    `json:"side"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type assignmentDTO struct {
	UserID string `json:"user_id"`
	Side   string `json:"side"`
}

type eventDTO struct {
	ID             string    `json:"id"`
	PlayerID       string    `json:"player_id"`
	PlayerName     string    `json:"player_name,omitempty"`
	AssistPlayerID string    `json:"assist_player_id,omitempty"`
	Type           string    `json:"type"`
	Minute         int       `json:"minute"`
	Detail         string    `json:"detail,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type scoreDTO struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type recordedEventDTO struct {
	Event eventDTO `json:"event"`
	Score scoreDTO `json:"score"`
}

type locationDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MaxCapacity  int    `json:"max_capacity"`
	ZipCode      string `json:"zip_code,omitempty"`
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country,omitempty"`
}

type teamCardDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ColorHex string `json:"color_hex,omitempty"`
}

type dashboardDTO struct {
	Match    matchDTO     `json:"match"`
	Location *locationDTO `json:"location"`
	Home     *teamCardDTO `json:"home"`
	Away     *teamCardDTO `json:"away"`
	Events   []eventDTO   `json:"events"`
}

type countDTO struct {
	Affected int64 `json:"affected"`
}

type teamSyncDTO struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:          m.ID,
		LocationID:  m.LocationID,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		ScheduledAt: m.ScheduledAt.UTC(),
		Status:      string(m.Status),
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	return out
}

func rosterEntryToDTO(e roster.Entry) rosterEntryDTO {
	return rosterEntryDTO{
		UserID:      e.UserID,
		PlayerName:  e.PlayerName,
		PlayerEmail: e.PlayerEmail,
		Status:      string(e.Status),
		Side:        string(roster.NormalizeSide(e.Side)),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

func eventToDTO(e matchevent.Event) eventDTO {
	return eventDTO{
		ID:             e.ID,
		PlayerID:       e.PlayerID,
		PlayerName:     e.PlayerName,
		AssistPlayerID: e.AssistPlayerID,
		Type:           string(e.Kind),
		Minute:         e.Minute,
		Detail:         e.Detail,
		CreatedAt:      e.CreatedAt.UTC(),
	}
}

func locationToDTO(l *location.Location) *locationDTO {
	if l == nil {
		return nil
	}
	return &locationDTO{
		ID:           l.ID,
		Name:         l.Name,
		MaxCapacity:  l.MaxCapacity,
		ZipCode:      l.ZipCode,
		Street:       l.Street,
		Number:       l.Number,
		Complement:   l.Complement,
		Neighborhood: l.Neighborhood,
		City:         l.City,
		State:        l.State,
		Country:      l.Country,
	}
}

func teamCardToDTO(card *usecase.TeamCard) *teamCardDTO {
	if card == nil {
		return nil
	}
	return &teamCardDTO{ID: card.ID, Name: card.Name, ColorHex: card.ColorHex}
}

func dashboardToDTO(d usecase.Dashboard) dashboardDTO {
	events := make([]eventDTO, 0, len(d.Events))
	for _, e := range d.Events {
		events = append(events, eventToDTO(e))
	}

	return dashboardDTO{
		Match:    matchToDTO(d.Match),
		Location: locationToDTO(d.Location),
		Home:     teamCardToDTO(d.Home),
		Away:     teamCardToDTO(d.Away),
		Events:   events,
	}
}
