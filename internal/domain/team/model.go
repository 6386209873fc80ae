package team

import "fmt"

// Team is an amateur squad owned by one user.
type Team struct {
	ID       string
	Name     string
	ColorHex string
	OwnerID  string
}

// Member is one player registered in a team.
type Member struct {
	TeamID       string
	UserID       string
	JerseyNumber int
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.OwnerID == "" {
		return fmt.Errorf("team owner id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

func (t Team) IsOwnedBy(userID string) bool {
	return userID != "" && t.OwnerID == userID
}
