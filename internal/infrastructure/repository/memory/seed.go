package memory

import (
	"github.com/riskibarqy/futplan/internal/domain/location"
	"github.com/riskibarqy/futplan/internal/domain/team"
	"github.com/riskibarqy/futplan/internal/domain/user"
)

const (
	LocationIDArenaCentral = "loc-arena-central"
	TeamIDGarudaFC         = "team-garuda-fc"
	TeamIDRajawaliFC       = "team-rajawali-fc"
	UserIDOrganizer        = "user-organizer"
)

func SeedLocations() []location.Location {
	return []location.Location{
		{
			ID:           LocationIDArenaCentral,
			Name:         "Arena Central",
			MaxCapacity:  22,
			ZipCode:      "10110",
			Street:       "Jl. Merdeka",
			Number:       "12",
			Neighborhood: "Gambir",
			City:         "Jakarta",
			State:        "DKI Jakarta",
			Country:      "ID",
		},
	}
}

func SeedUsers() []user.Profile {
	return []user.Profile{
		{ID: UserIDOrganizer, Name: "Organizer", Email: "organizer@futplan.local", Role: user.RoleOrganizer},
		{ID: "user-adi", Name: "Adi Nugroho", Email: "adi@futplan.local", Role: user.RolePlayer},
		{ID: "user-bima", Name: "Bima Saputra", Email: "bima@futplan.local", Role: user.RolePlayer},
		{ID: "user-citra", Name: "Citra Lestari", Email: "citra@futplan.local", Role: user.RolePlayer},
		{ID: "user-dewi", Name: "Dewi Anggraini", Email: "dewi@futplan.local", Role: user.RolePlayer},
		{ID: "user-eko", Name: "Eko Prasetyo", Email: "eko@futplan.local", Role: user.RolePlayer},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDGarudaFC, Name: "Garuda FC", ColorHex: "#C8102E", OwnerID: UserIDOrganizer},
		{ID: TeamIDRajawaliFC, Name: "Rajawali FC", ColorHex: "#1D428A", OwnerID: "user-dewi"},
	}
}

func SeedTeamMembers() map[string][]team.Member {
	return map[string][]team.Member{
		TeamIDGarudaFC: {
			{UserID: "user-adi", JerseyNumber: 7},
			{UserID: "user-bima", JerseyNumber: 9},
			{UserID: "user-citra", JerseyNumber: 10},
		},
		TeamIDRajawaliFC: {
			{UserID: "user-dewi", JerseyNumber: 1},
			{UserID: "user-eko", JerseyNumber: 11},
		},
	}
}

// Seed loads the development fixtures into the store.
func Seed(s *Store) {
	for _, item := range SeedLocations() {
		s.PutLocation(item)
	}
	for _, item := range SeedUsers() {
		s.PutUser(item)
	}
	members := SeedTeamMembers()
	for _, item := range SeedTeams() {
		s.PutTeam(item, members[item.ID]...)
	}
}
