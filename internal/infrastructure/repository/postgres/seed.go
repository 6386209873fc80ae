package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/futplan/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the development directory fixtures into an empty
// database. It is a no-op once any location exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM locations`); err != nil {
		return fmt.Errorf("count locations for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	return withTx(ctx, db, "bootstrap seed", func(tx *sqlx.Tx) error {
		for _, l := range memory.SeedLocations() {
			if _, err := tx.NamedExecContext(ctx, `
INSERT INTO locations (id, name, max_capacity, zip_code, street, number, complement, neighborhood, city, state, country)
VALUES (:id, :name, :max_capacity, :zip_code, :street, :number, :complement, :neighborhood, :city, :state, :country)
ON CONFLICT (id) DO NOTHING`, locationTableModel(l)); err != nil {
				return fmt.Errorf("seed location %s: %w", l.ID, err)
			}
		}

		for _, u := range memory.SeedUsers() {
			if _, err := tx.NamedExecContext(ctx, `
INSERT INTO users (id, name, email, role)
VALUES (:id, :name, :email, :role)
ON CONFLICT (id) DO NOTHING`, userTableModel{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}

		members := memory.SeedTeamMembers()
		for _, t := range memory.SeedTeams() {
			if _, err := tx.NamedExecContext(ctx, `
INSERT INTO teams (id, name, color_hex, owner_id)
VALUES (:id, :name, :color_hex, :owner_id)
ON CONFLICT (id) DO NOTHING`, teamTableModel{ID: t.ID, Name: t.Name, ColorHex: t.ColorHex, OwnerID: t.OwnerID}); err != nil {
				return fmt.Errorf("seed team %s: %w", t.ID, err)
			}

			for _, m := range members[t.ID] {
				if _, err := tx.NamedExecContext(ctx, `
INSERT INTO team_members (team_id, user_id, jersey_number)
VALUES (:team_id, :user_id, :jersey_number)
ON CONFLICT (team_id, user_id) DO NOTHING`, teamMemberTableModel{TeamID: t.ID, UserID: m.UserID, JerseyNumber: m.JerseyNumber}); err != nil {
					return fmt.Errorf("seed member %s of team %s: %w", m.UserID, t.ID, err)
				}
			}
		}
		return nil
	})
}
