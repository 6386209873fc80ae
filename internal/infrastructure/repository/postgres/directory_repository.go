package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/futplan/internal/domain/location"
	"github.com/riskibarqy/futplan/internal/domain/team"
	"github.com/riskibarqy/futplan/internal/domain/user"
	qb "github.com/riskibarqy/futplan/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("id", "name", "color_hex", "owner_id").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]team.Member, error) {
	query, args, err := qb.Select("team_id", "user_id", "jersey_number").From("team_members").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("jersey_number", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team members query: %w", err)
	}

	var rows []teamMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team members: %w", err)
	}

	out := make([]team.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Member(row))
	}
	return out, nil
}

type LocationRepository struct {
	db *sqlx.DB
}

func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) GetByID(ctx context.Context, locationID string) (location.Location, bool, error) {
	query, args, err := qb.Select("*").From("locations").
		Where(qb.Eq("id", locationID)).
		ToSQL()
	if err != nil {
		return location.Location{}, false, fmt.Errorf("build select location query: %w", err)
	}

	var row locationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return location.Location{}, false, nil
		}
		return location.Location{}, false, fmt.Errorf("select location: %w", err)
	}
	return row.toDomain(), true, nil
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.Profile, bool, error) {
	return r.getOne(ctx, qb.Eq("id", userID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.Profile, bool, error) {
	return r.getOne(ctx, qb.Expr("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))))
}

func (r *UserRepository) getOne(ctx context.Context, cond qb.Condition) (user.Profile, bool, error) {
	query, args, err := qb.Select("id", "name", "email", "role").From("users").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("build select user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, fmt.Errorf("select user: %w", err)
	}
	return row.toDomain(), true, nil
}
