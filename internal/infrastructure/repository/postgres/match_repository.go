package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/futplan/internal/domain/match"
	qb "github.com/riskibarqy/futplan/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) (match.Match, error) {
	insertModel := matchInsertModel{
		ID:          item.ID,
		LocationID:  item.LocationID,
		HomeTeamID:  item.HomeTeamID,
		AwayTeamID:  nullString(item.AwayTeamID),
		ScheduledAt: item.ScheduledAt,
		Status:      string(item.Status),
		CreatedBy:   item.CreatedBy,
	}
	query, args, err := qb.InsertModel("matches", insertModel, "RETURNING "+matchColumns)
	if err != nil {
		return match.Match{}, fmt.Errorf("build insert match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("insert match: %w", err)
	}
	return row.toDomain(), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		OrderBy("scheduled_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(qb.Or(qb.Eq("home_team_id", teamID), qb.Eq("away_team_id", teamID))).
		OrderBy("scheduled_at DESC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team matches query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

// TransitionStatus is a single compare-and-set UPDATE; concurrent callers
// racing on the same expected status see exactly one winner.
func (r *MatchRepository) TransitionStatus(ctx context.Context, matchID string, from []match.Status, to match.Status, at time.Time) (match.Match, bool, error) {
	conds := []qb.Condition{qb.Eq("id", matchID)}
	if len(from) > 0 {
		expected := make([]string, 0, len(from))
		for _, s := range from {
			expected = append(expected, string(s))
		}
		conds = append(conds, qb.Any("status", pq.Array(expected)))
	}

	query, args, err := qb.Update("matches").
		Set("status", string(to)).
		Set("updated_at", at).
		Where(conds...).
		Suffix("RETURNING " + matchColumns).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build transition match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("transition match status: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
