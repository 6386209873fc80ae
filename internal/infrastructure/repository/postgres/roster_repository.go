package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/futplan/internal/domain/roster"
	qb "github.com/riskibarqy/futplan/internal/platform/querybuilder"
)

const rosterColumns = "match_id, user_id, status, team_assignment, created_at, updated_at"

const rosterSelect = `
SELECT r.match_id, r.user_id, r.status, r.team_assignment, r.created_at, r.updated_at,
       u.name AS player_name, u.email AS player_email
FROM match_roster r
LEFT JOIN users u ON u.id = r.user_id`

const rosterListQuery = rosterSelect + `
WHERE r.match_id = $1
ORDER BY CASE r.team_assignment WHEN 'home' THEN 0 WHEN 'away' THEN 1 ELSE 2 END,
         LOWER(COALESCE(u.name, '')),
         r.user_id`

// withPlayerColumns wraps a write ending in "RETURNING rosterColumns" so the
// written row comes back joined with the player's name in one statement.
func withPlayerColumns(write string) string {
	return `
WITH written AS (` + write + `)
SELECT w.match_id, w.user_id, w.status, w.team_assignment, w.created_at, w.updated_at,
       u.name AS player_name, u.email AS player_email
FROM written w
LEFT JOIN users u ON u.id = w.user_id`
}

func insertRosterEntryQuery(entry roster.Entry) (string, []any, error) {
	query, args, err := qb.InsertModel("match_roster", rosterInsertModel{
		MatchID:        entry.MatchID,
		UserID:         entry.UserID,
		Status:         string(entry.Status),
		TeamAssignment: string(roster.NormalizeSide(entry.Side)),
	}, "RETURNING "+rosterColumns)
	if err != nil {
		return "", nil, err
	}
	return withPlayerColumns(query), args, nil
}

func updateAttendanceQuery(matchID, userID string, status roster.Status) (string, []any, error) {
	query, args, err := qb.Update("match_roster").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("match_id", matchID), qb.Eq("user_id", userID)).
		Suffix("RETURNING " + rosterColumns).
		ToSQL()
	if err != nil {
		return "", nil, err
	}
	return withPlayerColumns(query), args, nil
}

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) Get(ctx context.Context, matchID, userID string) (roster.Entry, bool, error) {
	query := rosterSelect + `
WHERE r.match_id = $1
  AND r.user_id = $2`

	var row rosterRowModel
	if err := r.db.GetContext(ctx, &row, query, matchID, userID); err != nil {
		if isNotFound(err) {
			return roster.Entry{}, false, nil
		}
		return roster.Entry{}, false, fmt.Errorf("select roster entry: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *RosterRepository) ListByMatch(ctx context.Context, matchID string) ([]roster.Entry, error) {
	var rows []rosterRowModel
	if err := r.db.SelectContext(ctx, &rows, rosterListQuery, matchID); err != nil {
		return nil, fmt.Errorf("select roster: %w", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RosterRepository) Create(ctx context.Context, entry roster.Entry) (roster.Entry, error) {
	query, args, err := insertRosterEntryQuery(entry)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("build insert roster entry query: %w", err)
	}

	var row rosterRowModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUniqueViolation(err) {
			return roster.Entry{}, fmt.Errorf("%w: match=%s user=%s", roster.ErrDuplicateEntry, entry.MatchID, entry.UserID)
		}
		return roster.Entry{}, fmt.Errorf("insert roster entry: %w", err)
	}
	return row.toDomain(), nil
}

func (r *RosterRepository) UpdateStatus(ctx context.Context, matchID, userID string, status roster.Status) (roster.Entry, bool, error) {
	query, args, err := updateAttendanceQuery(matchID, userID, status)
	if err != nil {
		return roster.Entry{}, false, fmt.Errorf("build update attendance query: %w", err)
	}

	var row rosterRowModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Entry{}, false, nil
		}
		return roster.Entry{}, false, fmt.Errorf("update attendance: %w", err)
	}
	return row.toDomain(), true, nil
}

// ApplyAssignments updates every listed entry in one statement and rolls
// back when any user has no entry.
func (r *RosterRepository) ApplyAssignments(ctx context.Context, matchID string, assignments []roster.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return withTx(ctx, r.db, "apply roster assignments", func(tx *sqlx.Tx) error {
		return applyAssignmentsTx(ctx, tx, matchID, assignments)
	})
}

const applyAssignmentsQuery = `
UPDATE match_roster AS r
SET team_assignment = v.side,
    status = CASE WHEN v.confirm THEN 'confirmed' ELSE r.status END,
    updated_at = NOW()
FROM unnest($2::text[], $3::text[], $4::bool[]) AS v(user_id, side, confirm)
WHERE r.match_id = $1
  AND r.user_id = v.user_id`

func applyAssignmentsTx(ctx context.Context, tx *sqlx.Tx, matchID string, assignments []roster.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	userIDs, sides, confirms := splitAssignments(assignments)

	res, err := tx.ExecContext(ctx, applyAssignmentsQuery, matchID, pq.Array(userIDs), pq.Array(sides), pq.Array(confirms))
	if err != nil {
		return fmt.Errorf("apply roster assignments: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected roster rows: %w", err)
	}
	if affected != int64(len(assignments)) {
		return fmt.Errorf("%w: match=%s matched %d of %d players", roster.ErrEntryNotFound, matchID, affected, len(assignments))
	}
	return nil
}

// Redistribute locks the match row first. Roster inserts reference it, so a
// concurrent AddPlayer waits until the new sides are committed.
func (r *RosterRepository) Redistribute(ctx context.Context, matchID string, plan func([]roster.Entry) ([]roster.Assignment, error)) ([]roster.Assignment, error) {
	var assignments []roster.Assignment
	err := withTx(ctx, r.db, "redistribute roster", func(tx *sqlx.Tx) error {
		var locked string
		if err := tx.GetContext(ctx, &locked, `SELECT id FROM matches WHERE id = $1 FOR UPDATE`, matchID); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: match=%s", roster.ErrEntryNotFound, matchID)
			}
			return fmt.Errorf("lock match: %w", err)
		}

		var rows []rosterRowModel
		if err := tx.SelectContext(ctx, &rows, rosterListQuery, matchID); err != nil {
			return fmt.Errorf("select roster: %w", err)
		}
		entries := make([]roster.Entry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, row.toDomain())
		}

		planned, err := plan(entries)
		if err != nil {
			return err
		}
		if err := applyAssignmentsTx(ctx, tx, matchID, planned); err != nil {
			return err
		}
		assignments = planned
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *RosterRepository) ClearAssignments(ctx context.Context, matchID string) (int64, error) {
	query, args, err := qb.Update("match_roster").
		Set("team_assignment", string(roster.SideUnassigned)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build clear assignments query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear assignments: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read cleared roster rows: %w", err)
	}
	return affected, nil
}

func (r *RosterRepository) UpsertSides(ctx context.Context, matchID string, assignments []roster.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	userIDs, sides, _ := splitAssignments(assignments)

	const query = `
INSERT INTO match_roster (match_id, user_id, status, team_assignment)
SELECT $1, v.user_id, 'confirmed', v.side
FROM unnest($2::text[], $3::text[]) AS v(user_id, side)
ON CONFLICT (match_id, user_id)
DO UPDATE SET
    team_assignment = EXCLUDED.team_assignment,
    updated_at = NOW()`

	return withTx(ctx, r.db, "upsert roster sides", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, matchID, pq.Array(userIDs), pq.Array(sides)); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: match=%s has a team member missing from users: %w", roster.ErrEntryNotFound, matchID, err)
			}
			return fmt.Errorf("upsert roster sides: %w", err)
		}
		return nil
	})
}

func splitAssignments(assignments []roster.Assignment) ([]string, []string, []bool) {
	userIDs := make([]string, 0, len(assignments))
	sides := make([]string, 0, len(assignments))
	confirms := make([]bool, 0, len(assignments))
	for _, a := range assignments {
		userIDs = append(userIDs, a.UserID)
		sides = append(sides, string(a.Side))
		confirms = append(confirms, a.Confirm)
	}
	return userIDs, sides, confirms
}
