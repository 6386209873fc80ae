package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/futplan/internal/domain/match"
	"github.com/riskibarqy/futplan/internal/domain/matchevent"
	"github.com/riskibarqy/futplan/internal/domain/roster"
	qb "github.com/riskibarqy/futplan/internal/platform/querybuilder"
)

type EventLedger struct {
	db *sqlx.DB
}

func NewEventLedger(db *sqlx.DB) *EventLedger {
	return &EventLedger{db: db}
}

// Append locks the match row, so concurrent appends to one match apply their
// score changes one after another.
func (l *EventLedger) Append(ctx context.Context, event matchevent.Event) (matchevent.Event, matchevent.Score, error) {
	var (
		stored matchevent.Event
		score  matchevent.Score
	)

	err := withTx(ctx, l.db, "append match event", func(tx *sqlx.Tx) error {
		var current struct {
			Status    string `db:"status"`
			HomeScore int    `db:"home_score"`
			AwayScore int    `db:"away_score"`
		}
		const lockQuery = `
SELECT status, home_score, away_score
FROM matches
WHERE id = $1
FOR UPDATE`
		if err := tx.GetContext(ctx, &current, lockQuery, event.MatchID); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: match=%s", matchevent.ErrMatchNotFound, event.MatchID)
			}
			return fmt.Errorf("lock match: %w", err)
		}
		if match.Status(current.Status).IsTerminal() {
			return fmt.Errorf("%w: match=%s status=%s", matchevent.ErrMatchClosed, event.MatchID, current.Status)
		}

		side := roster.SideUnassigned
		var assignment string
		const sideQuery = `
SELECT team_assignment
FROM match_roster
WHERE match_id = $1
  AND user_id = $2`
		if err := tx.GetContext(ctx, &assignment, sideQuery, event.MatchID, event.PlayerID); err != nil {
			if !isNotFound(err) {
				return fmt.Errorf("select player side: %w", err)
			}
		} else {
			side = roster.NormalizeSide(roster.Side(assignment))
		}

		insertModel := eventInsertModel{
			ID:             event.ID,
			MatchID:        event.MatchID,
			PlayerID:       event.PlayerID,
			AssistPlayerID: nullString(event.AssistPlayerID),
			EventType:      string(event.Kind),
			Minute:         event.Minute,
			Detail:         event.Detail,
			CreatedAt:      event.CreatedAt,
		}
		insertQuery, insertArgs, err := qb.InsertModel("match_events", insertModel,
			"RETURNING id, seq, match_id, player_id, assist_player_id, event_type, minute, detail, created_at, (SELECT name FROM users WHERE id = player_id) AS player_name")
		if err != nil {
			return fmt.Errorf("build insert match event query: %w", err)
		}
		var row eventRowModel
		if err := tx.GetContext(ctx, &row, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert match event: %w", err)
		}

		score = matchevent.ApplyScore(matchevent.Score{Home: current.HomeScore, Away: current.AwayScore}, event.Kind, side)
		updateQuery, updateArgs, err := qb.Update("matches").
			Set("home_score", score.Home).
			Set("away_score", score.Away).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", event.MatchID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update match score query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
			return fmt.Errorf("update match score: %w", err)
		}

		stored = row.toDomain()
		return nil
	})
	if err != nil {
		return matchevent.Event{}, matchevent.Score{}, err
	}
	return stored, score, nil
}

func (l *EventLedger) ListByMatch(ctx context.Context, matchID string) ([]matchevent.Event, error) {
	const query = `
SELECT e.id, e.seq, e.match_id, e.player_id, e.assist_player_id, e.event_type, e.minute, e.detail, e.created_at,
       u.name AS player_name
FROM match_events e
LEFT JOIN users u ON u.id = e.player_id
WHERE e.match_id = $1
ORDER BY e.minute ASC, e.seq ASC`

	var rows []eventRowModel
	if err := l.db.SelectContext(ctx, &rows, query, matchID); err != nil {
		return nil, fmt.Errorf("select match events: %w", err)
	}

	out := make([]matchevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
