package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/futplan/internal/domain/matchevent"
	idgen "github.com/riskibarqy/futplan/internal/platform/id"
	"github.com/riskibarqy/futplan/internal/platform/logging"
)

type RecordEventInput struct {
	MatchID        string
	PlayerID       string
	AssistPlayerID string
	Kind           string
	Minute         int
	Detail         string
}

// RecordedEvent is the stored event plus the score it produced.
type RecordedEvent struct {
	Event matchevent.Event
	Score matchevent.Score
}

type EventService struct {
	ledger matchevent.Ledger
	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewEventService(ledger matchevent.Ledger, idGen idgen.Generator, logger *logging.Logger) *EventService {
	if logger == nil {
		logger = logging.Default()
	}

	return &EventService{
		ledger: ledger,
		idGen:  idGen,
		logger: logger.Named("usecase.event"),
		now:    time.Now,
	}
}

// RecordEvent appends an event to the match ledger and returns the
// recomputed score.
func (s *EventService) RecordEvent(ctx context.Context, input RecordEventInput) (RecordedEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.RecordEvent", matchAttr(input.MatchID))
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.AssistPlayerID = strings.TrimSpace(input.AssistPlayerID)
	kind := matchevent.Kind(strings.ToLower(strings.TrimSpace(input.Kind)))

	if input.MatchID == "" {
		return RecordedEvent{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if input.PlayerID == "" {
		return RecordedEvent{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if !kind.Valid() {
		return RecordedEvent{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, input.Kind)
	}
	if input.Minute < 0 {
		return RecordedEvent{}, fmt.Errorf("%w: minute must not be negative", ErrInvalidInput)
	}
	if input.AssistPlayerID != "" && input.AssistPlayerID == input.PlayerID {
		return RecordedEvent{}, fmt.Errorf("%w: a player cannot assist their own event", ErrInvalidInput)
	}

	eventID, err := s.idGen.NewID()
	if err != nil {
		return RecordedEvent{}, fmt.Errorf("generate event id: %w", err)
	}

	stored, score, err := s.ledger.Append(ctx, matchevent.Event{
		ID:             eventID,
		MatchID:        input.MatchID,
		PlayerID:       input.PlayerID,
		AssistPlayerID: input.AssistPlayerID,
		Kind:           kind,
		Minute:         input.Minute,
		Detail:         strings.TrimSpace(input.Detail),
		CreatedAt:      s.now().UTC(),
	})
	switch {
	case errors.Is(err, matchevent.ErrMatchNotFound):
		return RecordedEvent{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	case errors.Is(err, matchevent.ErrMatchClosed):
		return RecordedEvent{}, withDetail(
			fmt.Errorf("%w: match=%s", ErrMatchClosed, input.MatchID),
			"events cannot be added to a finished or canceled match",
		)
	case err != nil:
		return RecordedEvent{}, fmt.Errorf("append match event: %w", err)
	}

	s.logger.InfoContext(ctx, "match event recorded",
		"match_id", stored.MatchID,
		"event_id", stored.ID,
		"kind", stored.Kind,
		"minute", stored.Minute,
		"score", fmt.Sprintf("%d x %d", score.Home, score.Away),
	)
	return RecordedEvent{Event: stored, Score: score}, nil
}
