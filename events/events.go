// Package events fans engine changes out to subscribers outside the process:
// websocket rooms and, when configured, a NATS subject per tournament.
package events

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
)

const (
	TypeBracketUpdated    = "BRACKET_UPDATED"
	TypeRosterUpdated     = "ROSTER_UPDATED"
	TypeTeamsUpdated      = "TEAMS_UPDATED"
	TypeTournamentUpdated = "TOURNAMENT_UPDATED"
)

type Event struct {
	Type         string      `json:"type"`
	TournamentID int         `json:"tournament_id"`
	Payload      interface{} `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// RoomID is the websocket room of a tournament.
func RoomID(tournamentID int) string {
	return "tournament_" + strconv.Itoa(tournamentID)
}

// Fanout delivers every event to all publishers. A failing publisher does not
// stop the others; the joined error is returned.
type Fanout struct {
	publishers []Publisher
	logger     *slog.Logger
}

func NewFanout(logger *slog.Logger, publishers ...Publisher) *Fanout {
	f := &Fanout{logger: logger}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

func (f *Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, ev); err != nil {
			f.logger.Warn("publish event failed", "type", ev.Type, "tournament_id", ev.TournamentID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
