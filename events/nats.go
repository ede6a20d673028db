package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const natsClientName = "TOURNAMENT_BRACKETS"

// NATSPublisher publishes every event on tournaments.<id>.<type>.
type NATSPublisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

func ConnectNATS(url string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(
		url,
		nats.Name(natsClientName),
		nats.PingInterval(5*time.Second),
		nats.MaxPingsOutstanding(3),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return &NATSPublisher{nc: nc, logger: logger}, nil
}

func Subject(tournamentID int, eventType string) string {
	return fmt.Sprintf("tournaments.%d.%s", tournamentID, eventType)
}

func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.Type, err)
	}
	if err := p.nc.Publish(Subject(ev.TournamentID, ev.Type), data); err != nil {
		return fmt.Errorf("publish event %s: %w", ev.Type, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("nats drain failed", "error", err)
		p.nc.Close()
	}
}
