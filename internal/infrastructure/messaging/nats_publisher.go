package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"rewards-transparency-indexer/internal/domain/entity"
	"rewards-transparency-indexer/internal/infrastructure/config"
	"rewards-transparency-indexer/internal/infrastructure/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher publishes report events to NATS, preferring JetStream and
// falling back to core NATS when JetStream is unavailable. When NATS is
// disabled by configuration every call is a no-op.
type NATSPublisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	config *config.NATSConfig
	logger *logger.Logger
}

// NewNATSPublisher creates a new NATS publisher
func NewNATSPublisher(cfg *config.NATSConfig, log *logger.Logger) *NATSPublisher {
	return &NATSPublisher{
		config: cfg,
		logger: log.WithComponent("nats-publisher"),
	}
}

// Connect connects to the NATS server.
func (p *NATSPublisher) Connect(ctx context.Context) error {
	if !p.config.Enabled {
		p.logger.Info("NATS is disabled, skipping connection")
		return nil
	}

	p.logger.Info("Connecting to NATS server", zap.String("url", p.config.URL))

	opts := []nats.Option{
		nats.Name("transparency-reporter"),
		nats.Timeout(p.config.ConnectTimeout),
		nats.ReconnectWait(p.config.ReconnectDelay),
		nats.MaxReconnects(p.config.ReconnectAttempts),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			p.logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			p.logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			p.logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(p.config.URL, opts...)
	if err != nil {
		p.logger.Error("Failed to connect to NATS", zap.Error(err))
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	p.conn = conn

	js, err := conn.JetStream()
	if err != nil {
		p.logger.Warn("JetStream not available, using core NATS", zap.Error(err))
		return nil
	}
	p.js = js

	p.logger.Info("Successfully connected to NATS")
	return nil
}

// PublishReport publishes a report event on "<subject_prefix>.created".
func (p *NATSPublisher) PublishReport(ctx context.Context, event *entity.ReportEvent) error {
	if p.conn == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal report event: %w", err)
	}

	subject := fmt.Sprintf("%s.created", p.config.SubjectPrefix)

	if p.js != nil {
		if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
			return fmt.Errorf("failed to publish report event: %w", err)
		}
	} else {
		if err := p.conn.Publish(subject, data); err != nil {
			return fmt.Errorf("failed to publish report event: %w", err)
		}
	}

	p.logger.Info("Published report event",
		zap.String("subject", subject),
		zap.String("policy", event.Policy),
		zap.Int("groups", len(event.Groups)))

	return nil
}

// Disconnect closes the NATS connection.
func (p *NATSPublisher) Disconnect() error {
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
		p.js = nil
	}
	p.logger.Info("Disconnected from NATS")
	return nil
}
