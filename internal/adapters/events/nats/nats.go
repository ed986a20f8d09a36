// Package nats publishes upload progress events to a JetStream stream.
// Consumers (room broadcast, activity feeds) subscribe out of process.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"roomfiles/internal/config"
	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher is a ProgressSink on JetStream
type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
	logger *slog.Logger
}

// NewPublisher connects to NATS and ensures the progress stream exists
func NewPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ClientName),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to JetStream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.Subject + ".>"},
		MaxAge:   cfg.EventRetention,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}

	return &Publisher{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

var _ port.ProgressSink = (*Publisher)(nil)

// Publish sends one upload event, subject-keyed by upload id
func (p *Publisher) Publish(ctx context.Context, event domain.UploadEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", p.config.Subject, event.UploadID)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// JetStream exposes the underlying JetStream context so the KV session store
// can share one connection.
func (p *Publisher) JetStream() jetstream.JetStream {
	return p.js
}

// Close graceful shutdown
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
