package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dhg/docflow/internal/core/domain"
)

// Queue carries classify requests from batch runs and folder sync to the
// background worker. Messages are bare source document ids.
type Queue struct {
	conn    *nats.Conn
	subject string
}

func New(url, subject string) (*Queue, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("docflow"),
		nats.Timeout(2*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(60),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{conn: conn, subject: subject}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishClassifyRequested(_ context.Context, sourceID string) error {
	if err := q.conn.Publish(q.subject, []byte(sourceID)); err != nil {
		return domain.WrapError(domain.ErrTemporary, "publish classify request", err)
	}
	return nil
}

// SubscribeClassifyRequested blocks until ctx is cancelled, draining the
// subscription on the way out. Workers share the queue group, so each
// request lands on exactly one of them.
func (q *Queue) SubscribeClassifyRequested(ctx context.Context, handler func(context.Context, string) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, "docflow-workers", func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx, string(msg.Data)); err != nil {
			slog.Error("classify_request_failed", "source_id", string(msg.Data), "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
