package kafka

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
)

// ReaderInterface is the subset of kafka.Reader the consumer needs.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one decoded preparation request. A returned error
// means the request failed; the message is committed either way, since
// the pipeline has no retry semantics and a failed job is recorded as
// failed rather than re-driven.
type Handler func(ctx context.Context, msg PrepareMessage) error

// Consumer reads preparation requests from the group subscription and
// dispatches them to a handler.
type Consumer struct {
	reader ReaderInterface
	logger logging.Logger
}

// NewConsumer builds a consumer over a real group reader.
func NewConsumer(cfg config.KafkaConfig, logger logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
	return NewConsumerWithReader(reader, logger)
}

// NewConsumerWithReader wires an explicit reader; used by tests.
func NewConsumerWithReader(reader ReaderInterface, logger logging.Logger) *Consumer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Consumer{reader: reader, logger: logger.Named("kafka.consumer")}
}

// Run consumes messages until ctx is cancelled or the reader closes.
// Undecodable messages are committed and skipped; handler failures are
// logged and committed. Run returns nil on clean shutdown.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		raw, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		msg, err := DecodePrepareMessage(raw.Value)
		if err != nil {
			c.logger.Warn("skipping undecodable message",
				logging.Int64("offset", raw.Offset), logging.Err(err))
			c.commit(ctx, raw)
			continue
		}

		if err := handle(ctx, msg); err != nil {
			c.logger.Error("preparation request failed",
				logging.String("job_id", msg.JobID.String()),
				logging.String("pdb_id", msg.PDBID),
				logging.Err(err))
		}
		c.commit(ctx, raw)
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("failed to commit offset",
			logging.Int64("offset", msg.Offset), logging.Err(err))
	}
}

// Close shuts down the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
