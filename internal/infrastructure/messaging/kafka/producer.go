package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/domain/structure"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// WriterInterface is the subset of kafka.Writer the producer needs,
// extracted so tests can substitute an in-memory fake.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes preparation requests keyed by structure identifier,
// so requests for the same structure land on the same partition in order.
type Producer struct {
	writer WriterInterface
	logger logging.Logger
}

// NewProducer builds a producer over a real kafka.Writer.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: cfg.WriteTimeout,
		MaxAttempts:  cfg.MaxRetries,
		RequiredAcks: kafka.RequireAll,
	}
	return NewProducerWithWriter(writer, logger)
}

// NewProducerWithWriter wires an explicit writer; used by tests.
func NewProducerWithWriter(writer WriterInterface, logger logging.Logger) *Producer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Producer{writer: writer, logger: logger.Named("kafka.producer")}
}

// PublishPrepare enqueues a preparation request for the given job.
func (p *Producer) PublishPrepare(ctx context.Context, job *structure.PreparationJob) error {
	msg := NewPrepareMessage(job)
	body, err := msg.Encode()
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(job.PDBID.String()),
		Value: body,
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeJobPublishFailed,
			"failed to publish preparation request")
	}

	p.logger.Info("published preparation request",
		logging.String("job_id", job.ID.String()),
		logging.String("pdb_id", job.PDBID.String()))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
