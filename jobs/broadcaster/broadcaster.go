// Package broadcaster drains the trade outbox and publishes prints to
// Kafka. Publication is at-least-once: a record is marked SENT before the
// produce and ACKED only after the broker confirms it.
package broadcaster

import (
	"context"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"tern/infra/outbox"
)

type Broadcaster struct {
	log      zerolog.Logger
	box      *outbox.Outbox
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
}

func New(log zerolog.Logger, box *outbox.Outbox, brokers []string, topic string, interval time.Duration) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{
		log:      log.With().Str("job", "broadcaster").Logger(),
		box:      box,
		producer: producer,
		topic:    topic,
		interval: interval,
	}, nil
}

// Run drains until the context ends. Failed produces stay in the outbox
// and are retried on a later pass.
func (b *Broadcaster) Run(ctx context.Context) {
	b.log.Info().Str("topic", b.topic).Msg("broadcaster started")

	b.recoverStranded()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.drainOnce()
		}
	}
}

// recoverStranded requeues records a previous run marked SENT but never
// resolved: a crash between the mark and the broker confirm leaves them
// behind, and no drain pass targets SENT. Re-publishing is safe, the
// contract is at-least-once.
func (b *Broadcaster) recoverStranded() {
	err := b.box.ScanByState(outbox.StateSent, func(seq uint64, _ outbox.Record) error {
		b.log.Warn().Uint64("seq", seq).Msg("requeueing stranded print")
		return b.box.Mark(seq, outbox.StateNew)
	})
	if err != nil {
		b.log.Error().Err(err).Msg("stranded sweep failed")
	}
}

func (b *Broadcaster) drainOnce() {
	err := b.box.ScanByState(outbox.StateNew, func(seq uint64, rec outbox.Record) error {
		if err := b.box.Mark(seq, outbox.StateSent); err != nil {
			return err
		}

		msg := &sarama.ProducerMessage{
			Topic: b.topic,
			Key:   sarama.StringEncoder(strconv.FormatUint(seq, 10)),
			Value: sarama.ByteEncoder(rec.Payload),
		}
		if _, _, err := b.producer.SendMessage(msg); err != nil {
			b.log.Warn().Err(err).Uint64("seq", seq).Msg("publish failed, will retry")
			return b.box.Mark(seq, outbox.StateFailed)
		}

		return b.box.Mark(seq, outbox.StateAcked)
	})
	if err != nil {
		b.log.Error().Err(err).Msg("outbox scan failed")
		return
	}

	// A FAILED record re-enters the queue on the next pass.
	_ = b.box.ScanByState(outbox.StateFailed, func(seq uint64, _ outbox.Record) error {
		return b.box.Mark(seq, outbox.StateNew)
	})
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
