package kafka

import (
	"context"
	"errors"

	"ntv2/internal/job"
	"ntv2/internal/logging"

	"github.com/IBM/sarama"
)

// SaramaDriver consumes job requests through a consumer group. Messages of
// a claim are handled one at a time; an offset is marked only after its job
// has been handled, so delivery is at least once.
type SaramaDriver struct {
	cfg   Config
	cl    sarama.Client
	group sarama.ConsumerGroup
	cp    *committer
}

func (d *SaramaDriver) Configure(config Config) error {
	d.cfg = config
	d.cp = newCommitter(config.Checkpoint.CommitInt)

	ver, err := sarama.ParseKafkaVersion(config.Version)
	if err != nil {
		return err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.AutoCommit.Enable = false
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}
	switch config.StartFrom {
	case "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	if d.cl, err = sarama.NewClient(config.Brokers, sc); err != nil {
		return err
	}
	d.group, err = sarama.NewConsumerGroupFromClient(config.GroupID, d.cl)
	return err
}

func (d *SaramaDriver) Run(ctx context.Context, emit EmitFunc) error {
	if d.group == nil {
		return errors.New("kafka: driver not configured")
	}
	handler := &groupHandler{driver: d, emit: emit}

	go func() {
		for err := range d.group.Errors() {
			logging.L().Warn("sarama-driver: consumer error", "err", err)
		}
	}()

	for {
		if err := d.group.Consume(ctx, d.cfg.Topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (d *SaramaDriver) Close() error {
	if d.group != nil {
		_ = d.group.Close()
	}
	if d.cl != nil {
		_ = d.cl.Close()
	}
	return nil
}

type groupHandler struct {
	driver *SaramaDriver
	emit   EmitFunc
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup flushes offsets marked since the last commit before a rebalance.
func (h *groupHandler) Cleanup(sess sarama.ConsumerGroupSession) error {
	if h.driver.cp.flush() {
		sess.Commit()
		logging.L().Info("sarama-driver: committed offsets on rebalance")
	}
	return nil
}

func (h *groupHandler) ConsumeClaim(
	sess sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	for {
		select {
		case <-sess.Context().Done():
			return nil

		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.emit(sess.Context(), toMessage(msg)); err != nil {
				return err
			}
			sess.MarkMessage(msg, "")
			if h.driver.cp.mark() {
				sess.Commit()
			}
		}
	}
}

func toMessage(msg *sarama.ConsumerMessage) *job.Message {
	return &job.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Topic:   msg.Topic,
		Part:    msg.Partition,
		Offset:  msg.Offset,
		Time:    msg.Timestamp,
		Headers: toHeaderMap(msg.Headers),
	}
}

func toHeaderMap(src []*sarama.RecordHeader) map[string][]byte {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string][]byte, len(src))
	for _, h := range src {
		out[string(h.Key)] = h.Value
	}
	return out
}
