package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"ntv2/internal/job"
	"ntv2/internal/logging"
	"ntv2/sink"
)

type Config struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	// Acks is 0, 1 or -1; unset waits for all in-sync replicas.
	Acks    *int16 `yaml:"required_acks"`
	Version string `yaml:"version"`
}

func (c Config) requiredAcks() sarama.RequiredAcks {
	if c.Acks == nil {
		return sarama.WaitForAll
	}
	return sarama.RequiredAcks(*c.Acks)
}

// driver delivers each result synchronously so that a queue message is only
// marked once the broker has accepted its result.
type driver struct {
	cfg  Config
	p    sarama.SyncProducer
	once sync.Once
}

// newProducer is replaced in tests.
var newProducer = func(brokers []string, sc *sarama.Config) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(brokers, sc)
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = cfg.requiredAcks()
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	if cfg.Version != "" {
		ver, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return err
		}
		sc.Version = ver
	}
	p, err := newProducer(cfg.Brokers, sc)
	if err != nil {
		return err
	}
	d.p = p
	return nil
}

func (d *driver) Push(r *job.Result) error {
	if d.p == nil {
		return errors.New("kafka-sink: not configured")
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Value: sarama.ByteEncoder(b),
	}
	if r.ID != "" {
		msg.Key = sarama.StringEncoder(r.ID)
	}
	part, off, err := d.p.SendMessage(msg)
	if err != nil {
		logging.L().Error("kafka-sink: delivery failed", "topic", d.cfg.Topic, "id", r.ID, "err", err)
		return fmt.Errorf("kafka-sink: %w", err)
	}
	logging.L().Debug("kafka-sink: result delivered", "topic", d.cfg.Topic, "partition", part, "offset", off)
	return nil
}

func (d *driver) Close() error {
	var err error
	d.once.Do(func() {
		if d.p != nil {
			err = d.p.Close()
		}
	})
	return err
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
