package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sinkkafka "ntv2/sink/kafka"
	srckafka "ntv2/source/kafka"
)

// LoadKafkaConfig delegates to the Kafka source loader while centralizing
// loader entrypoints under internal/config.
func LoadKafkaConfig(path string) (srckafka.Config, error) {
	return srckafka.LoadConfig(path)
}

// LoadKafkaSinkConfig reads the result producer settings.
func LoadKafkaSinkConfig(path string) (sinkkafka.Config, error) {
	var c sinkkafka.Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("kafka sink %s: %w", path, err)
	}
	if len(c.Brokers) == 0 || c.Topic == "" {
		return c, fmt.Errorf("kafka sink %s: brokers and topic are required", path)
	}
	return c, nil
}
