package kafka

import (
	"strings"
	"time"

	"github.com/freelansire/hrh/pkg/cloudevents"
)

// Config holds Kafka producer configuration
type Config struct {
	Brokers  []string
	ClientID string

	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int // 0: no ack, 1: leader ack, -1: all replicas ack
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:  []string{"localhost:9092"},
		ClientID: "hrh-logistics",

		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1,
		WriteTimeout: 10 * time.Second,
	}
}

// ParseBrokers splits a comma separated broker list, dropping empty entries
func ParseBrokers(value string) []string {
	var brokers []string
	for _, b := range strings.Split(value, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Topics contains all HRH Kafka topic names
var Topics = struct {
	WarehousingEvents string
	LabelingEvents    string
	RoutingEvents     string
}{
	WarehousingEvents: "hrh.warehousing.events",
	LabelingEvents:    "hrh.labeling.events",
	RoutingEvents:     "hrh.routing.events",
}

var topicByEventType = map[string]string{
	cloudevents.ZoneAssigned:    Topics.WarehousingEvents,
	cloudevents.LabelTranslated: Topics.LabelingEvents,
	cloudevents.RoutePlanned:    Topics.RoutingEvents,
}

// TopicForEventType returns the topic an event type is published on
func TopicForEventType(eventType string) (string, bool) {
	topic, ok := topicByEventType[eventType]
	return topic, ok
}

// TopicConfig holds configuration for a Kafka topic
type TopicConfig struct {
	Name              string
	Partitions        int
	ReplicationFactor int
	RetentionMs       int64
}

// DefaultTopicConfigs returns default configurations for HRH topics
func DefaultTopicConfigs() []TopicConfig {
	const week = 7 * 24 * 60 * 60 * 1000
	return []TopicConfig{
		{Name: Topics.WarehousingEvents, Partitions: 3, ReplicationFactor: 1, RetentionMs: week},
		{Name: Topics.LabelingEvents, Partitions: 3, ReplicationFactor: 1, RetentionMs: week},
		{Name: Topics.RoutingEvents, Partitions: 3, ReplicationFactor: 1, RetentionMs: week},
	}
}
