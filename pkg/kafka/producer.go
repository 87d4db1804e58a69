package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/wasin-t/eventbook/pkg/retry"
)

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers       []string
	ClientID      string
	MaxRetries    int
	RetryInterval time.Duration
	LingerMs      int
}

// Producer wraps a franz-go client for producing messages
type Producer struct {
	client *kgo.Client
}

// NewProducer creates a new Kafka producer and verifies broker connectivity
func NewProducer(ctx context.Context, cfg *ProducerConfig) (*Producer, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.AllowAutoTopicCreation(),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if cfg.LingerMs > 0 {
		opts = append(opts, kgo.ProducerLinger(time.Duration(cfg.LingerMs)*time.Millisecond))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = time.Second
	}

	result := retry.Do(ctx, &retry.Config{
		MaxRetries:      maxRetries,
		InitialInterval: interval,
		MaxInterval:     interval,
		Multiplier:      1.0,
	}, func(ctx context.Context) error {
		return client.Ping(ctx)
	})
	if result.Err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach kafka brokers after %d attempts: %w", result.Attempts, result.LastError)
	}

	return &Producer{client: client}, nil
}

// Produce sends a raw message to the given topic synchronously
func (p *Producer) Produce(ctx context.Context, topic, key string, value []byte, headers map[string]string) error {
	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}
	for k, v := range headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce to %s: %w", topic, err)
	}
	return nil
}

// ProduceJSON marshals the payload to JSON and sends it to the given topic
func (p *Producer) ProduceJSON(ctx context.Context, topic, key string, payload interface{}, headers map[string]string) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return p.Produce(ctx, topic, key, value, headers)
}

// Close flushes and closes the producer
func (p *Producer) Close() {
	if p.client != nil {
		p.client.Close()
	}
}
