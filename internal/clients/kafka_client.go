package clients

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/jiyeonseo/surveypulse/internal/models"
)

const analysisResultsTopic = "analysis-results"

var producer *kafka.Producer

// InitKafkaProducer connects the optional downstream result publisher.
// Returns false when KAFKA_BROKER is unset, which simply disables publishing.
func InitKafkaProducer() (bool, error) {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		slog.Info("[KafkaClient] KAFKA_BROKER not set, result publishing disabled")
		return false, nil
	}

	slog.Info("[KafkaClient] Initializing Kafka Producer...")
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"acks":                "all",
	})
	if err != nil {
		return false, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return true, nil
}

func CloseKafkaProducer() {
	if producer == nil {
		return
	}
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// PublishAnalysisResult hands one respondent's bundle to downstream consumers.
func PublishAnalysisResult(result models.AnalysisResult) error {
	if producer == nil {
		return nil
	}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to serialize analysis result: %w", err)
	}

	topic := analysisResultsTopic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(result.SubjectID),
		Value:          jsonData,
	}

	if err := producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce analysis result: %w", err)
	}

	slog.Info("[KafkaClient] Published analysis result",
		slog.String("topic", topic),
		slog.String("subject_id", result.SubjectID))
	return nil
}
