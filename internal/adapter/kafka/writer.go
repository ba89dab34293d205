package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-insight/internal/config"
	"github.com/couchcryptid/weather-insight/internal/domain"
)

// Writer produces weather reports to a Kafka topic.
// It implements domain.ReportPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one report and writes it synchronously.
func (w *Writer) Publish(ctx context.Context, report domain.WeatherReport) error {
	msg, err := serializeToMessage(report)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write report %s: %w", report.ID, err)
	}
	w.logger.Debug("published report", "id", report.ID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// reportMessage is the wire form of a published report. It carries the
// location and label that the HTTP response leaves out.
type reportMessage struct {
	domain.WeatherReport
	Label    domain.ClimaticLabel `json:"label"`
	Location domain.Location      `json:"location"`
}

// serializeToMessage marshals a WeatherReport into a Kafka message keyed by report ID.
func serializeToMessage(report domain.WeatherReport) (kafkago.Message, error) {
	data, err := json.Marshal(reportMessage{
		WeatherReport: report,
		Label:         report.Label,
		Location:      report.Location,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize weather report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "climatic_label", Value: []byte(report.Label)},
			{Key: "generated_at", Value: []byte(report.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}

// DecodeMessage is the inverse of the writer's encoding, for consumers and tests.
func DecodeMessage(msg kafkago.Message) (domain.WeatherReport, error) {
	var m reportMessage
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		return domain.WeatherReport{}, fmt.Errorf("decode weather report: %w", err)
	}
	report := m.WeatherReport
	report.Label = m.Label
	report.Location = m.Location
	return report, nil
}
