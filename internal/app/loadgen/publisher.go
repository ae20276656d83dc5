package loadgen

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ResultPublisher pushes the final run report onto a queue so downstream
// consumers can archive or alert on it.
type ResultPublisher struct {
	conn   *amqp091.Connection
	queue  string
	logger *zap.Logger
}

func NewResultPublisher(conn *amqp091.Connection, queue string, logger *zap.Logger) *ResultPublisher {
	return &ResultPublisher{conn: conn, queue: queue, logger: logger}
}

func (p *ResultPublisher) Publish(ctx context.Context, report Report) error {
	channel, err := p.conn.Channel()
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.queue)
	}
	defer channel.Close()

	if _, err := channel.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.queue)
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	err = channel.PublishWithContext(ctx, "", p.queue, false, false, amqp091.Publishing{
		ContentType: constvars.MIMEApplicationJSON,
		Body:        payload,
	})
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.queue)
	}

	p.logger.Info("published run report",
		zap.String("queue", p.queue),
		zap.Int64("total_requests", report.TotalRequests),
		zap.Int64("total_failures", report.TotalFailures),
	)
	return nil
}
