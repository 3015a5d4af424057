package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/study-tools-hub/internal/lib/sl"
)

// ConsumeChannel — часть *amqp.Channel, нужная для чтения очереди.
type ConsumeChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// MaxInFlight сколько сообщений обрабатывается одновременно
const MaxInFlight = 10

// ConsumerMessage читает очередь queueName и передаёт тело каждого сообщения в handler.
// Брокер отдаёт не больше MaxInFlight неподтверждённых сообщений.
// Успешно обработанное сообщение подтверждается, при ошибке возвращается в очередь.
// Чтение прекращается по ctx.Done или при закрытии канала доставки.
func ConsumerMessage(ctx context.Context, ch ConsumeChannel, queueName string, log *slog.Logger, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	if err := ch.Qos(MaxInFlight, 0, false); err != nil {
		return fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(sl.Op(op), slog.String("queue", queueName))
	sem := make(chan struct{}, MaxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(d.Body); err != nil {
						log.Warn("message handling failed, requeue", sl.Err(err))
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
