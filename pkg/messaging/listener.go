package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var ErrInvalidChange = errors.New("invalid catalog change")

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	if err = ch.QueueBind(q.Name, name, name, false, nil); err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic consumes topic until the channel closes. Failed messages are
// logged and rejected without requeue, handled ones acked.
func ListenToTopic(ch *amqp.Channel, logger *zap.Logger, prefix string, topic ChangeTopic, handle func(amqp.Delivery) error) error {
	fc, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func(msgs <-chan amqp.Delivery) {
		defer ch.Close()
		for d := range msgs {
			if err := handle(d); err != nil {
				logger.Error("message failed", zap.String("topic", string(topic)), zap.Error(err))
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
		logger.Info("listener stopped", zap.String("topic", string(topic)))
	}(fc)
	return nil
}

type Reloader interface {
	Reload(ctx context.Context, category string) error
}

type ReloaderFunc func(ctx context.Context, category string) error

func (f ReloaderFunc) Reload(ctx context.Context, category string) error {
	return f(ctx, category)
}

func decodeCatalogChange(body []byte) (CatalogChange, error) {
	var change CatalogChange
	if err := jsoncompat.Unmarshal(body, &change); err != nil {
		return change, fmt.Errorf("%w: %v", ErrInvalidChange, err)
	}
	change.Category = strings.TrimSpace(change.Category)
	if change.Category == "" {
		return change, fmt.Errorf("%w: missing category", ErrInvalidChange)
	}
	return change, nil
}

func handleCatalogChange(ctx context.Context, reloader Reloader, body []byte) (string, error) {
	change, err := decodeCatalogChange(body)
	if err != nil {
		return "", err
	}
	return change.Category, reloader.Reload(ctx, change.Category)
}

// ListenForCatalogChanges reloads the named category for every change message.
func ListenForCatalogChanges(ctx context.Context, ch *amqp.Channel, logger *zap.Logger, prefix string, reloader Reloader) error {
	return ListenToTopic(ch, logger, prefix, CatalogChanged, func(d amqp.Delivery) error {
		category, err := handleCatalogChange(ctx, reloader, d.Body)
		if err != nil {
			return err
		}
		logger.Info("catalog change handled", zap.String("category", category))
		return nil
	})
}
