package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"meetly/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	rabbitConn         *amqp.Connection
	rabbitChannel      *amqp.Channel
	friendshipExchange = "friendship_events"
)

// FriendshipEvent - notification payload published when a friend request is
// sent, accepted or rejected. UserID is the recipient of the notification.
type FriendshipEvent struct {
	Event      string    `json:"event"`
	UserID     string    `json:"user_id"`
	FriendID   string    `json:"friend_id"`
	FriendMail string    `json:"friend_mail"`
	CreatedAt  time.Time `json:"created_at"`
}

// InitRabbitMQ connects and declares the topic exchange. Optional: when the
// config has no URL the service runs without notifications.
func InitRabbitMQ() error {
	if config.AppConfig == nil || config.AppConfig.RabbitMQ.URL == "" {
		log.Println("RabbitMQ not configured, friendship notifications disabled")
		return nil
	}
	var err error
	rabbitConn, err = amqp.Dial(config.AppConfig.RabbitMQ.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	rabbitChannel, err = rabbitConn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := rabbitChannel.ExchangeDeclare(
		friendshipExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	log.Println("RabbitMQ initialized")
	return nil
}

func CloseRabbitMQ() {
	if rabbitChannel != nil {
		_ = rabbitChannel.Close()
	}
	if rabbitConn != nil {
		_ = rabbitConn.Close()
	}
}

// PublishFriendshipEvent publishes best-effort: failures are logged, never
// retried, and never fail the triggering user action.
func PublishFriendshipEvent(ctx context.Context, event FriendshipEvent) {
	if rabbitChannel == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Println("failed to marshal friendship event:", err)
		return
	}
	routingKey := fmt.Sprintf("user.%s", event.UserID)
	err = rabbitChannel.PublishWithContext(ctx,
		friendshipExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Println("failed to publish friendship event:", err)
	}
}

// StartFriendshipEventConsumer drains the exchange into the log. There is no
// live push channel to the browser; the consumer exists for operational
// visibility and downstream integrations.
func StartFriendshipEventConsumer(ctx context.Context, queueName string) error {
	if rabbitChannel == nil {
		return fmt.Errorf("RabbitMQ channel not initialized")
	}
	q, err := rabbitChannel.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := rabbitChannel.QueueBind(
		q.Name,
		"user.*",
		friendshipExchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	msgs, err := rabbitChannel.Consume(
		q.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				var event FriendshipEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					log.Println("failed to unmarshal friendship event:", err)
					continue
				}
				log.Printf("friendship event %s for user %s from %s", event.Event, event.UserID, event.FriendMail)
			}
		}
	}()
	return nil
}
