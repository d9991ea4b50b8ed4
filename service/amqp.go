package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"familyledger/config"
	"familyledger/logger"
	"familyledger/models"

	"github.com/rabbitmq/amqp091-go"
)

// BudgetAlertMessageType is the type tag of published budget alerts.
const BudgetAlertMessageType = "budget.alert"

// BudgetAlertMessage is the JSON body published for every budget alert.
type BudgetAlertMessage struct {
	Type      string             `json:"type"`
	Version   int                `json:"version"`
	Alert     models.BudgetAlert `json:"alert"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewBudgetAlertMessage wraps an alert for publishing.
func NewBudgetAlertMessage(a models.BudgetAlert) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		Type:      BudgetAlertMessageType,
		Version:   1,
		Alert:     a,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON parses a published alert.
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends budget alerts to a topic exchange.
type Publisher struct {
	conn       *amqp091.Connection
	channel    amqpChannel
	exchange   string
	routingKey string
	log        *logger.Logger
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(cfg config.AMQPConfig, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, cfg.Exchange, cfg.RoutingKey, log)
	p.conn = conn
	return p, nil
}

func newPublisher(ch amqpChannel, exchange, routingKey string, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Discard()
	}
	return &Publisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		log:        log.WithComponent(logger.ComponentNotify),
	}
}

// NotifyBudgetAlert publishes the alert as a persistent JSON message.
func (p *Publisher) NotifyBudgetAlert(ctx context.Context, alert models.BudgetAlert) error {
	body, err := NewBudgetAlertMessage(alert).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Type:         BudgetAlertMessageType,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.log.InfoContext(ctx, "published budget alert",
		logger.FieldBudgetID, alert.BudgetID,
		logger.FieldFamilyID, alert.FamilyID,
		logger.FieldStatus, string(alert.Status),
		"exchange", p.exchange)
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
