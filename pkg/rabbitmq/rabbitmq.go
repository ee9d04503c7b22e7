package rabbitmq

import (
	"errors"
	"log"
	"time"

	"certwatch/config"

	"github.com/rabbitmq/amqp091-go"
)

func NewConnection(rmqCfg *config.RabbitMQConfig) (*amqp091.Connection, error) {

	var conn *amqp091.Connection
	var err error
	for i := range 5 {
		conn, err = amqp091.Dial(rmqCfg.BrokerLink)
		if err == nil {
			return conn, nil
		}
		time.Sleep(2 * time.Second)
		log.Printf("rabbitmq reconnection attempt %v", i+1)
	}
	log.Printf("failed to connect to rabbitmq, after %v attempts: %v", 5, err)
	return nil, errors.New("failed to connect to rabbitmq")
}

// SetupTopology declares the three legs of the pipeline: the checks exchange
// where check jobs go out to the checker fleet, the results queue where
// checkers publish observed facts back, and the notify exchange where alert
// notifications fan out per channel.
func SetupTopology(conn *amqp091.Connection, rmqCfg *config.RabbitMQConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		rmqCfg.ChecksExchange,
		"direct",
		true, false, false, false, nil,
	); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(
		rmqCfg.ResultsQueue,
		true, false, false, false, nil,
	); err != nil {
		return err
	}

	if err := ch.QueueBind(
		rmqCfg.ResultsQueue,
		rmqCfg.ResultsRoutingKey,
		rmqCfg.ChecksExchange,
		false, nil,
	); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(
		rmqCfg.NotifyExchange,
		"topic",
		true, false, false, false, nil,
	); err != nil {
		return err
	}

	return nil
}
