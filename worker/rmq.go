package worker

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"text2phenotype.com/seqtag/rmq"
	"text2phenotype.com/seqtag/tasks"
)

type rmqTransactions interface {
	pingSequencer(task *Task, message Message) error
	acknowledgeDelivery(delivery *amqp.Delivery) error
	rejectDelivery(delivery *amqp.Delivery, log *zerolog.Logger)
	getDeliveriesCh() <-chan amqp.Delivery
	getReqChanErrorsCh() <-chan *amqp.Error
	getRespChanErrorsCh() <-chan *amqp.Error
	close()
}

type rmqClientWrapper struct {
	rmqClient *rmq.Client
}

func (wrapper *rmqClientWrapper) close() {
	wrapper.rmqClient.Close()
}

func (wrapper *rmqClientWrapper) getDeliveriesCh() <-chan amqp.Delivery {
	return wrapper.rmqClient.Deliveries
}

func (wrapper *rmqClientWrapper) getReqChanErrorsCh() <-chan *amqp.Error {
	return wrapper.rmqClient.ReqChanErrors
}

func (wrapper *rmqClientWrapper) getRespChanErrorsCh() <-chan *amqp.Error {
	return wrapper.rmqClient.RespChanErrors
}

func (wrapper *rmqClientWrapper) pingSequencer(task *Task, message Message) error {
	message.Sender = tasks.WorkerName
	b, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return wrapper.rmqClient.SendMessageToSequencer(
		amqp.Publishing{
			ContentType: task.delivery.ContentType,
			Body:        b,
		},
	)
}

func (wrapper *rmqClientWrapper) acknowledgeDelivery(delivery *amqp.Delivery) error {
	return delivery.Ack(false)
}

// rejectDelivery requeues a delivery once, then drops it.
func (wrapper *rmqClientWrapper) rejectDelivery(delivery *amqp.Delivery, log *zerolog.Logger) {
	if delivery.Redelivered {
		log.Info().Msg("Rejecting delivery as it already has been redelivered")
		if err := delivery.Reject(false); err != nil {
			log.Err(err).Msg("Failed to reject delivery")
		}
		return
	}
	log.Info().Msg("Requeuing delivery as it has not been redelivered yet")
	if err := delivery.Reject(true); err != nil {
		log.Err(err).Msg("Failed to requeue delivery")
	}
}
