// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"admissions-chatbot-be/internal/pkg/logger"
	"admissions-chatbot-be/internal/pkg/mailer"
	"admissions-chatbot-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains contact-request events and notifies the admissions
// team by email. The request itself is already persisted before the event is
// published, so a failed notification never loses the submission.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	mailer    mailer.IEmailService
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		mailer:    emailService,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload events.ContactRequestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("ConsumerService", "failed to unmarshal contact event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.log.Info("ConsumerService", "processing contact request event", map[string]interface{}{
		"reference_id": payload.ReferenceId,
		"query_type":   payload.QueryType,
	})

	err := cs.mailer.SendContactNotification(
		payload.ReferenceId,
		payload.Name,
		payload.Email,
		payload.Phone,
		payload.Programme,
		payload.QueryType,
		payload.Message,
	)
	if err != nil {
		cs.log.Error("ConsumerService", "failed to send contact notification", map[string]interface{}{
			"reference_id": payload.ReferenceId,
			"error":        err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
