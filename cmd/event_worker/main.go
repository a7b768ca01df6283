package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mustafa-mbari/wmsv1-sub001/config"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/infrastructure/messaging"
	"github.com/mustafa-mbari/wmsv1-sub001/pkg/mailer"
)

// The event worker consumes domain events from RabbitMQ and turns the
// mail-worthy ones into outbound email. Everything else is acked and dropped.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; event worker disabled (no emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQEventQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEventQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var env messaging.EventEnvelope
			if err := json.Unmarshal(msg.Body, &env); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := handle(c, mg, cfg, env)
			cancel()
			if err != nil {
				log.Printf("handle %s failed: %v", env.Name, err)
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("event worker listening on queue=%s", cfg.RabbitMQEventQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func handle(ctx context.Context, mg *mailer.Mailgun, cfg *config.Config, env messaging.EventEnvelope) error {
	switch env.Name {
	case event.UserCreatedName:
		email := payloadString(env, "email")
		if email == "" {
			return nil
		}
		return mg.SendWelcome(ctx, email, payloadString(env, "full_name"))

	case event.UserResetRequestedName:
		email := payloadString(env, "email")
		token := payloadString(env, "token")
		if email == "" || token == "" {
			return nil
		}
		return mg.SendPasswordReset(ctx, email, fmt.Sprintf("%s?token=%s", cfg.ResetPasswordURL, token))

	case event.UserVerificationRequestedName:
		email := payloadString(env, "email")
		token := payloadString(env, "token")
		if email == "" || token == "" {
			return nil
		}
		return mg.SendEmailVerification(ctx, email, fmt.Sprintf("%s?token=%s", cfg.VerifyEmailURL, token))

	default:
		// Audit-only events: nothing to send.
		return nil
	}
}

func payloadString(env messaging.EventEnvelope, key string) string {
	if env.Payload == nil {
		return ""
	}
	v, _ := env.Payload[key].(string)
	return v
}
