package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/meetapp-io/meetapp/internal/config"
	"github.com/meetapp-io/meetapp/internal/mail"
	"github.com/meetapp-io/meetapp/internal/notification"
	"github.com/meetapp-io/meetapp/internal/queue"
)

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mailer, err := mail.NewSMTPMailer(
		cfg.Mail.Host,
		cfg.Mail.Port,
		cfg.Mail.Username,
		cfg.Mail.Password,
		cfg.Mail.From,
		cfg.Mail.FromName,
	)
	if err != nil {
		log.Fatalf("Failed to create mailer: %v", err)
	}

	client, err := queue.NewClient(cfg.Queue.URL, cfg.Queue.Stream)
	if err != nil {
		log.Fatalf("Failed to connect to queue: %v", err)
	}
	defer client.Close()

	worker := queue.NewWorker(client, cfg.Queue.Durable, cfg.Queue.MaxDeliver)
	worker.Register(notification.NewPasswordResetMail(mailer))
	worker.Register(notification.NewSubscriptionMail(mailer))
	worker.Register(notification.NewUnsubscriptionMail(mailer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("Notification worker started, waiting for jobs...")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Worker stopped: %v", err)
	}
	log.Println("Shutting down notification worker")
}
