package notification

import (
	"context"
	"log/slog"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/chayanin/inventory-api/internal"
	"google.golang.org/api/option"
)

// FCMSender publishes to a Firebase Cloud Messaging topic. The messaging
// client is process-wide state created exactly once on first use and reused
// for every subsequent send.
type FCMSender struct {
	cfg    internal.NotificationConfig
	logger *slog.Logger

	once    sync.Once
	client  *messaging.Client
	initErr error
}

func NewFCMSender(cfg internal.NotificationConfig, logger *slog.Logger) *FCMSender {
	return &FCMSender{
		cfg:    cfg,
		logger: logger,
	}
}

// getOrInit initializes the Firebase app lazily behind an init-guard. A nil
// client with nil error means no credentials are configured and sending is
// disabled.
func (s *FCMSender) getOrInit(ctx context.Context) (*messaging.Client, error) {
	s.once.Do(func() {
		var opts []option.ClientOption
		switch {
		case s.cfg.CredentialsJSON != "":
			opts = append(opts, option.WithCredentialsJSON([]byte(s.cfg.CredentialsJSON)))
		case s.cfg.CredentialsFile != "":
			opts = append(opts, option.WithCredentialsFile(s.cfg.CredentialsFile))
		default:
			s.logger.Warn("firebase not initialized: no credentials configured")
			return
		}

		app, err := firebase.NewApp(ctx, nil, opts...)
		if err != nil {
			s.initErr = err
			return
		}

		client, err := app.Messaging(ctx)
		if err != nil {
			s.initErr = err
			return
		}

		s.client = client
		s.logger.Info("firebase messaging initialized", "topic", s.cfg.Topic)
	})

	return s.client, s.initErr
}

func (s *FCMSender) Send(ctx context.Context, msg Message) error {
	client, err := s.getOrInit(ctx)
	if err != nil {
		return err
	}
	if client == nil {
		s.logger.Warn("skipping notification: firebase disabled", "title", msg.Title)
		return nil
	}

	_, err = client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Topic: s.cfg.Topic,
	})
	return err
}
