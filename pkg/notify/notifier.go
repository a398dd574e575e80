package notify

import (
	"catalog/pkg/config"
	"catalog/pkg/events"
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	KindLog      = "log"
	KindSMTP     = "smtp"
	KindRabbitMQ = "rabbitmq"
	KindRedis    = "redis"
)

// Notifier delivers enquiry notifications to the store owner.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier writes the message to the log and sends nothing.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) Notify(_ context.Context, msg Message) error {
	zap.L().Info("Enquiry notification",
		zap.Int64("enquiryId", msg.EnquiryID),
		zap.String("from", msg.From),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("html", msg.HTML),
	)
	return nil
}

// Composite fans a message out to every notifier and joins their errors.
type Composite struct {
	notifiers []Notifier
}

func NewComposite(notifiers ...Notifier) *Composite {
	return &Composite{notifiers: notifiers}
}

func (c *Composite) Add(n Notifier) {
	if n != nil {
		c.notifiers = append(c.notifiers, n)
	}
}

func (c *Composite) Len() int {
	return len(c.notifiers)
}

func (c *Composite) Notify(ctx context.Context, msg Message) error {
	if len(c.notifiers) == 0 {
		return errors.New("no notifiers configured")
	}

	var errs []error
	for _, n := range c.notifiers {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the notifier selected by cfg.Notifier. publisher is only needed
// for the rabbitmq kind and may be nil otherwise.
func New(cfg *config.AppConfig, publisher events.Publisher) (Notifier, error) {
	kinds := cfg.Notifiers()
	if len(kinds) == 0 {
		kinds = []string{KindLog}
	}

	composite := NewComposite()
	for _, kind := range kinds {
		switch kind {
		case KindLog:
			composite.Add(NewLogNotifier())
		case KindSMTP:
			if cfg.EmailUser == "" || cfg.EmailPass == "" {
				return nil, fmt.Errorf("notifier %q needs EMAIL_USER and EMAIL_PASS", kind)
			}
			composite.Add(NewSMTPNotifier(SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.EmailUser,
				Password: cfg.EmailPass,
			}))
		case KindRabbitMQ:
			if publisher == nil {
				return nil, fmt.Errorf("notifier %q needs RABBITMQ_URL", kind)
			}
			composite.Add(NewRabbitMQNotifier(publisher, cfg.ServiceName))
		case KindRedis:
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			composite.Add(NewRedisNotifier(client, cfg.RedisNotifyKey))
		default:
			return nil, fmt.Errorf("unknown notifier %q", kind)
		}
	}

	zap.L().Info("Notifier configured", zap.Strings("kinds", kinds))

	if composite.Len() == 1 {
		return composite.notifiers[0], nil
	}
	return composite, nil
}
