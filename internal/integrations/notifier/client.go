package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"gopkg.in/gomail.v2"
)

const defaultTimeout = 10 * time.Second

// Client уведомляет владельца о новых записях по e-mail
type Client struct {
	cfg    Config
	sender Sender
	log    Logger
}

// NewClient создает клиента поверх SMTP
func NewClient(cfg Config, log Logger) *Client {
	return NewClientWithSender(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), log)
}

// NewClientWithSender создает клиента с произвольным отправителем
func NewClientWithSender(cfg Config, sender Sender, log Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{cfg: cfg, sender: sender, log: log}
}

// NotifyNewBooking отправляет письмо о новой записи
// Возвращает false при любой ошибке, сама ошибка только логируется.
// Выключенный клиент молча возвращает false
func (c *Client) NotifyNewBooking(ctx context.Context, appt *domain.Appointment, owner Owner) bool {
	if err := c.send(ctx, appt, owner); err != nil {
		if errors.Is(err, ErrDisabled) {
			return false
		}
		c.log.Warn("Notifier: new booking id=%d not delivered: %v", appt.ID, err)
		return false
	}
	c.log.Info("Notifier: new booking id=%d delivered to %s", appt.ID, *owner.Email)
	return true
}

func (c *Client) send(ctx context.Context, appt *domain.Appointment, owner Owner) error {
	if !c.cfg.Enabled {
		return ErrDisabled
	}
	if owner.Email == nil || *owner.Email == "" {
		return ErrNoRecipient
	}

	msg := buildMessage(c.cfg.From, *owner.Email, appt, owner)

	done := make(chan error, 1)
	go func() {
		done <- c.sender.DialAndSend(msg)
	}()

	wait := c.cfg.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left > 0 && left < wait {
			wait = left
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSend, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func buildMessage(from, to string, appt *domain.Appointment, owner Owner) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Новая запись: %s, %s", appt.ServiceName, appt.Start.Format("02.01.2006 15:04")))

	body := fmt.Sprintf(
		"%s\n\nКлиент: %s\nУслуга: %s\nНачало: %s\nОкончание: %s\nСтоимость: %s\nПредоплата: %s\nСтатус: %s\n",
		owner.BusinessName,
		appt.ClientName,
		appt.ServiceName,
		appt.Start.Format("02.01.2006 15:04"),
		appt.End.Format("15:04"),
		appt.Price.StringFixed(2),
		appt.Deposit.StringFixed(2),
		appt.Status,
	)
	if appt.ClientPhone != nil {
		body += fmt.Sprintf("Телефон: %s\n", *appt.ClientPhone)
	}
	msg.SetBody("text/plain", body)

	return msg
}
