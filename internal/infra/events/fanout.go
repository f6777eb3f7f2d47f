package events

import (
	"context"
	"errors"
)

// Fanout публикует событие во все переданные каналы
// Ошибка одного канала не мешает остальным
type Fanout struct {
	publishers []Publisher
}

// NewFanout собирает издателей, nil пропускаются
func NewFanout(publishers ...Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish отправляет событие всем издателям и объединяет ошибки
func (f *Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
