// Package checkout turns the current mix into a placed order. There is no
// payment backend: submission waits a configurable delay and mints a
// client-side order reference.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/freshmix/internal/logger"
	"github.com/chrisdamba/freshmix/internal/mixer"
	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/output"
	"github.com/chrisdamba/freshmix/internal/repositories"
)

type Service struct {
	store  *mixer.Store
	orders repositories.OrderRepository
	out    output.Destination
	topic  string
	delay  time.Duration
	now    func() time.Time
	newRef func() string
	log    *logger.Logger
}

type Option func(*Service)

func WithDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithOrderNumbers(newRef func() string) Option {
	return func(s *Service) { s.newRef = newRef }
}

func WithTopic(topic string) Option {
	return func(s *Service) { s.topic = topic }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService wires checkout to a store. out may be nil to skip publishing.
func NewService(store *mixer.Store, orders repositories.OrderRepository, out output.Destination, opts ...Option) *Service {
	s := &Service{
		store:  store,
		orders: orders,
		out:    out,
		topic:  models.TopicOrders,
		delay:  2 * time.Second,
		now:    time.Now,
		newRef: NewOrderNumber,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "checkout")
	return s
}

// NewOrderNumber mints a reference like "FM-CL7QX2A9".
func NewOrderNumber() string {
	return models.OrderNumberPrefix + strings.ToUpper(cuid.Slug())
}

// Submit places the current mix as an order. The store keeps its mix until
// Complete is called so the success view can still show it.
func (s *Service) Submit(ctx context.Context, details models.CustomerDetails) (*models.OrderSnapshot, error) {
	if len(s.store.Ingredients()) == 0 {
		return nil, models.ErrEmptyMix
	}
	if err := Validate(&details); err != nil {
		return nil, err
	}

	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("order submission interrupted: %w", err)
	}

	order, err := s.store.NewOrderSnapshot(details, s.newRef(), s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	s.store.SetOrderDetails(order)
	s.log.Info("order placed", "order_number", order.OrderNumber, "total", order.Total, "city", details.City)

	if err := s.publish(order); err != nil {
		// the order stands even if the event is lost
		s.log.Warn("failed to publish order event", "order_number", order.OrderNumber, "error", err)
	}
	return order, nil
}

// Complete resets the mix and the placed order together.
func (s *Service) Complete(ctx context.Context) error {
	return s.store.ResetOrder(ctx)
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) publish(order *models.OrderSnapshot) error {
	if s.out == nil {
		return nil
	}
	msg, err := json.Marshal(models.NewOrderEvent(order))
	if err != nil {
		return err
	}
	return s.out.WriteMessage(s.topic, msg)
}

// AsValidationError unwraps a form validation failure.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}
