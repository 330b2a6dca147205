// Package simulator generates a stream of realistic orders in simulated time:
// fake customers build mixes, check out and have their deliveries tracked,
// with every event written to the configured destination.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/chrisdamba/freshmix/internal/checkout"
	"github.com/chrisdamba/freshmix/internal/factories"
	"github.com/chrisdamba/freshmix/internal/logger"
	"github.com/chrisdamba/freshmix/internal/mixer"
	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/output"
	"github.com/chrisdamba/freshmix/internal/repositories"
	"github.com/chrisdamba/freshmix/internal/repositories/memory"
	"github.com/chrisdamba/freshmix/internal/tracking"
)

type Stats struct {
	Orders          int
	Revenue         int
	DeliveryUpdates int
	OrdersByCity    map[models.City]int
}

type Simulator struct {
	orders    repositories.OrderRepository
	out       output.Destination
	log       *logger.Logger
	rng       *rand.Rand
	customers *factories.CustomerFactory
	mixes     *factories.MixFactory
	tokens    mixer.TokenSource
	queue     *models.EventQueue
	pending   map[string]*models.OrderSnapshot

	ordersPerHour float64
	ordersTopic   string
	deliveryTopic string
	newRef        func() string

	CurrentTime time.Time
}

type Option func(*Simulator)

func WithStartTime(t time.Time) Option {
	return func(s *Simulator) { s.CurrentTime = t }
}

func WithOrdersPerHour(rate float64) Option {
	return func(s *Simulator) {
		if rate > 0 {
			s.ordersPerHour = rate
		}
	}
}

func WithTopics(orders, delivery string) Option {
	return func(s *Simulator) {
		s.ordersTopic = orders
		s.deliveryTopic = delivery
	}
}

func WithOrderNumbers(newRef func() string) Option {
	return func(s *Simulator) { s.newRef = newRef }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

// NewSimulator seeds every random source from seed so a run can be replayed.
// out may be nil.
func NewSimulator(orders repositories.OrderRepository, out output.Destination, seed int64, opts ...Option) *Simulator {
	s := &Simulator{
		orders:        orders,
		out:           out,
		log:           logger.Nop(),
		rng:           rand.New(rand.NewSource(seed)),
		customers:     factories.NewCustomerFactory(seed),
		mixes:         factories.NewMixFactory(seed),
		tokens:        &mixer.SequentialTokens{},
		queue:         models.NewEventQueue(),
		pending:       make(map[string]*models.OrderSnapshot),
		ordersPerHour: 12,
		ordersTopic:   models.TopicOrders,
		deliveryTopic: models.TopicDelivery,
		newRef:        seededOrderNumbers(seed),
		CurrentTime:   time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "simulator")
	return s
}

const refAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// seededOrderNumbers mints references like "FM-3K9QZ0TB" from their own
// source so the event stream does not depend on how references are made.
func seededOrderNumbers(seed int64) func() string {
	rng := rand.New(rand.NewSource(seed))
	return func() string {
		ref := make([]byte, 8)
		for i := range ref {
			ref[i] = refAlphabet[rng.Intn(len(refAlphabet))]
		}
		return models.OrderNumberPrefix + string(ref)
	}
}

// Run places n orders, calling progress after each, then plays out the
// remaining deliveries.
func (s *Simulator) Run(ctx context.Context, n int, progress func()) (Stats, error) {
	stats := Stats{OrdersByCity: make(map[models.City]int)}
	s.log.Info("simulation starts", "orders", n, "start", s.CurrentTime.Format(time.RFC3339))

	for stats.Orders < n {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		s.CurrentTime = s.CurrentTime.Add(nextArrival(s.rng, s.ordersPerHour, s.CurrentTime))
		s.processDue(s.CurrentTime, &stats)

		order, err := s.placeOrder(ctx)
		if err != nil {
			return stats, err
		}
		tracking.ScheduleOn(s.queue, order)
		s.pending[order.OrderNumber] = order

		stats.Orders++
		stats.Revenue += order.Total
		stats.OrdersByCity[order.Customer.City]++
		if progress != nil {
			progress()
		}
	}

	if last := s.lastEventTime(); last.After(s.CurrentTime) {
		s.CurrentTime = last
	}
	s.processDue(s.CurrentTime, &stats)
	s.log.Info("simulation finished", "orders", stats.Orders, "revenue", stats.Revenue, "delivery_updates", stats.DeliveryUpdates)
	return stats, nil
}

func (s *Simulator) placeOrder(ctx context.Context) (*models.OrderSnapshot, error) {
	store := mixer.NewStore(memory.NewMixStateRepository(), mixer.WithTokenSource(s.tokens))
	if err := s.mixes.FillMix(ctx, store); err != nil {
		return nil, fmt.Errorf("fill mix: %w", err)
	}

	svc := checkout.NewService(store, s.orders, s.out,
		checkout.WithDelay(0),
		checkout.WithClock(func() time.Time { return s.CurrentTime }),
		checkout.WithOrderNumbers(s.newRef),
		checkout.WithTopic(s.ordersTopic),
		checkout.WithLogger(s.log),
	)
	order, err := svc.Submit(ctx, s.customers.CreateCustomer())
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	if err := svc.Complete(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Simulator) processDue(now time.Time, stats *Stats) {
	for _, event := range s.queue.DequeueDue(now) {
		order, ok := s.pending[event.OrderNumber]
		if !ok {
			continue
		}
		u := tracking.UpdateFor(order, event)
		if u.Stage == models.StageDelivered {
			delete(s.pending, event.OrderNumber)
		}
		stats.DeliveryUpdates++
		if err := s.publish(u); err != nil {
			s.log.Warn("failed to write delivery update", "order_number", u.OrderNumber, "error", err)
		}
	}
}

func (s *Simulator) lastEventTime() time.Time {
	var last time.Time
	for _, order := range s.pending {
		if t := tracking.DeliveredAt(order); t.After(last) {
			last = t
		}
	}
	return last
}

func (s *Simulator) publish(u models.DeliveryUpdate) error {
	if s.out == nil {
		return nil
	}
	msg, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.out.WriteMessage(s.deliveryTopic, msg)
}
