// Package tracking replays the delivery timeline of a placed order. Stages
// advance on fixed offsets from the order time; nothing talks to a courier.
package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chrisdamba/freshmix/internal/logger"
	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/output"
)

// stageOffsets are measured from the order time, one per models.DeliveryStages entry.
var stageOffsets = []time.Duration{0, 5 * time.Second, 12 * time.Second, 20 * time.Second}

const (
	initialETAMinutes = 25
	etaStepMinutes    = 8
)

// ETAMinutes is the estimate shown once the stage at index has been reached.
func ETAMinutes(index int) int {
	if index <= 0 {
		return initialETAMinutes
	}
	return max(0, initialETAMinutes-index*etaStepMinutes)
}

// Progress is the share of the route completed at the stage index.
func Progress(index int) float64 {
	return float64(index+1) / float64(len(models.DeliveryStages))
}

// StageAt returns the index of the stage reached after elapsed time.
func StageAt(elapsed time.Duration) int {
	index := 0
	for i, offset := range stageOffsets {
		if elapsed >= offset {
			index = i
		}
	}
	return index
}

// Status describes an order's delivery at a point in time.
func Status(order *models.OrderSnapshot, at time.Time) models.DeliveryUpdate {
	index := StageAt(at.Sub(order.CreatedAt))
	return update(order, index, at)
}

func update(order *models.OrderSnapshot, index int, at time.Time) models.DeliveryUpdate {
	return models.DeliveryUpdate{
		EventType:   models.EventDeliveryStatus,
		Timestamp:   at.Unix(),
		OrderNumber: order.OrderNumber,
		Stage:       models.DeliveryStages[index],
		StageIndex:  index,
		Progress:    Progress(index),
		ETAMinutes:  ETAMinutes(index),
		Store:       models.StoreFor(order.Customer.City),
	}
}

// Schedule queues every stage of the order's timeline.
func Schedule(order *models.OrderSnapshot) *models.EventQueue {
	queue := models.NewEventQueue()
	ScheduleOn(queue, order)
	return queue
}

// ScheduleOn adds the order's stages to a shared queue.
func ScheduleOn(queue *models.EventQueue, order *models.OrderSnapshot) {
	for i, stage := range models.DeliveryStages {
		queue.Enqueue(&models.Event{
			Time:        order.CreatedAt.Add(stageOffsets[i]),
			Type:        stage,
			OrderNumber: order.OrderNumber,
			Data:        i,
		})
	}
}

// UpdateFor builds the update for a stage event taken from a schedule.
func UpdateFor(order *models.OrderSnapshot, event *models.Event) models.DeliveryUpdate {
	index, _ := event.Data.(int)
	return update(order, index, event.Time)
}

type Tracker struct {
	out   output.Destination
	topic string
	speed float64
	sleep func(ctx context.Context, d time.Duration) error
	log   *logger.Logger
}

type Option func(*Tracker)

// WithSpeed compresses the timeline; 10 plays it ten times faster.
func WithSpeed(speed float64) Option {
	return func(t *Tracker) {
		if speed > 0 {
			t.speed = speed
		}
	}
}

func WithTopic(topic string) Option {
	return func(t *Tracker) { t.topic = topic }
}

func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(t *Tracker) { t.sleep = sleep }
}

func WithLogger(l *logger.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// NewTracker publishes updates to out, which may be nil.
func NewTracker(out output.Destination, opts ...Option) *Tracker {
	t := &Tracker{
		out:   out,
		topic: models.TopicDelivery,
		speed: 1,
		sleep: sleepContext,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With("component", "tracking")
	return t
}

// Run walks the order through every stage, calling emit as each is reached.
// It returns ctx.Err() if cancelled before delivery.
func (t *Tracker) Run(ctx context.Context, order *models.OrderSnapshot, emit func(models.DeliveryUpdate)) error {
	if !models.HasDeliveryTracking(order.Customer.City) {
		t.log.Debug("city has no live map, tracking from fallback store", "city", order.Customer.City)
	}

	queue := Schedule(order)
	prev := order.CreatedAt
	for event := queue.Dequeue(); event != nil; event = queue.Dequeue() {
		wait := time.Duration(float64(event.Time.Sub(prev)) / t.speed)
		if err := t.sleep(ctx, wait); err != nil {
			return err
		}
		prev = event.Time

		u := UpdateFor(order, event)
		if emit != nil {
			emit(u)
		}
		if err := t.publish(u); err != nil {
			t.log.Warn("failed to publish delivery update", "order_number", order.OrderNumber, "stage", u.Stage, "error", err)
		}
	}
	return nil
}

func (t *Tracker) publish(u models.DeliveryUpdate) error {
	if t.out == nil {
		return nil
	}
	msg, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode delivery update: %w", err)
	}
	return t.out.WriteMessage(t.topic, msg)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DeliveredAt is when the order reaches its final stage.
func DeliveredAt(order *models.OrderSnapshot) time.Time {
	return order.CreatedAt.Add(stageOffsets[len(stageOffsets)-1])
}
