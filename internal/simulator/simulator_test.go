package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/freshmix/internal/checkout"
	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/repositories/memory"
)

type recordingOutput struct {
	mu     sync.Mutex
	events map[string][]map[string]interface{}
}

func (r *recordingOutput) WriteMessage(topic string, msg []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}
	r.events[topic] = append(r.events[topic], event)
	return nil
}

func (r *recordingOutput) Close() error { return nil }

func sequentialNumbers() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("FM-SIM%04d", n)
	}
}

var start = time.Date(2024, 7, 6, 12, 0, 0, 0, time.UTC)

func TestRunPlacesAndDeliversOrders(t *testing.T) {
	ctx := context.Background()
	orders := memory.NewOrderRepository()
	out := &recordingOutput{events: map[string][]map[string]interface{}{}}
	sim := NewSimulator(orders, out, 42,
		WithStartTime(start),
		WithOrdersPerHour(60),
		WithOrderNumbers(sequentialNumbers()),
	)

	progressed := 0
	stats, err := sim.Run(ctx, 20, func() { progressed++ })
	require.NoError(t, err)

	assert.Equal(t, 20, stats.Orders)
	assert.Equal(t, 20, progressed)
	assert.Equal(t, 80, stats.DeliveryUpdates)

	stored, err := orders.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 20)

	revenue := 0
	cities := 0
	for _, order := range stored {
		revenue += order.Total
		assert.NotEmpty(t, order.Items)
		details := order.Customer
		assert.NoError(t, checkout.Validate(&details))
	}
	for _, n := range stats.OrdersByCity {
		cities += n
	}
	assert.Equal(t, revenue, stats.Revenue)
	assert.Equal(t, 20, cities)

	assert.Len(t, out.events[models.TopicOrders], 20)
	assert.Len(t, out.events[models.TopicDelivery], 80)

	stagesSeen := map[string]int{}
	for _, event := range out.events[models.TopicDelivery] {
		stagesSeen[event["stage"].(string)]++
	}
	for _, stage := range models.DeliveryStages {
		assert.Equal(t, 20, stagesSeen[stage], stage)
	}
	assert.True(t, sim.CurrentTime.After(start))
}

func TestRunIsReproducible(t *testing.T) {
	run := func() []int {
		orders := memory.NewOrderRepository()
		sim := NewSimulator(orders, nil, 7, WithStartTime(start), WithOrderNumbers(sequentialNumbers()))
		_, err := sim.Run(context.Background(), 10, nil)
		require.NoError(t, err)

		all, err := orders.GetAll(context.Background())
		require.NoError(t, err)
		totals := make([]int, len(all))
		for i, o := range all {
			totals[i] = o.Total
		}
		return totals
	}
	assert.Equal(t, run(), run())
}

func TestDefaultOrderNumbersAreReproducible(t *testing.T) {
	run := func() []string {
		orders := memory.NewOrderRepository()
		sim := NewSimulator(orders, nil, 7, WithStartTime(start))
		_, err := sim.Run(context.Background(), 10, nil)
		require.NoError(t, err)

		all, err := orders.GetAll(context.Background())
		require.NoError(t, err)
		numbers := make([]string, len(all))
		for i, o := range all {
			numbers[i] = o.OrderNumber
		}
		return numbers
	}
	first := run()
	require.Len(t, first, 10)
	assert.Equal(t, first, run())

	ref := regexp.MustCompile(`^FM-[0-9A-Z]{8}$`)
	for _, number := range first {
		assert.Regexp(t, ref, number)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := NewSimulator(memory.NewOrderRepository(), nil, 1, WithOrderNumbers(sequentialNumbers()))
	stats, err := sim.Run(ctx, 5, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Orders)
}

func TestDemandMultiplier(t *testing.T) {
	weekdayLunch := time.Date(2024, 3, 5, 13, 0, 0, 0, time.UTC)
	weekdayNight := time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC)
	weekdayAfternoon := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)
	summerSaturday := time.Date(2024, 7, 6, 15, 0, 0, 0, time.UTC)

	assert.InDelta(t, 1.8, demandMultiplier(weekdayLunch), 1e-9)
	assert.InDelta(t, 0.1, demandMultiplier(weekdayNight), 1e-9)
	assert.InDelta(t, 1.0, demandMultiplier(weekdayAfternoon), 1e-9)
	assert.InDelta(t, 1.4*1.3, demandMultiplier(summerSaturday), 1e-9)
}

func TestNextArrivalIsPositiveOnAverage(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var total time.Duration
	for i := 0; i < 1000; i++ {
		d := nextArrival(rng, 10, time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC))
		require.GreaterOrEqual(t, d, time.Duration(0))
		total += d
	}
	mean := total / 1000
	assert.InDelta(t, float64(6*time.Minute), float64(mean), float64(time.Minute))
}
