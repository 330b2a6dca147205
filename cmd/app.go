package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisdamba/freshmix/internal/checkout"
	"github.com/chrisdamba/freshmix/internal/logger"
	"github.com/chrisdamba/freshmix/internal/mixer"
	"github.com/chrisdamba/freshmix/internal/models"
	"github.com/chrisdamba/freshmix/internal/output"
	"github.com/chrisdamba/freshmix/internal/repositories"
	"github.com/chrisdamba/freshmix/internal/repositories/file"
	"github.com/chrisdamba/freshmix/internal/repositories/memory"
	"github.com/chrisdamba/freshmix/internal/repositories/postgres"
	redisrepo "github.com/chrisdamba/freshmix/internal/repositories/redis"
	"github.com/chrisdamba/freshmix/internal/tracking"
)

// app holds everything a command needs. The event destination is opened on
// first use so read-only commands never dial a broker.
type app struct {
	cfg     *models.Config
	log     *logger.Logger
	store   *mixer.Store
	orders  repositories.OrderRepository
	out     output.Destination
	outOpen bool
	closers []func() error
}

func newApp(ctx context.Context, cfg *models.Config) (*app, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a := &app{cfg: cfg, log: log}

	stateRepo, err := a.openRepositories(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.store = mixer.NewStore(stateRepo, mixer.WithLogger(log))
	if err := a.store.Restore(ctx); err != nil {
		if !errors.Is(err, models.ErrInvalidState) {
			a.Close()
			return nil, err
		}
		log.Warn("starting from an empty mix", "error", err)
	}
	return a, nil
}

func (a *app) openRepositories(ctx context.Context) (repositories.MixStateRepository, error) {
	cfg := a.cfg
	switch cfg.StateBackend {
	case "memory":
		a.orders = memory.NewOrderRepository()
		return memory.NewMixStateRepository(), nil
	case "file":
		a.orders = file.NewOrderRepository(cfg.StatePath, cfg.Namespace)
		return file.NewMixStateRepository(cfg.StatePath, cfg.Namespace), nil
	case "redis":
		rdb, err := redisrepo.NewClient(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		a.orders = redisrepo.NewOrderRepository(rdb, cfg.Namespace)
		return redisrepo.NewMixStateRepository(rdb, cfg.Namespace), nil
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		a.orders = postgres.NewOrderRepository(pool)
		return postgres.NewMixStateRepository(pool, cfg.Namespace), nil
	default:
		return nil, fmt.Errorf("unsupported state backend: %s", cfg.StateBackend)
	}
}

func (a *app) destination() (output.Destination, error) {
	if a.outOpen {
		return a.out, nil
	}
	out, err := output.New(a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	a.out = out
	a.outOpen = true
	return out, nil
}

func (a *app) checkoutService() (*checkout.Service, error) {
	out, err := a.destination()
	if err != nil {
		return nil, err
	}
	return checkout.NewService(a.store, a.orders, out,
		checkout.WithDelay(a.cfg.SubmitDelay),
		checkout.WithTopic(a.cfg.OrdersTopic),
		checkout.WithLogger(a.log),
	), nil
}

func (a *app) tracker() (*tracking.Tracker, error) {
	out, err := a.destination()
	if err != nil {
		return nil, err
	}
	return tracking.NewTracker(out,
		tracking.WithSpeed(a.cfg.TrackingSpeed),
		tracking.WithTopic(a.cfg.DeliveryTopic),
		tracking.WithLogger(a.log),
	), nil
}

// Close releases the destination and backends in reverse order of opening.
func (a *app) Close() error {
	var errs []error
	if a.out != nil {
		errs = append(errs, a.out.Close())
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	a.out = nil
	a.outOpen = false
	a.log.Sync()
	return errors.Join(errs...)
}
