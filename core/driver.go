package core

import (
	"context"
	"math/rand"
	"time"

	"github.com/yasserelgammal/rate-limiter/limiter"
	"github.com/yasserelgammal/rate-limiter/store"

	"github.com/nmxmxh/protocell/utils"
)

// DriverConfig bounds how fast a driver ticks the world.
type DriverConfig struct {
	TicksPerSecond int64
	Burst          int64
}

// DefaultDriverConfig allows a thousand ticks per second with a matching
// burst.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		TicksPerSecond: 1000,
		Burst:          1000,
	}
}

// Driver runs a world continuously. The core itself has no notion of time;
// the driver supplies the external scheduling the execution model assumes,
// with a token bucket capping the tick rate.
type Driver struct {
	world        *World
	limiter      *limiter.TokenBucket
	limiterStore store.Store
	log          *utils.Logger
}

// NewDriver creates a driver for the world.
func NewDriver(world *World, config DriverConfig) (*Driver, error) {
	limiterStore := store.NewMemoryStore(time.Minute)
	tokenBucket, err := limiter.NewTokenBucket(
		limiter.Config{
			Rate:     config.TicksPerSecond,
			Duration: time.Second,
			Burst:    config.Burst,
		},
		limiterStore,
	)
	if err != nil {
		return nil, utils.WrapError(err, "create tick limiter")
	}
	return &Driver{
		world:        world,
		limiter:      tokenBucket,
		limiterStore: limiterStore,
		log:          utils.DefaultLogger("driver"),
	}, nil
}

// Run ticks the world until the budget is spent or the context is
// canceled, and returns the number of ticks that ran.
func (d *Driver) Run(ctx context.Context, ticks uint64, rng *rand.Rand) uint64 {
	var done uint64
	for done < ticks {
		select {
		case <-ctx.Done():
			d.log.Info("driver stopped", utils.Uint64("ticks", done))
			return done
		default:
		}
		if !d.limiter.Allow(d.world.ID()) {
			time.Sleep(time.Millisecond)
			continue
		}
		d.world.Execute(rng)
		done++
	}
	return done
}
