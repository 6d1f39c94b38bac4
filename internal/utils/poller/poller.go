package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type PollFunc func(ctx context.Context) error

// Poller runs a poll function on a fixed interval until the context is
// cancelled or Stop is called.
type Poller struct {
	name       string
	interval   time.Duration
	quit       chan struct{}
	pollMethod PollFunc
}

func NewPoller(name string, interval time.Duration, pollMethod PollFunc) *Poller {
	return &Poller{
		name:       name,
		interval:   interval,
		quit:       make(chan struct{}),
		pollMethod: pollMethod,
	}
}

func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logger := log.Ctx(ctx).With().Str("poller", p.name).Logger()
	logger.Info().Msgf("Starting poller with interval %s", p.interval)

	for {
		select {
		case <-ticker.C:
			if err := p.pollMethod(ctx); err != nil {
				logger.Error().Err(err).Msg("Error polling")
			}
		case <-ctx.Done():
			logger.Info().Msg("Poller stopped due to context cancellation")
			return
		case <-p.quit:
			logger.Info().Msg("Poller stopped")
			return
		}
	}
}

func (p *Poller) Stop() {
	close(p.quit)
}
