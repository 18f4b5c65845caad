package configapi

import (
	"context"

	"lineview/internal/platform/logger"
	"lineview/internal/platform/roundtrip"
)

// PartnerConfigRequest asks for one partner's configuration
type PartnerConfigRequest struct {
	ID string
}

// CommonConfigChannel is the producer handle for the common-config worker
type CommonConfigChannel = roundtrip.Sender[struct{}, CommonConfig]

// PartnerConfigChannel is the producer handle for the partner-config worker
type PartnerConfigChannel = roundtrip.Sender[PartnerConfigRequest, PartnerConfig]

// HandleCommonConfig spawns the common configuration worker. The returned
// channel closes when the worker has terminated
func (c *Client) HandleCommonConfig() (CommonConfigChannel, <-chan struct{}) {
	tx, rx := roundtrip.New[struct{}, CommonConfig]("common_config", roundtrip.DefaultCapacity)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer rx.Close()
		log := logger.Named("common_config_worker")
		log.Info().Msg("worker started")

		for {
			env, ok := rx.Recv(context.Background())
			if !ok {
				break
			}
			c.serveCommonConfig(env, log)
		}

		log.Info().Msg("worker terminating")
	}()

	return tx, done
}

func (c *Client) serveCommonConfig(env roundtrip.Envelope[struct{}, CommonConfig], log *logger.Logger) {
	defer env.Reply.Drop()
	cfg, err := c.CachedCommonConfig(env.Ctx)
	if err != nil {
		log.Error().Err(err).Str("roundtrip_id", env.ID).Msg("common config fetch failed")
		return
	}
	env.Reply.Send(cfg)
}

// HandlePartnerConfig spawns the partner configuration worker
func (c *Client) HandlePartnerConfig() (PartnerConfigChannel, <-chan struct{}) {
	tx, rx := roundtrip.New[PartnerConfigRequest, PartnerConfig]("partner_config", roundtrip.DefaultCapacity)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer rx.Close()
		log := logger.Named("partner_config_worker")
		log.Info().Msg("worker started")

		for {
			env, ok := rx.Recv(context.Background())
			if !ok {
				break
			}
			c.servePartnerConfig(env, log)
		}

		log.Info().Msg("worker terminating")
	}()

	return tx, done
}

func (c *Client) servePartnerConfig(env roundtrip.Envelope[PartnerConfigRequest, PartnerConfig], log *logger.Logger) {
	defer env.Reply.Drop()
	cfg, err := c.PartnerConfigFor(env.Ctx, env.Req.ID)
	if err != nil {
		log.Error().Err(err).Str("roundtrip_id", env.ID).Str("partner_id", env.Req.ID).Msg("partner config fetch failed")
		return
	}
	env.Reply.Send(cfg)
}
