package config

import (
	"errors"
	"fmt"

	"github.com/farmlabs/farming-engine/internal/farming"
	"github.com/farmlabs/farming-engine/pkg"
)

type FarmingConfig struct {
	// Custody holds staked assets and the reward supply.
	Custody      string   `mapstructure:"custody"`
	Admins       []string `mapstructure:"admins"`
	Whitelist    []string `mapstructure:"whitelist"`
	FeeRecipient string   `mapstructure:"fee-recipient"`
	FeeRate      uint64   `mapstructure:"fee-rate"`
	FeeDecimal   uint8    `mapstructure:"fee-decimal"`
	// AddressPrefix enables bech32 validation of every caller address
	// when set.
	AddressPrefix string `mapstructure:"address-prefix"`
}

func (cfg *FarmingConfig) Validate() error {
	if cfg.Custody == "" {
		return errors.New("missing custody account")
	}

	if len(cfg.Admins) == 0 {
		return errors.New("at least one admin is required")
	}

	if err := cfg.Fee().Validate(); err != nil {
		return err
	}

	if cfg.AddressPrefix == "" {
		return nil
	}

	addresses := append([]string{cfg.Custody}, cfg.Admins...)
	addresses = append(addresses, cfg.Whitelist...)
	if cfg.FeeRecipient != "" {
		addresses = append(addresses, cfg.FeeRecipient)
	}
	for _, addr := range addresses {
		if err := pkg.ValidateAddress(addr, cfg.AddressPrefix); err != nil {
			return fmt.Errorf("invalid address %s: %w", addr, err)
		}
	}

	return nil
}

func (cfg *FarmingConfig) Fee() farming.FeeConfig {
	return farming.FeeConfig{
		Recipient: cfg.FeeRecipient,
		Rate:      cfg.FeeRate,
		Decimal:   cfg.FeeDecimal,
	}
}

// EngineConfig is the initial engine configuration. Whitelist and fee are
// replaced by persisted settings once any exist.
func (cfg *FarmingConfig) EngineConfig() farming.Config {
	return farming.Config{
		Custody:   cfg.Custody,
		Admins:    cfg.Admins,
		Whitelist: cfg.Whitelist,
		Fee:       cfg.Fee(),
	}
}
