package model

import (
	"github.com/farmlabs/farming-engine/internal/farming"
)

const SettingsID = "engine_settings"

// SettingsDocument holds the mutable engine settings, the last operation
// timestamp, so the clock stays monotonic across restarts, and the version
// of the last applied commit.
type SettingsDocument struct {
	ID            string   `bson:"_id"`
	Whitelist     []string `bson:"whitelist"`
	FeeRecipient  string   `bson:"fee_recipient"`
	FeeRate       uint64   `bson:"fee_rate"`
	FeeDecimal    uint8    `bson:"fee_decimal"`
	LastTimestamp uint64   `bson:"last_timestamp"`
	CommitVersion uint64   `bson:"commit_version"`
}

func NewSettingsDocument(whitelist []string, fee farming.FeeConfig, lastTimestamp, commitVersion uint64) *SettingsDocument {
	return &SettingsDocument{
		ID:            SettingsID,
		Whitelist:     whitelist,
		FeeRecipient:  fee.Recipient,
		FeeRate:       fee.Rate,
		FeeDecimal:    fee.Decimal,
		LastTimestamp: lastTimestamp,
		CommitVersion: commitVersion,
	}
}

func (d *SettingsDocument) Fee() farming.FeeConfig {
	return farming.FeeConfig{
		Recipient: d.FeeRecipient,
		Rate:      d.FeeRate,
		Decimal:   d.FeeDecimal,
	}
}
