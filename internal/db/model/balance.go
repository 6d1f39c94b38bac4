package model

import (
	"fmt"

	"github.com/farmlabs/farming-engine/internal/bank"
)

type BalanceDocument struct {
	ID      string `bson:"_id"`
	Asset   string `bson:"asset"`
	Account string `bson:"account"`
	Amount  string `bson:"amount"`
}

func BalanceID(asset, account string) string {
	return asset + "/" + account
}

func NewBalanceDocument(b bank.Balance) *BalanceDocument {
	return &BalanceDocument{
		ID:      BalanceID(b.Asset, b.Account),
		Asset:   b.Asset,
		Account: b.Account,
		Amount:  formatUint(b.Amount),
	}
}

func (d *BalanceDocument) ToBalance() (bank.Balance, error) {
	amount, err := parseUint("amount", d.Amount)
	if err != nil {
		return bank.Balance{}, fmt.Errorf("balance %s: %w", d.ID, err)
	}
	return bank.Balance{Asset: d.Asset, Account: d.Account, Amount: amount}, nil
}
