package model

// CommitDocument is the journal entry of one operation. It carries the new
// value of every document the operation changed, so a single insert records
// the whole operation. Entries are removed once the other collections have
// been brought up to date.
type CommitDocument struct {
	Version          uint64              `bson:"_id"`
	Pools            []*PoolDocument     `bson:"pools,omitempty"`
	Positions        []*PositionDocument `bson:"positions,omitempty"`
	DeletedPositions []string            `bson:"deleted_positions,omitempty"`
	Balances         []*BalanceDocument  `bson:"balances,omitempty"`
	Events           []*EventDocument    `bson:"events,omitempty"`
	Settings         *SettingsDocument   `bson:"settings"`
}
