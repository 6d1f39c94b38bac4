package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farmlabs/farming-engine/internal/db"
	"github.com/farmlabs/farming-engine/internal/types"
)

// DumpEventsCmd prints the persisted event log in ABCI event form, the shape
// chain hosts index.
func DumpEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-events",
		Short: "Prints the farming event log as ABCI events",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpEvents,
	}

	cmd.Flags().Uint64("after", 0, "Only print events with a greater sequence")
	cmd.Flags().Int64("limit", 1000, "Maximum number of events to print")
	cmd.Flags().String("user", "", "Only print events of this user")

	return cmd
}

func dumpEvents(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	after, err := cmd.Flags().GetUint64("after")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt64("limit")
	if err != nil {
		return err
	}
	user, err := cmd.Flags().GetString("user")
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := db.New(ctx, cfg.Db)
	if err != nil {
		return err
	}
	defer database.Close(ctx)

	docs, err := database.GetEvents(ctx, db.EventFilter{User: user, AfterSequence: after, Limit: limit})
	if err != nil {
		return err
	}

	for _, doc := range docs {
		ev, err := doc.ToEvent()
		if err != nil {
			return err
		}

		buff, err := json.Marshal(types.ToABCIEvent(ev))
		if err != nil {
			return err
		}
		fmt.Printf("Event [sequence %d]: %s\n", doc.Sequence, string(buff))
	}

	return nil
}
