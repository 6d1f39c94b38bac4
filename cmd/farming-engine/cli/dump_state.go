package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/farmlabs/farming-engine/internal/db"
)

func DumpStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-state",
		Short: "Prints persisted pools, positions, balances and settings",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpState,
	}

	cmd.Flags().Bool("balances", false, "Also print account balances")

	return cmd
}

func dumpState(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	withBalances, err := cmd.Flags().GetBool("balances")
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

	settings, err := database.GetSettings(ctx)
	switch {
	case err == nil:
		spew.Dump(settings)
	case db.IsNotFoundError(err):
		fmt.Println("No settings persisted yet")
	default:
		return err
	}

	pools, err := database.GetAllPools(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Pools: %d\n", len(pools))
	spew.Dump(pools)

	positions, err := database.GetAllPositions(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Positions: %d\n", len(positions))
	spew.Dump(positions)

	if withBalances {
		balances, err := database.GetAllBalances(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Balances: %d\n", len(balances))
		spew.Dump(balances)
	}

	return nil
}
