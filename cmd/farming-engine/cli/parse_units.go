package cli

import (
	"fmt"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/farmlabs/farming-engine/internal/utils"
)

func ParseUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse-units <amount> <decimals>",
		Short: "Converts a decimal amount into base units, or back with --format",
		Args:  cobra.ExactArgs(2),
		RunE:  parseUnits,
	}

	cmd.Flags().Bool("format", false, "Treat amount as base units and print the decimal form")

	return cmd
}

func parseUnits(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetBool("format")
	if err != nil {
		return err
	}

	decimals, err := strconv.ParseUint(args[1], 10, 8)
	if err != nil {
		return fmt.Errorf("invalid decimals %q: %w", args[1], err)
	}

	if format {
		amount, err := sdkmath.ParseUint(args[0])
		if err != nil {
			return fmt.Errorf("invalid base unit amount %q: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), utils.FormatUnits(amount, uint8(decimals)))
		return nil
	}

	amount, err := utils.ParseUnits(args[0], uint8(decimals))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), amount.String())
	return nil
}
