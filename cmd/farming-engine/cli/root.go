package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/farmlabs/farming-engine/internal/config"
	"github.com/farmlabs/farming-engine/pkg"
)

const (
	defaultConfigFileName = "config.yml"
	// overrides the home directory default; the --config flag still wins
	configPathEnv = "FARMING_CONFIG"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:          "farming-engine",
		Short:        "Multi-pool staking reward engine",
		SilenceUsage: true,
	}
)

func Setup() error {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	defaultConfigPath := pkg.Getenv(configPathEnv, filepath.Join(homePath, defaultConfigFileName))

	rootCmd.AddCommand(
		StartServerCmd(),
		DumpStateCmd(),
		DumpEventsCmd(),
		ParseUnitsCmd(),
	)
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, fmt.Sprintf("config file (default %s)", defaultConfigPath))

	return rootCmd.Execute()
}

// loadConfig reads the --config file and applies its log level globally.
func loadConfig() (*config.Config, error) {
	cfg, err := config.New(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("error while loading config file %s: %w", cfgPath, err)
	}

	if cfg.LogLevel != "" {
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zerolog.SetGlobalLevel(level)
	}
	return cfg, nil
}
