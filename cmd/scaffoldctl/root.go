package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/app"
	"github.com/guttosm/scaffold-service/internal/logger"
	"github.com/guttosm/scaffold-service/internal/scaffold"
)

const envPrefix = "SCAFFOLDCTL"

// Output formats.
const (
	outputText = "text"
	outputJSON = "json"
)

var errUnknownOutput = errors.New("output must be text or json")

// cli carries the state shared by every subcommand.
type cli struct {
	v       *viper.Viper
	out     io.Writer
	cfgFile string
}

// catalogSettings mirrors the catalog section of the config file.
type catalogSettings struct {
	LevelHeight   float64   `mapstructure:"level_height"`
	LedgerLengths []float64 `mapstructure:"ledger_lengths"`
	DeckWidths    []float64 `mapstructure:"deck_widths"`
	Resolution    int       `mapstructure:"resolution"`
	MaxDimension  float64   `mapstructure:"max_dimension"`
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:   "scaffoldctl",
		Short: "Plan scaffolds and allocate pieces offline",
		Long: `scaffoldctl runs the scaffold engine locally: it plans levels and bays,
derives the bill of materials and matches it against a stock snapshot file.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.initConfig,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default: ./scaffoldctl.yaml)")
	flags.StringP("output", "o", outputText, "output format (text, json)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = c.v.BindPFlag("output", flags.Lookup("output"))
	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(c.planCmd())
	root.AddCommand(c.allocateCmd())
	root.AddCommand(c.tokenCmd())
	root.AddCommand(c.keysCmd())

	return root
}

func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		c.v.AddConfigPath(".")
		c.v.SetConfigName("scaffoldctl")
		c.v.SetConfigType("yaml")
	}

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.InitWithWriter(c.v.GetString("log.level"), false, cmd.ErrOrStderr())

	switch c.output() {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, c.output())
	}
}

// bindFlags exposes the running command's flags through viper so that config
// file keys and SCAFFOLDCTL_ variables can supply them.
func (c *cli) bindFlags(cmd *cobra.Command, _ []string) error {
	return c.v.BindPFlags(cmd.Flags())
}

func (c *cli) output() string {
	return strings.ToLower(c.v.GetString("output"))
}

func (c *cli) engine() (*scaffold.Engine, error) {
	var settings catalogSettings
	if err := c.v.UnmarshalKey("catalog", &settings); err != nil {
		return nil, fmt.Errorf("invalid catalog section: %w", err)
	}
	catalog, err := app.BuildCatalog(config.CatalogConfig{
		LevelHeight:   settings.LevelHeight,
		LedgerLengths: settings.LedgerLengths,
		DeckWidths:    settings.DeckWidths,
		Resolution:    settings.Resolution,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog configuration: %w", err)
	}
	return scaffold.NewEngine(scaffold.WithCatalog(catalog), scaffold.WithMaxDimension(settings.MaxDimension)), nil
}

func addDimensionFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("height", 0, "facade height in meters")
	cmd.Flags().Float64("length", 0, "facade length in meters")
	cmd.Flags().Float64("width", 0, "scaffold depth in meters")
}

func (c *cli) dimensions() (height, length, width float64) {
	return c.v.GetFloat64("height"), c.v.GetFloat64("length"), c.v.GetFloat64("width")
}
