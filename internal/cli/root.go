package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/renjie/prism-units/internal/config"
	"github.com/renjie/prism-units/internal/logger"
	"github.com/renjie/prism-units/internal/metrics"
	"github.com/renjie/prism-units/pkg/adapters/factory"
	"github.com/renjie/prism-units/pkg/adapters/udunits"
	"github.com/renjie/prism-units/pkg/core/services"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every subcommand needs once flags are parsed.
type app struct {
	configPath  string
	debug       bool
	jsonLog     bool
	showMetrics bool

	cfg       config.Config
	converter *services.UnitConverter
	recorder  *metrics.Recorder
	cleanup   func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "prism-units",
		Short:        "Normalize, validate and convert agricultural unit strings",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.showMetrics && a.recorder != nil {
				if err := a.recorder.WriteText(cmd.ErrOrStderr()); err != nil {
					return err
				}
			}
			if a.cleanup != nil {
				return a.cleanup()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file (optional)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&a.jsonLog, "json-log", false, "log as JSON instead of console text")
	cmd.PersistentFlags().BoolVar(&a.showMetrics, "metrics", false, "print operation counters to stderr on exit")

	cmd.AddCommand(
		normalizeCmd(a),
		validateCmd(a),
		describeCmd(a),
		categoryCmd(a),
		convertCmd(a),
		batchCmd(a),
	)
	return cmd
}

// init loads config, logging, the unit engine and the rewrite chain.
func (a *app) init() error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Log.Debug = cfg.Log.Debug || a.debug
	cfg.Log.JSON = cfg.Log.JSON || a.jsonLog
	a.cfg = cfg

	cleanup, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cleanup = cleanup

	var engine *udunits.Engine
	if cfg.UnitsFile != "" {
		engine, err = udunits.NewFromFiles(cfg.UnitsFile)
	} else {
		engine, err = udunits.Default()
	}
	if err != nil {
		return err
	}

	chain, err := factory.GetRuleFactory().BuildChain(cfg.Rules)
	if err != nil {
		return err
	}

	a.recorder = metrics.NewRecorder()
	a.converter = services.NewUnitConverter(engine,
		services.WithRewriteRules(chain...),
		services.WithLogger(logger.L()),
		services.WithObserver(a.recorder),
		services.WithConcurrencyLimit(cfg.ConcurrencyLimit),
	)

	logger.L().Debug("cli.initialized",
		zap.String("config", a.configPath),
		zap.String("units_file", cfg.UnitsFile),
		zap.Int("rules", len(chain)))
	return nil
}
