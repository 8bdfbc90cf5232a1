package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/segstore"
	"github.com/hupe1980/segstore/extraction"
	"github.com/hupe1980/segstore/internal/conv"
	segprom "github.com/hupe1980/segstore/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "SEGSTORE"

// cli carries the state shared by all subcommands of one invocation.
type cli struct {
	v *viper.Viper

	manifest *extraction.Manifest
	registry *prometheus.Registry
	metrics  *segprom.Collector
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "segstore",
		Short:         "Segmented JSON-lines store for support archive data",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "Config file (YAML, TOML or JSON)")
	pf.String("manifest", "", "Extraction manifest; also classifies large streams")
	pf.String("small-max", "200MiB", "Segment cap of small streams")
	pf.String("large-max", "1GiB", "Segment cap of large-group streams")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.String("metrics-textfile", "", "Write Prometheus metrics to this file on exit")

	cmd.AddCommand(
		c.ingestCmd(),
		c.mergeCmd(),
		c.statCmd(),
		c.verifyCmd(),
		c.catCmd(),
		c.publishCmd(),
	)
	return cmd
}

func (c *cli) init(cmd *cobra.Command) error {
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if path := c.v.GetString("config"); path != "" {
		c.v.SetConfigFile(path)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if path := c.v.GetString("manifest"); path != "" {
		m, err := extraction.LoadManifest(path)
		if err != nil {
			return err
		}
		c.manifest = m
	}

	if c.v.GetString("metrics-textfile") != "" {
		c.registry = prometheus.NewRegistry()
		m, err := segprom.New(c.registry)
		if err != nil {
			return err
		}
		c.metrics = m
		cmd.PersistentPostRunE = func(*cobra.Command, []string) error {
			return prometheus.WriteToTextfile(c.v.GetString("metrics-textfile"), c.registry)
		}
	}
	return nil
}

func (c *cli) logger() (*segstore.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	switch format := c.v.GetString("log-format"); format {
	case "text":
		return segstore.NewTextLogger(level), nil
	case "json":
		return segstore.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("log format %q: want text or json", format)
	}
}

func (c *cli) isLarge(name string) bool {
	return c.manifest != nil && c.manifest.IsLarge(name)
}

func (c *cli) sizes() (small, large int64, err error) {
	small, err = parseSize(c.v.GetString("small-max"))
	if err != nil {
		return 0, 0, fmt.Errorf("small-max: %w", err)
	}
	large, err = parseSize(c.v.GetString("large-max"))
	if err != nil {
		return 0, 0, fmt.Errorf("large-max: %w", err)
	}
	return small, large, nil
}

func parseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.New("size must be positive")
	}
	return conv.Uint64ToInt64(n)
}

// openStore opens root with the shared size, classifier, logging and metrics
// configuration.
func (c *cli) openStore(root string, extra ...func(o *segstore.Options)) (*segstore.Store, error) {
	small, large, err := c.sizes()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}
	optFns := []func(o *segstore.Options){
		segstore.WithSizes(small, large),
		segstore.WithClassifier(c.isLarge),
		segstore.WithLogger(logger),
	}
	if c.metrics != nil {
		optFns = append(optFns, segstore.WithMetrics(c.metrics))
	}
	return segstore.Open(root, append(optFns, extra...)...)
}
