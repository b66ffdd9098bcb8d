// Command voxoct builds, inspects and synthesizes adaptive octree files.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/arloliu/voxoct/internal/config"
	"github.com/arloliu/voxoct/internal/logging"
)

const (
	// Global flags.
	flagConfig = "config"
	flagDebug  = "debug"

	// Command flags.
	flagIn          = "in"
	flagOut         = "out"
	flagDims        = "dims"
	flagBigEndian   = "big-endian"
	flagLeaf        = "leaf"
	flagThreshold   = "threshold"
	flagMaxDepth    = "max-depth"
	flagCompression = "compression"
	flagShape       = "shape"
	flagLo          = "lo"
	flagHi          = "hi"
	flagDetailed    = "detailed"
	flagThresholds  = "thresholds"
	flagTarget      = "target"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "voxoct:", err)
		os.Exit(1)
	}
}

// session carries the state resolved by the global flags.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newApp() *cli.App {
	s := &session{logger: zap.NewNop()}

	return &cli.App{
		Name:  "voxoct",
		Usage: "compress dense 3D scalar volumes into adaptive octrees",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: s.before,
		After: func(*cli.Context) error {
			_ = s.logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			s.synthCommand(),
			s.buildCommand(),
			s.analyzeCommand(),
			s.pointsCommand(),
			s.sweepCommand(),
		},
	}
}

func (s *session) before(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if c.Bool(flagDebug) {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New("voxoct", cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.logger = logger

	return nil
}
