package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/arloliu/voxoct"
	"github.com/arloliu/voxoct/endian"
	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/internal/hash"
	"github.com/arloliu/voxoct/octree"
	"github.com/arloliu/voxoct/sizing"
	"github.com/arloliu/voxoct/stream"
	"github.com/arloliu/voxoct/volume"
)

func dimsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagDims,
		Usage: "volume dimensions as `NX,NY,NZ`",
	}
}

func bigEndianFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  flagBigEndian,
		Usage: "raw samples are big-endian float32 (little-endian when false)",
	}
}

func leafFlag(def string) cli.Flag {
	return &cli.StringFlag{
		Name:  flagLeaf,
		Value: def,
		Usage: "leaf kind: block or point",
	}
}

func compressionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  flagCompression,
		Usage: "container codec: none, zstd, s2 or lz4 (default: from file extension)",
	}
}

func (s *session) synthCommand() *cli.Command {
	return &cli.Command{
		Name:  "synth",
		Usage: "write a synthetic raw float32 volume",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagShape, Value: string(volume.ShapeSphere), Usage: "uniform, checker, gradient or sphere"},
			dimsFlag(),
			bigEndianFlag(),
			&cli.Float64Flag{Name: flagLo, Value: 0, Usage: "low sample value"},
			&cli.Float64Flag{Name: flagHi, Value: 255, Usage: "high sample value"},
			&cli.StringFlag{Name: flagOut, Required: true, Usage: "output raw `FILE`"},
		},
		Action: func(c *cli.Context) error {
			nx, ny, nz, err := s.dims(c)
			if err != nil {
				return err
			}
			engine, err := s.engine(c)
			if err != nil {
				return err
			}

			g, err := volume.Synthesize(volume.Shape(c.String(flagShape)), nx, ny, nz,
				float32(c.Float64(flagLo)), float32(c.Float64(flagHi)))
			if err != nil {
				return err
			}

			out := c.String(flagOut)
			if err := volume.SaveRawFile(out, g, engine); err != nil {
				return err
			}

			s.logger.Info("volume synthesized",
				zap.String("shape", c.String(flagShape)),
				zap.String("path", out),
				zap.Int("voxels", g.Len()),
			)

			return nil
		},
	}
}

func (s *session) buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "build an octree from a raw float32 volume",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagIn, Required: true, Usage: "input raw `FILE`"},
			dimsFlag(),
			bigEndianFlag(),
			leafFlag("block"),
			&cli.Float64Flag{Name: flagThreshold, Value: float64(octree.DefaultFluctuationThreshold), Usage: "maximum max-min spread of a leaf"},
			&cli.IntFlag{Name: flagMaxDepth, Usage: "depth cap for point leaves (default: bit length of the smallest dimension)"},
			compressionFlag(),
			&cli.StringFlag{Name: flagOut, Required: true, Usage: "output octree `FILE`"},
		},
		Action: func(c *cli.Context) error {
			if err := s.applyBuildFlags(c); err != nil {
				return err
			}

			nx, ny, nz, err := s.dims(c)
			if err != nil {
				return err
			}
			engine, err := s.engine(c)
			if err != nil {
				return err
			}

			grid, err := volume.LoadRawFile(c.String(flagIn), nx, ny, nz, engine)
			if err != nil {
				return err
			}

			opts := append(s.cfg.Build.BuilderOptions(), octree.WithLogger(s.logger))
			builder, err := voxoct.NewBuilder(opts...)
			if err != nil {
				return err
			}
			tree, err := builder.Build(grid)
			if err != nil {
				return err
			}

			stats, err := voxoct.WriteFile(c.String(flagOut), tree, s.fileOptions()...)
			if err != nil {
				return err
			}

			counts := tree.Count()
			w := c.App.Writer
			fmt.Fprintf(w, "dims:        %dx%dx%d\n", nx, ny, nz)
			fmt.Fprintf(w, "leaf kind:   %s\n", tree.LeafKind)
			fmt.Fprintf(w, "nodes:       %d (%d leaves, %d internal)\n", counts.Total, counts.Leaves, counts.Internals)
			fmt.Fprintf(w, "max depth:   %d\n", tree.Depth())
			fmt.Fprintf(w, "ratio:       %.2f voxels/node\n", tree.CompressionRatio())
			fmt.Fprintf(w, "stream:      %d bytes\n", stats.OriginalSize)
			fmt.Fprintf(w, "file:        %d bytes (%s)\n", stats.CompressedSize, stats.Algorithm)

			return nil
		},
	}
}

func (s *session) analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "decode an octree file and report statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagIn, Required: true, Usage: "input octree `FILE`"},
			leafFlag("block"),
			compressionFlag(),
			&cli.BoolFlag{Name: flagDetailed, Usage: "replay node regions and print a per-level breakdown"},
		},
		Action: func(c *cli.Context) error {
			if err := s.applyBuildFlags(c); err != nil {
				return err
			}
			kind, _ := format.ParseLeafKind(s.cfg.Build.Leaf)
			in := c.String(flagIn)
			w := c.App.Writer

			if !c.Bool(flagDetailed) {
				stats, err := voxoct.StatsFile(in, kind, s.fileOptions()...)
				if err != nil {
					return err
				}
				printStats(w, stats)

				return nil
			}

			report, err := voxoct.AnalyzeFile(in, kind, s.fileOptions()...)
			if err != nil {
				return err
			}
			printStats(w, report.Stats)
			printReport(w, report)

			return nil
		},
	}
}

func (s *session) pointsCommand() *cli.Command {
	return &cli.Command{
		Name:  "points",
		Usage: "print x,y,z,value for every leaf of an octree file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagIn, Required: true, Usage: "input octree `FILE`"},
			leafFlag("point"),
			compressionFlag(),
		},
		Action: func(c *cli.Context) error {
			if err := s.applyBuildFlags(c); err != nil {
				return err
			}
			kind, ok := format.ParseLeafKind(c.String(flagLeaf))
			if !ok {
				return fmt.Errorf("%w: %q", errs.ErrInvalidLeafKind, c.String(flagLeaf))
			}

			data, err := voxoct.ReadFile(c.String(flagIn), s.fileOptions()...)
			if err != nil {
				return err
			}

			w := bufio.NewWriter(c.App.Writer)
			err = stream.NewBytesDecoder(data, kind).Walk(func(v stream.Visit) error {
				if v.Kind == octree.KindInternal {
					return nil
				}
				_, err := fmt.Fprintf(w, "%g,%g,%g,%g\n", v.Point.X, v.Point.Y, v.Point.Z, v.Value)

				return err
			})
			if err != nil {
				return err
			}

			return w.Flush()
		},
	}
}

func (s *session) sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "measure file size across thresholds and fit a size model",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagIn, Required: true, Usage: "input raw `FILE`"},
			dimsFlag(),
			bigEndianFlag(),
			leafFlag("block"),
			&cli.Float64SliceFlag{Name: flagThresholds, Value: cli.NewFloat64Slice(0, 5, 10, 25, 50, 100, 200), Usage: "thresholds to measure"},
			compressionFlag(),
			&cli.Int64Flag{Name: flagTarget, Usage: "print the smallest threshold whose estimated size fits `BYTES`"},
		},
		Action: func(c *cli.Context) error {
			if err := s.applyBuildFlags(c); err != nil {
				return err
			}

			nx, ny, nz, err := s.dims(c)
			if err != nil {
				return err
			}
			engine, err := s.engine(c)
			if err != nil {
				return err
			}
			grid, err := volume.LoadRawFile(c.String(flagIn), nx, ny, nz, engine)
			if err != nil {
				return err
			}

			values := c.Float64Slice(flagThresholds)
			thresholds := make([]float32, len(values))
			for i, v := range values {
				thresholds[i] = float32(v)
			}

			opts := []sizing.SweepOption{
				sizing.WithBuilderOptions(s.cfg.Build.BuilderOptions()...),
				sizing.WithLogger(s.logger),
			}
			if ct, ok := s.cfg.Build.CompressionOverride(); ok {
				opts = append(opts, sizing.WithCompression(ct))
			}

			samples, err := sizing.Sweep(grid, thresholds, opts...)
			if err != nil {
				return err
			}

			w := c.App.Writer
			fmt.Fprintln(w, "threshold   nodes  stream_bytes   bytes")
			for _, sm := range samples {
				fmt.Fprintf(w, "%9g  %6d  %12d  %6d\n", sm.Threshold, sm.Nodes, sm.StreamBytes, sm.Bytes)
			}

			result, err := sizing.Fit(samples)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "best fit:    %s (R² %.4f)\n", result.BestFit.Formula(), result.BestFit.RSquared)

			if target := c.Int64(flagTarget); target > 0 {
				lo, hi := thresholds[0], thresholds[0]
				for _, th := range thresholds {
					lo, hi = min(lo, th), max(hi, th)
				}
				th, err := sizing.ThresholdFor(result.BestFit, float64(target), lo, hi)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "threshold:   %.2f for %d bytes\n", th, target)
			}

			return nil
		},
	}
}

// applyBuildFlags copies explicitly set flags over the configuration.
func (s *session) applyBuildFlags(c *cli.Context) error {
	b := &s.cfg.Build
	if c.IsSet(flagLeaf) {
		b.Leaf = c.String(flagLeaf)
	}
	if c.IsSet(flagThreshold) {
		b.Threshold = float32(c.Float64(flagThreshold))
	}
	if c.IsSet(flagMaxDepth) {
		depth := c.Int(flagMaxDepth)
		b.MaxDepth = &depth
	}
	if c.IsSet(flagCompression) {
		b.Compression = c.String(flagCompression)
	}

	return s.cfg.Validate()
}

func (s *session) fileOptions() []voxoct.FileOption {
	opts := []voxoct.FileOption{voxoct.WithLogger(s.logger)}
	if ct, ok := s.cfg.Build.CompressionOverride(); ok {
		opts = append(opts, voxoct.WithCompression(ct))
	}

	return opts
}

func (s *session) dims(c *cli.Context) (nx, ny, nz uint32, err error) {
	if c.IsSet(flagDims) {
		return parseDims(c.String(flagDims))
	}
	if nx, ny, nz, ok := s.cfg.Volume.Dimensions(); ok {
		return nx, ny, nz, nil
	}

	return 0, 0, 0, fmt.Errorf("%w: --%s or volume.dims is required", errs.ErrInvalidDimensions, flagDims)
}

func (s *session) engine(c *cli.Context) (endian.EndianEngine, error) {
	name := s.cfg.Volume.ByteOrder
	if c.IsSet(flagBigEndian) {
		name = "little"
		if c.Bool(flagBigEndian) {
			name = "big"
		}
	}

	engine, ok := endian.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown byte order %q", name)
	}

	return engine, nil
}

// parseDims parses "NX,NY,NZ" or "NXxNYxNZ".
func parseDims(s string) (nx, ny, nz uint32, err error) {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == ',' || r == 'x' })
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", errs.ErrInvalidDimensions, s)
	}

	var dims [3]uint32
	for i, p := range parts {
		v, perr := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if perr != nil || v == 0 {
			return 0, 0, 0, fmt.Errorf("%w: %q", errs.ErrInvalidDimensions, s)
		}
		dims[i] = uint32(v)
	}

	return dims[0], dims[1], dims[2], nil
}

func printStats(w io.Writer, st stream.Stats) {
	fmt.Fprintf(w, "dims:           %s (%d voxels)\n", st.Header, st.Voxels())
	fmt.Fprintf(w, "nodes:          %d (%d leaves, %d internal)\n", st.Counts.Total, st.Counts.Leaves, st.Counts.Internals)
	fmt.Fprintf(w, "max depth:      %d\n", st.MaxDepth)
	fmt.Fprintf(w, "ratio:          %.2f voxels/node\n", st.CompressionRatio())
	fmt.Fprintf(w, "space saving:   %.2f%%\n", st.SpaceSaving()*100)
	fmt.Fprintf(w, "bytes read:     %d\n", st.BytesRead)
	fmt.Fprintf(w, "checksum:       %s\n", hash.Format(st.Checksum))
	if st.TrailingBytes > 0 {
		fmt.Fprintf(w, "trailing bytes: %d\n", st.TrailingBytes)
	}
}

func printReport(w io.Writer, r stream.Report) {
	fmt.Fprintf(w, "represented:    %d voxels\n", r.VoxelsRepresented)
	fmt.Fprintf(w, "avg leaf size:  %.2f voxels\n", r.AvgVoxelsPerLeaf)
	if r.Mismatch {
		fmt.Fprintf(w, "MISMATCH:       %d empty nodes\n", r.EmptyNodes)
	}

	fmt.Fprintln(w, "level  leaves  internal  voxels  avg_leaf")
	for _, lvl := range r.Levels {
		fmt.Fprintf(w, "%5d  %6d  %8d  %6d  %8.2f\n", lvl.Level, lvl.Leaves, lvl.Internals, lvl.Voxels, lvl.AvgLeafSize)
	}
}
