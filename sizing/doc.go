// Package sizing estimates octree file size as a function of the
// fluctuation threshold.
//
// Picking a threshold is a trade between fidelity and size, and the size of
// a given threshold is only known after a build. This package samples a
// handful of thresholds over a representative volume, fits closed-form
// models to the measured sizes and picks the best one by R². The fitted
// model then answers both directions cheaply: the expected size for a
// threshold, and the smallest threshold that fits a size budget.
//
// # Models
//
// All models use t = threshold + 1 so that a zero threshold is defined:
//
//	hyperbolic   size = a + b / t
//	logarithmic  size = a + b * ln(t)
//	power        size = a * t^b
//	exponential  size = a * e^(b*t)
//
// # Usage
//
//	samples, err := sizing.Sweep(grid, []float32{0, 5, 10, 25, 50, 100},
//	    sizing.WithCompression(format.CompressionZstd))
//	result, err := sizing.Fit(samples)
//	fmt.Println(result.BestFit)
//
//	threshold, err := sizing.ThresholdFor(result.BestFit, 1<<20, 0, 255)
package sizing
