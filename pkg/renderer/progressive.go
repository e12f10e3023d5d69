package renderer

import (
	"context"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel
	MaxPasses          int // Maximum number of passes
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		InitialSamples:     1,
		MaxSamplesPerPixel: 100,
		MaxPasses:          7,
	}
}

// ProgressiveRaytracer refines a frame over several passes, each pass
// adding samples to the same per-pixel accumulators
type ProgressiveRaytracer struct {
	raytracer  *Raytracer
	config     ProgressiveConfig
	pixelStats [][]PixelStats // Shared accumulators, indexed [j][i]
	samplers   []core.Sampler // One per row, reused across passes
	logger     core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer over rt
func NewProgressiveRaytracer(rt *Raytracer, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	if config.MaxPasses < 1 {
		config.MaxPasses = 1
	}
	if config.InitialSamples < 1 {
		config.InitialSamples = 1
	}

	return &ProgressiveRaytracer{
		raytracer:  rt,
		config:     config,
		pixelStats: newPixelGrid(rt.config.Width, rt.config.Height),
		samplers:   rt.newRowSamplers(),
		logger:     logger,
	}
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return min(pr.config.InitialSamples, pr.config.MaxSamplesPerPixel)
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber >= pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// RenderPass brings every pixel up to the target for passNumber and
// returns a snapshot of the accumulated frame
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int) (*Frame, RenderStats, error) {
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.raytracer.NumWorkers())

	if err := pr.raytracer.renderRows(ctx, pr.pixelStats, pr.samplers, targetSamples, modeProgressive); err != nil {
		return nil, RenderStats{}, err
	}

	frame, stats := assembleFrame(pr.pixelStats, pr.raytracer.config.Width, pr.raytracer.config.Height)
	return frame, stats, nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *Frame
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive runs passes in the background and streams each result.
// Both channels are closed when rendering stops; at most one error is sent.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			// Check if client disconnected before starting this pass
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			frame, stats, err := pr.RenderPass(ctx, pass)
			if err != nil {
				errChan <- err
				return
			}

			passTime := time.Since(startTime)
			recordLatency(ctx, modeProgressive, passTime)

			pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
				pass, passTime, stats.MinSamples)

			isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.config.MaxSamplesPerPixel
			result := PassResult{
				PassNumber: pass,
				Frame:      frame,
				Stats:      stats,
				IsLast:     isLast,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				return
			}

			if isLast {
				break
			}
		}
	}()

	return passChan, errChan
}
