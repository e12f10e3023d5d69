package renderer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	NumWorkers      int   // Rows rendered concurrently (0 = GOMAXPROCS)
	Seed            int64 // Base seed for per-row generators (0 = time based)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        integrator.DefaultMaxDepth,
	}
}

// MergeSamplingConfig returns base with every non-zero field of override applied
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	if override.Width != 0 {
		base.Width = override.Width
	}
	if override.Height != 0 {
		base.Height = override.Height
	}
	if override.SamplesPerPixel != 0 {
		base.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		base.MaxDepth = override.MaxDepth
	}
	if override.NumWorkers != 0 {
		base.NumWorkers = override.NumWorkers
	}
	if override.Seed != 0 {
		base.Seed = override.Seed
	}
	return base
}

// Raytracer renders whole frames, one task per image row
type Raytracer struct {
	world      geometry.Shape
	camera     *Camera
	integrator integrator.Integrator
	config     SamplingConfig
	logger     core.Logger
}

// NewRaytracer creates a new raytracer. The world, camera and integrator are
// shared read-only by all row tasks.
func NewRaytracer(world geometry.Shape, camera *Camera, integrator integrator.Integrator, config SamplingConfig, logger core.Logger) *Raytracer {
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		world:      world,
		camera:     camera,
		integrator: integrator,
		config:     config,
		logger:     logger,
	}
}

// Config returns the effective sampling configuration, with the seed resolved
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// NumWorkers returns how many rows render concurrently
func (rt *Raytracer) NumWorkers() int {
	if rt.config.NumWorkers > 0 {
		return rt.config.NumWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// Render traces SamplesPerPixel samples for every pixel and returns the quantized frame.
// The frame is identical regardless of the order rows complete in.
func (rt *Raytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	startTime := time.Now()
	width, height := rt.config.Width, rt.config.Height

	rt.logger.Printf("Rendering %dx%d at %d samples per pixel (using %d workers)...\n",
		width, height, rt.config.SamplesPerPixel, rt.NumWorkers())

	grid := newPixelGrid(width, height)
	samplers := rt.newRowSamplers()

	if err := rt.renderRows(ctx, grid, samplers, rt.config.SamplesPerPixel, modeFrame); err != nil {
		return nil, RenderStats{}, err
	}

	frame, stats := assembleFrame(grid, width, height)

	elapsed := time.Since(startTime)
	recordLatency(ctx, modeFrame, elapsed)
	rt.logger.Printf("Render completed in %v (%d samples)\n", elapsed, stats.TotalSamples)

	return frame, stats, nil
}

// newRowSamplers creates one generator per row, seeded from the base seed and the row index
func (rt *Raytracer) newRowSamplers() []core.Sampler {
	samplers := make([]core.Sampler, rt.config.Height)
	for j := range samplers {
		samplers[j] = core.NewSeededSampler(rt.config.Seed + int64(j))
	}
	return samplers
}

// renderRows brings every pixel in grid up to targetSamples, fanning rows out
// to at most NumWorkers goroutines. Each row task touches only its own grid
// row and its own sampler.
func (rt *Raytracer) renderRows(ctx context.Context, grid [][]PixelStats, samplers []core.Sampler, targetSamples int, mode string) error {
	eg, egCtx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(rt.NumWorkers()))

	for j := len(grid) - 1; j >= 0; j-- {
		if err := sem.Acquire(egCtx, 1); err != nil {
			// Let rows already running finish before reporting
			if waitErr := eg.Wait(); waitErr != nil {
				err = waitErr
			}
			return fmt.Errorf("failed to render rows: %w", err)
		}

		j := j
		eg.Go(func() error {
			defer sem.Release(1)
			if err := egCtx.Err(); err != nil {
				return err
			}

			samples := rt.renderRow(j, grid[j], samplers[j], targetSamples)
			recordRow(ctx, mode, samples)
			glog.V(2).Infof("row %d done (%d samples)", j, samples)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("failed to render rows: %w", err)
	}
	return nil
}

// renderRow samples row j until every pixel holds targetSamples and returns
// how many samples it added
func (rt *Raytracer) renderRow(j int, row []PixelStats, sampler core.Sampler, targetSamples int) int {
	sDivisor := float64(max(rt.config.Width-1, 1))
	tDivisor := float64(max(rt.config.Height-1, 1))

	added := 0
	for i := range row {
		pixel := &row[i]
		for pixel.SampleCount < targetSamples {
			// Jitter within the pixel footprint
			s := (float64(i) + sampler.Get1D()) / sDivisor
			t := (float64(j) + sampler.Get1D()) / tDivisor

			ray := rt.camera.GetRay(s, t, sampler)
			pixel.AddSample(rt.integrator.RayColor(ray, rt.world, sampler))
			added++
		}
	}
	return added
}
