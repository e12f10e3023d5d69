package renderer

import (
	"image"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // Sum of sample colors
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// newPixelGrid allocates accumulators indexed [j][i], with j = 0 the bottom row
func newPixelGrid(width, height int) [][]PixelStats {
	grid := make([][]PixelStats, height)
	for j := range grid {
		grid[j] = make([]PixelStats, width)
	}
	return grid
}

// assembleFrame quantizes the grid into a frame and gathers statistics in one pass.
// Row j of the grid lands on serialization row height-1-j.
func assembleFrame(grid [][]PixelStats, width, height int) (*Frame, RenderStats) {
	frame := NewFrame(width, height)
	stats := RenderStats{TotalPixels: width * height}

	first := true
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			pixel := &grid[j][i]
			frame.Set(i, height-1-j, ToRGB(pixel.ColorAccum, pixel.SampleCount))

			stats.TotalSamples += pixel.SampleCount
			if first || pixel.SampleCount < stats.MinSamples {
				stats.MinSamples = pixel.SampleCount
			}
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
			first = false
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}

	return frame, stats
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += 0.2126*float64(r)/0xffff + 0.7152*float64(g)/0xffff + 0.0722*float64(b)/0xffff
		}
	}

	return total / float64(pixels)
}
