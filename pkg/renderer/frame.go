package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RGB is one quantized pixel
type RGB struct {
	R, G, B uint8
}

// Frame holds quantized pixels in serialization order: the first row is the
// top of the image (camera t near 1), pixels left to right within a row.
type Frame struct {
	Width, Height int
	Pixels        []RGB
}

// NewFrame creates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]RGB, width*height),
	}
}

// At returns the pixel at column x of serialization row y
func (f *Frame) At(x, y int) RGB {
	return f.Pixels[y*f.Width+x]
}

// Set stores the pixel at column x of serialization row y
func (f *Frame) Set(x, y int, c RGB) {
	f.Pixels[y*f.Width+x] = c
}

// Row returns serialization row y without copying
func (f *Frame) Row(y int) []RGB {
	return f.Pixels[y*f.Width : (y+1)*f.Width]
}

// Image converts the frame to an RGBA image with the same orientation
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			p := f.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}

// ToRGB averages an accumulated color over its samples, applies gamma 2,
// and quantizes each channel to 0..255
func ToRGB(sum core.Vec3, samples int) RGB {
	if samples <= 0 {
		return RGB{}
	}

	pixel := PixelStats{ColorAccum: sum, SampleCount: samples}
	c := pixel.GetColor().GammaCorrect(2.0).Clamp(0.0, 0.999)
	return RGB{
		R: quantize(c.X),
		G: quantize(c.Y),
		B: quantize(c.Z),
	}
}

func quantize(c float64) uint8 {
	if math.IsNaN(c) {
		return 0
	}
	return uint8(256 * c)
}
