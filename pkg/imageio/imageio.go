// Package imageio serializes rendered frames to disk.
package imageio

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Format is an output encoding selected by file extension
type Format int

const (
	FormatPNG       Format = iota // .png
	FormatPPM                     // .ppm, plain-text P3
	FormatPPMZstd                 // .ppm.zst, binary P6 in a zstd stream
	FormatPPMSnappy               // .ppm.sz, binary P6 in a snappy stream
)

var extensions = []struct {
	suffix string
	format Format
}{
	// Longest suffixes first so .ppm.zst does not match .ppm
	{".ppm.zst", FormatPPMZstd},
	{".ppm.sz", FormatPPMSnappy},
	{".ppm", FormatPPM},
	{".png", FormatPNG},
}

// FormatForPath picks the output format from the file name
func FormatForPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext.suffix) {
			return ext.format, nil
		}
	}
	return 0, fmt.Errorf("unsupported output format for %q (use .png, .ppm, .ppm.zst or .ppm.sz)", path)
}

// WriteFile encodes frame into path using the format implied by its extension
func WriteFile(path string, frame *renderer.Frame) (err error) {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	if err := Encode(file, frame, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Encode writes frame to w in the given format
func Encode(w io.Writer, frame *renderer.Frame, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, frame.Image())
	case FormatPPM:
		return WritePPM(w, frame)
	case FormatPPMZstd:
		encoder, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		if err := WritePPMBinary(encoder, frame); err != nil {
			encoder.Close()
			return err
		}
		return encoder.Close()
	case FormatPPMSnappy:
		stream := snappy.NewBufferedWriter(w)
		if err := WritePPMBinary(stream, frame); err != nil {
			stream.Close()
			return err
		}
		return stream.Close()
	default:
		return fmt.Errorf("unknown format %d", format)
	}
}

// WritePPM writes frame as a plain-text P3 image, one "r g b" line per
// pixel in row order
func WritePPM(w io.Writer, frame *renderer.Frame) error {
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "P3\n%d %d\n255\n", frame.Width, frame.Height)
	for _, p := range frame.Pixels {
		fmt.Fprintf(out, "%d %d %d\n", p.R, p.G, p.B)
	}
	return out.Flush()
}

// WritePPMBinary writes frame as a binary P6 image
func WritePPMBinary(w io.Writer, frame *renderer.Frame) error {
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "P6\n%d %d\n255\n", frame.Width, frame.Height)
	line := make([]byte, 0, 3*frame.Width)
	for y := 0; y < frame.Height; y++ {
		line = line[:0]
		for _, p := range frame.Row(y) {
			line = append(line, p.R, p.G, p.B)
		}
		if _, err := out.Write(line); err != nil {
			return err
		}
	}
	return out.Flush()
}
