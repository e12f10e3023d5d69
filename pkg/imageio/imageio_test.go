package imageio

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/snappy"
	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

func testFrame() *renderer.Frame {
	frame := renderer.NewFrame(2, 2)
	frame.Set(0, 0, renderer.RGB{R: 255, G: 0, B: 0})
	frame.Set(1, 0, renderer.RGB{R: 0, G: 255, B: 0})
	frame.Set(0, 1, renderer.RGB{R: 0, G: 0, B: 255})
	frame.Set(1, 1, renderer.RGB{R: 12, G: 34, B: 56})
	return frame
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{"render.png", FormatPNG, false},
		{"out/RENDER.PNG", FormatPNG, false},
		{"render.ppm", FormatPPM, false},
		{"render.ppm.zst", FormatPPMZstd, false},
		{"render.ppm.sz", FormatPPMSnappy, false},
		{"render.jpg", 0, true},
		{"render", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, err := FormatForPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got format %d", tt.path, format)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if format != tt.expected {
				t.Errorf("Expected format %d, got %d", tt.expected, format)
			}
		})
	}
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, testFrame()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "P3\n2 2\n255\n255 0 0\n0 255 0\n0 0 255\n12 34 56\n"
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("Unexpected PPM output (-want +got):\n%s", diff)
	}
}

func TestWritePPMBinary(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPMBinary(&buf, testFrame()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := append([]byte("P6\n2 2\n255\n"), 255, 0, 0, 0, 255, 0, 0, 0, 255, 12, 34, 56)
	if diff := cmp.Diff(expected, buf.Bytes()); diff != "" {
		t.Errorf("Unexpected P6 output (-want +got):\n%s", diff)
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testFrame(), FormatPNG); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("Expected 2x2 image, got %v", img.Bounds())
	}

	// The first serialized row is the top of the image
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("Expected red top-left pixel, got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(1, 1).RGBA()
	if r>>8 != 12 || g>>8 != 34 || b>>8 != 56 {
		t.Errorf("Expected (12, 34, 56) bottom-right pixel, got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
}

func TestEncodeCompressed(t *testing.T) {
	var raw bytes.Buffer
	if err := WritePPMBinary(&raw, testFrame()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		format Format
		decode func(io.Reader) ([]byte, error)
	}{
		{
			name:   "zstd",
			format: FormatPPMZstd,
			decode: func(r io.Reader) ([]byte, error) {
				decoder, err := zstd.NewReader(r)
				if err != nil {
					return nil, err
				}
				defer decoder.Close()
				return io.ReadAll(decoder)
			},
		},
		{
			name:   "snappy",
			format: FormatPPMSnappy,
			decode: func(r io.Reader) ([]byte, error) {
				return io.ReadAll(snappy.NewReader(r))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, testFrame(), tt.format); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			decoded, err := tt.decode(&buf)
			if err != nil {
				t.Fatalf("Failed to decompress: %v", err)
			}
			if !bytes.Equal(decoded, raw.Bytes()) {
				t.Errorf("Decompressed stream differs from the P6 encoding")
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "frame.ppm")
	if err := WriteFile(path, testFrame()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("P3\n2 2\n255\n")) {
		t.Errorf("Expected P3 header, got %q", data[:min(len(data), 12)])
	}

	if err := WriteFile(filepath.Join(dir, "frame.tiff"), testFrame()); err == nil {
		t.Error("Expected error for unsupported extension")
	}
	if _, err := os.Stat(filepath.Join(dir, "frame.tiff")); !os.IsNotExist(err) {
		t.Error("Expected no file for an unsupported extension")
	}

	if err := WriteFile(filepath.Join(dir, "missing", "frame.png"), testFrame()); err == nil {
		t.Error("Expected error for a missing directory")
	}
}
