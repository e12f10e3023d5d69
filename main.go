// pathtracer renders scenes to image files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/df07/go-pathtracer/pkg/imageio"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var cmdRoot = &cobra.Command{
	Use:           "pathtracer",
	Short:         "Monte Carlo path tracer for spheres",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var scenesDir string

func init() {
	cmdRoot.PersistentFlags().StringVar(&scenesDir, "scenes-dir", "scenes", "Directory searched for JSON scene files")
}

// renderOptions holds the render command flags. Zero sampling values keep the
// scene's settings; camera values apply only when their flag was given.
type renderOptions struct {
	scene    string
	output   string
	width    int
	height   int
	samples  int
	depth    int
	workers  int
	seed     int64
	passes   int
	vfov     float64
	aperture float64
	focus    float64

	vfovSet, apertureSet, focusSet bool
}

var renderOpts renderOptions

var cmdRender = &cobra.Command{
	Use:   "render",
	Short: "Render a scene to an image file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		opts := renderOpts
		opts.vfovSet = cmd.Flags().Changed("vfov")
		opts.apertureSet = cmd.Flags().Changed("aperture")
		opts.focusSet = cmd.Flags().Changed("focus")
		return runRender(ctx, opts, cmd.OutOrStdout())
	},
}

func init() {
	f := cmdRender.Flags()
	f.StringVar(&renderOpts.scene, "scene", "default", "Scene name or path to a .json scene file")
	f.StringVar(&renderOpts.output, "output", "", "Output file (.png, .ppm, .ppm.zst, .ppm.sz); default output/<scene>/render_<timestamp>.png")
	f.IntVar(&renderOpts.width, "width", 0, "Image width in pixels")
	f.IntVar(&renderOpts.height, "height", 0, "Image height in pixels")
	f.IntVar(&renderOpts.samples, "samples", 0, "Samples per pixel")
	f.IntVar(&renderOpts.depth, "depth", 0, "Maximum bounce depth")
	f.IntVar(&renderOpts.workers, "workers", 0, "Rows rendered concurrently (0 = all CPUs)")
	f.Int64Var(&renderOpts.seed, "seed", 0, "Base random seed (0 = time based)")
	f.IntVar(&renderOpts.passes, "passes", 1, "Progressive passes; values above 1 refine the image over several passes")
	f.Float64Var(&renderOpts.vfov, "vfov", 0, "Vertical field of view in degrees")
	f.Float64Var(&renderOpts.aperture, "aperture", 0, "Lens aperture diameter")
	f.Float64Var(&renderOpts.focus, "focus", 0, "Focus distance")
}

var cmdScenes = &cobra.Command{
	Use:   "scenes",
	Short: "List available scenes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listScenes(cmd.OutOrStdout(), scenesDir)
	},
}

// createScene resolves a built-in scene name, a .json path, or a file in
// the scenes directory
func createScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("scene name is required")
	}

	s, err := scene.Create(name)
	if err == nil {
		return s, nil
	}

	candidate := filepath.Join(scenesDir, name+".json")
	if _, statErr := os.Stat(candidate); statErr == nil {
		return scene.LoadFile(candidate)
	}
	return nil, err
}

// createOutputDir returns output/<scene>, using the file name for JSON scenes
func createOutputDir(sceneName string) string {
	base := strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	if base == "" || base == "." {
		base = "scene"
	}
	return filepath.Join("output", base)
}

// applyCameraFlags overrides the camera fields whose flags were given, zero included
func applyCameraFlags(config renderer.CameraConfig, opts renderOptions) renderer.CameraConfig {
	if opts.vfovSet {
		config.VFov = opts.vfov
	}
	if opts.apertureSet {
		config.Aperture = opts.aperture
	}
	if opts.focusSet {
		config.FocusDistance = opts.focus
	}
	return config
}

func runRender(ctx context.Context, opts renderOptions, out io.Writer) error {
	s, err := createScene(opts.scene)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}

	s.CameraConfig = applyCameraFlags(s.CameraConfig, opts)

	rt := s.NewRaytracer(renderer.SamplingConfig{
		Width:           opts.width,
		Height:          opts.height,
		SamplesPerPixel: opts.samples,
		MaxDepth:        opts.depth,
		NumWorkers:      opts.workers,
		Seed:            opts.seed,
	}, renderer.NewDefaultLogger())
	config := rt.Config()

	output := opts.output
	if output == "" {
		dir := createOutputDir(opts.scene)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		output = filepath.Join(dir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	}
	if _, err := imageio.FormatForPath(output); err != nil {
		return err
	}

	fmt.Fprintf(out, "Rendering %s (%d objects) at %dx%d, %d samples/pixel, %d workers\n",
		s.Name, s.GetPrimitiveCount(), config.Width, config.Height, config.SamplesPerPixel, rt.NumWorkers())

	startTime := time.Now()
	frame, stats, err := render(ctx, rt, opts.passes, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Render completed in %v\n", time.Since(startTime))
	fmt.Fprintf(out, "Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
	fmt.Fprintf(out, "Average luminance: %.3f\n", renderer.CalculateAverageLuminance(frame.Image()))

	if err := imageio.WriteFile(output, frame); err != nil {
		return err
	}
	fmt.Fprintf(out, "Render saved as %s\n", output)
	return nil
}

func render(ctx context.Context, rt *renderer.Raytracer, passes int, out io.Writer) (*renderer.Frame, renderer.RenderStats, error) {
	if passes <= 1 {
		return rt.Render(ctx)
	}

	progressive := renderer.NewProgressiveRaytracer(rt, renderer.ProgressiveConfig{
		InitialSamples:     1,
		MaxSamplesPerPixel: rt.Config().SamplesPerPixel,
		MaxPasses:          passes,
	}, renderer.NewDefaultLogger())

	passChan, errChan := progressive.RenderProgressive(ctx)

	var last renderer.PassResult
	for result := range passChan {
		fmt.Fprintf(out, "Pass %d: %.1f samples/pixel\n", result.PassNumber, result.Stats.AverageSamples)
		last = result
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, fmt.Errorf("failed to render progressively: %w", err)
	}
	if last.Frame == nil {
		return nil, renderer.RenderStats{}, fmt.Errorf("progressive render produced no passes")
	}
	return last.Frame, last.Stats, nil
}

func listScenes(out io.Writer, dir string) error {
	scenes, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tNAME\tDESCRIPTION")
	for _, info := range scenes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.ID, info.Type, info.Name, info.Description)
	}
	return tw.Flush()
}

func main() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	defer glog.Flush()

	cmdRoot.AddCommand(cmdRender, cmdScenes)

	if err := cmdRoot.Execute(); err != nil {
		glog.Flush()
		glog.Exitf("%v", err)
	}
}
