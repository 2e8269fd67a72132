package cli

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	_ "github.com/deepteams/webp"

	"github.com/cwbudde/primify/internal/export"
	"github.com/cwbudde/primify/internal/jobsvc"
	"github.com/cwbudde/primify/internal/model"
	"github.com/cwbudde/primify/internal/raster"
	"github.com/cwbudde/primify/internal/shape"
	"github.com/spf13/cobra"
)

var (
	runRefPath      string
	runOutPath      string
	runFormat       string
	runKinds        string
	runAlpha        int
	runShapeCount   int
	runMaxMutations int
	runMaxThreads   int
	runSeed         int64
	runSteps        int
	runConvergence  bool
	runPatience     int
	runThreshold    float64
	runCPUProfile   string
	runMemProfile   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run single-shot local approximation",
	Long:  `Approximates a reference image with translucent shapes and writes the result in the requested format.`,
	RunE:  runApproximation,
}

func init() {
	runCmd.Flags().StringVar(&runRefPath, "ref", "", "Reference image path (required)")
	runCmd.Flags().StringVar(&runOutPath, "out", "out.png", "Output path")
	runCmd.Flags().StringVar(&runFormat, "format", "png", "Output format: png, svg, json, bmp")
	runCmd.Flags().StringVar(&runKinds, "kinds", "all", "Comma-separated shape kinds, or \"all\"")
	runCmd.Flags().IntVar(&runAlpha, "alpha", 128, "Shape alpha (0-255)")
	runCmd.Flags().IntVar(&runShapeCount, "shapes", 50, "Number of candidate shapes per step")
	runCmd.Flags().IntVar(&runMaxMutations, "max-mutations", 100, "Max mutations per hill climb")
	runCmd.Flags().IntVar(&runMaxThreads, "max-threads", 0, "Worker goroutines (0 = NumCPU)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Random seed")
	runCmd.Flags().IntVar(&runSteps, "steps", 100, "Number of shapes to commit (0 = unbounded, requires convergence)")

	runCmd.Flags().BoolVar(&runConvergence, "convergence", true, "Enable convergence-based early stopping")
	runCmd.Flags().IntVar(&runPatience, "patience", 50, "Steps with no significant improvement before stopping")
	runCmd.Flags().Float64Var(&runThreshold, "threshold", 0.0005, "Minimum relative improvement to count as progress")

	runCmd.Flags().StringVar(&runCPUProfile, "cpuprofile", "", "Write CPU profile to file")
	runCmd.Flags().StringVar(&runMemProfile, "memprofile", "", "Write memory profile to file")

	runCmd.MarkFlagRequired("ref")
	Root.AddCommand(runCmd)
}

func parseKinds(spec string) ([]shape.Kind, error) {
	if spec == "all" || spec == "" {
		return shape.AllKinds, nil
	}
	byName := make(map[string]shape.Kind, len(shape.AllKinds))
	for _, k := range shape.AllKinds {
		byName[k.String()] = k
	}
	parts := strings.Split(spec, ",")
	kinds := make([]shape.Kind, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		k, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown shape kind %q", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func loadTarget(path string) (*raster.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	b := raster.NewBitmap(w, h, raster.RGBA{})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			b.SetPixel(x, y, raster.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return b, nil
}

func writeOutput(path, format string, target *raster.Bitmap, results []model.ShapeResult, current *raster.Bitmap) error {
	switch format {
	case "png":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		img := image.NewNRGBA(image.Rect(0, 0, current.Width, current.Height))
		for y := 0; y < current.Height; y++ {
			for x := 0; x < current.Width; x++ {
				c := current.Pixel(x, y)
				img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
			}
		}
		return png.Encode(f, img)
	case "svg":
		return os.WriteFile(path, []byte(export.SVG(target.Width, target.Height, results)), 0o644)
	case "json":
		data, err := json.Marshal(export.ShapeArray(results))
		if err != nil {
			return fmt.Errorf("failed to marshal shape array: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	case "bmp":
		return os.WriteFile(path, export.BMP(current), 0o644)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func runApproximation(cmd *cobra.Command, args []string) error {
	if runCPUProfile != "" {
		f, err := os.Create(runCPUProfile)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		slog.Info("CPU profiling enabled", "output", runCPUProfile)
	}

	kinds, err := parseKinds(runKinds)
	if err != nil {
		return err
	}
	if runAlpha < 0 || runAlpha > 255 {
		return fmt.Errorf("alpha must be in [0, 255], got %d", runAlpha)
	}

	slog.Info("starting approximation", "ref", runRefPath, "shapes_per_step", runShapeCount, "steps", runSteps)

	target, err := loadTarget(runRefPath)
	if err != nil {
		return err
	}
	slog.Info("loaded reference", "width", target.Width, "height", target.Height)

	m := model.New(target)
	m.SetSeed(uint32(runSeed))

	convergence := jobsvc.DisabledConvergenceConfig()
	if runConvergence {
		convergence = jobsvc.ConvergenceConfig{Enabled: true, Patience: runPatience, Threshold: runThreshold}
	}
	tracker := jobsvc.NewConvergenceTracker(convergence)

	start := time.Now()
	var results []model.ShapeResult
	for runSteps == 0 || len(results) < runSteps {
		stepResults := m.Step(kinds, uint8(runAlpha), runShapeCount, runMaxMutations, runMaxThreads)
		if len(stepResults) == 0 {
			break
		}
		results = append(results, stepResults...)
		if tracker.Update(stepResults[0].Score) {
			slog.Info("convergence detected", "shapes", len(results), "score", stepResults[0].Score)
			break
		}
	}
	elapsed := time.Since(start)

	if err := writeOutput(runOutPath, runFormat, target, results, m.Current()); err != nil {
		return err
	}

	sps := float64(len(results)) / elapsed.Seconds()
	slog.Info("approximation complete",
		"elapsed", elapsed,
		"shapes_committed", len(results),
		"final_score", m.Score(),
		"shapes_per_second", fmt.Sprintf("%.1f", sps),
	)
	fmt.Printf("Wrote %s (%d shapes, score %.6f, %.1f shapes/sec)\n", runOutPath, len(results), m.Score(), sps)

	if runMemProfile != "" {
		f, err := os.Create(runMemProfile)
		if err != nil {
			return fmt.Errorf("failed to create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
		slog.Info("memory profile written", "output", runMemProfile)
	}

	return nil
}
