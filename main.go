package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Scene type: "+strings.Join(scene.Names(), ", "))
	width := flag.Int("width", 0, "Image width in pixels (0 = scene default)")
	samples := flag.Int("spp", 0, "Samples per pixel (0 = scene default)")
	depth := flag.Int("depth", 0, "Maximum ray bounce depth (0 = scene default)")
	passes := flag.Int("passes", 7, "Number of progressive passes")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect)")
	seed := flag.Int64("seed", 0, "Random seed for BVH construction and sampling (0 = scene default)")
	outPath := flag.String("out", "", "Output file, .png or .ppm (default output/<scene>/render_<timestamp>.png)")
	single := flag.Bool("single", false, "Use the single-threaded reference renderer")
	annotate := flag.Bool("annotate", false, "Draw render statistics onto PNG output")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Path Tracer")
		fmt.Println("Usage: pathtracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.ListAllScenes() {
			fmt.Printf("  %-18s - %s\n", info.ID, info.Description)
		}
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene_type>/render_<timestamp>.png")
		return
	}

	fmt.Println("Starting Path Tracer...")
	printSystemInfo()

	selectedScene, err := createScene(*sceneType, *width, *seed)
	if err != nil {
		fmt.Printf("Error creating scene: %v\n", err)
		os.Exit(1)
	}
	if *samples > 0 {
		selectedScene.SamplingConfig.SamplesPerPixel = *samples
	}
	if *depth > 0 {
		selectedScene.SamplingConfig.MaxDepth = *depth
	}

	fmt.Printf("Using %s scene (%d primitives, %dx%d)...\n", selectedScene.Name,
		selectedScene.GetPrimitiveCount(), selectedScene.Camera.Width(), selectedScene.Camera.Height())
	fmt.Println(bvhSummary(selectedScene.BVH.Stats()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Render
	startTime := time.Now()
	var result renderer.PassResult
	if *single {
		raytracer := renderer.NewRaytracer(selectedScene, nil)
		img, stats := raytracer.RenderPass()
		result = renderer.PassResult{PassNumber: 1, Image: img, Stats: stats, IsLast: true}
	} else {
		result, err = renderProgressive(ctx, selectedScene, *passes, *workers)
		if err != nil {
			fmt.Printf("Error rendering: %v\n", err)
			os.Exit(1)
		}
	}
	renderTime := time.Since(startTime)

	fmt.Printf("Render completed in %v\n", renderTime)
	fmt.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		result.Stats.AverageSamples, result.Stats.MinSamples, result.Stats.MaxSamplesUsed)

	filename := *outPath
	if filename == "" {
		// Create timestamped filename
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join("output", *sceneType, fmt.Sprintf("render_%s.png", timestamp))
	}

	caption := ""
	if *annotate {
		caption = renderCaption(selectedScene, result, renderTime)
	}

	if err := output.Save(filename, result.Image, caption); err != nil {
		fmt.Printf("Error saving image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// createScene builds a registered scene, applying a width override and a seed override
func createScene(sceneType string, width int, seed int64) (*scene.Scene, error) {
	return scene.CreateWithSeed(sceneType, seed, geometry.CameraConfig{Width: width})
}

// renderProgressive runs the parallel progressive renderer and returns its final pass
func renderProgressive(ctx context.Context, s *scene.Scene, passes, workers int) (renderer.PassResult, error) {
	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	config.MaxPasses = passes
	config.NumWorkers = workers

	raytracer, err := renderer.NewProgressiveRaytracer(s, config, nil, renderer.NewDefaultLogger())
	if err != nil {
		return renderer.PassResult{}, err
	}

	return raytracer.Render(ctx, nil)
}

// bvhSummary describes the acceleration structure built for the scene
func bvhSummary(stats geometry.BVHStats) string {
	return fmt.Sprintf("BVH: %d nodes, %d leaves, max depth %d, average leaf depth %.1f",
		stats.TotalNodes, stats.Leaves, stats.MaxDepth, stats.AvgDepth)
}

// renderCaption summarizes a finished render in one line
func renderCaption(s *scene.Scene, result renderer.PassResult, elapsed time.Duration) string {
	return fmt.Sprintf("%s | %.0f spp | depth %d | %d primitives | %v",
		s.Name, result.Stats.AverageSamples, s.SamplingConfig.MaxDepth,
		s.GetPrimitiveCount(), elapsed.Round(time.Millisecond))
}

// printSystemInfo reports the host CPU and memory; failures are reported and ignored
func printSystemInfo() {
	cpuInfo, err := cpu.Info()
	if err != nil || len(cpuInfo) == 0 {
		fmt.Printf("CPU information unavailable: %v\n", err)
	} else {
		fmt.Printf("CPU: %s (%d logical cores)\n", cpuInfo[0].ModelName, renderer.DefaultWorkerCount())
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		fmt.Printf("Memory information unavailable: %v\n", err)
		return
	}
	fmt.Printf("Memory: %.1f GB total\n", float64(memInfo.Total)/(1024*1024*1024))
}
