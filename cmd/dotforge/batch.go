package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/printlab/dotforge/internal/config"
	"github.com/printlab/dotforge/internal/imageio"
	"github.com/printlab/dotforge/internal/jobs"
	"github.com/printlab/dotforge/internal/logger"
)

// batchPlan is the YAML schema for a parameter sweep. Listed values
// combine with each other, so three thresholds and two cube sizes
// yield six models.
type batchPlan struct {
	Input      string    `yaml:"input"`
	OutputDir  string    `yaml:"output_dir"`
	Assess     bool      `yaml:"assess"`
	Thresholds []int     `yaml:"thresholds"`
	CubeSizes  []float64 `yaml:"cube_sizes"`
	Spacings   []float64 `yaml:"spacings"`
}

type batchItem struct {
	Name      string  `yaml:"name"`
	Threshold int     `yaml:"threshold"`
	CubeSize  float64 `yaml:"cube_size"`
	Spacing   float64 `yaml:"spacing"`
	Output    string  `yaml:"output,omitempty"`
	Vertices  int     `yaml:"vertices,omitempty"`
	Faces     int     `yaml:"faces,omitempty"`
	Score     int     `yaml:"score,omitempty"`
	Error     string  `yaml:"error,omitempty"`
}

type batchSummary struct {
	Input    string      `yaml:"input"`
	Failures int         `yaml:"failures"`
	Items    []batchItem `yaml:"items"`
}

func cmdBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	outDir := fs.String("o", "", "output directory (overrides the plan)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dotforge batch [options] <plan.yaml>")
		os.Exit(1)
	}
	planPath := fs.Arg(0)
	cfg := loadConfig(&flags)
	defer logger.Sync()

	data, err := os.ReadFile(planPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	var plan batchPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing plan: %v\n", err)
		os.Exit(1)
	}
	if plan.Input == "" {
		fmt.Fprintln(os.Stderr, "Plan is missing the input field")
		os.Exit(1)
	}
	if *outDir != "" {
		plan.OutputDir = *outDir
	}
	if plan.OutputDir == "" {
		plan.OutputDir = "."
	}

	isCSV := strings.EqualFold(filepath.Ext(plan.Input), ".csv")
	thresholds := plan.Thresholds
	if len(thresholds) == 0 || isCSV {
		if isCSV && len(plan.Thresholds) > 1 {
			fmt.Fprintln(os.Stderr, "CSV input skips thresholding; dropping the threshold axis")
		}
		thresholds = []int{cfg.Conversion.Threshold}
	}
	cubeSizes := plan.CubeSizes
	if len(cubeSizes) == 0 {
		cubeSizes = []float64{cfg.Model.CubeSize}
	}
	spacings := plan.Spacings
	if len(spacings) == 0 {
		spacings = []float64{cfg.Model.Spacing}
	}

	// Load the input once; every variant shares it.
	var csvText string
	var img image.Image
	if isCSV {
		text, err := os.ReadFile(plan.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		csvText = string(text)
	} else {
		loaded, err := imageio.Load(plan.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		img = loaded
	}

	base := strings.TrimSuffix(filepath.Base(plan.Input), filepath.Ext(plan.Input))
	var reqs []jobs.Request
	var meta []batchItem
	for _, t := range thresholds {
		for _, c := range cubeSizes {
			for _, s := range spacings {
				conv := cfg.Conversion
				conv.Threshold = t
				model := cfg.Model
				model.CubeSize = c
				model.Spacing = s

				name := variantName(isCSV, t, c, s)
				reqs = append(reqs, jobs.Request{
					ID:            name,
					Kind:          jobs.KindPipeline,
					Image:         img,
					CSV:           csvText,
					Conversion:    conv,
					Model:         model,
					Quality:       cfg.Quality,
					AssessQuality: plan.Assess,
					ExportOBJ:     true,
				})
				meta = append(meta, batchItem{
					Name:      name,
					Threshold: t,
					CubeSize:  c,
					Spacing:   s,
				})
			}
		}
	}

	if err := os.MkdirAll(plan.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coord := jobs.NewCoordinator(jobs.Options{
		MaxConcurrent: cfg.Jobs.MaxConcurrent,
		Logger:        logger.Named("batch"),
	})
	defer coord.Shutdown()

	fmt.Printf("Running %d variants of %s\n", len(reqs), plan.Input)
	results := coord.RunBatch(ctx, reqs, cfg.Jobs.BatchSize)

	summary := batchSummary{Input: plan.Input, Items: meta}
	for i, item := range results {
		entry := &summary.Items[i]
		if item.Err != nil {
			entry.Error = item.Err.Error()
			summary.Failures++
			fmt.Printf("  FAIL %-24s %v\n", entry.Name, item.Err)
			continue
		}
		res := item.Result
		entry.Vertices = res.Stats.VertexCount
		entry.Faces = res.Stats.FaceCount
		if res.Report != nil {
			entry.Score = res.Report.OverallScore
		}
		if res.OBJ == nil {
			fmt.Printf("  skip %-24s empty mesh\n", entry.Name)
			continue
		}
		outPath := filepath.Join(plan.OutputDir, base+"-"+entry.Name+".obj")
		if err := os.WriteFile(outPath, res.OBJ, 0644); err != nil {
			entry.Error = err.Error()
			summary.Failures++
			fmt.Printf("  FAIL %-24s %v\n", entry.Name, err)
			continue
		}
		entry.Output = outPath
		if res.Report != nil {
			fmt.Printf("  ok   %-24s %d faces, score %d\n", entry.Name, entry.Faces, entry.Score)
		} else {
			fmt.Printf("  ok   %-24s %d faces\n", entry.Name, entry.Faces)
		}
	}

	summaryPath := filepath.Join(plan.OutputDir, "summary.yaml")
	out, err := yaml.Marshal(summary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(summaryPath, out, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing summary: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Summary: %s (%d ok, %d failed)\n",
		summaryPath, len(results)-summary.Failures, summary.Failures)

	if summary.Failures > 0 {
		os.Exit(1)
	}
}

// variantName builds the per-variant id used for filenames and the
// summary. CSV inputs have no threshold axis.
func variantName(csv bool, t int, c, s float64) string {
	if csv {
		return fmt.Sprintf("c%g-s%g", c, s)
	}
	return fmt.Sprintf("t%d-c%g-s%g", t, c, s)
}
