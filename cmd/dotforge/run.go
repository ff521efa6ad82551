package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/printlab/dotforge/internal/config"
	"github.com/printlab/dotforge/internal/imageio"
	"github.com/printlab/dotforge/internal/jobs"
	"github.com/printlab/dotforge/internal/logger"
	"github.com/printlab/dotforge/pkg/mesh"
	"github.com/printlab/dotforge/pkg/pattern"
	"github.com/printlab/dotforge/pkg/quality"
	"github.com/printlab/dotforge/pkg/raster"
)

// loadConfig layers the parsed flag overrides onto the configuration
// and starts the logger. Commands call it once, right after fs.Parse.
func loadConfig(flags *config.Flags) *config.Config {
	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// buildRequest assembles a pipeline request from an input path. CSV
// inputs skip the raster stage; anything else is decoded as an image.
func buildRequest(input string, cfg *config.Config) (jobs.Request, error) {
	req := jobs.Request{
		Kind:       jobs.KindPipeline,
		Conversion: cfg.Conversion,
		Model:      cfg.Model,
		Quality:    cfg.Quality,
	}
	if strings.EqualFold(filepath.Ext(input), ".csv") {
		text, err := os.ReadFile(input)
		if err != nil {
			return jobs.Request{}, err
		}
		req.CSV = string(text)
		return req, nil
	}
	img, err := imageio.Load(input)
	if err != nil {
		return jobs.Request{}, err
	}
	req.Image = img
	return req, nil
}

// runPipeline pushes one request through a coordinator and waits,
// printing progress to stderr.
func runPipeline(cfg *config.Config, req jobs.Request) (*jobs.Result, error) {
	coord := jobs.NewCoordinator(jobs.Options{
		MaxConcurrent: cfg.Jobs.MaxConcurrent,
		Logger:        logger.Named("jobs"),
		OnProgress: func(id string, pct int) {
			fmt.Fprintf(os.Stderr, "\rworking %3d%%", pct)
		},
	})
	defer coord.Shutdown()

	job, err := coord.Submit(context.Background(), req)
	if err != nil {
		return nil, err
	}
	res, err := job.Wait(context.Background())
	fmt.Fprintln(os.Stderr)
	return res, err
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	out := fs.String("o", "", "output OBJ path (default: input name with .obj)")
	pngOut := fs.String("png", "", "also write a pattern preview PNG")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dotforge convert [options] <input>")
		os.Exit(1)
	}
	input := fs.Arg(0)
	cfg := loadConfig(&flags)
	defer logger.Sync()

	req, err := buildRequest(input, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	req.ExportOBJ = true

	res, err := runPipeline(cfg, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if res.OBJ == nil {
		fmt.Fprintln(os.Stderr, "Pattern has no active cells; nothing to export")
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = replaceExt(input, ".obj")
	}
	if err := os.WriteFile(outPath, res.OBJ, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pattern: %dx%d, %d active cells\n",
		res.Pattern.Width(), res.Pattern.Height(), res.Pattern.Count())
	fmt.Printf("Mesh:    %d vertices, %d faces\n",
		res.Stats.VertexCount, res.Stats.FaceCount)
	fmt.Printf("Output:  %s (%d bytes)\n", outPath, len(res.OBJ))

	if *pngOut != "" {
		if err := imageio.SavePNG(*pngOut, imageio.PatternImage(res.Pattern, 8)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing preview: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Preview: %s\n", *pngOut)
	}
}

func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dotforge analyze [options] <input>")
		os.Exit(1)
	}
	input := fs.Arg(0)
	cfg := loadConfig(&flags)
	defer logger.Sync()

	req, err := buildRequest(input, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	req.AssessQuality = true

	res, err := runPipeline(cfg, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if res.Report == nil {
		fmt.Fprintln(os.Stderr, "Pattern has no active cells; nothing to assess")
		os.Exit(1)
	}

	fmt.Printf("Input: %s (%dx%d, %d active cells)\n\n",
		input, res.Pattern.Width(), res.Pattern.Height(), res.Pattern.Count())
	printReport(res.Report)
}

func printReport(rep *quality.Report) {
	g := rep.Geometry
	p := rep.Printability

	fmt.Printf("Overall score: %d/100\n\n", rep.OverallScore)

	fmt.Printf("Geometry: %d/100\n", g.Score)
	fmt.Printf("  manifold edges:     %d of %d\n", g.ManifoldEdges, g.TotalEdges)
	fmt.Printf("  duplicate vertices: %d\n", g.DuplicateVertices)
	if g.SelfIntersections.Evaluated {
		fmt.Printf("  self-intersections: %d (%d pairs checked)\n",
			g.SelfIntersections.Count, g.SelfIntersections.CheckedPairs)
	} else {
		fmt.Println("  self-intersections: skipped (mesh too large)")
	}

	fmt.Printf("Printability: %d/100\n", p.Score)
	fmt.Printf("  overhang faces:     %d (%.1f%% of surface)\n",
		len(p.Overhangs), p.OverhangAreaPct)
	fmt.Printf("  wall estimate:      %.2f (minimum %.2f)\n",
		p.Wall.Estimated, p.Wall.Minimum)

	if len(rep.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range rep.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
	if len(rep.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range rep.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}

func cmdStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dotforge stats [options] <input>")
		os.Exit(1)
	}
	input := fs.Arg(0)
	cfg := loadConfig(&flags)
	defer logger.Sync()

	p, err := loadPattern(input, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	m, err := mesh.Generate(p, cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st := m.Stats()
	size := st.Bounds.Size()
	fmt.Printf("Pattern:  %dx%d, %d active cells\n", p.Width(), p.Height(), p.Count())
	fmt.Printf("Vertices: %d\n", st.VertexCount)
	fmt.Printf("Faces:    %d\n", st.FaceCount)
	fmt.Printf("Edges:    %d\n", st.EdgeCount)
	if !st.Bounds.IsEmpty() {
		fmt.Printf("Bounds:   %.2f x %.2f x %.2f\n", size.X, size.Y, size.Z)
	}
	fmt.Printf("Surface:  %.2f\n", st.SurfaceArea)
	fmt.Printf("Volume:   %.2f\n", st.Volume)
	fmt.Printf("Memory:   %.1f KB\n", float64(st.MemoryBytes)/1024)
}

// loadPattern reads input as a CSV grid or a raster image depending on
// its extension.
func loadPattern(input string, cfg *config.Config) (*pattern.Pattern, error) {
	if strings.EqualFold(filepath.Ext(input), ".csv") {
		text, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		return pattern.ParseCSV(string(text))
	}
	img, err := imageio.Load(input)
	if err != nil {
		return nil, err
	}
	return raster.Convert(img, cfg.Conversion)
}

func cmdCSV(args []string) {
	fs := flag.NewFlagSet("csv", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	out := fs.String("o", "", "output CSV path (default: stdout)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dotforge csv [options] <image>")
		os.Exit(1)
	}
	input := fs.Arg(0)
	cfg := loadConfig(&flags)
	defer logger.Sync()

	p, err := loadPattern(input, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	text := pattern.ExportCSV(p)
	if *out == "" {
		fmt.Print(text)
	} else {
		if err := os.WriteFile(*out, []byte(text), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *out)
	}
	fmt.Fprintf(os.Stderr, "%dx%d, %d active cells\n", p.Width(), p.Height(), p.Count())
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	initFile := fs.Bool("init", false, "write the default config to the user config directory")
	fs.Parse(args)

	if *initFile {
		cfg := config.Default()
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "dotforge.yaml"))
		return
	}

	cfg, err := config.Load(&flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
