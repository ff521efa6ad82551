package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/printlab/dotforge/internal/config"
	"github.com/printlab/dotforge/internal/jobs"
	"github.com/printlab/dotforge/internal/logger"
)

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	out := fs.String("o", "", "output OBJ path (default: input name with .obj)")
	debounce := fs.Duration("debounce", 300*time.Millisecond, "delay before rebuilding after a change")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dotforge watch [options] <input>")
		os.Exit(1)
	}
	input := fs.Arg(0)
	cfg := loadConfig(&flags)
	defer logger.Sync()

	outPath := *out
	if outPath == "" {
		outPath = replaceExt(input, ".obj")
	}

	absInput, err := filepath.Abs(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	// Watch the parent directory. Editors typically replace files by
	// rename, which kills a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(absInput)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	coord := jobs.NewCoordinator(jobs.Options{
		MaxConcurrent: 1,
		Logger:        logger.Named("watch"),
	})
	defer coord.Shutdown()

	rebuild(ctx, coord, cfg, input, outPath)
	fmt.Printf("Watching %s (Ctrl-C to stop)\n", input)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nStopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != absInput {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(*debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(*debounce)
			}

		case <-fire:
			rebuild(ctx, coord, cfg, input, outPath)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

// rebuild runs one pipeline pass and writes the result. Failures are
// printed and swallowed; the watch loop keeps going.
func rebuild(ctx context.Context, coord *jobs.Coordinator, cfg *config.Config, input, outPath string) {
	req, err := buildRequest(input, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	req.ExportOBJ = true

	job, err := coord.Submit(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	res, err := job.Wait(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
		return
	}
	if res.OBJ == nil {
		fmt.Fprintln(os.Stderr, "Pattern has no active cells; skipped export")
		return
	}
	if err := os.WriteFile(outPath, res.OBJ, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		return
	}
	fmt.Printf("%s  %d faces -> %s\n",
		time.Now().Format("15:04:05"), res.Stats.FaceCount, outPath)
}
