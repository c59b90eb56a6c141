package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subdiv-refiner/internal/batch"
	"subdiv-refiner/internal/config"
	"subdiv-refiner/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "Path to config.yaml file")
	inputDir := flag.String("input", "", "Directory of OBJ control meshes")
	outputDir := flag.String("output", "", "Output directory (default: <input>/refined)")
	maxLevel := flag.Int("level", 0, "Maximum refinement level (default: 2)")
	targetLevel := flag.Int("target", 0, "Level to extract quads/UVs from (default: 1)")
	adaptive := flag.Bool("adaptive", false, "Adaptive refinement (patch counts only, no quad extraction)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	format := flag.String("format", "", "Atlas image format: webp or tga (default: webp)")
	noAtlas := flag.Bool("no-atlas", false, "Skip UV atlas rendering")
	testN := flag.Int("test", 0, "Refine only first N meshes for testing")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg.Resolve(config.Flags{
		InputDir:    *inputDir,
		OutputDir:   *outputDir,
		MaxLevel:    *maxLevel,
		TargetLevel: *targetLevel,
		Adaptive:    *adaptive,
		Workers:     *workers,
		Format:      *format,
	})
	if cfg.InputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: no input directory. Use -input flag or config.yaml.")
		os.Exit(1)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.InputDir, "refined")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFile)
	defer logger.Sync()

	files := collectMeshes(cfg.InputDir)
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}
	if len(files) == 0 {
		logger.Sugar.Warnf("no OBJ meshes under %s", cfg.InputDir)
		os.Exit(0)
	}

	mode := "uniform"
	if cfg.Adaptive {
		mode = "adaptive"
	}
	logger.Sugar.Infof("refining %d meshes, mode=%s maxLevel=%d target=%d workers=%d",
		len(files), mode, cfg.MaxLevel, cfg.TargetLevel, cfg.Workers)
	logger.Sugar.Infof("output: %s", cfg.OutputDir)

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir:   cfg.OutputDir,
		MaxLevel:    cfg.MaxLevel,
		TargetLevel: cfg.TargetLevel,
		Adaptive:    cfg.Adaptive,
		AtlasSize:   cfg.AtlasSize,
		Supersample: cfg.Supersample,
		Format:      cfg.Format,
		Workers:     cfg.Workers,
		SkipAtlas:   *noAtlas,
	}, files)

	logger.Sugar.Infof("done in %.1fs", time.Since(start).Seconds())

	success, failed := 0, 0
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			logger.Sugar.Errorf("%s: %s", r.Name, r.Error)
		}
	}
	logger.Sugar.Infof("refined %d/%d", success, len(files))

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		logger.Sugar.Warnf("manifest write failed: %v", err)
	} else {
		logger.Sugar.Infof("manifest: %s", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func collectMeshes(dir string) []string {
	var files []string
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".obj") &&
			!strings.HasSuffix(path, ".refined.obj") {
			files = append(files, path)
		}
		return nil
	})
	return files
}
