package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"subdiv-refiner/internal/atlas"
	"subdiv-refiner/internal/logger"
	"subdiv-refiner/internal/refiner"
	"subdiv-refiner/internal/wavefront"
)

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir   string
	MaxLevel    int
	TargetLevel int
	Adaptive    bool
	AtlasSize   int
	Supersample int
	Format      string // webp or tga
	Workers     int
	SkipAtlas   bool
}

// Result holds the outcome of refining one mesh.
type Result struct {
	Name    string
	Source  string
	Verts   int
	Quads   int
	Patches int
	OBJ     string
	Atlas   string
	Success bool
	Error   string
}

// Run refines all meshes using a worker pool.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					logger.Sugar.Infof("[%d/%d] %.1f meshes/sec", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processMesh(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

func processMesh(cfg Config, path string) Result {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	res := Result{Name: name, Source: path}

	topo, positions, err := wavefront.Parse(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	r := refiner.New(refiner.Options{
		MaxLevel:    cfg.MaxLevel,
		Adaptive:    cfg.Adaptive,
		TargetLevel: cfg.TargetLevel,
	})
	if err := r.Initialize(topo, positions); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Verts = r.NumRefinedVerts()

	if r.Mode() == refiner.ModeAdaptive {
		// Quad and UV extraction are uniform-only; adaptive runs report
		// patch counts and stop here.
		res.Patches = r.NumPatches()
		res.Success = true
		return res
	}
	res.Quads = r.NumUniformQuads()

	quads, err := r.GetRefinedQuads()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	rects, faces, err := r.GetRefinedPtexUVs()
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	objPath := filepath.Join(cfg.OutputDir, name+".refined.obj")
	level := r.Hierarchy().LevelPositions(r.Level())
	if err := wavefront.WriteQuads(objPath, level, quads); err != nil {
		res.Error = err.Error()
		return res
	}
	res.OBJ = objPath

	if !cfg.SkipAtlas {
		img, err := atlas.Render(r.Hierarchy().PtexFaces, rects, faces, atlas.Options{
			Size:        cfg.AtlasSize,
			Supersample: cfg.Supersample,
			DrawGrid:    true,
		})
		if err != nil {
			res.Error = fmt.Sprintf("atlas render: %v", err)
			return res
		}
		atlasPath := filepath.Join(cfg.OutputDir, name+".atlas."+cfg.Format)
		if err := atlas.WriteImage(atlasPath, cfg.Format, img); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Atlas = atlasPath
	}

	res.Success = true
	return res
}
