// Package pool fans batch image analysis out across a fixed set of workers
// and collects the per-map result rows.
package pool

import (
	"encoding/csv"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"seed-analyser/internal/analyser"
	"seed-analyser/internal/tiles"
)

// AnalyserFunc inspects one analysed map and returns its result row. A nil
// row discards the map from the output.
type AnalyserFunc func(a *tiles.Analyser) ([]string, error)

// Failure records one image that could not be analysed. Failures never abort
// the batch; they are collected alongside the results.
type Failure struct {
	Seed string
	Path string
	Err  error
}

type task struct {
	path string
	seed string
}

// Pool queues preview images and analyses them concurrently. Images are
// independent, so no ordering is guaranteed between completed results.
type Pool struct {
	workers       int
	tilesPerPixel int
	palette       []analyser.ResourceColor

	tasks []task

	mu       sync.Mutex
	rows     [][]string
	failures []Failure
}

// New creates a pool. A workers value of 0 or less means one worker per CPU.
func New(workers, tilesPerPixel int, palette []analyser.ResourceColor) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		workers:       workers,
		tilesPerPixel: tilesPerPixel,
		palette:       palette,
	}
}

// AddFolder queues every file in folder with the given extension. The file
// stem becomes the map seed. Files are queued in sorted order so repeated
// runs see the same batch.
func (p *Pool) AddFolder(folder, ext string) error {
	paths, err := filepath.Glob(filepath.Join(folder, "*"+ext))
	if err != nil {
		return fmt.Errorf("scan %s: %w", folder, err)
	}
	sort.Strings(paths)
	for _, path := range paths {
		seed := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		p.tasks = append(p.tasks, task{path: path, seed: seed})
	}
	return nil
}

// TaskCount returns the number of queued images.
func (p *Pool) TaskCount() int {
	return len(p.tasks)
}

// Analyse runs fn over every queued image, fanning out across the worker
// set. A failing image is logged and recorded but never stops the batch.
func (p *Pool) Analyse(fn AnalyserFunc) {
	jobs := make(chan task)
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				row, err := p.analyseOne(t, fn)
				p.mu.Lock()
				switch {
				case err != nil:
					p.failures = append(p.failures, Failure{Seed: t.seed, Path: t.path, Err: err})
					log.Printf("analyse %s: %v", t.seed, err)
				case row != nil:
					p.rows = append(p.rows, row)
				}
				p.mu.Unlock()
			}
		}()
	}
	for _, t := range p.tasks {
		jobs <- t
	}
	close(jobs)
	wg.Wait()
}

func (p *Pool) analyseOne(t task, fn AnalyserFunc) (row []string, err error) {
	// a panic in the analysis of one image must not take down the batch
	defer func() {
		if r := recover(); r != nil {
			row, err = nil, fmt.Errorf("analyse %s: panic: %v", t.path, r)
		}
	}()

	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.path, err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", t.path, err)
	}

	mat := analyser.MatFromImage(img)
	defer mat.Close()

	ma, err := analyser.NewMapAnalyser(mat, t.seed, p.palette)
	if err != nil {
		return nil, err
	}
	defer ma.Close()

	view, err := tiles.NewAnalyser(ma, p.tilesPerPixel)
	if err != nil {
		return nil, err
	}
	return fn(view)
}

// Results returns the collected rows. The order is arbitrary.
func (p *Pool) Results() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]string, len(p.rows))
	copy(out, p.rows)
	return out
}

// Failures returns the images that could not be analysed.
func (p *Pool) Failures() []Failure {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Failure, len(p.failures))
	copy(out, p.failures)
	return out
}

// SaveCSV writes all collected rows to a CSV file.
func (p *Pool) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(p.Results()); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
