// Command seedanalyse batch-analyses Factorio map preview images and writes
// a CSV report with one row per map.
package main

import (
	"flag"
	"fmt"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"seed-analyser/internal/analyser"
	"seed-analyser/internal/config"
	"seed-analyser/internal/pool"
	"seed-analyser/internal/tiles"
	"seed-analyser/internal/version"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var (
	flagFolder   = flag.String("p", "images", "Path to the folder of preview images")
	flagExt      = flag.String("ft", ".png", "Extension of the image files to process")
	flagTPP      = flag.Int("tpp", 0, "Tiles per pixel (overrides the config)")
	flagCSV      = flag.String("cp", "results.csv", "Path of the CSV report")
	flagConfig   = flag.String("c", "", "Path to a JSON config file")
	flagWorkers  = flag.Int("j", 0, "Number of parallel workers (0 = one per CPU)")
	flagDebugDir = flag.String("debug-dir", "", "Write patch overlay PNGs to this directory")
	flagVersion  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	flag.Parse()

	if *flagVersion {
		fmt.Printf("seedanalyse %s (%s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	}

	cfg := config.Default()
	if *flagConfig != "" {
		var err error
		if cfg, err = config.Load(*flagConfig); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if *flagTPP > 0 {
		cfg.TilesPerPixel = *flagTPP
	}
	if *flagWorkers > 0 {
		cfg.Workers = *flagWorkers
	}
	palette, err := cfg.Palette()
	if err != nil {
		log.Fatalf("resolve palette: %v", err)
	}
	if *flagDebugDir != "" {
		if err := os.MkdirAll(*flagDebugDir, 0o755); err != nil {
			log.Fatalf("create debug dir: %v", err)
		}
	}

	p := pool.New(cfg.Workers, cfg.TilesPerPixel, palette)
	if err := p.AddFolder(*flagFolder, *flagExt); err != nil {
		log.Fatalf("%v", err)
	}
	if p.TaskCount() == 0 {
		log.Fatalf("no %s images found in %s", *flagExt, *flagFolder)
	}
	log.Printf("analysing %d images with %d tiles per pixel", p.TaskCount(), cfg.TilesPerPixel)

	rep := reporter{minPatchSize: cfg.MinPatchReportSize, debugDir: *flagDebugDir}
	p.Analyse(rep.row)

	if failures := p.Failures(); len(failures) > 0 {
		log.Printf("%d of %d images failed", len(failures), p.TaskCount())
	}
	if err := p.SaveCSV(*flagCSV); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("wrote %d rows to %s", len(p.Results()), *flagCSV)
}

// reporter builds one CSV row per analysed map. It carries the run settings
// so the analysis function passed to the pool is self-contained.
type reporter struct {
	minPatchSize int
	debugDir     string
}

// row reports seed, largest patch type, size and center, per-resource
// totals, and the longest corridor of the first configured resource. Maps
// without any patch, or whose largest patch falls under the configured
// minimum, are discarded.
func (rep reporter) row(a *tiles.Analyser) ([]string, error) {
	largest := tiles.LargestBySize(a.Patches()[analyser.AllResources])
	if largest == nil || largest.Size() < rep.minPatchSize {
		return nil, nil
	}
	center, err := largest.CenterPoint()
	if err != nil {
		return nil, err
	}

	row := []string{
		a.MapSeed(),
		largest.ResourceType(),
		strconv.Itoa(largest.Size()),
		fmt.Sprintf("%.2f", center.X),
		fmt.Sprintf("%.2f", center.Y),
	}
	for _, resource := range a.ResourceTypes() {
		total, err := a.CountResourcesInRegion(resource, a.MinX(), a.MinY(), a.MaxX(), a.MaxY())
		if err != nil {
			return nil, err
		}
		row = append(row, strconv.Itoa(total))
	}

	// default corridor probe: one pixel of thickness, no tolerance
	resource := a.ResourceTypes()[0]
	length, _, ok, err := a.LongestCorridor(resource, a.Transform().TilesPerPixel, 0)
	if err != nil {
		return nil, err
	}
	if !ok {
		length = 0
	}
	row = append(row, strconv.Itoa(length))

	if rep.debugDir != "" {
		if err := rep.writeOverlay(a); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// writeOverlay renders the patch contours of one map to a debug PNG.
func (rep reporter) writeOverlay(a *tiles.Analyser) error {
	img := analyser.RenderOverlay(a.Pixel(), analyser.DefaultOverlayOptions())
	path := filepath.Join(rep.debugDir, a.MapSeed()+".png")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write overlay %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("write overlay %s: %w", path, err)
	}
	return f.Close()
}
