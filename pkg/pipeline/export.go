package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/render/raster"
	"github.com/matzehuels/canopy/pkg/symbol"
)

// ManifestName is the pack manifest written beside the exported files.
const ManifestName = "manifest.json"

// FileResult is the outcome of writing one exported file.
type FileResult struct {
	Name   string     `json:"name"`
	Cell   symbol.Key `json:"-"`
	Width  int        `json:"width,omitempty"` // 0 for the vector document
	Bytes  int        `json:"bytes,omitempty"`
	Err    error      `json:"-"`
	Reason string     `json:"error,omitempty"`
}

// ExportReport lists every file an export attempted, in canonical cell
// order with each document followed by its rasters.
type ExportReport struct {
	Dir   string       `json:"dir"`
	Files []FileResult `json:"files"`
}

// Written returns the number of files written.
func (r *ExportReport) Written() int {
	n := 0
	for _, f := range r.Files {
		if f.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the files that were not written.
func (r *ExportReport) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Export writes pack to dir in the batch file layout:
//
//	<name>__<style>__<season>__<1-N>.svg
//	<name>__<style>__<season>__<1-N>__<width>.png   (one per width)
//	manifest.json
//
// Each file is an independent unit: a failed cell or rasterization is
// recorded in the report and the rest carry on. Cancelling ctx stops
// remaining files. The returned error is for an unusable directory only.
func (r *Runner) Export(ctx context.Context, pack *symbol.Pack, dir string, widths []int) (*ExportReport, error) {
	if err := errors.ValidateOutputDir(dir); err != nil {
		return nil, err
	}
	for _, w := range widths {
		if err := raster.ValidateWidth(w); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir).WithField("output")
	}

	name := pack.BotanicalName
	if name == "" {
		name = "plant"
	}

	var files []FileResult
	for _, c := range pack.Ordered() {
		base := symbol.FileName(name, c.Key.Style, c.Key.Season, pack.Scale)
		files = append(files, FileResult{Name: base, Cell: c.Key, Err: c.Err})
		for _, w := range widths {
			files = append(files, FileResult{Name: raster.OutputName(base, w), Cell: c.Key, Width: w, Err: c.Err})
		}
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range files {
		f := &files[i]
		if f.Err != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			f.Err = err
			continue
		}
		cell := pack.Cells[f.Cell]
		g.Go(func() error {
			data, err := r.exportFile(ctx, cell.Symbol.SVG, f.Width)
			if err == nil {
				err = os.WriteFile(filepath.Join(dir, f.Name), data, 0644)
			}
			f.Bytes, f.Err = len(data), err
			if err != nil {
				r.Logger.Warn("export failed", "file", f.Name, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	report := &ExportReport{Dir: dir, Files: files}
	for i := range report.Files {
		if err := report.Files[i].Err; err != nil {
			report.Files[i].Reason = errors.UserMessage(err)
			report.Files[i].Bytes = 0
		}
	}
	if err := writeManifest(dir, pack, report); err != nil {
		return report, err
	}
	return report, nil
}

func (r *Runner) exportFile(ctx context.Context, svg []byte, width int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width == 0 {
		return svg, nil
	}
	return r.Rasterize(ctx, svg, width)
}

type manifest struct {
	BotanicalName string       `json:"botanical_name,omitempty"`
	CommonName    string       `json:"common_name,omitempty"`
	Scale         string       `json:"scale"`
	BaseSeed      uint64       `json:"base_seed"`
	Cells         []cellRecord `json:"cells"`
	Files         []FileResult `json:"files"`
}

type cellRecord struct {
	Style  string `json:"style"`
	Season string `json:"season"`
	Seed   uint64 `json:"seed"`
	Error  string `json:"error,omitempty"`
}

func writeManifest(dir string, pack *symbol.Pack, report *ExportReport) error {
	m := manifest{
		BotanicalName: pack.BotanicalName,
		CommonName:    pack.CommonName,
		Scale:         pack.Scale.String(),
		BaseSeed:      pack.BaseSeed,
		Files:         report.Files,
	}
	for _, c := range pack.Ordered() {
		rec := cellRecord{Style: string(c.Key.Style), Season: string(c.Key.Season), Seed: c.Seed}
		if c.Err != nil {
			rec.Error = errors.UserMessage(c.Err)
		}
		m.Cells = append(m.Cells, rec)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ManifestName), data, 0644)
}
