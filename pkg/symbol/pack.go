package symbol

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/canopy/pkg/botanical"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/render/styles"
	"github.com/matzehuels/canopy/pkg/scale"
	"github.com/matzehuels/canopy/pkg/variation"
)

// Key identifies one cell of a pack.
type Key struct {
	Style  styles.Style
	Season palette.Season
}

func (k Key) String() string { return string(k.Style) + "/" + string(k.Season) }

// Keys lists all style and season pairs in canonical order.
func Keys() []Key {
	keys := make([]Key, 0, len(styles.All)*len(palette.Seasons))
	for _, st := range styles.All {
		for _, se := range palette.Seasons {
			keys = append(keys, Key{st, se})
		}
	}
	return keys
}

// Cell is the outcome of one pack cell: exactly one of Symbol and Err is set.
type Cell struct {
	Key    Key
	Seed   uint64
	Symbol *Symbol
	Err    error
}

// PackRequest describes a pack: one plant at one scale.
type PackRequest struct {
	Plant         *botanical.Plant
	Scale         scale.Scale
	BaseSeed      uint64
	BotanicalName string
	CommonName    string
}

// Pack holds every cell of a symbol pack. Cells always has an entry for
// every key in [Keys].
type Pack struct {
	BotanicalName string
	CommonName    string
	Scale         scale.Scale
	BaseSeed      uint64
	Cells         map[Key]*Cell
	Duration      time.Duration
}

// Ordered returns the cells in canonical key order.
func (p *Pack) Ordered() []*Cell {
	keys := Keys()
	out := make([]*Cell, len(keys))
	for i, k := range keys {
		out[i] = p.Cells[k]
	}
	return out
}

// Succeeded returns the number of cells that rendered.
func (p *Pack) Succeeded() int {
	n := 0
	for _, c := range p.Cells {
		if c.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the keys of failed cells in canonical order.
func (p *Pack) Failed() []Key {
	var out []Key
	for _, c := range p.Ordered() {
		if c.Err != nil {
			out = append(out, c.Key)
		}
	}
	return out
}

// GeneratePack renders every style and season for req.
//
// Each cell gets its own seed derived from the base seed and the cell's
// position. Cells render in parallel and fail independently. Cancelling
// ctx stops dispatch; cells that never started carry ctx.Err().
func GeneratePack(ctx context.Context, req PackRequest, opts ...Option) *Pack {
	start := time.Now()
	o := newOptions(opts)
	workers := o.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	keys := Keys()
	observability.Render().OnPackStart(ctx, req.BotanicalName, len(keys))

	cells := make([]*Cell, len(keys))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, k := range keys {
		seed := variation.CellSeed(req.BaseSeed, k.Style.Index(), k.Season.Index())
		cells[i] = &Cell{Key: k, Seed: seed}
		if err := ctx.Err(); err != nil {
			cells[i].Err = err
			continue
		}
		cell := cells[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				cell.Err = err
				return nil
			}
			cell.Symbol, cell.Err = Render(Request{
				Plant:         req.Plant,
				Style:         k.Style,
				Season:        k.Season,
				Scale:         req.Scale,
				Seed:          seed,
				BotanicalName: req.BotanicalName,
				CommonName:    req.CommonName,
			}, opts...)
			return nil
		})
	}
	_ = g.Wait()

	p := &Pack{
		BotanicalName: req.BotanicalName,
		CommonName:    req.CommonName,
		Scale:         req.Scale,
		BaseSeed:      req.BaseSeed,
		Cells:         make(map[Key]*Cell, len(keys)),
	}
	for _, c := range cells {
		p.Cells[c.Key] = c
	}
	p.Duration = time.Since(start)
	observability.Render().OnPackComplete(ctx, req.BotanicalName, p.Succeeded(), len(p.Failed()), p.Duration)
	return p
}
