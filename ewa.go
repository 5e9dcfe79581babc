/*
Copyright © 2025 the SwathGrid authors.
This file is part of SwathGrid.

SwathGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SwathGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SwathGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

package swathgrid

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"

	"github.com/ssec/swathgrid/internal/rawfile"
)

// ellipse holds one swath column's implicit-ellipse coefficients for the
// current scan: q(u,v) = a·u² + b·u·v + c·v² with boundary q < f, and the
// axis-aligned half-widths of the bounding box.
type ellipse struct {
	a, b, c    float64
	f          float64
	uDel, vDel float64
}

const ellipseUnderflow = 1e-12

// computeEllipses derives per-column ellipse parameters from the local
// numerical gradient of grid column/row with respect to swath row (first
// versus last row of the scan) and swath column (neighboring columns at
// the scan middle row). Footprints are compact near nadir and elongate
// toward the swath edges, where the gradients grow.
func computeEllipses(cols, rows *sparse.DenseArray, wt *WeightTable, ell []ellipse) {
	rowsPerScan := cols.Shape[0]
	width := cols.Shape[1]
	midRow := (rowsPerScan - 1) / 2
	qMax := wt.QMax()
	deltaMax := wt.DeltaMax()

	unit := ellipse{a: 1, b: 0, c: 1, f: qMax,
		uDel: math.Min(math.Sqrt(qMax), deltaMax),
		vDel: math.Min(math.Sqrt(qMax), deltaMax)}

	for col := 0; col < width; col++ {
		var ux, vx float64
		switch {
		case width == 1:
			// no cross-track neighbor; only the along-track gradient
		case col == 0:
			ux = cols.Get(midRow, 1) - cols.Get(midRow, 0)
			vx = rows.Get(midRow, 1) - rows.Get(midRow, 0)
		case col == width-1:
			ux = cols.Get(midRow, col) - cols.Get(midRow, col-1)
			vx = rows.Get(midRow, col) - rows.Get(midRow, col-1)
		default:
			ux = (cols.Get(midRow, col+1) - cols.Get(midRow, col-1)) / 2
			vx = (rows.Get(midRow, col+1) - rows.Get(midRow, col-1)) / 2
		}
		var uy, vy float64
		if rowsPerScan > 1 {
			rowsM1 := float64(rowsPerScan - 1)
			uy = (cols.Get(rowsPerScan-1, col) - cols.Get(0, col)) / rowsM1
			vy = (rows.Get(rowsPerScan-1, col) - rows.Get(0, col)) / rowsM1
		}

		fScale := ux*vy - uy*vx
		fScale *= fScale
		if !(fScale > ellipseUnderflow) || math.IsInf(fScale, 0) {
			ell[col] = unit
			continue
		}
		fScale = 1 / fScale
		a := (vx*vx + vy*vy) * fScale
		b := -2 * (ux*vx + uy*vy) * fScale
		c := (ux*ux + uy*uy) * fScale
		d := 4*a*c - b*b
		if !(d > ellipseUnderflow) || math.IsInf(d, 0) {
			ell[col] = unit
			continue
		}
		d = 4 * qMax / d
		ell[col] = ellipse{
			a: a, b: b, c: c, f: qMax,
			uDel: math.Min(math.Sqrt(c*d), deltaMax),
			vDel: math.Min(math.Sqrt(a*d), deltaMax),
		}
	}
}

// ChannelConfig describes one swath channel being resampled.
type ChannelConfig struct {
	// InputFill marks invalid swath pixels; such pixels contribute to
	// no grid cell.
	InputFill float64

	// OutputFill is emitted for grid cells without enough accumulated
	// weight.
	OutputFill float64

	// Output is the destination element type, which controls rounding
	// and clamping at finalization.
	Output rawfile.DType
}

// ResamplerConfig configures one resampling run. The grid start column,
// row, and scan support chunked invocation for tiled output and
// bounded-memory processing of large swaths.
type ResamplerConfig struct {
	GridCols, GridRows int
	StartCol, StartRow int

	// CoordFill is the column/row fill sentinel from the Locator.
	// Defaults to DefaultCoordFill.
	CoordFill float64

	// MaxWeight selects maximum-weight combination instead of weighted
	// averaging, for categorical data where averaging is meaningless.
	MaxWeight bool

	Weights  WeightConfig
	Channels []ChannelConfig
}

type channelState struct {
	cfg   ChannelConfig
	accum *sparse.DenseArray
}

// Resampler distributes swath pixels' elliptical footprints into grid
// accumulators scan by scan. It is created once per run; scans must be
// fed strictly in order.
type Resampler struct {
	cfg      ResamplerConfig
	wt       *WeightTable
	channels []channelState

	// weightSum is shared by all channels. In maximum-weight mode it
	// holds the largest single contribution weight per cell instead of
	// a sum.
	weightSum *sparse.DenseArray

	ell []ellipse

	firstScan, lastScan int
	finalized           bool
}

// NewResampler allocates grid accumulators for every channel plus the
// shared weight buffer.
func NewResampler(cfg ResamplerConfig) (*Resampler, error) {
	if cfg.GridCols <= 0 || cfg.GridRows <= 0 {
		return nil, fmt.Errorf("swathgrid: grid dimensions %dx%d must be positive",
			cfg.GridCols, cfg.GridRows)
	}
	if len(cfg.Channels) == 0 {
		return nil, fmt.Errorf("swathgrid: resampler needs at least one channel")
	}
	if cfg.CoordFill == 0 {
		// 0.0 is a real grid coordinate; an unset sentinel means the
		// conventional fill.
		cfg.CoordFill = DefaultCoordFill
	}
	wt, err := NewWeightTable(cfg.Weights)
	if err != nil {
		return nil, err
	}
	r := &Resampler{
		cfg:       cfg,
		wt:        wt,
		weightSum: sparse.ZerosDense(cfg.GridRows, cfg.GridCols),
		firstScan: -1,
		lastScan:  -1,
	}
	for _, c := range cfg.Channels {
		accum := sparse.ZerosDense(cfg.GridRows, cfg.GridCols)
		if c.OutputFill != 0 {
			for i := range accum.Elements {
				accum.Elements[i] = c.OutputFill
			}
		}
		r.channels = append(r.channels, channelState{cfg: c, accum: accum})
	}
	return r, nil
}

// Accumulate distributes one scan. cols and rows are the continuous grid
// positions from the Locator, shaped rowsPerScan x swathCols; chans holds
// one same-shaped value array per configured channel. scan is the
// absolute scan index, used only for contributing-scan reporting.
func (r *Resampler) Accumulate(scan int, cols, rows *sparse.DenseArray, chans []*sparse.DenseArray) error {
	if r.finalized {
		return fmt.Errorf("swathgrid: accumulate after finalize")
	}
	if len(chans) != len(r.channels) {
		return fmt.Errorf("swathgrid: scan %d has %d channel arrays, configured %d",
			scan, len(chans), len(r.channels))
	}
	shape := cols.Shape
	if len(shape) != 2 || len(rows.Shape) != 2 {
		return fmt.Errorf("swathgrid: scan %d coordinate arrays must be 2-D", scan)
	}
	if rows.Shape[0] != shape[0] || rows.Shape[1] != shape[1] {
		return fmt.Errorf("swathgrid: scan %d column array is %v but row array is %v",
			scan, shape, rows.Shape)
	}
	for i, ch := range chans {
		if len(ch.Shape) != 2 || ch.Shape[0] != shape[0] || ch.Shape[1] != shape[1] {
			return fmt.Errorf("swathgrid: scan %d channel %d array is %v, want %v",
				scan, i, ch.Shape, shape)
		}
	}
	rowsPerScan, width := shape[0], shape[1]

	if cap(r.ell) < width {
		r.ell = make([]ellipse, width)
	}
	ell := r.ell[:width]
	// One geometry computation is shared by all channels of the scan.
	computeEllipses(cols, rows, r.wt, ell)

	gridCols, gridRows := r.cfg.GridCols, r.cfg.GridRows
	wSum := r.weightSum.Elements
	gotPoint := false

	for sr := 0; sr < rowsPerScan; sr++ {
		base := sr * width
		for sc := 0; sc < width; sc++ {
			idx := base + sc
			u0 := cols.Elements[idx]
			v0 := rows.Elements[idx]
			if u0 == r.cfg.CoordFill || v0 == r.cfg.CoordFill {
				continue
			}
			u0 -= float64(r.cfg.StartCol)
			v0 -= float64(r.cfg.StartRow)
			e := &ell[sc]

			iu1 := int(math.Ceil(u0 - e.uDel))
			iu2 := int(math.Floor(u0 + e.uDel))
			iv1 := int(math.Ceil(v0 - e.vDel))
			iv2 := int(math.Floor(v0 + e.vDel))
			if iu1 < 0 {
				iu1 = 0
			}
			if iu2 >= gridCols {
				iu2 = gridCols - 1
			}
			if iv1 < 0 {
				iv1 = 0
			}
			if iv2 >= gridRows {
				iv2 = gridRows - 1
			}
			if iu1 > iu2 || iv1 > iv2 {
				continue
			}
			gotPoint = true

			for iv := iv1; iv <= iv2; iv++ {
				dv := float64(iv) - v0
				rowBase := iv * gridCols
				for iu := iu1; iu <= iu2; iu++ {
					du := float64(iu) - u0
					q := e.c*dv*dv + e.b*du*dv + e.a*du*du
					if q < 0 || q >= e.f {
						continue
					}
					w := r.wt.Lookup(q)
					cell := rowBase + iu

					if r.cfg.MaxWeight {
						if w <= wSum[cell] {
							continue
						}
						// The heaviest single contribution wins the
						// cell; fill-valued channels stay untouched so
						// a fill pixel can never displace real data.
						won := false
						for k := range r.channels {
							ch := &r.channels[k]
							val := chans[k].Elements[idx]
							if val == ch.cfg.InputFill {
								continue
							}
							ch.accum.Elements[cell] = val
							won = true
						}
						if won {
							wSum[cell] = w
						}
					} else {
						contributed := false
						for k := range r.channels {
							ch := &r.channels[k]
							val := chans[k].Elements[idx]
							if val == ch.cfg.InputFill {
								continue
							}
							if ch.accum.Elements[cell] == ch.cfg.OutputFill {
								// first real contribution replaces the
								// fill placeholder instead of adding to it
								ch.accum.Elements[cell] = val * w
							} else {
								ch.accum.Elements[cell] += val * w
							}
							contributed = true
						}
						if contributed {
							wSum[cell] += w
						}
					}
				}
			}
		}
	}

	if gotPoint {
		if r.firstScan < 0 {
			r.firstScan = scan
		}
		r.lastScan = scan
	}
	return nil
}

// FirstScan and LastScan report the first and last scan index that
// contributed at least one footprint to the grid, or -1 when none have.
// Callers use them to tighten subsequent chunked invocations.
func (r *Resampler) FirstScan() int { return r.firstScan }
func (r *Resampler) LastScan() int  { return r.lastScan }

// Finalize converts the accumulators into per-channel output grids and
// returns them, one cols x rows array per channel. Cells whose weight sum
// is below the configured minimum receive the channel's fill value. In
// weighted-average mode each remaining cell is divided by the weight sum,
// given a half-magnitude rounding bias toward its sign for integer
// destination types, and clamped to the destination's representable
// range; maximum-weight cells are emitted unchanged.
func (r *Resampler) Finalize() []*sparse.DenseArray {
	r.finalized = true
	sumMin := r.wt.SumMin()
	out := make([]*sparse.DenseArray, len(r.channels))
	for k := range r.channels {
		ch := &r.channels[k]
		a := ch.accum.Elements
		for i, w := range r.weightSum.Elements {
			if w < sumMin {
				a[i] = ch.cfg.OutputFill
				continue
			}
			if r.cfg.MaxWeight {
				continue
			}
			if a[i] == ch.cfg.OutputFill {
				// this channel never contributed here even though
				// another channel carried the weight sum past the
				// threshold
				continue
			}
			v := a[i] / w
			if ch.cfg.Output.Integer() {
				if v >= 0 {
					v = math.Trunc(v + 0.5)
				} else {
					v = math.Trunc(v - 0.5)
				}
			}
			if v < ch.cfg.Output.Min() {
				v = ch.cfg.Output.Min()
			} else if v > ch.cfg.Output.Max() {
				v = ch.cfg.Output.Max()
			}
			a[i] = v
		}
		out[k] = ch.accum
	}
	return out
}

// WeightSum exposes the shared weight accumulator, mainly for tests and
// diagnostics.
func (r *Resampler) WeightSum() *sparse.DenseArray { return r.weightSum }
