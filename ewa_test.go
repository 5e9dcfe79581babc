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
	"math"
	"testing"

	"github.com/ctessum/sparse"

	"github.com/ssec/swathgrid/internal/rawfile"
)

// identityScan builds a rowsPerScan x cols scan whose column/row arrays
// place pixel (r, c) exactly at grid cell (c, r).
func identityScan(rows, cols int) (colArr, rowArr *sparse.DenseArray) {
	colArr = sparse.ZerosDense(rows, cols)
	rowArr = sparse.ZerosDense(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			colArr.Set(float64(c), r, c)
			rowArr.Set(float64(r), r, c)
		}
	}
	return colArr, rowArr
}

func TestResampleIdentity(t *testing.T) {
	const size = 4
	r, err := NewResampler(ResamplerConfig{
		GridCols: size,
		GridRows: size,
		Channels: []ChannelConfig{{
			InputFill:  -999,
			OutputFill: -999,
			Output:     rawfile.Float32,
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	colArr, rowArr := identityScan(size, size)
	data := sparse.ZerosDense(size, size)
	for i := range data.Elements {
		data.Elements[i] = 10
	}
	data.Set(42, 0, 0)
	if err := r.Accumulate(0, colArr, rowArr, []*sparse.DenseArray{data}); err != nil {
		t.Fatal(err)
	}
	// Pixels sitting exactly on cell centers each land in their own
	// cell with weight 1, and neighbors fall on the cutoff boundary,
	// so every cell's weight sum counts exactly one contributor.
	ws := r.WeightSum()
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if w := ws.Get(i, j); math.Abs(w-1) > 1e-12 {
				t.Errorf("weight sum at (%d, %d) = %g, want 1", i, j, w)
			}
		}
	}
	out := r.Finalize()
	got := out[0].Get(0, 0)
	if math.Abs(got-42) > 1e-9 {
		t.Errorf("origin cell = %g, want 42", got)
	}
	// Interior cells get exactly their matching pixel plus ellipse
	// spill from immediate neighbors; with uniform data away from the
	// corner they stay at the uniform value.
	got = out[0].Get(2, 2)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("interior cell = %g, want 10", got)
	}
	first, last := r.FirstScan(), r.LastScan()
	if first != 0 || last != 0 {
		t.Errorf("contributing scans = [%d, %d], want [0, 0]", first, last)
	}
}

func TestResampleFillPixelContributesNothing(t *testing.T) {
	const size = 3
	r, err := NewResampler(ResamplerConfig{
		GridCols: size,
		GridRows: size,
		Channels: []ChannelConfig{{
			InputFill:  -999,
			OutputFill: -999,
			Output:     rawfile.Float32,
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	colArr, rowArr := identityScan(size, size)
	data := sparse.ZerosDense(size, size)
	for i := range data.Elements {
		data.Elements[i] = -999
	}
	if err := r.Accumulate(0, colArr, rowArr, []*sparse.DenseArray{data}); err != nil {
		t.Fatal(err)
	}
	out := r.Finalize()
	for i, v := range out[0].Elements {
		if v != -999 {
			t.Errorf("cell %d = %g, want fill", i, v)
		}
	}
	if ws := r.WeightSum(); ws != nil {
		for i, w := range ws.Elements {
			if w != 0 {
				t.Errorf("weight sum at %d = %g, want 0", i, w)
			}
		}
	}
	// Scan coverage is geometric: the footprints overlapped the grid
	// even though every value was fill.
	first, last := r.FirstScan(), r.LastScan()
	if first != 0 || last != 0 {
		t.Errorf("overlapping scans = [%d, %d], want [0, 0]", first, last)
	}
}

func TestResampleCoordFillSkipsPixel(t *testing.T) {
	const size = 3
	r, err := NewResampler(ResamplerConfig{
		GridCols:  size,
		GridRows:  size,
		CoordFill: DefaultCoordFill,
		Channels: []ChannelConfig{{
			InputFill:  -999,
			OutputFill: -999,
			Output:     rawfile.Float32,
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	colArr, rowArr := identityScan(size, size)
	colArr.Set(DefaultCoordFill, 1, 1)
	data := sparse.ZerosDense(size, size)
	for i := range data.Elements {
		data.Elements[i] = 7
	}
	data.Set(1e6, 1, 1) // must be ignored: its coordinate is fill
	if err := r.Accumulate(0, colArr, rowArr, []*sparse.DenseArray{data}); err != nil {
		t.Fatal(err)
	}
	out := r.Finalize()
	for i, v := range out[0].Elements {
		if v != -999 && math.Abs(v-7) > 1e-9 {
			t.Errorf("cell %d = %g, want 7 or fill", i, v)
		}
	}
}

func TestResampleMaxWeight(t *testing.T) {
	// Two pixels land in the same cell; the nearer one must win
	// outright under maximum-weight, with no blending.
	r, err := NewResampler(ResamplerConfig{
		GridCols:  1,
		GridRows:  1,
		MaxWeight: true,
		Channels: []ChannelConfig{{
			InputFill:  -999,
			OutputFill: -999,
			Output:     rawfile.UInt8,
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	colArr := sparse.ZerosDense(1, 2)
	rowArr := sparse.ZerosDense(1, 2)
	colArr.Set(0.4, 0, 0) // 0.4 cells from cell center
	colArr.Set(0.1, 0, 1) // 0.1 cells from cell center: wins
	data := sparse.ZerosDense(1, 2)
	data.Set(3, 0, 0)
	data.Set(9, 0, 1)
	if err := r.Accumulate(0, colArr, rowArr, []*sparse.DenseArray{data}); err != nil {
		t.Fatal(err)
	}
	out := r.Finalize()
	if got := out[0].Get(0, 0); got != 9 {
		t.Errorf("cell = %g, want the nearer pixel's value 9", got)
	}
}

func TestResampleWeightSumMin(t *testing.T) {
	// Raise the weight-sum threshold above anything a single pixel can
	// deposit; every cell must come out fill.
	r, err := NewResampler(ResamplerConfig{
		GridCols: 2,
		GridRows: 2,
		Weights: WeightConfig{
			Count:       10000,
			Min:         0.01,
			DistanceMax: 1,
			DeltaMax:    10,
			SumMin:      100,
		},
		Channels: []ChannelConfig{{
			InputFill:  -999,
			OutputFill: -999,
			Output:     rawfile.Float32,
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	colArr, rowArr := identityScan(2, 2)
	data := sparse.ZerosDense(2, 2)
	for i := range data.Elements {
		data.Elements[i] = 5
	}
	if err := r.Accumulate(0, colArr, rowArr, []*sparse.DenseArray{data}); err != nil {
		t.Fatal(err)
	}
	out := r.Finalize()
	for i, v := range out[0].Elements {
		if v != -999 {
			t.Errorf("cell %d = %g, want fill under the weight-sum threshold", i, v)
		}
	}
}

func TestResampleIntegerRounding(t *testing.T) {
	r, err := NewResampler(ResamplerConfig{
		GridCols: 1,
		GridRows: 1,
		Channels: []ChannelConfig{{
			InputFill:  -999,
			OutputFill: 0,
			Output:     rawfile.Int16,
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	colArr := sparse.ZerosDense(1, 1)
	rowArr := sparse.ZerosDense(1, 1)
	data := sparse.ZerosDense(1, 1)
	data.Set(6.6, 0, 0)
	if err := r.Accumulate(0, colArr, rowArr, []*sparse.DenseArray{data}); err != nil {
		t.Fatal(err)
	}
	out := r.Finalize()
	if got := out[0].Get(0, 0); got != 7 {
		t.Errorf("rounded value = %g, want 7", got)
	}
}

func TestResampleStartOffsets(t *testing.T) {
	// A 1x1 output window positioned at column 2, row 1 of the larger
	// conceptual grid must pick up the pixel landing there.
	r, err := NewResampler(ResamplerConfig{
		GridCols: 1,
		GridRows: 1,
		StartCol: 2,
		StartRow: 1,
		Channels: []ChannelConfig{{
			InputFill:  -999,
			OutputFill: -999,
			Output:     rawfile.Float32,
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	colArr := sparse.ZerosDense(1, 1)
	rowArr := sparse.ZerosDense(1, 1)
	colArr.Set(2, 0, 0)
	rowArr.Set(1, 0, 0)
	data := sparse.ZerosDense(1, 1)
	data.Set(13, 0, 0)
	if err := r.Accumulate(5, colArr, rowArr, []*sparse.DenseArray{data}); err != nil {
		t.Fatal(err)
	}
	out := r.Finalize()
	if got := out[0].Get(0, 0); math.Abs(got-13) > 1e-9 {
		t.Errorf("offset cell = %g, want 13", got)
	}
	first, last := r.FirstScan(), r.LastScan()
	if first != 5 || last != 5 {
		t.Errorf("contributing scans = [%d, %d], want [5, 5]", first, last)
	}
}

func TestResamplerShapeMismatch(t *testing.T) {
	r, err := NewResampler(ResamplerConfig{
		GridCols: 2,
		GridRows: 2,
		Channels: []ChannelConfig{{Output: rawfile.Float32}},
	})
	if err != nil {
		t.Fatal(err)
	}
	colArr, rowArr := identityScan(2, 2)
	data := sparse.ZerosDense(2, 3)
	if err := r.Accumulate(0, colArr, rowArr, []*sparse.DenseArray{data}); err == nil {
		t.Error("expected an error for mismatched channel shape")
	}
}

func TestNewWeightTableValidation(t *testing.T) {
	cases := []WeightConfig{
		{Count: 1},
		{Min: -0.5},
		{Min: 1.5},
		{DistanceMax: -1},
		{DeltaMax: -1},
	}
	for i, c := range cases {
		if _, err := NewWeightTable(c); err == nil {
			t.Errorf("case %d: expected a configuration error", i)
		}
	}
}
