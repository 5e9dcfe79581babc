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

package gridio

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/ssec/swathgrid/internal/rawfile"
)

// Nearest resamples src onto dst by nearest-neighbor sampling of each
// destination cell center. The two grids may have any shapes.
func Nearest(src, dst *BufferedGrid) error {
	rScale := float64(src.Rows()) / float64(dst.Rows())
	cScale := float64(src.Cols()) / float64(dst.Cols())
	for r := 0; r < dst.Rows(); r++ {
		sr := clampIndex(int((float64(r)+0.5)*rScale), src.Rows())
		for c := 0; c < dst.Cols(); c++ {
			sc := clampIndex(int((float64(c)+0.5)*cScale), src.Cols())
			v, err := src.Get(sr, sc)
			if err != nil {
				return err
			}
			if err := dst.Put(r, c, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Bilinear resamples src onto dst by bilinear interpolation of each
// destination cell center. Fill-valued source cells are excluded, with
// the remaining weights renormalized; a cell with four fill neighbors
// becomes fill.
func Bilinear(src, dst *BufferedGrid, fill float64) error {
	rScale := float64(src.Rows()) / float64(dst.Rows())
	cScale := float64(src.Cols()) / float64(dst.Cols())
	for r := 0; r < dst.Rows(); r++ {
		y := (float64(r)+0.5)*rScale - 0.5
		r0 := clampIndex(int(y), src.Rows())
		r1 := clampIndex(r0+1, src.Rows())
		fy := y - float64(r0)
		if fy < 0 {
			fy = 0
		}
		for c := 0; c < dst.Cols(); c++ {
			x := (float64(c)+0.5)*cScale - 0.5
			c0 := clampIndex(int(x), src.Cols())
			c1 := clampIndex(c0+1, src.Cols())
			fx := x - float64(c0)
			if fx < 0 {
				fx = 0
			}
			var sum, wsum float64
			corners := [4]struct {
				r, c int
				w    float64
			}{
				{r0, c0, (1 - fy) * (1 - fx)},
				{r0, c1, (1 - fy) * fx},
				{r1, c0, fy * (1 - fx)},
				{r1, c1, fy * fx},
			}
			for _, k := range corners {
				if k.w == 0 {
					continue
				}
				v, err := src.Get(k.r, k.c)
				if err != nil {
					return err
				}
				if v == fill {
					continue
				}
				sum += v * k.w
				wsum += k.w
			}
			out := fill
			if wsum > 0 {
				out = sum / wsum
			}
			if err := dst.Put(r, c, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// Bucket resamples src onto dst by drop-in-the-bucket averaging: every
// non-fill source cell falls into the destination cell its center maps
// to, and each destination cell averages what it caught. The per-cell
// sums and counts live in scratch grids under dir (the destination
// file's directory when dir is empty), so grids larger than memory
// stay out of it.
func Bucket(src, dst *BufferedGrid, fill float64, dir string) error {
	if dir == "" {
		dir = filepath.Dir(dst.f.Name())
	}
	sums, err := tempFloatGrid(dir, "bucket-sum-*.img", dst.Cols(), dst.Rows())
	if err != nil {
		return err
	}
	defer sums.Close()
	counts, err := tempFloatGrid(dir, "bucket-count-*.img", dst.Cols(), dst.Rows())
	if err != nil {
		return err
	}
	defer counts.Close()

	rScale := float64(dst.Rows()) / float64(src.Rows())
	cScale := float64(dst.Cols()) / float64(src.Cols())
	for r := 0; r < src.Rows(); r++ {
		dr := clampIndex(int((float64(r)+0.5)*rScale), dst.Rows())
		for c := 0; c < src.Cols(); c++ {
			v, err := src.Get(r, c)
			if err != nil {
				return err
			}
			if v == fill {
				continue
			}
			dc := clampIndex(int((float64(c)+0.5)*cScale), dst.Cols())
			s, err := sums.grid.Get(dr, dc)
			if err != nil {
				return err
			}
			if err := sums.grid.Put(dr, dc, s+v); err != nil {
				return err
			}
			n, err := counts.grid.Get(dr, dc)
			if err != nil {
				return err
			}
			if err := counts.grid.Put(dr, dc, n+1); err != nil {
				return err
			}
		}
	}

	for r := 0; r < dst.Rows(); r++ {
		for c := 0; c < dst.Cols(); c++ {
			n, err := counts.grid.Get(r, c)
			if err != nil {
				return err
			}
			out := fill
			if n > 0 {
				s, err := sums.grid.Get(r, c)
				if err != nil {
					return err
				}
				out = s / n
			}
			if err := dst.Put(r, c, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// Minify subsamples src onto dst by an integer factor, keeping the
// top-left cell of each factor x factor block.
func Minify(src, dst *BufferedGrid, factor int) error {
	if err := checkFactor(src, dst, factor); err != nil {
		return err
	}
	for r := 0; r < dst.Rows(); r++ {
		for c := 0; c < dst.Cols(); c++ {
			v, err := src.Get(r*factor, c*factor)
			if err != nil {
				return err
			}
			if err := dst.Put(r, c, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reduce block-averages src onto dst by an integer factor, ignoring
// fill-valued cells; an all-fill block becomes fill.
func Reduce(src, dst *BufferedGrid, factor int, fill float64) error {
	if err := checkFactor(src, dst, factor); err != nil {
		return err
	}
	for r := 0; r < dst.Rows(); r++ {
		for c := 0; c < dst.Cols(); c++ {
			var sum float64
			n := 0
			for br := 0; br < factor; br++ {
				for bc := 0; bc < factor; bc++ {
					v, err := src.Get(r*factor+br, c*factor+bc)
					if err != nil {
						return err
					}
					if v == fill {
						continue
					}
					sum += v
					n++
				}
			}
			out := fill
			if n > 0 {
				out = sum / float64(n)
			}
			if err := dst.Put(r, c, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// Majority reduces src onto dst by an integer factor with a per-block
// majority vote, for categorical data where averaging is meaningless.
// Fill-valued cells do not vote; ties go to the smaller value so the
// result is deterministic.
func Majority(src, dst *BufferedGrid, factor int, fill float64) error {
	if err := checkFactor(src, dst, factor); err != nil {
		return err
	}
	votes := make(map[float64]int, factor*factor)
	for r := 0; r < dst.Rows(); r++ {
		for c := 0; c < dst.Cols(); c++ {
			for k := range votes {
				delete(votes, k)
			}
			for br := 0; br < factor; br++ {
				for bc := 0; bc < factor; bc++ {
					v, err := src.Get(r*factor+br, c*factor+bc)
					if err != nil {
						return err
					}
					if v == fill {
						continue
					}
					votes[v]++
				}
			}
			out := fill
			best := 0
			for v, n := range votes {
				if n > best || (n == best && v < out) {
					best = n
					out = v
				}
			}
			if err := dst.Put(r, c, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkFactor(src, dst *BufferedGrid, factor int) error {
	if factor <= 0 {
		return fmt.Errorf("gridio: factor %d must be positive", factor)
	}
	if dst.Rows()*factor != src.Rows() || dst.Cols()*factor != src.Cols() {
		return fmt.Errorf("gridio: %dx%d does not reduce to %dx%d by factor %d",
			src.Cols(), src.Rows(), dst.Cols(), dst.Rows(), factor)
	}
	return nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// scratchGrid pairs a windowed grid with the scoped temp file backing
// it, so both are released together.
type scratchGrid struct {
	grid *BufferedGrid
	tmp  *rawfile.TempGrid
}

func tempFloatGrid(dir string, pattern string, cols, rows int) (*scratchGrid, error) {
	tmp, err := rawfile.NewTempGrid(dir, pattern)
	if err != nil {
		return nil, err
	}
	g, err := Create(tmp.Path(), rawfile.Float32, binary.LittleEndian, cols, rows, 0, 0)
	if err != nil {
		tmp.Close()
		return nil, err
	}
	return &scratchGrid{grid: g, tmp: tmp}, nil
}

func (s *scratchGrid) Close() error {
	err := s.grid.Close()
	if cerr := s.tmp.Close(); err == nil {
		err = cerr
	}
	return err
}
