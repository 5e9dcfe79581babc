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
)

// WeightConfig parameterizes the EWA weight kernel. Zero values take the
// documented defaults.
type WeightConfig struct {
	// Count is the number of quantized kernel entries. Default 10000.
	Count int

	// Min is the kernel value at the footprint boundary; weights decay
	// exponentially from 1 at the footprint center to Min at normalized
	// squared distance DistanceMax². Default 0.01.
	Min float64

	// DistanceMax is the footprint boundary in source-pixel units.
	// Default 1.
	DistanceMax float64

	// DeltaMax caps the axis-aligned ellipse half-widths, in grid
	// cells. Default 10.
	DeltaMax float64

	// SumMin is the minimum accumulated weight sum for a grid cell to
	// be considered valid at finalization. Defaults to Min.
	SumMin float64
}

// WeightTable is an immutable lookup from quantized normalized squared
// distance to a weight in (0,1]. It is built once and shared across an
// entire resampling run.
type WeightTable struct {
	weights  []float64
	qMax     float64
	qFactor  float64
	deltaMax float64
	sumMin   float64
}

// NewWeightTable builds the kernel table. Configuration errors fail here,
// before any resampling state exists.
func NewWeightTable(c WeightConfig) (*WeightTable, error) {
	if c.Count == 0 {
		c.Count = 10000
	}
	if c.Min == 0 {
		c.Min = 0.01
	}
	if c.DistanceMax == 0 {
		c.DistanceMax = 1
	}
	if c.DeltaMax == 0 {
		c.DeltaMax = 10
	}
	if c.SumMin == 0 {
		c.SumMin = c.Min
	}
	if c.Count < 2 {
		return nil, fmt.Errorf("swathgrid: weight table size %d must be at least 2", c.Count)
	}
	if c.Min <= 0 || c.Min >= 1 {
		return nil, fmt.Errorf("swathgrid: minimum weight %g must be in (0,1)", c.Min)
	}
	if c.DistanceMax <= 0 {
		return nil, fmt.Errorf("swathgrid: weight distance max %g must be positive", c.DistanceMax)
	}
	if c.DeltaMax <= 0 {
		return nil, fmt.Errorf("swathgrid: weight delta max %g must be positive", c.DeltaMax)
	}

	qMax := c.DistanceMax * c.DistanceMax
	alpha := -math.Log(c.Min) / qMax // kernel reaches Min exactly at qMax
	w := &WeightTable{
		weights:  make([]float64, c.Count),
		qMax:     qMax,
		qFactor:  float64(c.Count-1) / qMax,
		deltaMax: c.DeltaMax,
		sumMin:   c.SumMin,
	}
	for i := range w.weights {
		q := qMax * float64(i) / float64(c.Count-1)
		w.weights[i] = math.Exp(-alpha * q)
	}
	return w, nil
}

// Lookup returns the kernel weight for normalized squared distance q,
// which must be in [0, QMax).
func (w *WeightTable) Lookup(q float64) float64 {
	i := int(q * w.qFactor)
	if i >= len(w.weights) {
		i = len(w.weights) - 1
	}
	return w.weights[i]
}

// QMax is the normalized squared distance at the footprint boundary.
func (w *WeightTable) QMax() float64 { return w.qMax }

// DeltaMax is the half-width cap in grid cells.
func (w *WeightTable) DeltaMax() float64 { return w.deltaMax }

// SumMin is the validity threshold on the per-cell weight sum.
func (w *WeightTable) SumMin() float64 { return w.sumMin }
