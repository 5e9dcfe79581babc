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

// Package swathgrid remaps satellite-instrument swath measurements onto
// fixed projected grids by elliptical weighted averaging (EWA). A swath
// is a 2D measurement array in sensor-scan order; each swath pixel is
// treated as an elliptical footprint whose weighted contribution is
// distributed into every grid cell the footprint overlaps.
//
// The Locator bulk-converts per-pixel latitude/longitude into continuous
// grid column/row positions, trimming the scan range to the grid extent.
// The Resampler consumes those positions together with raw channel
// values and accumulates weighted contributions per grid cell, with
// either a weighted-average or a maximum-weight combination policy.
package swathgrid

// Version is the SwathGrid version number.
const Version = "1.0.0"
