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

package swathgridutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ssec/swathgrid/internal/rawfile"
)

func TestLoadGridDef(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nl.gpd")
	def := `# Northern hemisphere EASE-like test grid
map projection: Azimuthal Equal-Area
map reference latitude: 90.0
map reference longitude: 0.0
grid width: 64   # cells
grid height: 64
grid map origin column: 31.5
grid map origin row: 31.5
grid cells per map unit: 0.01
`
	if err := os.WriteFile(path, []byte(def), 0644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadGridDef(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Cols != 64 || g.Rows != 64 {
		t.Errorf("grid shape = %dx%d, want 64x64", g.Cols, g.Rows)
	}
	if g.MapOriginCol != 31.5 {
		t.Errorf("map origin column = %g, want 31.5", g.MapOriginCol)
	}
	// The pole is the reference point, so it lands on the map origin.
	col, row, ok := g.Forward(90, 0)
	if !ok {
		t.Fatal("pole did not project")
	}
	if col != 31.5 || row != 31.5 {
		t.Errorf("pole at (%g, %g), want (31.5, 31.5)", col, row)
	}
}

func TestLoadGridDefErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadGridDef(filepath.Join(dir, "missing.gpd")); err == nil {
		t.Error("expected an error for a missing file")
	}
	bad := filepath.Join(dir, "bad.gpd")
	if err := os.WriteFile(bad, []byte("no separator here\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGridDef(bad); err == nil {
		t.Error("expected an error for a line without a separator")
	}
}

func TestChannelBroadcast(t *testing.T) {
	types, err := channelTypes([]string{"uint8"}, 3, "inputtype")
	if err != nil {
		t.Fatal(err)
	}
	for i, dt := range types {
		if dt != rawfile.UInt8 {
			t.Errorf("type %d = %v, want uint8", i, dt)
		}
	}
	if _, err := channelTypes([]string{"uint8", "int16"}, 3, "inputtype"); err == nil {
		t.Error("expected an error for a 2-entry list over 3 channels")
	}
	fills, err := channelFills([]string{"-999", "0", "255"}, 3, "inputfill")
	if err != nil {
		t.Fatal(err)
	}
	if fills[0] != -999 || fills[2] != 255 {
		t.Errorf("fills = %v, want [-999 0 255]", fills)
	}
	if _, err := channelFills([]string{"not-a-number"}, 1, "inputfill"); err == nil {
		t.Error("expected an error for a non-numeric fill")
	}
}
