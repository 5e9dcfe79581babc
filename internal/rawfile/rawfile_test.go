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

package rawfile

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestRoundTripTypesAndOrders(t *testing.T) {
	vals := []float64{0, 1, 255, -3, 1000, -1000, 42}
	cases := []struct {
		dt   DType
		want []float64
	}{
		{UInt8, []float64{0, 1, 255, 0, 255, 0, 42}}, // clamps on narrow
		{Int16, vals},
		{UInt16, []float64{0, 1, 255, 0, 1000, 0, 42}},
		{Int32, vals},
		{UInt32, []float64{0, 1, 255, 0, 1000, 0, 42}},
		{Float32, vals},
	}
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		for _, c := range cases {
			path := filepath.Join(t.TempDir(), "arr.dat")
			if err := WriteArray(path, c.dt, order, vals); err != nil {
				t.Fatal(err)
			}
			got, err := ReadArray(path, c.dt, order, len(vals))
			if err != nil {
				t.Fatal(err)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("%s %v: element %d = %g, want %g",
						c.dt, order, i, got[i], c.want[i])
				}
			}
		}
	}
}

func TestOpenReaderSizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arr.dat")
	if err := WriteArray(path, Int16, binary.LittleEndian, make([]float64, 10)); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenReader(path, Int16, binary.LittleEndian, 3, 4); err == nil {
		t.Error("a 10-element file should not open with declared shape 3x4")
	}
	r, err := OpenReader(path, Int16, binary.LittleEndian, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	r.Close()
}

func TestSeekRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arr.dat")
	vals := make([]float64, 20)
	for i := range vals {
		vals[i] = float64(i)
	}
	if err := WriteArray(path, Float32, binary.BigEndian, vals); err != nil {
		t.Fatal(err)
	}
	r, err := OpenReader(path, Float32, binary.BigEndian, 5, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if err := r.SeekRow(2); err != nil {
		t.Fatal(err)
	}
	row := make([]float64, 5)
	if err := r.ReadRows(row); err != nil {
		t.Fatal(err)
	}
	if row[0] != 10 || row[4] != 14 {
		t.Errorf("row 2 = %v, want 10..14", row)
	}
}

func TestParseDType(t *testing.T) {
	for name, want := range map[string]DType{
		"u1": UInt8, "s2": Int16, "uint16": UInt16, "f4": Float32,
	} {
		got, err := ParseDType(name)
		if err != nil || got != want {
			t.Errorf("ParseDType(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseDType("complex128"); err == nil {
		t.Error("ParseDType should reject unknown names")
	}
}

func TestTempGridRemoved(t *testing.T) {
	tg, err := NewTempGrid(t.TempDir(), "scratch-*.dat")
	if err != nil {
		t.Fatal(err)
	}
	path := tg.Path()
	if _, err := tg.F.Write([]byte("junk")); err != nil {
		t.Fatal(err)
	}
	if err := tg.Close(); err != nil {
		t.Fatal(err)
	}
	if err := tg.Close(); err != nil { // idempotent
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("scratch file %s should have been removed", path)
	}
}

func TestRowsAndTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arr.img")
	w, err := CreateWriter(path, Int16, binary.BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	// Three 4-value rows, then truncate away the last.
	if err := w.WriteValues(make([]float64, 12)); err != nil {
		t.Fatal(err)
	}
	if err := w.Truncate(8); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	rows, err := Rows(path, Int16, 4)
	if err != nil {
		t.Fatal(err)
	}
	if rows != 2 {
		t.Errorf("Rows = %d, want 2", rows)
	}
	if _, err := Rows(path, Int16, 3); err == nil {
		t.Error("Rows should reject a width the file size does not divide by")
	}
}
