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

// Package rawfile reads and writes flat, row-major, header-less binary
// arrays. Shape and element type are supplied by the caller, never read
// from the file, and byte order is an explicit configuration choice.
package rawfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// DType enumerates the element types arrays may be stored in.
type DType int

const (
	UInt8 DType = iota
	Int16
	UInt16
	Int32
	UInt32
	Float32
)

var dtypeNames = map[DType]string{
	UInt8:   "uint8",
	Int16:   "int16",
	UInt16:  "uint16",
	Int32:   "int32",
	UInt32:  "uint32",
	Float32: "float32",
}

// dtypeAliases accepts the short byte-count spellings used in grid
// production filenames alongside the full names.
var dtypeAliases = map[string]DType{
	"uint8": UInt8, "u1": UInt8, "byte": UInt8,
	"int16": Int16, "s2": Int16, "i2": Int16,
	"uint16": UInt16, "u2": UInt16,
	"int32": Int32, "s4": Int32, "i4": Int32,
	"uint32": UInt32, "u4": UInt32,
	"float32": Float32, "f4": Float32, "float": Float32,
}

func (d DType) String() string {
	if s, ok := dtypeNames[d]; ok {
		return s
	}
	return fmt.Sprintf("DType(%d)", int(d))
}

// ParseDType matches a type name, accepting short spellings such as "u1"
// and "f4".
func ParseDType(s string) (DType, error) {
	if d, ok := dtypeAliases[s]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("rawfile: unknown element type %q", s)
}

// Size returns the element width in bytes.
func (d DType) Size() int {
	switch d {
	case UInt8:
		return 1
	case Int16, UInt16:
		return 2
	}
	return 4
}

// Integer reports whether the type holds integers, which take the
// magnitude-directed rounding bias when narrowed from an average.
func (d DType) Integer() bool { return d != Float32 }

// Min and Max give the representable range, for clamping before
// narrowing.
func (d DType) Min() float64 {
	switch d {
	case Int16:
		return math.MinInt16
	case Int32:
		return math.MinInt32
	case Float32:
		return -math.MaxFloat32
	}
	return 0
}

func (d DType) Max() float64 {
	switch d {
	case UInt8:
		return math.MaxUint8
	case Int16:
		return math.MaxInt16
	case UInt16:
		return math.MaxUint16
	case Int32:
		return math.MaxInt32
	case UInt32:
		return math.MaxUint32
	}
	return math.MaxFloat32
}

// Get decodes the element at the start of b.
func (d DType) Get(b []byte, order binary.ByteOrder) float64 {
	switch d {
	case UInt8:
		return float64(b[0])
	case Int16:
		return float64(int16(order.Uint16(b)))
	case UInt16:
		return float64(order.Uint16(b))
	case Int32:
		return float64(int32(order.Uint32(b)))
	case UInt32:
		return float64(order.Uint32(b))
	default:
		return float64(math.Float32frombits(order.Uint32(b)))
	}
}

// Put encodes v at the start of b. Integer types clamp to their
// representable range and truncate toward zero.
func (d DType) Put(b []byte, order binary.ByteOrder, v float64) {
	if d != Float32 {
		if v < d.Min() {
			v = d.Min()
		} else if v > d.Max() {
			v = d.Max()
		}
	}
	switch d {
	case UInt8:
		b[0] = byte(uint8(v))
	case Int16:
		order.PutUint16(b, uint16(int16(v)))
	case UInt16:
		order.PutUint16(b, uint16(v))
	case Int32:
		order.PutUint32(b, uint32(int32(v)))
	case UInt32:
		order.PutUint32(b, uint32(v))
	default:
		order.PutUint32(b, math.Float32bits(float32(v)))
	}
}

// Order matches a byte-order name from configuration. The empty string
// defaults to little-endian.
func Order(name string) (binary.ByteOrder, error) {
	switch name {
	case "", "little", "little-endian", "lsb":
		return binary.LittleEndian, nil
	case "big", "big-endian", "msb":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("rawfile: unknown byte order %q", name)
}

// A Reader streams rows of a flat array file.
type Reader struct {
	f     *os.File
	dt    DType
	order binary.ByteOrder
	cols  int
	buf   []byte
}

// OpenReader opens an array file and verifies that its size matches the
// declared shape exactly, so dimension mismatches surface before any
// processing starts.
func OpenReader(path string, dt DType, order binary.ByteOrder, cols, rows int) (*Reader, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("rawfile: %s: declared shape %dx%d must be positive", path, cols, rows)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rawfile: open %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("rawfile: stat %s: %w", path, err)
	}
	want := int64(cols) * int64(rows) * int64(dt.Size())
	if fi.Size() != want {
		f.Close()
		return nil, fmt.Errorf("rawfile: %s is %d bytes; declared shape %dx%d %s needs %d",
			path, fi.Size(), cols, rows, dt, want)
	}
	return &Reader{f: f, dt: dt, order: order, cols: cols}, nil
}

// SeekRow positions the reader at the start of a row.
func (r *Reader) SeekRow(row int) error {
	_, err := r.f.Seek(int64(row)*int64(r.cols)*int64(r.dt.Size()), 0)
	if err != nil {
		return fmt.Errorf("rawfile: seek %s row %d: %w", r.f.Name(), row, err)
	}
	return nil
}

// ReadRows decodes len(dst)/cols complete rows into dst.
func (r *Reader) ReadRows(dst []float64) error {
	n := len(dst) * r.dt.Size()
	if cap(r.buf) < n {
		r.buf = make([]byte, n)
	}
	buf := r.buf[:n]
	if _, err := io.ReadFull(r.f, buf); err != nil {
		return fmt.Errorf("rawfile: read %s: %w", r.f.Name(), err)
	}
	size := r.dt.Size()
	for i := range dst {
		dst[i] = r.dt.Get(buf[i*size:], r.order)
	}
	return nil
}

func (r *Reader) Close() error { return r.f.Close() }

// A Writer streams rows of a flat array file.
type Writer struct {
	f     *os.File
	dt    DType
	order binary.ByteOrder
	buf   []byte
}

// CreateWriter creates (or truncates) an array file.
func CreateWriter(path string, dt DType, order binary.ByteOrder) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("rawfile: create %s: %w", path, err)
	}
	return &Writer{f: f, dt: dt, order: order}, nil
}

// WriteValues encodes and appends vals.
func (w *Writer) WriteValues(vals []float64) error {
	n := len(vals) * w.dt.Size()
	if cap(w.buf) < n {
		w.buf = make([]byte, n)
	}
	buf := w.buf[:n]
	size := w.dt.Size()
	for i, v := range vals {
		w.dt.Put(buf[i*size:], w.order, v)
	}
	if _, err := w.f.Write(buf); err != nil {
		return fmt.Errorf("rawfile: write %s: %w", w.f.Name(), err)
	}
	return nil
}

// Truncate shrinks the file to the first n values, discarding anything
// already written past them.
func (w *Writer) Truncate(n int64) error {
	if err := w.f.Truncate(n * int64(w.dt.Size())); err != nil {
		return fmt.Errorf("rawfile: truncate %s: %w", w.f.Name(), err)
	}
	return nil
}

func (w *Writer) Close() error { return w.f.Close() }

// Rows derives the number of rows in an array file from its on-disk
// size, failing when the size is not a whole number of rows.
func Rows(path string, dt DType, cols int) (int, error) {
	if cols <= 0 {
		return 0, fmt.Errorf("rawfile: %s: declared width %d must be positive", path, cols)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("rawfile: stat %s: %w", path, err)
	}
	rowBytes := int64(cols) * int64(dt.Size())
	if fi.Size()%rowBytes != 0 {
		return 0, fmt.Errorf("rawfile: %s is %d bytes, not a whole number of %d-value %s rows",
			path, fi.Size(), cols, dt)
	}
	return int(fi.Size() / rowBytes), nil
}

// ReadArray reads a whole array of n elements.
func ReadArray(path string, dt DType, order binary.ByteOrder, n int) ([]float64, error) {
	r, err := OpenReader(path, dt, order, n, 1)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	vals := make([]float64, n)
	if err := r.ReadRows(vals); err != nil {
		return nil, err
	}
	return vals, nil
}

// WriteArray writes a whole array.
func WriteArray(path string, dt DType, order binary.ByteOrder, vals []float64) error {
	w, err := CreateWriter(path, dt, order)
	if err != nil {
		return err
	}
	if err := w.WriteValues(vals); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
