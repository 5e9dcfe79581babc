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
	"fmt"
	"os"
)

// TempGrid is a scratch grid file that is removed when closed, on every
// exit path. Close is idempotent so it can sit in a defer while the
// success path also closes explicitly.
type TempGrid struct {
	F    *os.File
	path string
	done bool
}

// NewTempGrid creates a scratch file in dir (or the system temp directory
// when dir is empty).
func NewTempGrid(dir, pattern string) (*TempGrid, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("rawfile: scratch grid: %w", err)
	}
	return &TempGrid{F: f, path: f.Name()}, nil
}

// Path returns the scratch file location.
func (t *TempGrid) Path() string { return t.path }

// Close closes and deletes the scratch file.
func (t *TempGrid) Close() error {
	if t.done {
		return nil
	}
	t.done = true
	cerr := t.F.Close()
	rerr := os.Remove(t.path)
	if cerr != nil {
		return fmt.Errorf("rawfile: close scratch grid %s: %w", t.path, cerr)
	}
	if rerr != nil {
		return fmt.Errorf("rawfile: remove scratch grid %s: %w", t.path, rerr)
	}
	return nil
}
