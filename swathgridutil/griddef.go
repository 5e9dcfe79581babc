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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ssec/swathgrid/grid"
)

// LoadGridDef reads a grid definition file into the key-value form the
// grid package consumes. Each non-blank line is 'key: value'; '#'
// starts a comment.
func LoadGridDef(path string) (*grid.Def, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: open grid definition %s: %w", path, err)
	}
	defer f.Close()

	kv := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, val, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("swathgrid: %s:%d: expected 'key: value', got %q", path, lineNo, line)
		}
		kv[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("swathgrid: read grid definition %s: %w", path, err)
	}

	d, err := grid.FromMap(kv)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: grid definition %s: %w", path, err)
	}
	return d, nil
}
