// Package predict propagates two-line element sets with SGP4, serving as
// an offline position source and as the pass predictor behind skyplot.
package predict

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// tleLineLen is the fixed column width of an element line.
const tleLineLen = 69

// TLE is one two-line element set, optionally preceded by a name line.
// Element lines keep their original column layout; only trailing
// whitespace is trimmed.
type TLE struct {
	Name  string
	Line1 string
	Line2 string
}

// Validate checks the element lines are shaped well enough to hand to
// the SGP4 initializer, which assumes fixed columns.
func (t TLE) Validate() error {
	if !strings.HasPrefix(t.Line1, "1 ") || len(t.Line1) < tleLineLen {
		return fmt.Errorf("tle: malformed first element line %q", t.Line1)
	}
	if !strings.HasPrefix(t.Line2, "2 ") || len(t.Line2) < tleLineLen {
		return fmt.Errorf("tle: malformed second element line %q", t.Line2)
	}
	return nil
}

// NoradID returns the catalog number from columns 3-7 of the first line.
func (t TLE) NoradID() (int, error) {
	if len(t.Line1) < 7 {
		return 0, fmt.Errorf("tle: element line too short")
	}
	id, err := strconv.Atoi(strings.TrimSpace(t.Line1[2:7]))
	if err != nil {
		return 0, fmt.Errorf("tle: invalid catalog number: %w", err)
	}
	return id, nil
}

// LoadFile reads element sets from a file in 2-line or named 3-line form.
func LoadFile(path string) ([]TLE, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening TLE file: %w", err)
	}
	defer f.Close()

	tles, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tles, nil
}

// Parse reads element sets from r. A non-element line immediately before
// an element pair names the set; blank lines separate sets.
func Parse(r io.Reader) ([]TLE, error) {
	var tles []TLE
	var name string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			name = ""
			continue
		}

		if !strings.HasPrefix(line, "1 ") {
			name = strings.TrimSpace(line)
			continue
		}

		if !scanner.Scan() {
			return nil, fmt.Errorf("tle: element set %q has no second line", name)
		}
		line2 := strings.TrimRight(scanner.Text(), " \t\r")

		t := TLE{Name: name, Line1: line, Line2: line2}
		if err := t.Validate(); err != nil {
			return nil, err
		}

		tles = append(tles, t)
		name = ""
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TLE data: %w", err)
	}

	if len(tles) == 0 {
		return nil, fmt.Errorf("tle: no element sets found")
	}
	return tles, nil
}

// Find selects an element set: by name when given (case-insensitive
// substring), else by catalog number when id is positive, else the first
// set.
func Find(tles []TLE, name string, id int) (TLE, error) {
	if name != "" {
		needle := strings.ToLower(name)
		for _, t := range tles {
			if strings.Contains(strings.ToLower(t.Name), needle) {
				return t, nil
			}
		}
		return TLE{}, fmt.Errorf("tle: no element set named %q", name)
	}

	if id > 0 {
		for _, t := range tles {
			tid, err := t.NoradID()
			if err == nil && tid == id {
				return t, nil
			}
		}
		return TLE{}, fmt.Errorf("tle: no element set for catalog number %d", id)
	}

	return tles[0], nil
}
