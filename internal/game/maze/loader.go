package maze

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlLayoutFile is the top-level YAML structure for a fixed maze layout.
//
// Each row is a string where '#' is a Wall and ' ' or '.' is Open.
type yamlLayoutFile struct {
	Maze struct {
		Rows []string `yaml:"rows"`
	} `yaml:"maze"`
}

// LoadLayoutFromFile reads and validates a maze layout YAML file.
//
// Precondition: path must point to a readable YAML layout file.
// Postcondition: Returns a validated Maze or a non-nil error.
func LoadLayoutFromFile(path string) (*Maze, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout file %s: %w", path, err)
	}
	return LoadLayoutFromBytes(data)
}

// LoadLayoutFromBytes parses and validates a maze layout from YAML bytes.
//
// A valid layout is rectangular, has odd width and height, and has Start Open.
func LoadLayoutFromBytes(data []byte) (*Maze, error) {
	var file yamlLayoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing layout YAML: %w", err)
	}
	rows := file.Maze.Rows
	if len(rows) == 0 {
		return nil, fmt.Errorf("layout has no rows")
	}

	width := len(rows[0])
	height := len(rows)
	if width%2 == 0 || height%2 == 0 {
		return nil, fmt.Errorf("layout dimensions must be odd, got %dx%d", width, height)
	}

	cells := make([]Cell, 0, width*height)
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("layout row %d has %d columns, want %d", y, len(row), width)
		}
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case '#':
				cells = append(cells, Wall)
			case ' ', '.':
				cells = append(cells, Open)
			default:
				return nil, fmt.Errorf("layout row %d column %d: unknown cell %q", y, x, row[x])
			}
		}
	}

	m, err := FromCells(uint32(width), uint32(height), cells)
	if err != nil {
		return nil, err
	}
	if m.At(Start) != Open {
		return nil, fmt.Errorf("layout start cell (%d,%d) must be open", Start.X, Start.Y)
	}
	return m, nil
}

// Rows renders m in the layout row format, '#' for Wall and ' ' for Open.
// LoadLayoutFromBytes accepts the result for any maze with an open start.
func (m *Maze) Rows() []string {
	rows := make([]string, 0, m.height)
	buf := make([]byte, m.width)
	for y := uint32(0); y < m.height; y++ {
		for x := uint32(0); x < m.width; x++ {
			if m.Get(x, y) == Open {
				buf[x] = ' '
			} else {
				buf[x] = '#'
			}
		}
		rows = append(rows, string(buf))
	}
	return rows
}
