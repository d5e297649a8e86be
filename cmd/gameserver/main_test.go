package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/mazeio/internal/config"
	"github.com/cory-johannsen/mazeio/internal/game/maze"
)

func TestBuildMaze_SeededIsReproducible(t *testing.T) {
	cfg := config.MazeConfig{OpenCellsX: 4, OpenCellsY: 3, Seed: 99}
	a, err := buildMaze(cfg)
	require.NoError(t, err)
	b, err := buildMaze(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Cells(), b.Cells())
	assert.Equal(t, uint32(9), a.Width())
	assert.Equal(t, uint32(7), a.Height())
	assert.Equal(t, maze.Open, a.At(maze.Start))
}

func TestBuildMaze_LayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maze.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maze:\n  rows:\n    - \"###\"\n    - \"# #\"\n    - \"###\"\n"), 0644))

	m, err := buildMaze(config.MazeConfig{LayoutFile: path})
	require.NoError(t, err)
	assert.Equal(t, 1, m.OpenCount())
}
