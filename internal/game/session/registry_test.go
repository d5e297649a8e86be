package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mazeio/internal/game/maze"
	"github.com/cory-johannsen/mazeio/internal/game/movement"
)

// corridorMaze opens (1,1), (2,1), (3,1) and nothing else.
func corridorMaze(t testing.TB) *maze.Maze {
	t.Helper()
	m, err := maze.LoadLayoutFromBytes([]byte("maze:\n  rows:\n    - \"#####\"\n    - \"#   #\"\n    - \"#####\"\n"))
	require.NoError(t, err)
	return m
}

func newTestRegistry(t testing.TB) *Registry {
	t.Helper()
	r, err := NewRegistry(corridorMaze(t))
	require.NoError(t, err)
	return r
}

func TestNewRegistry_RequiresMaze(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.Error(t, err)

	walled, err := maze.NewWalled(3, 3)
	require.NoError(t, err)
	_, err = NewRegistry(walled)
	assert.Error(t, err)
}

func TestRegistry_Register(t *testing.T) {
	r := newTestRegistry(t)
	p, err := r.Register("c1", "Alice")
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, maze.Start, p.Position)
	assert.True(t, p.Alive)
	assert.Equal(t, 1, r.Count())

	got, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, p, got)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Register("c1", "Alice")
	require.NoError(t, err)
	_, err = r.Register("c1", "Mallory")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyRegistered))
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_RegisterEmptyID(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Register("", "Alice")
	assert.Error(t, err)
}

func TestRegistry_UniqueIDs(t *testing.T) {
	r := newTestRegistry(t)
	a, err := r.Register("c1", "Same")
	require.NoError(t, err)
	b, err := r.Register("c2", "Same")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRegistry_Snapshot(t *testing.T) {
	r := newTestRegistry(t)
	assert.Empty(t, r.Snapshot())

	_, _ = r.Register("c1", "Alice")
	_, _ = r.Register("c2", "Bob")

	names := make([]string, 0, 2)
	for _, p := range r.Snapshot() {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, names)
}

func TestRegistry_SnapshotIsCopy(t *testing.T) {
	r := newTestRegistry(t)
	_, _ = r.Register("c1", "Alice")
	snap := r.Snapshot()
	snap[0].Position = maze.Position{X: 9, Y: 9}

	got, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, maze.Start, got.Position)
}

func TestRegistry_Mutate(t *testing.T) {
	r := newTestRegistry(t)
	_, _ = r.Register("c1", "Alice")

	res, ok := r.Mutate("c1", maze.Right)
	require.True(t, ok)
	assert.True(t, res.Moved)
	assert.Equal(t, maze.Position{X: 2, Y: 1}, res.Player.Position)

	res, ok = r.Mutate("c1", maze.Up)
	require.True(t, ok)
	assert.False(t, res.Moved)
	assert.Equal(t, maze.Position{X: 2, Y: 1}, res.Player.Position)
}

func TestRegistry_MutateUnknown(t *testing.T) {
	r := newTestRegistry(t)
	_, ok := r.Mutate("ghost", maze.Right)
	assert.False(t, ok)
}

func TestRegistry_MarkDeadAndRemove_Idempotent(t *testing.T) {
	r := newTestRegistry(t)
	_, _ = r.Register("c1", "Alice")
	_, _ = r.Mutate("c1", maze.Right)

	p, ok := r.MarkDeadAndRemove("c1")
	require.True(t, ok)
	assert.False(t, p.Alive)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, maze.Position{X: 2, Y: 1}, p.Position)
	assert.Equal(t, 0, r.Count())

	_, ok = r.MarkDeadAndRemove("c1")
	assert.False(t, ok)

	_, ok = r.Mutate("c1", maze.Right)
	assert.False(t, ok)
	_, ok = r.Get("c1")
	assert.False(t, ok)
}

func TestRegistry_ReRegisterAfterRemove(t *testing.T) {
	r := newTestRegistry(t)
	first, _ := r.Register("c1", "Alice")
	_, _ = r.MarkDeadAndRemove("c1")
	second, err := r.Register("c1", "Alice")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRegistry_ConcurrentRegisterAndRemove(t *testing.T) {
	r := newTestRegistry(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			_, err := r.Register(id, id)
			assert.NoError(t, err)
			_ = r.Snapshot()
			_, _ = r.Mutate(id, maze.Right)
			if i%2 == 0 {
				_, ok := r.MarkDeadAndRemove(id)
				assert.True(t, ok)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 25, r.Count())
}

func TestProperty_ConcurrentMutationsMatchSequential(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m, err := maze.Generate(5, 5, maze.NewSeededSource(rapid.Int64().Draw(t, "seed")))
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		r, err := NewRegistry(m)
		if err != nil {
			t.Fatalf("registry: %v", err)
		}

		players := rapid.IntRange(2, 5).Draw(t, "players")
		moves := make([][]maze.Direction, players)
		for i := range moves {
			moves[i] = rapid.SliceOfN(rapid.SampledFrom(maze.AllDirections), 0, 60).Draw(t, fmt.Sprintf("moves_%d", i))
			if _, err := r.Register(fmt.Sprintf("c%d", i), fmt.Sprintf("p%d", i)); err != nil {
				t.Fatalf("register: %v", err)
			}
		}

		var wg sync.WaitGroup
		for i := range moves {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("c%d", i)
				for _, d := range moves[i] {
					r.Mutate(id, d)
					r.Snapshot()
				}
			}(i)
		}
		wg.Wait()

		for i, dirs := range moves {
			want := maze.Start
			for _, d := range dirs {
				movement.MoveIfValid(&want, m, d)
			}
			got, ok := r.Get(fmt.Sprintf("c%d", i))
			if !ok {
				t.Fatalf("player c%d missing", i)
			}
			if got.Position != want || !got.Alive || got.Name != fmt.Sprintf("p%d", i) {
				t.Fatalf("player c%d = %+v, want position %+v", i, got, want)
			}
		}
	})
}

// changeLog records change hook calls.
type changeLog struct {
	mu      sync.Mutex
	changes []Player
}

func (l *changeLog) record(p Player) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, p)
}

func (l *changeLog) snapshot() []Player {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Player(nil), l.changes...)
}

func TestRegistry_ChangeHook(t *testing.T) {
	hook := &changeLog{}
	r, err := NewRegistry(corridorMaze(t), WithChangeHook(hook.record))
	require.NoError(t, err)

	p, err := r.Register("c1", "Alice")
	require.NoError(t, err)
	_, _ = r.Mutate("c1", maze.Up)
	_, _ = r.Mutate("c1", maze.Right)
	_, _ = r.MarkDeadAndRemove("c1")
	_, _ = r.MarkDeadAndRemove("c1")

	changes := hook.snapshot()
	require.Len(t, changes, 3)
	assert.Equal(t, p, changes[0])
	assert.Equal(t, maze.Position{X: 2, Y: 1}, changes[1].Position)
	assert.True(t, changes[1].Alive)
	assert.False(t, changes[2].Alive)
	assert.Equal(t, p.ID, changes[2].ID)
}

func TestRegistry_ChangeHookNeverReportsMoveAfterRemoval(t *testing.T) {
	for run := 0; run < 200; run++ {
		hook := &changeLog{}
		r, err := NewRegistry(corridorMaze(t), WithChangeHook(hook.record))
		require.NoError(t, err)
		_, err = r.Register("c1", "Alice")
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			defer close(done)
			dirs := []maze.Direction{maze.Right, maze.Left}
			for i := 0; ; i++ {
				if _, ok := r.Mutate("c1", dirs[i%2]); !ok {
					return
				}
			}
		}()
		_, ok := r.MarkDeadAndRemove("c1")
		require.True(t, ok)
		<-done

		changes := hook.snapshot()
		require.NotEmpty(t, changes)
		last := changes[len(changes)-1]
		require.False(t, last.Alive, "run %d: update after removal", run)
		for _, c := range changes[:len(changes)-1] {
			require.True(t, c.Alive, "run %d: removal reported before a later move", run)
		}
	}
}
