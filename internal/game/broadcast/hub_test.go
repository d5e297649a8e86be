package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func recvWithin(t *testing.T, s *Subscription[int]) (int, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.Recv(ctx)
}

func TestNewHub_RejectsZeroCapacity(t *testing.T) {
	_, err := NewHub[int](0)
	assert.Error(t, err)
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	h, err := NewHub[int](4)
	require.NoError(t, err)
	assert.ErrorIs(t, h.Publish(1), ErrNoSubscribers)
}

func TestHub_SubscriberSeesOnlyLaterValues(t *testing.T) {
	h, _ := NewHub[int](4)
	_ = h.Publish(1)
	s := h.Subscribe()
	defer s.Close()
	require.NoError(t, h.Publish(2))

	v, err := recvWithin(t, s)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestHub_FanOutPreservesOrder(t *testing.T) {
	h, _ := NewHub[int](16)
	a := h.Subscribe()
	b := h.Subscribe()
	assert.Equal(t, 2, h.Subscribers())

	for i := 0; i < 10; i++ {
		require.NoError(t, h.Publish(i))
	}
	for _, s := range []*Subscription[int]{a, b} {
		for i := 0; i < 10; i++ {
			v, err := recvWithin(t, s)
			require.NoError(t, err)
			assert.Equal(t, i, v)
		}
	}
}

func TestHub_LaggingSubscriberSkipsAhead(t *testing.T) {
	h, _ := NewHub[int](3)
	s := h.Subscribe()
	for i := 0; i < 5; i++ {
		_ = h.Publish(i)
	}
	assert.Equal(t, uint64(5), s.Pending())

	_, err := recvWithin(t, s)
	var lag *LagError
	require.True(t, errors.As(err, &lag))
	assert.Equal(t, uint64(2), lag.Skipped)

	for _, want := range []int{2, 3, 4} {
		v, err := recvWithin(t, s)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	assert.Equal(t, uint64(0), s.Pending())
}

func TestHub_RecvBlocksUntilPublish(t *testing.T) {
	h, _ := NewHub[int](2)
	s := h.Subscribe()
	got := make(chan int, 1)
	go func() {
		v, err := s.Recv(context.Background())
		if err == nil {
			got <- v
		}
	}()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, h.Publish(42))
	select {
	case v := <-got:
		assert.Equal(t, 42, v)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was not woken")
	}
}

func TestHub_RecvHonoursContext(t *testing.T) {
	h, _ := NewHub[int](2)
	s := h.Subscribe()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHub_CloseDrainsThenFails(t *testing.T) {
	h, _ := NewHub[int](4)
	s := h.Subscribe()
	_ = h.Publish(7)
	h.Close()
	h.Close()

	v, err := recvWithin(t, s)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	_, err = recvWithin(t, s)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, h.Publish(8), ErrClosed)

	late := h.Subscribe()
	_, err = recvWithin(t, late)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubscription_Close(t *testing.T) {
	h, _ := NewHub[int](4)
	s := h.Subscribe()
	s.Close()
	s.Close()
	assert.Equal(t, 0, h.Subscribers())
	_, err := recvWithin(t, s)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, h.Publish(1), ErrNoSubscribers)
}

func TestHub_ConcurrentPublishers(t *testing.T) {
	h, _ := NewHub[int](1024)
	s := h.Subscribe()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = h.Publish(i)
			}
		}()
	}
	wg.Wait()
	for i := 0; i < 400; i++ {
		_, err := recvWithin(t, s)
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(0), s.Pending())
}

func TestProperty_ReceivedValuesAreOrderedSuffix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		n := rapid.IntRange(0, 40).Draw(t, "published")
		h, err := NewHub[int](capacity)
		if err != nil {
			t.Fatalf("hub: %v", err)
		}
		s := h.Subscribe()
		for i := 0; i < n; i++ {
			_ = h.Publish(i)
		}
		h.Close()

		var got []int
		skipped := uint64(0)
		for {
			v, err := s.Recv(context.Background())
			var lag *LagError
			if errors.As(err, &lag) {
				skipped += lag.Skipped
				continue
			}
			if errors.Is(err, ErrClosed) {
				break
			}
			if err != nil {
				t.Fatalf("recv: %v", err)
			}
			got = append(got, v)
		}
		if uint64(len(got))+skipped != uint64(n) {
			t.Fatalf("received %d + skipped %d != published %d", len(got), skipped, n)
		}
		if len(got) > capacity {
			t.Fatalf("received %d values from capacity %d", len(got), capacity)
		}
		for i, v := range got {
			if v != int(skipped)+i {
				t.Fatalf("value %d = %d, want %d", i, v, int(skipped)+i)
			}
		}
	})
}
