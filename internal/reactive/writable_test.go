package reactive

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestWritable_SubscribeReplaysCurrentValue(t *testing.T) {
	t.Parallel()

	w := NewWritable(3)
	var got []int
	unsub := w.Subscribe(func(v int) { got = append(got, v) })
	defer unsub()

	if !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("expected replay of initial value; got %v", got)
	}

	w.Set(4)
	if v := w.Update(func(v int) int { return v * 10 }); v != 40 {
		t.Fatalf("Update returned %d, want 40", v)
	}
	if !reflect.DeepEqual(got, []int{3, 4, 40}) {
		t.Fatalf("unexpected deliveries: %v", got)
	}
}

func TestWritable_UnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	w := NewWritable("a")
	calls := 0
	unsub := w.Subscribe(func(string) { calls++ })
	other := 0
	unsubOther := w.Subscribe(func(string) { other++ })
	defer unsubOther()

	unsub()
	unsub()
	w.Set("b")

	if calls != 1 {
		t.Fatalf("expected only the replay call after unsubscribe; got %d", calls)
	}
	if other != 2 {
		t.Fatalf("expected remaining subscriber to see replay + set; got %d", other)
	}
	if n := w.Subscribers(); n != 1 {
		t.Fatalf("Subscribers() = %d, want 1", n)
	}
}

func TestWritable_SubscriberMayReadValue(t *testing.T) {
	t.Parallel()

	w := NewWritable(0)
	var seen []int
	unsub := w.Subscribe(func(int) { seen = append(seen, w.Get()) })
	defer unsub()

	w.Set(7)
	if !reflect.DeepEqual(seen, []int{0, 7}) {
		t.Fatalf("unexpected values read inside callback: %v", seen)
	}
}

func TestWritable_MutateSkipsNotificationWhenUnchanged(t *testing.T) {
	t.Parallel()

	w := NewWritable(1)
	calls := 0
	unsub := w.Subscribe(func(int) { calls++ })
	defer unsub()

	if v, changed := w.Mutate(func(cur int) (int, bool) { return cur + 1, false }); changed || v != 1 {
		t.Fatalf("Mutate(false) = (%d, %v), want (1, false)", v, changed)
	}
	if calls != 1 {
		t.Fatalf("expected no notification for unchanged mutate; calls=%d", calls)
	}
	if v, changed := w.Mutate(func(cur int) (int, bool) { return cur + 1, true }); !changed || v != 2 {
		t.Fatalf("Mutate(true) = (%d, %v), want (2, true)", v, changed)
	}
	if calls != 2 {
		t.Fatalf("expected one notification; calls=%d", calls)
	}
}

func TestWritable_ReplayIsNeverDeliveredAfterANewerValue(t *testing.T) {
	t.Parallel()

	w := NewWritable(1)
	entered := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	var seen []int
	first := true
	subscribed := make(chan struct{})
	go func() {
		defer close(subscribed)
		w.Subscribe(func(v int) {
			mu.Lock()
			block := first
			first = false
			mu.Unlock()
			if block {
				close(entered)
				<-release
			}
			mu.Lock()
			seen = append(seen, v)
			mu.Unlock()
		})
	}()

	<-entered
	setDone := make(chan struct{})
	go func() {
		defer close(setDone)
		w.Set(2)
	}()
	// Give Set a chance to race the replay that is still in flight.
	time.Sleep(20 * time.Millisecond)
	close(release)
	<-subscribed
	<-setDone

	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(seen, []int{1, 2}) {
		t.Fatalf("deliveries = %v, want [1 2] (Get=%d)", seen, w.Get())
	}
}

func TestWritable_ConcurrentUpdatesDeliverInOrder(t *testing.T) {
	t.Parallel()

	w := NewWritable(0)
	var seen []int
	unsub := w.Subscribe(func(v int) { seen = append(seen, v) })
	defer unsub()

	const writers, perWriter = 8, 100
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				w.Update(func(v int) int { return v + 1 })
			}
		}()
	}
	wg.Wait()

	if len(seen) != writers*perWriter+1 {
		t.Fatalf("expected replay plus one delivery per update; got %d", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] != seen[i-1]+1 {
			t.Fatalf("delivery %d out of order: %d after %d", i, seen[i], seen[i-1])
		}
	}
	if last := seen[len(seen)-1]; last != w.Get() || last != writers*perWriter {
		t.Fatalf("last delivery %d, Get %d, want %d", last, w.Get(), writers*perWriter)
	}
}
