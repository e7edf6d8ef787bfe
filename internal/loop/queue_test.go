package loop

import (
	"reflect"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestQueueRunsInDueOrder(t *testing.T) {
	clock := NewVirtualClock(epoch)
	q := NewQueue(clock)

	var got []string
	q.After(30*time.Millisecond, func() { got = append(got, "c") })
	q.After(10*time.Millisecond, func() { got = append(got, "a") })
	q.After(10*time.Millisecond, func() { got = append(got, "b") })

	if q.Len() != 3 {
		t.Fatalf("Len() = %d, expected 3", q.Len())
	}

	n := q.Advance(20 * time.Millisecond)
	if n != 2 {
		t.Errorf("Advance() ran %d tasks, expected 2", n)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("order = %v, expected [a b]", got)
	}

	q.Advance(10 * time.Millisecond)
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("order = %v, expected [a b c]", got)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", q.Len())
	}
}

func TestQueueRescheduledTasks(t *testing.T) {
	clock := NewVirtualClock(epoch)
	q := NewQueue(clock)

	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		q.After(10*time.Millisecond, tick)
	}
	q.After(0, tick)

	q.Advance(95 * time.Millisecond)
	// t=0,10,...,90
	if ticks != 10 {
		t.Errorf("ticks = %d, expected 10", ticks)
	}
	if !clock.Now().Equal(epoch.Add(95 * time.Millisecond)) {
		t.Errorf("clock = %v, expected epoch+95ms", clock.Now())
	}
}

func TestQueueTasksSeeDueTime(t *testing.T) {
	clock := NewVirtualClock(epoch)
	q := NewQueue(clock)

	var seen time.Duration
	q.After(40*time.Millisecond, func() { seen = clock.Now().Sub(epoch) })
	q.Advance(time.Second)

	if seen != 40*time.Millisecond {
		t.Errorf("task saw %v, expected 40ms", seen)
	}
}

func TestQueueRunDueChainsZeroDelay(t *testing.T) {
	clock := NewVirtualClock(epoch)
	q := NewQueue(clock)

	var got []int
	q.After(0, func() {
		got = append(got, 1)
		q.After(0, func() { got = append(got, 2) })
		q.After(time.Millisecond, func() { got = append(got, 3) })
	})

	n := q.RunDue(clock.Now())
	if n != 2 {
		t.Errorf("RunDue() = %d, expected 2", n)
	}
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("got %v, expected [1 2]", got)
	}

	due, ok := q.Next()
	if !ok || !due.Equal(epoch.Add(time.Millisecond)) {
		t.Errorf("Next() = (%v, %v), expected epoch+1ms", due, ok)
	}
}

func TestQueueWakeSignal(t *testing.T) {
	q := NewQueue(nil)
	q.After(time.Hour, func() {})

	select {
	case <-q.Wake():
	default:
		t.Error("After() should signal Wake()")
	}
}
