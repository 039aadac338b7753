package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	fired []Alert
	ch    chan Alert
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Alert, 10)}
}

func (r *recorder) dispatch(a Alert) {
	r.mu.Lock()
	r.fired = append(r.fired, a)
	r.mu.Unlock()
	r.ch <- a
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func TestScheduleOnceTooLate(t *testing.T) {
	now := time.Now()
	rec := newRecorder()
	reg := NewWithClock(rec.dispatch, func() time.Time { return now })

	for _, fireAt := range []time.Time{now, now.Add(-time.Minute)} {
		err := reg.ScheduleOnce(fireAt, Alert{ChatID: 1})
		if !errors.Is(err, ErrTooLate) {
			t.Errorf("ScheduleOnce(%v) error = %v, want ErrTooLate", fireAt, err)
		}
	}

	if got := reg.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0 after rejected registrations", got)
	}
}

func TestScheduleOnceFiresExactlyOnce(t *testing.T) {
	rec := newRecorder()
	reg := New(rec.dispatch)
	defer reg.Stop()

	a := Alert{ChatID: 42, TopicID: 7, ObjectiveLabel: "Gate", TimeLabel: "1400"}
	if err := reg.ScheduleOnce(time.Now().Add(20*time.Millisecond), a); err != nil {
		t.Fatalf("ScheduleOnce failed: %v", err)
	}
	if got := reg.Pending(); got != 1 {
		t.Fatalf("Pending() = %d, want 1", got)
	}

	select {
	case fired := <-rec.ch:
		if fired != a {
			t.Errorf("dispatched alert = %+v, want %+v", fired, a)
		}
	case <-time.After(time.Second):
		t.Fatal("alert did not fire")
	}

	// A fired registration is discarded and never fires again.
	time.Sleep(50 * time.Millisecond)
	if got := reg.Pending(); got != 0 {
		t.Errorf("Pending() = %d after firing, want 0", got)
	}
	if got := rec.count(); got != 1 {
		t.Errorf("dispatch count = %d, want 1", got)
	}
}

func TestScheduleOnceReplacesPendingAlert(t *testing.T) {
	rec := newRecorder()
	reg := New(rec.dispatch)
	defer reg.Stop()

	first := Alert{ChatID: 42, ObjectiveLabel: "Bridge", TimeLabel: "0900"}
	second := Alert{ChatID: 42, ObjectiveLabel: "City", TimeLabel: "2100"}

	if err := reg.ScheduleOnce(time.Now().Add(time.Hour), first); err != nil {
		t.Fatalf("first ScheduleOnce failed: %v", err)
	}
	if err := reg.ScheduleOnce(time.Now().Add(30*time.Millisecond), second); err != nil {
		t.Fatalf("second ScheduleOnce failed: %v", err)
	}
	if got := reg.Pending(); got != 1 {
		t.Errorf("Pending() = %d, want 1 (same chat replaces)", got)
	}

	select {
	case fired := <-rec.ch:
		if fired != second {
			t.Errorf("dispatched alert = %+v, want the replacement %+v", fired, second)
		}
	case <-time.After(time.Second):
		t.Fatal("replacement alert did not fire")
	}

	if got := rec.count(); got != 1 {
		t.Errorf("dispatch count = %d, want 1 (replaced alert must not fire)", got)
	}
}

func TestDifferentChatsAreIndependent(t *testing.T) {
	rec := newRecorder()
	reg := New(rec.dispatch)
	defer reg.Stop()

	if err := reg.ScheduleOnce(time.Now().Add(time.Hour), Alert{ChatID: 1}); err != nil {
		t.Fatalf("ScheduleOnce failed: %v", err)
	}
	if err := reg.ScheduleOnce(time.Now().Add(time.Hour), Alert{ChatID: 2}); err != nil {
		t.Fatalf("ScheduleOnce failed: %v", err)
	}

	if got := reg.Pending(); got != 2 {
		t.Errorf("Pending() = %d, want 2", got)
	}
}

func TestStopCancelsPendingAlerts(t *testing.T) {
	rec := newRecorder()
	reg := New(rec.dispatch)

	if err := reg.ScheduleOnce(time.Now().Add(50*time.Millisecond), Alert{ChatID: 1}); err != nil {
		t.Fatalf("ScheduleOnce failed: %v", err)
	}

	reg.Stop()
	if got := reg.Pending(); got != 0 {
		t.Errorf("Pending() = %d after Stop, want 0", got)
	}

	time.Sleep(100 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Errorf("dispatch count = %d after Stop, want 0", got)
	}
}
