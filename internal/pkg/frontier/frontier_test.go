package frontier

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func newTestFrontier(t *testing.T, inMemory bool) *Frontier {
	t.Helper()

	f := new(Frontier)
	if err := f.Init(t.TempDir(), inMemory); err != nil {
		t.Fatalf("Cannot init frontier: %v", err)
	}

	return f
}

func TestOfferIdempotence(t *testing.T) {
	f := newTestFrontier(t, true)
	defer f.Close()

	isNew, err := f.Offer("listing-1")
	if err != nil {
		t.Fatalf("Offer failed: %v", err)
	}
	if !isNew {
		t.Fatal("First offer of an ID should report it as new")
	}

	isNew, err = f.Offer("listing-1")
	if err != nil {
		t.Fatalf("Offer failed: %v", err)
	}
	if isNew {
		t.Fatal("Second offer of an ID should be suppressed")
	}

	if f.QueueLen() != 1 {
		t.Fatalf("Expected 1 pending ID, got %d", f.QueueLen())
	}
	if f.Seencheck.SeenCount.Value() != 1 {
		t.Fatalf("Expected 1 seen ID, got %d", f.Seencheck.SeenCount.Value())
	}
}

func TestOfferConcurrentRegions(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newTestFrontier(t, true)

	// Two overlapping regions reporting the same 100 listings each,
	// every ID must be enqueued exactly once.
	var wg sync.WaitGroup
	for region := 0; region < 2; region++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if _, err := f.Offer(fmt.Sprintf("listing-%d", i)); err != nil {
					t.Errorf("Offer failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if f.QueueLen() != 100 {
		t.Fatalf("Expected 100 pending IDs, got %d", f.QueueLen())
	}

	f.Close()
}

func TestPopTimeout(t *testing.T) {
	f := newTestFrontier(t, true)
	defer f.Close()

	start := time.Now()
	_, ok, err := f.Pop(300 * time.Millisecond)
	if err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if ok {
		t.Fatal("Pop on an empty queue should not return an ID")
	}
	if time.Since(start) < 300*time.Millisecond {
		t.Fatal("Pop returned before its timeout expired")
	}
}

func TestPopOrder(t *testing.T) {
	f := newTestFrontier(t, true)
	defer f.Close()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := f.Offer(id); err != nil {
			t.Fatalf("Offer failed: %v", err)
		}
	}

	for _, expected := range []string{"a", "b", "c"} {
		id, ok, err := f.Pop(time.Second)
		if err != nil || !ok {
			t.Fatalf("Pop failed: ok=%v err=%v", ok, err)
		}
		if id != expected {
			t.Fatalf("Expected %s, got %s", expected, id)
		}
	}
}

func TestRequeue(t *testing.T) {
	f := newTestFrontier(t, true)
	defer f.Close()

	if _, err := f.Offer("listing-1"); err != nil {
		t.Fatalf("Offer failed: %v", err)
	}

	id, ok, _ := f.Pop(time.Second)
	if !ok {
		t.Fatal("Expected an ID")
	}

	if err := f.Requeue(id); err != nil {
		t.Fatalf("Requeue failed: %v", err)
	}

	if f.QueueLen() != 1 {
		t.Fatalf("Expected 1 pending ID after requeue, got %d", f.QueueLen())
	}

	// Requeue must not touch the seen set
	if f.Seencheck.SeenCount.Value() != 1 {
		t.Fatalf("Expected 1 seen ID, got %d", f.Seencheck.SeenCount.Value())
	}
}

func TestRetryCounters(t *testing.T) {
	f := newTestFrontier(t, true)
	defer f.Close()

	for expected := 1; expected <= 3; expected++ {
		count, err := f.State.IncrRetry("listing-1")
		if err != nil {
			t.Fatalf("IncrRetry failed: %v", err)
		}
		if count != expected {
			t.Fatalf("Expected retry count %d, got %d", expected, count)
		}
	}

	if err := f.State.ClearRetry("listing-1"); err != nil {
		t.Fatalf("ClearRetry failed: %v", err)
	}

	count, err := f.State.IncrRetry("listing-1")
	if err != nil {
		t.Fatalf("IncrRetry failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected retry count to restart at 1, got %d", count)
	}
}

func TestDrainAccounting(t *testing.T) {
	f := newTestFrontier(t, true)
	defer f.Close()

	for i := 0; i < 10; i++ {
		if _, err := f.Offer(fmt.Sprintf("listing-%d", i)); err != nil {
			t.Fatalf("Offer failed: %v", err)
		}
	}

	for i := 0; i < 10; i++ {
		id, ok, err := f.Pop(time.Second)
		if err != nil || !ok {
			t.Fatalf("Pop failed: ok=%v err=%v", ok, err)
		}

		switch {
		case i < 7:
			err = f.State.MarkProcessed(id)
		case i < 9:
			err = f.State.MarkFailed(id)
		default:
			err = f.State.MarkSkipped(id)
		}
		if err != nil {
			t.Fatalf("Cannot mark %s: %v", id, err)
		}
	}

	stats := f.GetStats()
	if stats.Pending != 0 {
		t.Fatalf("Expected an empty queue, got %d pending", stats.Pending)
	}
	if stats.Processed+stats.Failed+stats.Skipped != stats.Discovered {
		t.Fatalf("Drain accounting broken: %d+%d+%d != %d",
			stats.Processed, stats.Failed, stats.Skipped, stats.Discovered)
	}
	if len(f.State.FailedIDs()) != 2 {
		t.Fatalf("Expected 2 failed IDs, got %d", len(f.State.FailedIDs()))
	}
}

func TestDurableResume(t *testing.T) {
	jobPath := t.TempDir()

	f := new(Frontier)
	if err := f.Init(jobPath, false); err != nil {
		t.Fatalf("Cannot init frontier: %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if _, err := f.Offer(id); err != nil {
			t.Fatalf("Offer failed: %v", err)
		}
	}

	id, ok, _ := f.Pop(time.Second)
	if !ok {
		t.Fatal("Expected an ID")
	}
	if err := f.State.MarkProcessed(id); err != nil {
		t.Fatalf("MarkProcessed failed: %v", err)
	}

	f.Close()

	// A new process picks the job up where the old one left it
	resumed := new(Frontier)
	if err := resumed.Init(jobPath, false); err != nil {
		t.Fatalf("Cannot resume frontier: %v", err)
	}
	defer resumed.Close()

	if resumed.QueueLen() != 2 {
		t.Fatalf("Expected 2 pending IDs after resume, got %d", resumed.QueueLen())
	}
	if resumed.State.ProcessedCount.Value() != 1 {
		t.Fatalf("Expected 1 processed ID after resume, got %d", resumed.State.ProcessedCount.Value())
	}
	if resumed.Seencheck.SeenCount.Value() != 3 {
		t.Fatalf("Expected 3 seen IDs after resume, got %d", resumed.Seencheck.SeenCount.Value())
	}

	// The seen set survived, re-discovering the same IDs stays suppressed
	isNew, err := resumed.Offer("a")
	if err != nil {
		t.Fatalf("Offer failed: %v", err)
	}
	if isNew {
		t.Fatal("Resumed job should remember already-discovered IDs")
	}

	processed, err := resumed.State.IsProcessed(id)
	if err != nil {
		t.Fatalf("IsProcessed failed: %v", err)
	}
	if !processed {
		t.Fatal("Resumed job should remember processed IDs")
	}
}
