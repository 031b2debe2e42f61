package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[string]
	var counter atomic.Int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			got, err, _ := g.Do("catalog-index", func() (string, error) {
				counter.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "index", nil
			})
			if err != nil || got != "index" {
				t.Errorf("unexpected result: got=%q err=%v", got, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := counter.Load(); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_ErrorReturnsZeroValue(t *testing.T) {
	var g SingleFlight[*int]
	boom := errors.New("partition missing")

	got, err, _ := g.Do("partition-7", func() (*int, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) || got != nil {
		t.Fatalf("unexpected result: got=%v err=%v", got, err)
	}
}
