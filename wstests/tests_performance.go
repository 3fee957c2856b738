package wstests

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"

	"github.com/webservtools/webserv-contract-tests/client"
)

func performanceSuite() suiteDef {
	return suiteDef{
		name: "performance",
		tests: []testDef{
			{"test_latency_percentiles", performanceLatencyPercentiles},
			{"test_sustained_rate", performanceSustainedRate},
			{"test_concurrent_burst", performanceConcurrentBurst},
		},
	}
}

// performanceLatencyPercentiles samples static-file latency and asserts the
// distribution, not single measurements, so one slow scheduler tick does not
// flip the verdict.
func performanceLatencyPercentiles(t *T) {
	const samples = 50
	hist := hdrhistogram.New(1, int64(10*time.Second/time.Microsecond), 3)

	for i := 0; i < samples; i++ {
		res := t.Get("/static/hello.txt")
		t.AssertStatus(res, 200, fmt.Sprintf("latency sample %d failed", i))
		_ = hist.RecordValue(int64(res.Elapsed / time.Microsecond))
	}

	p50 := time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
	p95 := time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond
	p99 := time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond
	t.Debug("latency over %d samples: p50=%v p95=%v p99=%v", samples, p50, p95, p99)

	t.AssertTrue(p95 < 500*time.Millisecond,
		fmt.Sprintf("p95 latency for a small static file should stay under 500ms, got %v", p95))
	t.AssertTrue(p99 < time.Second,
		fmt.Sprintf("p99 latency for a small static file should stay under 1s, got %v", p99))
}

// performanceSustainedRate paces requests at a fixed rate for a short window
// and requires every one of them to succeed.
func performanceSustainedRate(t *T) {
	const (
		perSecond = 25
		total     = 50
	)
	limiter := rate.NewLimiter(rate.Limit(perSecond), 1)
	ctx := context.Background()

	failed := 0
	for i := 0; i < total; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Errorf("rate limiter: %v", err)
			t.FailNow()
		}
		res := t.Get("/")
		if !res.OK() || res.StatusCode != 200 {
			failed++
		}
	}
	t.AssertEqual(failed, 0,
		fmt.Sprintf("all %d requests at %d/s should succeed", total, perSecond))
}

func performanceConcurrentBurst(t *T) {
	const workers = 16
	results := make([]client.HTTPResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = t.Get("/static/hello.txt")
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		t.AssertStatus(res, 200, fmt.Sprintf("burst request %d failed", i))
	}
}
