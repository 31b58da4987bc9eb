package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"phoneverify/cache"
	"phoneverify/retry"
	"phoneverify/verify"
)

// =============================================================================
// Cache Benchmarks
// =============================================================================

func BenchmarkCache_Set(b *testing.B) {
	capacities := []int{100, 1000, 10000}

	for _, capacity := range capacities {
		b.Run(fmt.Sprintf("capacity_%d", capacity), func(b *testing.B) {
			c := cache.New[string, verify.Result](capacity)
			keys := makeNumbers(capacity*2, capacity*2)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c.Set(keys[i%len(keys)], verify.Result{Valid: true})
			}
		})
	}
}

func BenchmarkCache_GetHit(b *testing.B) {
	c := cache.New[string, verify.Result](cache.DefaultCapacity)
	keys := makeNumbers(cache.DefaultCapacity, cache.DefaultCapacity)
	for _, key := range keys {
		c.Set(key, verify.Result{Valid: true, Location: "US"})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := c.Get(keys[i%len(keys)]); !ok {
			b.Fatal("expected hit")
		}
	}
}

func BenchmarkCache_MixedParallel(b *testing.B) {
	c := cache.New[string, verify.Result](cache.DefaultCapacity)
	keys := makeNumbers(cache.DefaultCapacity*2, cache.DefaultCapacity*2)

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := keys[i%len(keys)]
			if i%4 == 0 {
				c.Set(key, verify.Result{Valid: true})
			} else {
				c.Get(key)
			}
			i++
		}
	})
}

// =============================================================================
// Batch Pipeline Benchmarks
// =============================================================================

func BenchmarkRunner_BatchScaling(b *testing.B) {
	batchSizes := []int{10, 100, 1000, 10000}

	for _, size := range batchSizes {
		b.Run(fmt.Sprintf("batch_%d", size), func(b *testing.B) {
			numbers := makeNumbers(size, size)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				runner, _ := newBenchRunner(b, cache.DefaultCapacity)
				results, err := runner.Run(context.Background(), numbers)
				if err != nil {
					b.Fatal(err)
				}
				if len(results) != size {
					b.Fatalf("expected %d results, got %d", size, len(results))
				}
			}
			b.StopTimer()

			numbersPerOp := float64(size)
			nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
			b.ReportMetric((numbersPerOp/nsPerOp)*1e9, "numbers/sec")
		})
	}
}

func BenchmarkRunner_DuplicateHeavyBatch(b *testing.B) {
	distinctCounts := []int{10, 100, 1000}
	batchSize := 1000

	for _, distinct := range distinctCounts {
		b.Run(fmt.Sprintf("distinct_%d", distinct), func(b *testing.B) {
			numbers := makeNumbers(batchSize, distinct)

			var lastHitRate float64
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				runner, decisions := newBenchRunner(b, distinct)
				if _, err := runner.Run(context.Background(), numbers); err != nil {
					b.Fatal(err)
				}
				lastHitRate = decisions.Stats().HitRate()
			}
			b.StopTimer()

			b.ReportMetric(lastHitRate*100, "hit%")
		})
	}
}

// =============================================================================
// Retry Benchmarks
// =============================================================================

func BenchmarkRetry_SuccessPath(b *testing.B) {
	policy := retry.DefaultPolicy()
	fn := func(_ context.Context) (int, error) { return 42, nil }
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := retry.Do(ctx, policy, fn); err != nil {
			b.Fatal(err)
		}
	}
}
