package worker

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
)

func BenchmarkProcessBatch(b *testing.B) {
	pool := NewPool(PoolConfig{
		Store:  &MockStore{},
		Scores: &MockScoreSink{},
		Logger: zap.NewNop(),
	})

	batch := make([]Job, 50)
	for i := range batch {
		batch[i] = Job{Prediction: prediction(fmt.Sprintf("p-%d", i), "Arsenal")}
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		pool.processBatch(batch)
	}
}
