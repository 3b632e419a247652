package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForVisitsEveryIndexOnce(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		n    int
	}{
		{"default", DefaultConfig(), 100},
		{"inline", Config{Workers: 1}, 100},
		{"below min work", Config{Workers: 8, MinWork: 10}, 5},
		{"limited", Config{Workers: 2, MinWork: 2}, 33},
		{"empty", DefaultConfig(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			For(tt.n, func(i int) { atomic.AddInt32(&hits[i], 1) }, tt.cfg)
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "index %d", i)
			}
		})
	}
}

func TestForRespectsWorkerLimit(t *testing.T) {
	var running, peak int32
	For(50, func(int) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		atomic.AddInt32(&running, -1)
	}, Config{Workers: 3, MinWork: 2})
	assert.LessOrEqual(t, peak, int32(3))
}
