package concurrent

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPoolCollectsAllResults(t *testing.T) {
	wp := NewWorkerPool[int, int](4, 16)
	wp.Start(func(job int) int { return job * job })
	for i := 0; i < 16; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	got := make([]int, 0, 16)
	for r := range wp.CollectResults() {
		got = append(got, r)
	}
	sort.Ints(got)

	assert.Len(t, got, 16)
	assert.Equal(t, 225, got[15])
}

func TestRunBatchKeepsJobOrder(t *testing.T) {
	testCases := []struct {
		name    string
		workers int
	}{
		{name: "sequential", workers: 1},
		{name: "parallel", workers: 3},
		{name: "more workers than jobs", workers: 32},
	}

	jobs := []int{5, 1, 4, 2, 3, 9, 7}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := RunBatch(tt.workers, jobs, func(j int) int { return j * 10 })
			assert.Equal(t, []int{50, 10, 40, 20, 30, 90, 70}, got)
		})
	}
}
