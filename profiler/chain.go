package profiler

import (
	"math/rand"
	"time"
	"unsafe"
)

// CacheLineSize is assumed rather than read from the hardware
const CacheLineSize = 64

// 32MB is enough to push most L3 caches out
const flushSize = 32 * 1024 * 1024

// cacheLine is exactly one cache line. Chasing next pointers defeats the hardware prefetcher.
type cacheLine struct {
	next *cacheLine
	_    [CacheLineSize - unsafe.Sizeof(uintptr(0))]byte
}

// keep the compiler from dropping the loops
var (
	sinkLine *cacheLine
	sinkByte byte
)

// newChain links size/CacheLineSize lines (at least one) in random order into a cycle
// and returns the backing buffer
func newChain(sizeBytes int, rng *rand.Rand) []cacheLine {
	n := sizeBytes / CacheLineSize
	if n == 0 {
		n = 1
	}
	buffer := make([]cacheLine, n)
	order := rng.Perm(n)
	for i := 0; i < n-1; i++ {
		buffer[order[i]].next = &buffer[order[i+1]]
	}
	buffer[order[n-1]].next = &buffer[order[0]]
	return buffer
}

func flushCache() {
	buf := make([]byte, flushSize)
	for i := range buf {
		buf[i] = byte(i)
	}
	sinkByte = buf[len(buf)/2]
}

// warmCache walks the chain once so it is in cache, not RAM, when it is timed
func warmCache(start *cacheLine, lines int) {
	ptr := start
	for i := 0; i < lines; i++ {
		ptr = ptr.next
	}
	sinkLine = ptr
}

// measureLatency returns the average ns per dependent load over iterations loads
func measureLatency(start *cacheLine, iterations int) float64 {
	ptr := start
	began := time.Now()
	for i := 0; i < iterations; i++ {
		ptr = ptr.next
	}
	elapsed := time.Since(began)
	sinkLine = ptr
	return float64(elapsed.Nanoseconds()) / float64(iterations)
}
