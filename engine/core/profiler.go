package core

import (
	"log"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Measurement accumulates the durations of a named section of the frame.
type Measurement struct {
	name  string
	start time.Time
	last  time.Duration
	total time.Duration
	count int
}

func newMeasurement(name string) *Measurement {
	return &Measurement{name: name}
}

// Begin starts timing the section.
func (m *Measurement) Begin() {
	m.start = time.Now()
}

// End stops timing the section and adds the duration to the running average.
// End without a matching Begin is ignored.
func (m *Measurement) End() {
	if m.start.IsZero() {
		return
	}
	m.add(time.Since(m.start))
	m.start = time.Time{}
}

func (m *Measurement) add(d time.Duration) {
	m.last = d
	m.total += d
	m.count++
}

// Name returns the measurement name.
func (m *Measurement) Name() string {
	return m.name
}

// Last returns the most recent duration.
func (m *Measurement) Last() time.Duration {
	return m.last
}

// Count returns the number of completed Begin/End pairs.
func (m *Measurement) Count() int {
	return m.count
}

// Average returns the mean duration, or zero before the first End.
func (m *Measurement) Average() time.Duration {
	if m.count == 0 {
		return 0
	}
	return m.total / time.Duration(m.count)
}

// Profiler tracks frame rate, memory statistics and named measurements.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu             *sync.Mutex
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	measurements   map[string]*Measurement
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - interval: how often Tick logs; non-positive values default to 1 second
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		mu:             &sync.Mutex{},
		lastTime:       time.Now(),
		updateInterval: interval,
		measurements:   make(map[string]*Measurement),
	}
}

// Measure returns the measurement registered under name, creating it on first use.
//
// Parameters:
//   - name: the measurement name
//
// Returns:
//   - *Measurement: the shared measurement
func (p *Profiler) Measure(name string) *Measurement {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.measurements[name]
	if !ok {
		m = newMeasurement(name)
		p.measurements[name] = m
	}
	return m
}

// Measurements returns the registered measurements sorted by name.
func (p *Profiler) Measurements() []*Measurement {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*Measurement, 0, len(p.measurements))
	for _, m := range p.measurements {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Tick should be called once per frame to track frame timing.
// Logs FPS, heap usage, allocation rate, GC pauses and measurement averages when the
// update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)
	for _, m := range p.Measurements() {
		log.Printf("[Profiler] %s: avg %v over %d", m.name, m.Average(), m.count)
	}

	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
