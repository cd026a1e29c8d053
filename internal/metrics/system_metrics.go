package metrics

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemMetrics collects host-level metrics while a migration run is in
// flight. Long Excel imports are memory-hungry; operators asked for a way to
// watch the box during a run without shelling in.
type SystemMetrics struct {
	systemCPUUsage    *prometheus.GaugeVec
	systemMemoryUsage *prometheus.GaugeVec
	goGoroutines      prometheus.Gauge
	goHeapAlloc       prometheus.Gauge
	goHeapSys         prometheus.Gauge

	registry    *prometheus.Registry
	initialized bool
	mu          sync.RWMutex
}

var (
	sysInstance *SystemMetrics
	sysOnce     sync.Once
)

// System returns the process-wide SystemMetrics collector.
func System() *SystemMetrics {
	sysOnce.Do(func() {
		sysInstance = &SystemMetrics{
			registry: prometheus.NewRegistry(),
		}
	})
	return sysInstance
}

// Initialize registers all system gauges (thread-safe, idempotent).
func (sm *SystemMetrics) Initialize() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return
	}

	sm.systemCPUUsage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "system_cpu_usage_percent",
			Help: "Current CPU usage percentage",
		},
		[]string{"core"},
	)

	sm.systemMemoryUsage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "system_memory_usage_bytes",
			Help: "Current memory usage in bytes",
		},
		[]string{"type"},
	)

	sm.goGoroutines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "migrate_goroutines",
			Help: "Number of goroutines that currently exist",
		},
	)

	sm.goHeapAlloc = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "migrate_heap_alloc_bytes",
			Help: "Heap memory usage in bytes",
		},
	)

	sm.goHeapSys = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "migrate_heap_sys_bytes",
			Help: "Heap memory reserved in bytes",
		},
	)

	sm.registry.MustRegister(
		sm.systemCPUUsage,
		sm.systemMemoryUsage,
		sm.goGoroutines,
		sm.goHeapAlloc,
		sm.goHeapSys,
	)

	sm.initialized = true
}

// Registry returns the registry holding the system gauges, or nil when the
// collector was never started.
func (sm *SystemMetrics) Registry() *prometheus.Registry {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return nil
	}
	return sm.registry
}

// StartSystemMetrics begins periodic collection when enabled in config.
func StartSystemMetrics(enabled bool, interval time.Duration) {
	if !enabled {
		return
	}

	sm := System()
	sm.Initialize()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			sm.collectSystem()
			sm.collectGoRuntime()
		}
	}()
}

func (sm *SystemMetrics) collectSystem() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return
	}

	if cpuPercentages, err := cpu.Percent(0, true); err == nil {
		for i, percentage := range cpuPercentages {
			sm.systemCPUUsage.WithLabelValues(fmt.Sprintf("cpu%d", i)).Set(percentage)
		}
	}

	if vmstat, err := mem.VirtualMemory(); err == nil {
		sm.systemMemoryUsage.WithLabelValues("total").Set(float64(vmstat.Total))
		sm.systemMemoryUsage.WithLabelValues("available").Set(float64(vmstat.Available))
		sm.systemMemoryUsage.WithLabelValues("used").Set(float64(vmstat.Used))
		sm.systemMemoryUsage.WithLabelValues("free").Set(float64(vmstat.Free))
	}
}

func (sm *SystemMetrics) collectGoRuntime() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	sm.goGoroutines.Set(float64(runtime.NumGoroutine()))
	sm.goHeapAlloc.Set(float64(m.HeapAlloc))
	sm.goHeapSys.Set(float64(m.HeapSys))
}
