package api

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/annel0/voxel-engine/internal/game"
	"github.com/annel0/voxel-engine/internal/mesh"
)

const mb = 1024 * 1024

// ProcessInfo - ресурсы процесса в пересчёте на работу движка
type ProcessInfo struct {
	Uptime         string   `json:"uptime"`
	StepsPerSecond float64  `json:"steps_per_second"` // Средняя частота шагов с запуска процесса
	MeshMB         float64  `json:"mesh_mb"`          // Объём вершин в кэше мешей (столько же занято на GPU)
	HeapInUseMB    float64  `json:"heap_in_use_mb"`
	HeapObjects    uint64   `json:"heap_objects"`
	GCCount        uint32   `json:"gc_count"`
	LastGCPauseMs  float64  `json:"last_gc_pause_ms"` // Паузы сборщика заметны как просадки кадра
	Goroutines     int      `json:"goroutines"`
	CPUPercent     *float64 `json:"cpu_percent,omitempty"` // nil, если ОС не отдаёт метрику
	RSSMB          *float64 `json:"rss_mb,omitempty"`
}

// ProcessSampler снимает ProcessInfo; данные ОС читает через gopsutil
type ProcessSampler struct {
	started time.Time
	proc    *process.Process
}

// NewProcessSampler создаёт сэмплер текущего процесса.
// Если процесс недоступен через ОС (песочница), CPU и RSS не отдаются.
func NewProcessSampler() *ProcessSampler {
	s := &ProcessSampler{started: time.Now()}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.proc = proc
	}
	return s
}

// Sample собирает ресурсы процесса вместе с показателями сессии из снимка
func (s *ProcessSampler) Sample(snap game.Snapshot) ProcessInfo {
	uptime := time.Since(s.started)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	info := ProcessInfo{
		Uptime:      uptime.Round(time.Second).String(),
		MeshMB:      float64(snap.VerticesCached*mesh.VertexStride) / mb,
		HeapInUseMB: float64(m.HeapInuse) / mb,
		HeapObjects: m.HeapObjects,
		GCCount:     m.NumGC,
		Goroutines:  runtime.NumGoroutine(),
	}
	if seconds := uptime.Seconds(); seconds > 0 {
		info.StepsPerSecond = float64(snap.Step) / seconds
	}
	if m.NumGC > 0 {
		info.LastGCPauseMs = float64(m.PauseNs[(m.NumGC+255)%256]) / 1e6
	}

	if s.proc != nil {
		if cpu, err := s.proc.CPUPercent(); err == nil {
			info.CPUPercent = &cpu
		}
		if mem, err := s.proc.MemoryInfo(); err == nil {
			rss := float64(mem.RSS) / mb
			info.RSSMB = &rss
		}
	}
	return info
}
