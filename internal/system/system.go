package system

import (
	"fmt"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// InitResourceLimits raises the open-file limit so batch runs over large
// image directories do not hit the default soft cap.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to read open file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to raise open file limit: %v", err)
	}
}

// ProcessStats is a snapshot of the current process resource usage.
type ProcessStats struct {
	RSSBytes   uint64
	CPUPercent float64
	NumThreads int32
	Uptime     time.Duration
}

// CollectStats samples the current process via the OS. Errors from individual
// probes are tolerated; missing fields stay zero.
func CollectStats() (*ProcessStats, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}

	stats := &ProcessStats{}
	if mem, err := proc.MemoryInfo(); err == nil {
		stats.RSSBytes = mem.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	if threads, err := proc.NumThreads(); err == nil {
		stats.NumThreads = threads
	}
	if created, err := proc.CreateTime(); err == nil {
		stats.Uptime = time.Since(time.UnixMilli(created))
	}
	return stats, nil
}

// PrintStats writes a one-line resource summary to stdout.
func PrintStats() {
	stats, err := CollectStats()
	if err != nil {
		log.Printf("[!] Failed to collect process stats: %v", err)
		return
	}
	fmt.Printf("[*] Resources: rss=%.1fMB cpu=%.1f%% threads=%d uptime=%s\n",
		float64(stats.RSSBytes)/(1024*1024), stats.CPUPercent,
		stats.NumThreads, stats.Uptime.Round(time.Millisecond))
}
