package status

import (
	"os"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/process"
)

// RuntimeProbe reads the process memory footprint in MB and the
// 1-minute load average of the host
type RuntimeProbe interface {
	Read() (rssMB float64, load1 float64, err error)
}

// ProcessProbe reads real values for the current process through gopsutil
type ProcessProbe struct {
	pid int32
}

func NewProcessProbe() *ProcessProbe {
	return &ProcessProbe{pid: int32(os.Getpid())}
}

func (p *ProcessProbe) Read() (float64, float64, error) {
	proc, err := process.NewProcess(p.pid)
	if err != nil {
		return 0, 0, err
	}
	memory, err := proc.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	rssMB := float64(memory.RSS) / (1024 * 1024)

	// Load average is not available on every platform, degrade to zero
	load1 := 0.0
	if avg, err := load.Avg(); err == nil {
		load1 = avg.Load1
	}
	return rssMB, load1, nil
}
