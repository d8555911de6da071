package funclog

import (
	"os"
	"strconv"
	"strings"
)

// residentMemory returns the process's resident set size in bytes, read from
// /proc/self/status on Linux. Returns 0 where the proc filesystem is not
// available, which makes MemoryProbe report zero deltas rather than fail.
func residentMemory() int64 {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "VmRSS:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			if kb, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
				return kb * 1024
			}
		}
	}
	return 0
}
