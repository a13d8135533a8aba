//go:build unix

package executor_test

import (
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// waitProcessGone polls until pid no longer exists, or is only a zombie waiting
// to be reaped, or timeout elapses.
func waitProcessGone(pid string, timeout time.Duration) bool {
	n, err := strconv.Atoi(pid)
	if err != nil {
		return false
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		// Signal 0 only checks for existence.
		if err := syscall.Kill(n, 0); err != nil {
			return true
		}
		if stat, err := os.ReadFile("/proc/" + pid + "/stat"); err == nil {
			if fields := strings.Fields(string(stat[strings.LastIndexByte(string(stat), ')')+1:])); len(fields) > 0 && fields[0] == "Z" {
				return true
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}
