//go:build linux

package shell

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alive reports whether pid is a running, unreaped process.
func alive(pid int) bool {
	stat, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return false
	}
	// The state follows the parenthesised command name.
	fields := strings.Fields(string(stat[strings.LastIndexByte(string(stat), ')')+1:]))
	return len(fields) > 0 && fields[0] != "Z" && fields[0] != "X"
}

func grandchildPID(t *testing.T, path string) int {
	t.Helper()
	var pid int
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		if err != nil || len(strings.TrimSpace(string(data))) == 0 {
			return false
		}
		pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	return pid
}

func TestExecutor_TimeoutKillsGrandchildren(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "pid")
	e := &Executor{MaxOutput: 1024, Grace: 200 * time.Millisecond}

	_, err := e.Run(context.Background(),
		[]string{"sh", "-c", "sleep 37 & echo $! > pid; wait"}, dir, 500*time.Millisecond)

	require.ErrorIs(t, err, ErrTimeout)
	pid := grandchildPID(t, pidFile)
	assert.Eventually(t, func() bool { return !alive(pid) }, 2*time.Second, 20*time.Millisecond)
}

func TestExecutor_CancelKillsGrandchildren(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "pid")
	e := &Executor{MaxOutput: 1024, Grace: 200 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()

	_, err := e.Run(ctx, []string{"sh", "-c", "(sleep 38; echo done) & echo $! > pid; wait"}, dir, 10*time.Second)

	require.ErrorIs(t, err, context.Canceled)
	pid := grandchildPID(t, pidFile)
	assert.Eventually(t, func() bool { return !alive(pid) }, 2*time.Second, 20*time.Millisecond)
}
