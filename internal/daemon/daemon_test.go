package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

const helperOutEnv = "DAEMON_TEST_OUT"

// TestHelperDetachedChild runs inside the process started by TestDetach.
func TestHelperDetachedChild(t *testing.T) {
	out := os.Getenv(helperOutEnv)
	if !IsDetached() || out == "" {
		t.Skip("helper process")
	}

	sid, err := unix.Getsid(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := Settle(); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	report := fmt.Sprintf("%d %d %s", os.Getpid(), sid, wd)
	if err := os.WriteFile(out+".tmp", []byte(report), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(out+".tmp", out); err != nil {
		t.Fatal(err)
	}
}

func TestDetach(t *testing.T) {
	if IsDetached() {
		t.Skip("running as helper")
	}

	out := filepath.Join(t.TempDir(), "report")
	t.Setenv(helperOutEnv, out)

	pid, err := Detach([]string{"-test.run=^TestHelperDetachedChild$"})
	if err != nil {
		t.Fatalf("Detach() error = %v", err)
	}

	var report []byte
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if report, err = os.ReadFile(out); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("child did not report: %v", err)
	}
	// Settle must not have moved the parent.
	if wd, _ := os.Getwd(); wd == "/" {
		t.Errorf("parent working directory changed to /")
	}

	fields := strings.Fields(string(report))
	if len(fields) != 3 {
		t.Fatalf("report = %q, want pid sid wd", report)
	}
	childPID, _ := strconv.Atoi(fields[0])
	sid, _ := strconv.Atoi(fields[1])

	if childPID != pid {
		t.Errorf("child pid = %d, Detach returned %d", childPID, pid)
	}
	if sid != childPID {
		t.Errorf("child session = %d, want its own session %d", sid, childPID)
	}
	if fields[2] != "/" {
		t.Errorf("child working directory = %s, want /", fields[2])
	}
}

func TestIsDetached(t *testing.T) {
	t.Setenv(EnvDetached, "")
	if IsDetached() {
		t.Error("IsDetached() = true without marker")
	}
	t.Setenv(EnvDetached, "1")
	if !IsDetached() {
		t.Error("IsDetached() = false with marker")
	}
}
