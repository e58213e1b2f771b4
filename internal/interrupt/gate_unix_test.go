//go:build unix

package interrupt

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/louisbranch/steamicons/internal/platform/logging"
)

func waitTriggered(t *testing.T, gate *Gate) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !gate.Triggered() {
		if time.Now().After(deadline) {
			t.Fatal("expected gate to be triggered by signal")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestInstallSetsFlagOnSignal(t *testing.T) {
	gate := New(logging.New(nil, logging.LevelError))
	stop := gate.Install()
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("send signal: %v", err)
	}
	waitTriggered(t, gate)
}

// TestSecondSignalTerminates runs in a subprocess because the second signal
// kills the process.
func TestSecondSignalTerminates(t *testing.T) {
	if os.Getenv("TEST_SECOND_SIGNAL_SUBPROCESS") == "1" {
		gate := New(logging.New(nil, logging.LevelError))
		defer gate.Install()()

		if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
			t.Fatalf("send signal: %v", err)
		}
		waitTriggered(t, gate)
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
			t.Fatalf("send signal: %v", err)
		}
		time.Sleep(5 * time.Second)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestSecondSignalTerminates$")
	cmd.Env = append(os.Environ(), "TEST_SECOND_SIGNAL_SUBPROCESS=1")

	err := cmd.Run()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() || status.Signal() != syscall.SIGTERM {
		t.Fatalf("expected child killed by SIGTERM, got %v", exitErr)
	}
}
