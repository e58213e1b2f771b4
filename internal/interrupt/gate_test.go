package interrupt

import (
	"testing"

	apperrors "github.com/louisbranch/steamicons/internal/platform/errors"
	"github.com/louisbranch/steamicons/internal/platform/logging"
)

func TestCheckBeforeAndAfterTrigger(t *testing.T) {
	gate := New(logging.New(nil, logging.LevelError))
	if err := gate.Check(); err != nil {
		t.Fatalf("expected unset gate, got %v", err)
	}
	gate.Trigger()
	err := gate.Check()
	if !apperrors.HasCode(err, apperrors.CodeInterrupted) {
		t.Fatalf("expected interrupted error, got %v", err)
	}
	gate.Trigger()
	if !gate.Triggered() {
		t.Fatal("expected flag to stay set")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	gate := New(logging.New(nil, logging.LevelError))
	stop := gate.Install()
	stop()
	stop()
	if gate.Triggered() {
		t.Fatal("stop must not set the flag")
	}
}
