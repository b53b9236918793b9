package natsadapter_test

import (
	"testing"

	natsadapter "github.com/samirrijal/orbitrack/internal/adapters/nats"
)

func TestSubject(t *testing.T) {
	tests := map[int]string{
		25544: "tracker.position.25544",
		0:     "tracker.position.0",
	}
	for catnr, want := range tests {
		if got := natsadapter.Subject(catnr); got != want {
			t.Errorf("Subject(%d) = %q, want %q", catnr, got, want)
		}
	}
}
