package display

import (
	"testing"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

func TestCheckLogsWhilePaused(t *testing.T) {
	tests := []struct {
		paused bool
		err    error
		logged int64
	}{
		{false, nil, 0},
		{false, errors.New("running"), 1},
		{true, errors.New("stepping"), 1},
	}

	for _, test := range tests {
		d := &Display{paused: test.paused}
		before := glog.Stats.Error.Lines()

		d.check(test.err)

		if got := glog.Stats.Error.Lines() - before; got != test.logged {
			t.Errorf("paused=%v err=%v: %d errors logged, want %d", test.paused, test.err, got, test.logged)
		}
		if test.err != nil && !d.paused {
			t.Errorf("paused=%v err=%v: not paused after error", test.paused, test.err)
		}
	}
}
