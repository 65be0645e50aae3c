package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"
)

// offerUndo keeps the process alive for the undo window. A line on stdin is
// the undo signal; EOF or the window elapsing makes the deletion final.
func (rt *runtime) offerUndo(ctx context.Context, label string, restore func(context.Context) bool) {
	window := rt.cfg.UndoWindow
	_, _ = fmt.Fprintf(rt.output.Out, "Deleted %s. Press Enter within %s to undo.\n", label, window)
	if !waitForLine(ctx, rt.in, window) {
		return
	}
	if restore(ctx) {
		rt.pp.Notice(fmt.Sprintf("Restored %s", label))
		return
	}
	rt.pp.Warning("Too late, the undo window has closed")
}

func waitForLine(ctx context.Context, in io.Reader, window time.Duration) bool {
	if in == nil {
		return false
	}
	line := make(chan bool, 1)
	go func() {
		_, err := bufio.NewReader(in).ReadString('\n')
		line <- err == nil
	}()

	timer := time.NewTimer(window)
	defer timer.Stop()
	select {
	case ok := <-line:
		return ok
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
