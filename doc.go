// Package termcore is a terminal emulation engine for hosts that draw
// terminals themselves.
//
// A host creates a terminal with Create, which starts a shell on a
// pseudo-terminal and returns an opaque Handle. Output from the shell is
// parsed on a background goroutine into a grid of cells; the host is told
// about changes through its EventSink and reads the screen with Snapshot.
// termcore renders nothing and knows nothing about fonts or windows.
//
//	h, err := termcore.Create(termcore.Options{Cols: 80, Rows: 24}, func(ev termcore.Event) {
//		if ev.Kind == termcore.EventWakeup {
//			redraw()
//		}
//	})
//	if err != nil {
//		return err
//	}
//	defer termcore.Destroy(h)
//
//	snap := termcore.Snapshot(h)
//	defer snap.Release()
package termcore
