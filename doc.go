// Package umbra animates compositor workspace switches and keeps per-window
// drop-shadow clones in lockstep with the window clones the switch creates.
//
// A [Compositor] owns a stage of [Actor] values: window surfaces, groups,
// and clones. A workspace switch is a [Switch] episode: it builds a clone of
// every affected window under per-monitor, per-workspace groups, slides the
// groups with an eased tween, and destroys the whole clone hierarchy when
// finished.
//
// # Shadow clones
//
// Windows with a rounded-corner shadow render that shadow as a separate
// actor so it can be restacked and depth-biased independently of the window
// content. During a switch the static shadow cannot follow the window clone
// by itself, so [AttachShadows] creates one shadow clone per eligible window
// and wires the subscriptions that keep it correct:
//
//	comp := umbra.NewCompositor()
//	// ... add monitors, map windows, install corner shadows ...
//	sw := umbra.NewSwitch(comp, umbra.SwitchConfig{From: 0, To: 1})
//	handles := umbra.AttachShadows(sw)
//
//	// each frame:
//	if sw.Update(dt) {
//		umbra.DetachShadows(sw)
//		sw.Finish()
//	}
//
//	// aborting early instead:
//	handles.Release()
//	umbra.DetachShadows(sw)
//	sw.Cancel()
//
// Everything is event-driven: the compositor's restacked signal re-imposes
// the shadow-below-clone ordering, property notification tracks depth
// translation and visibility, and destroy signals release every
// subscription no later than the destruction of whichever object dies
// first. There is no polling and no frame-loop ownership; the only loop is
// the caller's.
//
// # Concurrency
//
// umbra is single-threaded. All signal emission is synchronous and all
// state changes happen inside the caller's event dispatch; there are no
// locks, goroutines, or timers.
package umbra
