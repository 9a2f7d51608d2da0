package umbra

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultSwitchDuration is the slide duration in seconds when
// SwitchConfig.Duration is zero.
const DefaultSwitchDuration = 0.35

// SwitchConfig configures a workspace switch episode.
type SwitchConfig struct {
	From, To int
	Duration float32        // seconds; DefaultSwitchDuration when zero
	Easing   ease.TweenFunc // ease.OutExpo when nil
}

// WindowRecord pairs a live window actor with the lightweight clone that
// stands in for it during the switch animation.
type WindowRecord struct {
	WindowActor *WindowActor
	Clone       *Actor
}

// WorkspaceGroup holds the animation clones of one workspace on one monitor.
// Group is the actor the clones (and any shadow clones) are parented under.
type WorkspaceGroup struct {
	Group   *Actor
	Index   int
	Records []WindowRecord
}

// MonitorGroup holds the per-workspace groups sliding across one output.
type MonitorGroup struct {
	Monitor    Monitor
	Container  *Actor
	Workspaces []*WorkspaceGroup
}

// Switch is one workspace-switch animation episode. It owns the per-monitor
// clone hierarchy for the duration of the slide and nothing beyond it: Finish
// destroys every group it created and restores the windows it hid.
//
// The episode also carries the side table mapping each window clone to its
// shadow clone. Keeping the table on the episode, rather than on the clones
// or in a package global, means independent episodes never share state.
type Switch struct {
	comp     *Compositor
	Monitors []*MonitorGroup

	from, to int
	tween    *gween.Tween
	progress float64
	done     bool
	finished bool

	hidden  []*WindowActor
	shadows map[*Actor]*Actor // window clone -> shadow clone
}

// NewSwitch builds the clone hierarchy for a switch from cfg.From to cfg.To:
// one container per monitor on top of the stage, one workspace group per
// workspace in the swept range, one clone per window in compositor stacking
// order. Original window surfaces are hidden until Finish.
// Panics if cfg.From == cfg.To or no monitors are registered.
func NewSwitch(comp *Compositor, cfg SwitchConfig) *Switch {
	if cfg.From == cfg.To {
		panic("umbra: switch must target a different workspace")
	}
	if len(comp.monitors) == 0 {
		panic("umbra: switch needs at least one monitor")
	}
	duration := cfg.Duration
	if duration == 0 {
		duration = DefaultSwitchDuration
	}
	easing := cfg.Easing
	if easing == nil {
		easing = ease.OutExpo
	}

	sw := &Switch{
		comp:    comp,
		from:    cfg.From,
		to:      cfg.To,
		tween:   gween.New(0, 1, duration, easing),
		shadows: make(map[*Actor]*Actor),
	}

	lo, hi := cfg.From, cfg.To
	if lo > hi {
		lo, hi = hi, lo
	}

	for _, mon := range comp.monitors {
		container := NewGroup(fmt.Sprintf("switch-monitor-%d", mon.Index))
		container.X = mon.X
		container.Y = mon.Y
		container.Width = mon.Width
		container.Height = mon.Height
		comp.stage.AddChild(container)

		mg := &MonitorGroup{Monitor: mon, Container: container}
		for idx := lo; idx <= hi; idx++ {
			group := NewGroup(fmt.Sprintf("switch-ws-%d-%d", mon.Index, idx))
			group.X = float64(idx-cfg.From) * mon.Width
			group.Width = mon.Width
			group.Height = mon.Height
			container.AddChild(group)

			ws := &WorkspaceGroup{Group: group, Index: idx}
			// Compositor stacking order, bottom to top, so clone child
			// order matches what was on screen.
			for _, wa := range comp.windows {
				if wa.Win.Monitor != mon.Index || wa.Win.Workspace != idx {
					continue
				}
				clone := NewClone(wa.Surface.Name+"-clone", wa.Surface)
				clone.X = wa.Surface.X - mon.X
				clone.Y = wa.Surface.Y - mon.Y
				group.AddChild(clone)
				ws.Records = append(ws.Records, WindowRecord{WindowActor: wa, Clone: clone})

				if wa.Surface.Visible {
					wa.Surface.SetVisible(false)
					sw.hidden = append(sw.hidden, wa)
				}
			}
			mg.Workspaces = append(mg.Workspaces, ws)
		}
		sw.Monitors = append(sw.Monitors, mg)
	}
	return sw
}

// Update advances the slide by dt seconds and repositions every workspace
// group. Returns true once the slide has reached its target.
// No-op after Finish.
func (sw *Switch) Update(dt float32) bool {
	if sw.finished || sw.done {
		return sw.done
	}
	value, done := sw.tween.Update(dt)
	sw.progress = float64(value)
	sw.done = done
	for _, mg := range sw.Monitors {
		w := mg.Monitor.Width
		for _, ws := range mg.Workspaces {
			offset := float64(ws.Index-sw.from) - sw.progress*float64(sw.to-sw.from)
			ws.Group.X = offset * w
		}
	}
	return sw.done
}

// Progress returns the eased slide progress in [0, 1].
func (sw *Switch) Progress() float64 {
	return sw.progress
}

// Done reports whether the slide has reached its target workspace.
func (sw *Switch) Done() bool {
	return sw.done
}

// Finished reports whether Finish (or Cancel) has already run.
func (sw *Switch) Finished() bool {
	return sw.finished
}

// Finish tears the episode down: restores the windows it hid and destroys
// every per-monitor container, which cascades to the workspace groups and
// clones and fires their destroy signals. That cascade is the natural
// teardown path subscriptions created against this episode self-release on.
// Idempotent.
func (sw *Switch) Finish() {
	if sw.finished {
		return
	}
	sw.finished = true
	for _, wa := range sw.hidden {
		if !wa.Surface.IsDestroyed() {
			wa.Surface.SetVisible(true)
		}
	}
	sw.hidden = nil
	for _, mg := range sw.Monitors {
		mg.Container.Destroy()
	}
}

// Cancel aborts the episode before the slide completes. Identical teardown
// to Finish; callers holding a HandleSet from AttachShadows release it
// themselves.
func (sw *Switch) Cancel() {
	sw.Finish()
}
