package umbra

// Monitor describes one output.
type Monitor struct {
	Index               int
	X, Y, Width, Height float64
	Scale               float64
}

// Compositor owns the stage root actor, the monitor list, and the global
// window stacking order. Every stacking mutation fires the restacked signal,
// whatever its cause — new windows, raises, removals — which is the signal
// the shadow layer re-imposes its ordering from.
type Compositor struct {
	stage    *Actor
	monitors []Monitor
	windows  []*WindowActor // stacking order, bottom to top
	signals  signalTable
}

// NewCompositor creates a compositor with an empty stage.
func NewCompositor() *Compositor {
	return &Compositor{stage: NewGroup("stage")}
}

// Stage returns the stage root actor.
func (c *Compositor) Stage() *Actor {
	return c.stage
}

// AddMonitor registers an output and returns it.
// Panics if scale < 1.
func (c *Compositor) AddMonitor(x, y, width, height, scale float64) Monitor {
	if scale < 1 {
		panic("umbra: monitor scale must be >= 1")
	}
	m := Monitor{Index: len(c.monitors), X: x, Y: y, Width: width, Height: height, Scale: scale}
	c.monitors = append(c.monitors, m)
	return m
}

// Monitors returns the registered outputs. The returned slice MUST NOT be
// mutated by the caller.
func (c *Compositor) Monitors() []Monitor {
	return c.monitors
}

// Windows returns the window stacking order, bottom to top. The returned
// slice MUST NOT be mutated by the caller.
func (c *Compositor) Windows() []*WindowActor {
	return c.windows
}

// AddWindow maps a window: parents its surface on top of the stage, appends
// it to the stacking order, and fires the restacked signal.
func (c *Compositor) AddWindow(wa *WindowActor) {
	if wa == nil {
		panic("umbra: cannot add a nil window actor")
	}
	c.windows = append(c.windows, wa)
	c.stage.AddChild(wa.Surface)
	c.signals.emit(signalRestacked)
}

// RaiseWindow moves a mapped window to the top of the stacking order and
// fires the restacked signal. No-op if the window is already topmost.
func (c *Compositor) RaiseWindow(wa *WindowActor) {
	i := c.windowIndex(wa)
	if i < 0 {
		panic("umbra: window is not mapped")
	}
	if i == len(c.windows)-1 {
		return
	}
	copy(c.windows[i:], c.windows[i+1:])
	c.windows[len(c.windows)-1] = wa
	c.stage.AddChild(wa.Surface)
	c.signals.emit(signalRestacked)
}

// RemoveWindow unmaps a window: detaches its surface from the stage, removes
// it from the stacking order, and fires the restacked signal.
func (c *Compositor) RemoveWindow(wa *WindowActor) {
	i := c.windowIndex(wa)
	if i < 0 {
		panic("umbra: window is not mapped")
	}
	copy(c.windows[i:], c.windows[i+1:])
	c.windows[len(c.windows)-1] = nil
	c.windows = c.windows[:len(c.windows)-1]
	if wa.Surface.Parent == c.stage {
		c.stage.RemoveChild(wa.Surface)
	}
	c.signals.emit(signalRestacked)
}

// ConnectRestacked subscribes to the global restacked signal.
func (c *Compositor) ConnectRestacked(fn func()) Handle {
	return c.signals.connect(signalRestacked, fn)
}

func (c *Compositor) windowIndex(wa *WindowActor) int {
	for i, w := range c.windows {
		if w == wa {
			return i
		}
	}
	return -1
}
