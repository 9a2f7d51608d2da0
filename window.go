package umbra

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Window describes window geometry as the compositor tracks it. The frame
// rect is the visible bounds including decorations. ActorX/ActorY is the
// origin of the surface actor, which may extend past the frame (client-side
// margins), so frame and actor coordinates are distinct reference frames.
type Window struct {
	Title string

	FrameX, FrameY          float64
	FrameWidth, FrameHeight float64

	// Surface actor origin on the stage.
	ActorX, ActorY float64

	// ScaleFactor is the UI scale of the monitor the window is on (>= 1).
	ScaleFactor float64

	// Monitor and Workspace place the window for switch grouping.
	Monitor   int
	Workspace int
}

// WindowActor pairs a window with its surface actor on the stage, plus the
// state the rounded-corner effect subsystem maintains for it.
type WindowActor struct {
	Win     *Window
	Surface *Actor

	// Shadow is the static shadow actor owned by the corner effect, or nil
	// when the window has none. Borrowed here, never destroyed.
	Shadow *Actor

	// RoundedCorners reports whether the corner effect is currently enabled
	// for this window.
	RoundedCorners bool
}

// NewWindowActor creates a window actor whose surface sits at the window's
// actor origin with the window's frame size. A nil texture is allowed; the
// surface then occupies space without drawing.
// Panics if win is nil or win.ScaleFactor < 1.
func NewWindowActor(win *Window, texture *ebiten.Image) *WindowActor {
	if win == nil {
		panic("umbra: cannot create a window actor for a nil window")
	}
	if win.ScaleFactor < 1 {
		panic("umbra: window scale factor must be >= 1")
	}
	surface := NewSurface(win.Title, texture, win.FrameWidth, win.FrameHeight)
	surface.X = win.ActorX
	surface.Y = win.ActorY
	return &WindowActor{Win: win, Surface: surface}
}

// SetCornerShadow installs the corner effect's shadow actor for this window
// and toggles the effect. Passing a nil shadow with enabled=true is allowed;
// the window is then simply not shadow-eligible.
func (wa *WindowActor) SetCornerShadow(shadow *Actor, enabled bool) {
	wa.Shadow = shadow
	wa.RoundedCorners = enabled
}
