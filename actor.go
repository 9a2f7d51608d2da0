package umbra

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// ActorKind distinguishes rendering behavior for an Actor.
type ActorKind uint8

const (
	ActorKindGroup   ActorKind = iota // no visual output of its own
	ActorKindSurface                  // draws its own Texture
	ActorKindClone                    // draws its Source's texture at its own geometry
)

// actorIDCounter is a plain counter (no atomic — umbra is single-threaded).
var actorIDCounter uint32

func nextActorID() uint32 {
	actorIDCounter++
	return actorIDCounter
}

// --- Actor ---

// Actor is the scene graph element. A single flat struct is used for all
// actor kinds, so groups, window surfaces, and clones share one child-list
// and signal implementation.
//
// Child order is stacking order: index 0 draws first (bottom), the last
// child draws on top. TranslationZ orders siblings under 3D transforms and
// takes precedence over child order at draw time.
//
// Visible and TranslationZ are exported for cheap reads, but changes must go
// through SetVisible and SetTranslationZ so change notification fires.
type Actor struct {
	// Identity
	ID   uint32
	Name string
	Kind ActorKind

	// Hierarchy
	Parent   *Actor
	children []*Actor

	// Geometry. Width/Height are the drawn size; a clone's size is
	// independent of its source's.
	X, Y          float64
	Width, Height float64

	// Depth translation along the view axis. Larger values are closer to
	// the viewer.
	TranslationZ float64

	Visible bool

	// Source is the actor whose texture a clone renders (ActorKindClone).
	Source *Actor

	// Texture holds a surface's pixels (ActorKindSurface).
	Texture *ebiten.Image

	signals   signalTable
	destroyed bool
}

func actorDefaults(a *Actor) {
	a.ID = nextActorID()
	a.Visible = true
}

// NewGroup creates a group actor with no visual output of its own.
func NewGroup(name string) *Actor {
	a := &Actor{Name: name, Kind: ActorKindGroup}
	actorDefaults(a)
	return a
}

// NewSurface creates a surface actor drawing the given texture at the given size.
func NewSurface(name string, texture *ebiten.Image, width, height float64) *Actor {
	a := &Actor{Name: name, Kind: ActorKindSurface, Texture: texture, Width: width, Height: height}
	actorDefaults(a)
	return a
}

// NewClone creates a clone actor rendering source's texture. The clone's
// geometry is its own; it starts with the source's size but callers are
// expected to position and size it independently.
// Panics if source is nil.
func NewClone(name string, source *Actor) *Actor {
	if source == nil {
		panic("umbra: cannot clone a nil actor")
	}
	a := &Actor{Name: name, Kind: ActorKindClone, Source: source, Width: source.Width, Height: source.Height}
	actorDefaults(a)
	return a
}

// --- Property setters ---

// SetVisible changes visibility and fires the visible-notify signal when the
// value actually changes.
func (a *Actor) SetVisible(v bool) {
	if a.Visible == v {
		return
	}
	a.Visible = v
	a.signals.emit(signalVisibleNotify)
}

// SetTranslationZ changes the depth translation and fires the
// translation-z-notify signal when the value actually changes.
func (a *Actor) SetTranslationZ(z float64) {
	if a.TranslationZ == z {
		return
	}
	a.TranslationZ = z
	a.signals.emit(signalTranslationZNotify)
}

// --- Signals ---

// ConnectDestroy subscribes to this actor's destruction. The signal fires
// exactly once, synchronously inside Destroy, after the actor has left its
// parent but before its children are destroyed.
func (a *Actor) ConnectDestroy(fn func(*Actor)) Handle {
	return a.signals.connect(signalDestroy, func() { fn(a) })
}

// ConnectVisibleNotify subscribes to changes of Visible made through SetVisible.
func (a *Actor) ConnectVisibleNotify(fn func(*Actor)) Handle {
	return a.signals.connect(signalVisibleNotify, func() { fn(a) })
}

// ConnectTranslationZNotify subscribes to changes of TranslationZ made
// through SetTranslationZ.
func (a *Actor) ConnectTranslationZNotify(fn func(*Actor)) Handle {
	return a.signals.connect(signalTranslationZNotify, func() { fn(a) })
}

// BindVisibility makes this actor track source's visibility: it copies
// source.Visible now and follows every later SetVisible on source. The
// binding is one-way and releases itself when either actor is destroyed.
func (a *Actor) BindVisibility(source *Actor) {
	a.SetVisible(source.Visible)
	watch := source.ConnectVisibleNotify(func(src *Actor) {
		a.SetVisible(src.Visible)
	})
	var unbind func()
	srcGone := source.ConnectDestroy(func(*Actor) { unbind() })
	selfGone := a.ConnectDestroy(func(*Actor) { unbind() })
	unbind = func() {
		watch.Disconnect()
		srcGone.Disconnect()
		selfGone.Disconnect()
	}
}

// --- Tree manipulation ---

// AddChild appends child on top of this actor's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this actor (cycle).
func (a *Actor) AddChild(child *Actor) {
	a.AddChildAt(child, len(a.children))
}

// AddChildAt inserts child at the given stacking index.
// Same reparenting and cycle-check behavior as AddChild.
func (a *Actor) AddChildAt(child *Actor, index int) {
	if child == nil {
		panic("umbra: cannot add nil child")
	}
	if isAncestor(child, a) {
		panic("umbra: adding child would create a cycle")
	}
	if index < 0 || index > len(a.children) {
		panic("umbra: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	if index > len(a.children) {
		index = len(a.children)
	}
	child.Parent = a
	a.children = append(a.children, nil)
	copy(a.children[index+1:], a.children[index:])
	a.children[index] = child
}

// SetChildBelow stacks child immediately below sibling in this actor's child
// order, adopting child first if it is unparented or parented elsewhere.
// Panics if sibling is not a child of this actor or child == sibling.
func (a *Actor) SetChildBelow(child, sibling *Actor) {
	if child == nil || sibling == nil {
		panic("umbra: cannot stack a nil child")
	}
	if child == sibling {
		panic("umbra: cannot stack a child below itself")
	}
	if sibling.Parent != a {
		panic("umbra: sibling's parent is not this actor")
	}
	if child.Parent == a && a.childIndex(child) == a.childIndex(sibling)-1 {
		return
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
		child.Parent = nil
	}
	// Sibling index is computed after removal so the insertion slot is the
	// one directly beneath sibling in the final order.
	a.AddChildAt(child, a.childIndex(sibling))
}

// RemoveChild detaches child from this actor.
// Panics if child.Parent != a.
func (a *Actor) RemoveChild(child *Actor) {
	if child.Parent != a {
		panic("umbra: child's parent is not this actor")
	}
	a.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this actor from its parent.
// No-op if this actor has no parent.
func (a *Actor) RemoveFromParent() {
	if a.Parent == nil {
		return
	}
	a.Parent.RemoveChild(a)
}

// Children returns the child list, bottom to top. The returned slice MUST
// NOT be mutated by the caller.
func (a *Actor) Children() []*Actor {
	return a.children
}

// NumChildren returns the number of children.
func (a *Actor) NumChildren() int {
	return len(a.children)
}

// ChildAt returns the child at the given stacking index.
func (a *Actor) ChildAt(index int) *Actor {
	return a.children[index]
}

// ChildIndex returns child's stacking index, or -1 if child is not a child
// of this actor.
func (a *Actor) ChildIndex(child *Actor) int {
	if child == nil || child.Parent != a {
		return -1
	}
	return a.childIndex(child)
}

// --- Destruction ---

// Destroy removes this actor from its parent, fires its destroy signal, and
// recursively destroys all descendants. Idempotent: only the first call has
// any effect, and handlers connected to the destroy signal fire exactly once.
func (a *Actor) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	if a.Parent != nil {
		a.Parent.removeChildByPtr(a)
		a.Parent = nil
	}
	a.signals.emitDestroy()
	kids := a.children
	a.children = nil
	for _, c := range kids {
		c.Parent = nil
		c.Destroy()
	}
	a.Source = nil
	a.Texture = nil
}

// IsDestroyed returns true if this actor has been destroyed.
func (a *Actor) IsDestroyed() bool {
	return a.destroyed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of actor.
func isAncestor(candidate, actor *Actor) bool {
	for p := actor; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// childIndex returns child's index in a.children, or -1.
func (a *Actor) childIndex(child *Actor) int {
	for i, c := range a.children {
		if c == child {
			return i
		}
	}
	return -1
}

// removeChildByPtr removes child from a.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (a *Actor) removeChildByPtr(child *Actor) {
	for i, c := range a.children {
		if c == child {
			copy(a.children[i:], a.children[i+1:])
			a.children[len(a.children)-1] = nil
			a.children = a.children[:len(a.children)-1]
			return
		}
	}
}
