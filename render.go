package umbra

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// drawOp is a single draw instruction emitted during stage traversal.
type drawOp struct {
	actor   *Actor
	texture *ebiten.Image
	x, y    float64 // absolute stage position
	w, h    float64 // drawn size
}

// DrawStage composites the stage back to front onto screen. Surfaces draw
// their own texture, clones draw their source's texture at the clone's own
// geometry (the source may be hidden; clones render regardless). Siblings
// draw in child order unless TranslationZ differs, in which case smaller
// (further) values draw first.
func DrawStage(screen *ebiten.Image, c *Compositor) {
	for _, op := range compileStage(c) {
		gop := &ebiten.DrawImageOptions{}
		b := op.texture.Bounds()
		if op.w > 0 && op.h > 0 {
			gop.GeoM.Scale(op.w/float64(b.Dx()), op.h/float64(b.Dy()))
		}
		gop.GeoM.Translate(op.x, op.y)
		screen.DrawImage(op.texture, gop)
	}
}

// compileStage traverses the stage and returns the draw ops in back-to-front
// order. Split from DrawStage so ordering and geometry are testable without
// a render target.
func compileStage(c *Compositor) []drawOp {
	var ops []drawOp
	compileActor(c.stage, 0, 0, &ops)
	return ops
}

func compileActor(a *Actor, ox, oy float64, ops *[]drawOp) {
	if a.destroyed || !a.Visible {
		return
	}
	x, y := ox+a.X, oy+a.Y
	if tex := a.renderTexture(); tex != nil {
		*ops = append(*ops, drawOp{actor: a, texture: tex, x: x, y: y, w: a.Width, h: a.Height})
	}
	for _, child := range depthOrder(a.children) {
		compileActor(child, x, y, ops)
	}
}

// renderTexture resolves the texture an actor draws: its own for surfaces,
// the source chain's for clones, nil for groups.
func (a *Actor) renderTexture() *ebiten.Image {
	switch a.Kind {
	case ActorKindSurface:
		return a.Texture
	case ActorKindClone:
		if a.Source != nil && !a.Source.IsDestroyed() {
			return a.Source.renderTexture()
		}
	}
	return nil
}

// depthOrder returns children sorted back to front by TranslationZ, keeping
// child order for equal depths. Returns the input slice untouched when no
// child has a depth translation, the overwhelmingly common case.
func depthOrder(children []*Actor) []*Actor {
	translated := false
	for _, c := range children {
		if c.TranslationZ != 0 {
			translated = true
			break
		}
	}
	if !translated {
		return children
	}
	sorted := make([]*Actor, len(children))
	copy(sorted, children)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TranslationZ < sorted[j].TranslationZ
	})
	return sorted
}
