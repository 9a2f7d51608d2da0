package umbra

const (
	// shadowPadding is the logical padding added around the window frame so
	// the shadow extends symmetrically past the visible edge. It is scaled
	// by the window's per-monitor scale factor.
	shadowPadding = 12.0

	// shadowDepthBias keeps a shadow clone behind its window clone when a
	// 3D transform on the workspace group translates the clones in depth.
	// Only the sign and rough magnitude matter: slightly behind the clone,
	// whatever transform is active.
	shadowDepthBias = -0.2
)

// AttachShadows walks the switch episode and, for every window with an
// active corner shadow, creates a shadow clone pinned directly beneath the
// window's animation clone. Subscriptions keep the pair in lockstep for the
// rest of the episode:
//
//   - one restacked subscription per workspace group re-imposes the
//     below-the-clone ordering whenever the compositor restacks anything;
//   - the workspace group's destroy signal releases that subscription and
//     itself;
//   - each clone's translation-z notify keeps the shadow biased behind it,
//     and the clone's destroy signal releases both and retires the shadow.
//
// Windows without a shadow, or with the corner effect disabled, are skipped.
// A workspace with no eligible windows still gets its restack and teardown
// subscriptions; they are harmless no-ops.
//
// The returned set holds only the per-workspace restack and teardown
// handles. The self-releasing per-clone subscriptions manage their own
// lifetime and are never returned. Callers release the set only when
// aborting the episode before its natural teardown destroys the groups.
func AttachShadows(sw *Switch) *HandleSet {
	set := &HandleSet{}
	for _, mg := range sw.Monitors {
		for _, ws := range mg.Workspaces {
			restack := sw.comp.ConnectRestacked(func() {
				for _, rec := range ws.Records {
					if shadow, ok := sw.shadows[rec.Clone]; ok {
						ws.Group.SetChildBelow(shadow, rec.Clone)
					}
				}
			})
			// The handle is captured by value after registration; both
			// disconnects are idempotent, so a second destroy emission
			// (should a host ever produce one) finds nothing to release.
			var teardown Handle
			teardown = ws.Group.ConnectDestroy(func(*Actor) {
				restack.Disconnect()
				teardown.Disconnect()
			})
			set.add(restack)
			set.add(teardown)

			for _, rec := range ws.Records {
				wa := rec.WindowActor
				if wa.Shadow == nil || !wa.RoundedCorners {
					continue
				}
				attachShadow(sw, ws, rec)
			}
		}
	}
	return set
}

// attachShadow creates, positions, and wires the shadow clone for one
// eligible window record.
func attachShadow(sw *Switch, ws *WorkspaceGroup, rec WindowRecord) {
	wa, clone := rec.WindowActor, rec.Clone
	win := wa.Win
	shadow := NewClone(wa.Surface.Name+"-shadow", wa.Shadow)

	// The shadow extends pad beyond the frame on every side. The clone sits
	// at the surface actor's origin, so the frame-vs-actor origin delta
	// shifts the shadow onto the frame before the padding pulls it back.
	pad := shadowPadding * win.ScaleFactor
	shadow.Width = win.FrameWidth + 2*pad
	shadow.Height = win.FrameHeight + 2*pad
	shadow.X = clone.X + (win.FrameX - win.ActorX) - pad
	shadow.Y = clone.Y + (win.FrameY - win.ActorY) - pad

	shadow.SetTranslationZ(clone.TranslationZ + shadowDepthBias)
	zwatch := clone.ConnectTranslationZNotify(func(c *Actor) {
		shadow.SetTranslationZ(c.TranslationZ + shadowDepthBias)
	})
	var onDestroy Handle
	onDestroy = clone.ConnectDestroy(func(c *Actor) {
		zwatch.Disconnect()
		onDestroy.Disconnect()
		// The clone is gone mid-episode (window closed, or group teardown
		// cascading): the shadow has nothing left to track.
		if s, ok := sw.shadows[c]; ok {
			delete(sw.shadows, c)
			s.Destroy()
		}
	})

	sw.shadows[clone] = shadow
	shadow.BindVisibility(clone)
	ws.Group.SetChildBelow(shadow, clone)
}

// DetachShadows destroys every shadow clone the episode still tracks and
// clears the side table. Idempotent: a second call, or a call when nothing
// was attached, is a no-op. The per-workspace restack and teardown
// subscriptions are left alone; those release on the destroy path only.
func DetachShadows(sw *Switch) {
	for _, mg := range sw.Monitors {
		for _, ws := range mg.Workspaces {
			for _, rec := range ws.Records {
				if shadow, ok := sw.shadows[rec.Clone]; ok {
					delete(sw.shadows, rec.Clone)
					shadow.Destroy()
				}
			}
		}
	}
}

// ShadowClone returns the shadow clone tracking the given window clone, or
// nil when none is attached.
func (sw *Switch) ShadowClone(clone *Actor) *Actor {
	return sw.shadows[clone]
}

// ShadowCount returns the number of live shadow clones in the episode.
func (sw *Switch) ShadowCount() int {
	return len(sw.shadows)
}
