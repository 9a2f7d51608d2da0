package umbra

import "testing"

// shadowScene builds one monitor and one workspace-0 window per title, each
// with a corner shadow installed, plus the target workspace's windows if any
// titles carry workspace 1. Returns the compositor and the window actors in
// the order given.
func shadowScene(t *testing.T, titles ...string) (*Compositor, []*WindowActor) {
	t.Helper()
	c := NewCompositor()
	c.AddMonitor(0, 0, 1920, 1080, 1)
	was := make([]*WindowActor, 0, len(titles))
	for _, title := range titles {
		wa := NewWindowActor(testWindow(title, 0, 0), nil)
		wa.SetCornerShadow(NewSurface(title+"-static-shadow", nil, 0, 0), true)
		c.AddWindow(wa)
		was = append(was, wa)
	}
	return c, was
}

func startSwitch(t *testing.T, c *Compositor) *Switch {
	t.Helper()
	return NewSwitch(c, SwitchConfig{From: 0, To: 1})
}

// --- Attach: creation, placement, eligibility ---

func TestAttachCreatesShadowBelowClone(t *testing.T) {
	c, was := shadowScene(t, "term")
	sw := startSwitch(t, c)
	AttachShadows(sw)

	ws := sw.Monitors[0].Workspaces[0]
	clone := ws.Records[0].Clone
	shadow := sw.ShadowClone(clone)
	if shadow == nil {
		t.Fatal("eligible window should get a shadow clone")
	}
	if sw.ShadowCount() != 1 {
		t.Errorf("ShadowCount = %d, want 1", sw.ShadowCount())
	}
	if shadow.Kind != ActorKindClone || shadow.Source != was[0].Shadow {
		t.Error("shadow clone should source the static shadow actor")
	}
	if shadow.Parent != ws.Group {
		t.Error("shadow clone should be parented under the workspace group")
	}
	if ws.Group.ChildIndex(shadow) != ws.Group.ChildIndex(clone)-1 {
		t.Errorf("shadow at index %d, clone at %d; shadow must sit immediately below",
			ws.Group.ChildIndex(shadow), ws.Group.ChildIndex(clone))
	}
}

func TestAttachSkipsWindowWithoutShadow(t *testing.T) {
	c, was := shadowScene(t, "plain")
	was[0].SetCornerShadow(nil, true)
	sw := startSwitch(t, c)
	AttachShadows(sw)
	if sw.ShadowCount() != 0 {
		t.Errorf("ShadowCount = %d, want 0 for a window without a shadow", sw.ShadowCount())
	}
}

func TestAttachSkipsWindowWithEffectDisabled(t *testing.T) {
	c, was := shadowScene(t, "square")
	was[0].RoundedCorners = false
	sw := startSwitch(t, c)
	AttachShadows(sw)
	if sw.ShadowCount() != 0 {
		t.Errorf("ShadowCount = %d, want 0 with the corner effect disabled", sw.ShadowCount())
	}
}

func TestAttachMixedEligibility(t *testing.T) {
	c, was := shadowScene(t, "eligible", "bare")
	was[1].SetCornerShadow(nil, false)
	sw := startSwitch(t, c)
	AttachShadows(sw)

	ws := sw.Monitors[0].Workspaces[0]
	cloneA, cloneB := ws.Records[0].Clone, ws.Records[1].Clone
	if sw.ShadowCount() != 1 {
		t.Fatalf("ShadowCount = %d, want exactly 1", sw.ShadowCount())
	}
	shadow := sw.ShadowClone(cloneA)
	if shadow == nil {
		t.Fatal("eligible window A should have a shadow clone")
	}
	if ws.Group.ChildIndex(shadow) != ws.Group.ChildIndex(cloneA)-1 {
		t.Error("A's shadow must sit immediately below A's clone")
	}
	if sw.ShadowClone(cloneB) != nil {
		t.Error("ineligible window B must have no shadow clone")
	}
}

// --- Geometry ---

func TestShadowGeometry(t *testing.T) {
	for _, scale := range []float64{1, 1.5, 2} {
		c := NewCompositor()
		c.AddMonitor(0, 0, 1920, 1080, scale)
		win := testWindow("geo", 0, 0)
		win.ScaleFactor = scale
		wa := NewWindowActor(win, nil)
		wa.SetCornerShadow(NewSurface("shadow", nil, 0, 0), true)
		c.AddWindow(wa)

		sw := startSwitch(t, c)
		AttachShadows(sw)

		clone := sw.Monitors[0].Workspaces[0].Records[0].Clone
		shadow := sw.ShadowClone(clone)
		pad := shadowPadding * scale
		if shadow.Width != win.FrameWidth+2*pad || shadow.Height != win.FrameHeight+2*pad {
			t.Errorf("scale %v: shadow size = %vx%v, want %vx%v",
				scale, shadow.Width, shadow.Height, win.FrameWidth+2*pad, win.FrameHeight+2*pad)
		}
		wantX := clone.X + (win.FrameX - win.ActorX) - pad
		wantY := clone.Y + (win.FrameY - win.ActorY) - pad
		if shadow.X != wantX || shadow.Y != wantY {
			t.Errorf("scale %v: shadow at (%v, %v), want (%v, %v)", scale, shadow.X, shadow.Y, wantX, wantY)
		}
	}
}

// --- Restacking guarantee ---

func TestRestackReimposesShadowOrder(t *testing.T) {
	c, was := shadowScene(t, "term", "other")
	sw := startSwitch(t, c)
	AttachShadows(sw)

	ws := sw.Monitors[0].Workspaces[0]
	clone := ws.Records[0].Clone
	shadow := sw.ShadowClone(clone)

	// Something hoists the shadow above its clone.
	ws.Group.AddChild(shadow)
	if ws.Group.ChildIndex(shadow) == ws.Group.ChildIndex(clone)-1 {
		t.Fatal("precondition: shadow should be out of place")
	}

	c.RaiseWindow(was[0]) // any compositor restack
	if ws.Group.ChildIndex(shadow) != ws.Group.ChildIndex(clone)-1 {
		t.Error("restack should re-impose shadow immediately below its clone")
	}
	for _, rec := range ws.Records {
		s := sw.ShadowClone(rec.Clone)
		if s != nil && ws.Group.ChildIndex(s) != ws.Group.ChildIndex(rec.Clone)-1 {
			t.Errorf("%s: shadow not below clone after restack", rec.WindowActor.Win.Title)
		}
	}
}

func TestWorkspaceWithoutShadowsStillSubscribes(t *testing.T) {
	c, was := shadowScene(t, "bare")
	was[0].SetCornerShadow(nil, false)
	sw := startSwitch(t, c)
	set := AttachShadows(sw)

	// One restack + one teardown handle per workspace group (two groups:
	// origin and target).
	if set.Len() != 4 {
		t.Errorf("handle set Len = %d, want 4", set.Len())
	}
	if c.signals.connCount() != 2 {
		t.Errorf("compositor connections = %d, want 2 restack handlers", c.signals.connCount())
	}
	c.RaiseWindow(was[0]) // harmless no-op with no shadow clones
}

// --- Depth guarantee ---

func TestShadowDepthTracksClone(t *testing.T) {
	c, _ := shadowScene(t, "cube")
	sw := startSwitch(t, c)
	AttachShadows(sw)

	clone := sw.Monitors[0].Workspaces[0].Records[0].Clone
	shadow := sw.ShadowClone(clone)
	if shadow.TranslationZ >= clone.TranslationZ {
		t.Error("shadow should start behind its clone")
	}
	clone.SetTranslationZ(5)
	if shadow.TranslationZ >= clone.TranslationZ {
		t.Errorf("shadow z = %v not behind clone z = %v after transform", shadow.TranslationZ, clone.TranslationZ)
	}
	clone.SetTranslationZ(-3)
	if shadow.TranslationZ >= clone.TranslationZ {
		t.Errorf("shadow z = %v not behind clone z = %v after negative transform", shadow.TranslationZ, clone.TranslationZ)
	}
}

// --- Visibility binding ---

func TestShadowVisibilityFollowsClone(t *testing.T) {
	c, _ := shadowScene(t, "term")
	sw := startSwitch(t, c)
	AttachShadows(sw)

	clone := sw.Monitors[0].Workspaces[0].Records[0].Clone
	shadow := sw.ShadowClone(clone)
	clone.SetVisible(false)
	if shadow.Visible {
		t.Error("shadow should hide with its clone")
	}
	clone.SetVisible(true)
	if !shadow.Visible {
		t.Error("shadow should reappear with its clone")
	}
}

// --- Teardown: workspace destroy ---

func TestWorkspaceDestroyReleasesRestackSubscription(t *testing.T) {
	c, _ := shadowScene(t, "term")
	sw := startSwitch(t, c)
	set := AttachShadows(sw)

	before := c.signals.connCount()
	ws := sw.Monitors[0].Workspaces[0]
	ws.Group.Destroy()

	if got := c.signals.connCount(); got != before-1 {
		t.Errorf("compositor connections = %d after group destroy, want %d", got, before-1)
	}
	// The teardown subscription released itself along the way; the handles
	// the caller holds for this group are now inert.
	live := 0
	for _, h := range set.Handles() {
		if h.Connected() {
			live++
		}
	}
	if live != 2 {
		t.Errorf("live caller handles = %d, want 2 (the surviving group's)", live)
	}

	// Restacks after the destroy must not reach the dead group.
	c.signals.emit(signalRestacked)
}

func TestWorkspaceDestroyTwiceSafe(t *testing.T) {
	c, _ := shadowScene(t, "term")
	sw := startSwitch(t, c)
	AttachShadows(sw)
	ws := sw.Monitors[0].Workspaces[0]
	ws.Group.Destroy()
	ws.Group.Destroy() // second destroy must not double-release
	if c.signals.connCount() != 1 {
		t.Errorf("compositor connections = %d, want 1 (the surviving group's)", c.signals.connCount())
	}
}

// --- Teardown: clone destroy ---

func TestCloneDestroyReleasesSubscriptionsExactlyOnce(t *testing.T) {
	c, _ := shadowScene(t, "term")
	sw := startSwitch(t, c)
	AttachShadows(sw)

	clone := sw.Monitors[0].Workspaces[0].Records[0].Clone
	shadow := sw.ShadowClone(clone)

	clone.Destroy()
	if sw.ShadowClone(clone) != nil {
		t.Error("side-table entry should be gone after clone destroy")
	}
	if !shadow.IsDestroyed() {
		t.Error("orphaned shadow clone should be destroyed with its clone")
	}
	if got := clone.signals.connCount(); got != 0 {
		t.Errorf("clone retains %d subscriptions after destroy, want 0", got)
	}
	clone.Destroy() // idempotent; the self-released handles must not double-fire
}

func TestNaturalTeardownLeavesNothingBehind(t *testing.T) {
	c, _ := shadowScene(t, "term", "other")
	sw := startSwitch(t, c)
	AttachShadows(sw)

	sw.Finish()
	if sw.ShadowCount() != 0 {
		t.Errorf("ShadowCount = %d after Finish, want 0", sw.ShadowCount())
	}
	if got := c.signals.connCount(); got != 0 {
		t.Errorf("compositor connections = %d after Finish, want 0", got)
	}
	c.signals.emit(signalRestacked) // nothing left to fire
}

// --- Detach ---

func TestDetachDestroysShadowsAndClearsTable(t *testing.T) {
	c, _ := shadowScene(t, "one", "two")
	sw := startSwitch(t, c)
	AttachShadows(sw)

	ws := sw.Monitors[0].Workspaces[0]
	shadows := make([]*Actor, 0, 2)
	for _, rec := range ws.Records {
		shadows = append(shadows, sw.ShadowClone(rec.Clone))
	}

	DetachShadows(sw)
	if sw.ShadowCount() != 0 {
		t.Errorf("ShadowCount = %d after detach, want 0", sw.ShadowCount())
	}
	for _, s := range shadows {
		if !s.IsDestroyed() {
			t.Error("shadow clone should be destroyed by detach")
		}
		if s.Parent != nil {
			t.Error("shadow clone still in the scene graph after detach")
		}
	}
	for _, rec := range ws.Records {
		if !rec.Clone.IsDestroyed() && rec.Clone.Parent != ws.Group {
			t.Error("detach must not disturb the window clones")
		}
	}

	DetachShadows(sw) // idempotent
}

func TestDetachWithNothingAttachedNoOp(t *testing.T) {
	c, _ := shadowScene(t, "term")
	sw := startSwitch(t, c)
	DetachShadows(sw)
	if sw.ShadowCount() != 0 {
		t.Error("detach on a bare episode should be a no-op")
	}
}

func TestAttachThenImmediateDetach(t *testing.T) {
	c, _ := shadowScene(t, "term")
	sw := startSwitch(t, c)
	ws := sw.Monitors[0].Workspaces[0]
	childrenBefore := ws.Group.NumChildren()

	set := AttachShadows(sw)
	DetachShadows(sw)

	if ws.Group.NumChildren() != childrenBefore {
		t.Errorf("group children = %d after attach+detach, want %d", ws.Group.NumChildren(), childrenBefore)
	}
	// Detach leaves the per-workspace subscriptions alone; only the destroy
	// path releases them.
	for _, h := range set.Handles() {
		if !h.Connected() {
			t.Error("detach must not release the caller's handles")
		}
	}
	if c.signals.connCount() != 2 {
		t.Errorf("compositor connections = %d, want 2", c.signals.connCount())
	}
}

// --- Abort ---

func TestAbortReleaseThenFinish(t *testing.T) {
	c, _ := shadowScene(t, "term")
	sw := startSwitch(t, c)
	set := AttachShadows(sw)

	set.Release()
	if c.signals.connCount() != 0 {
		t.Errorf("compositor connections = %d after Release, want 0", c.signals.connCount())
	}
	set.Release() // idempotent

	DetachShadows(sw)
	sw.Cancel() // group destroy finds the teardown handles already released
	if sw.ShadowCount() != 0 {
		t.Error("no shadow state may survive an aborted episode")
	}
}

func TestCloneDestroyBeforeDetachThenDetach(t *testing.T) {
	c, _ := shadowScene(t, "term", "other")
	sw := startSwitch(t, c)
	AttachShadows(sw)

	ws := sw.Monitors[0].Workspaces[0]
	ws.Records[0].Clone.Destroy() // window closed mid-switch
	DetachShadows(sw)             // must cope with the already-gone entry
	if sw.ShadowCount() != 0 {
		t.Errorf("ShadowCount = %d, want 0", sw.ShadowCount())
	}
}
