package umbra

// signalKind identifies which signal on a table a handler is attached to.
type signalKind uint8

const (
	signalDestroy signalKind = iota
	signalRestacked
	signalVisibleNotify
	signalTranslationZNotify
	signalKindCount
)

// entry pairs a callback with its registration id.
type entry struct {
	id uint32
	fn func()
}

// signalTable stores the handlers connected to one object. The zero value is
// ready to use. Not safe for concurrent use — umbra is single-threaded, like
// the event loop that would dispatch these signals.
type signalTable struct {
	entries   [signalKindCount][]entry
	nextID    uint32
	destroyed bool
}

// connect registers fn and returns a handle for later disconnection.
// Connecting to an already-destroyed object returns an inert handle.
func (t *signalTable) connect(kind signalKind, fn func()) Handle {
	if t.destroyed {
		return Handle{}
	}
	t.nextID++
	id := t.nextID
	t.entries[kind] = append(t.entries[kind], entry{id: id, fn: fn})
	return Handle{table: t, kind: kind, id: id}
}

// emit fires every handler registered for kind. Iteration runs over a
// snapshot so handlers may connect or disconnect (including themselves)
// mid-emit; a handler disconnected by an earlier handler does not fire.
func (t *signalTable) emit(kind signalKind) {
	live := t.entries[kind]
	if len(live) == 0 {
		return
	}
	snapshot := make([]entry, len(live))
	copy(snapshot, live)
	for _, e := range snapshot {
		if t.contains(kind, e.id) {
			e.fn()
		}
	}
}

// emitDestroy fires the destroy signal exactly once, then drops every handler
// so nothing connected to this object can fire again.
func (t *signalTable) emitDestroy() {
	if t.destroyed {
		return
	}
	t.emit(signalDestroy)
	t.destroyed = true
	for i := range t.entries {
		t.entries[i] = nil
	}
}

// contains reports whether the given registration is still live.
func (t *signalTable) contains(kind signalKind, id uint32) bool {
	for _, e := range t.entries[kind] {
		if e.id == id {
			return true
		}
	}
	return false
}

// connCount returns the number of live handlers across all signals.
// Tests use it to assert that teardown leaves no subscription behind.
func (t *signalTable) connCount() int {
	n := 0
	for _, es := range t.entries {
		n += len(es)
	}
	return n
}

// Handle identifies one signal subscription: the object it was registered on
// plus the registration id. The zero value is inert.
type Handle struct {
	table *signalTable
	kind  signalKind
	id    uint32
}

// Disconnect removes the subscription. Safe to call more than once, and safe
// after the subscribed object has been destroyed.
func (h Handle) Disconnect() {
	if h.table == nil || h.id == 0 {
		return
	}
	es := h.table.entries[h.kind]
	for i, e := range es {
		if e.id == h.id {
			copy(es[i:], es[i+1:])
			es[len(es)-1] = entry{}
			h.table.entries[h.kind] = es[:len(es)-1]
			return
		}
	}
}

// Connected reports whether the subscription is still registered.
func (h Handle) Connected() bool {
	return h.table != nil && h.id != 0 && h.table.contains(h.kind, h.id)
}

// HandleSet collects the subscriptions AttachShadows creates on the caller's
// behalf. The caller releases them only when aborting an episode before its
// natural teardown; in the normal case the subscribed objects are destroyed
// first and the handles go inert on their own.
type HandleSet struct {
	handles []Handle
}

// add appends a handle to the set.
func (s *HandleSet) add(h Handle) {
	s.handles = append(s.handles, h)
}

// Len returns the number of handles held.
func (s *HandleSet) Len() int {
	return len(s.handles)
}

// Handles returns the held handles. The returned slice MUST NOT be mutated.
func (s *HandleSet) Handles() []Handle {
	return s.handles
}

// Release disconnects every held handle and empties the set. Idempotent, and
// safe when some or all of the subscribed objects are already destroyed.
func (s *HandleSet) Release() {
	for _, h := range s.handles {
		h.Disconnect()
	}
	s.handles = nil
}
