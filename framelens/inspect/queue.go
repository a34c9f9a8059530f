package inspect

// LayerQueue holds the decomposed layers of the current frame in
// front-to-back order (priority 0 first, backdrop last), plus the operator
// state that must outlive rebuilds: the disabled-set and the active layer
// reference.
//
// The queue is not safe for concurrent use; the Inspector serializes
// access under its lock.
type LayerQueue struct {
	layers   []Layer
	disabled map[LayerID]struct{}
	active   LayerID
}

func NewLayerQueue() *LayerQueue {
	return &LayerQueue{
		disabled: make(map[LayerID]struct{}),
		active:   NoLayer,
	}
}

// Reset clears the layers ahead of a rebuild. The disabled-set and active
// reference persist so operator choices survive frame-to-frame refresh.
func (q *LayerQueue) Reset() {
	q.layers = q.layers[:0]
}

// Push appends a layer, applying disabled-set membership: a layer whose id
// was disabled before the rebuild starts out disabled again.
func (q *LayerQueue) Push(layer Layer) {
	_, suppressed := q.disabled[layer.ID]
	layer.Enabled = !suppressed
	q.layers = append(q.layers, layer)
}

func (q *LayerQueue) Len() int {
	return len(q.layers)
}

// Layer returns the layer at position i in stored (front-to-back) order.
func (q *LayerQueue) Layer(i int) *Layer {
	return &q.layers[i]
}

// Find returns the layer with the given id, or nil if no layer with that
// id exists in the current frame.
func (q *LayerQueue) Find(id LayerID) *Layer {
	for i := range q.layers {
		if q.layers[i].ID == id {
			return &q.layers[i]
		}
	}
	return nil
}

// SetEnabled flips a layer's enabled flag and keeps the disabled-set in
// sync. Enabling removes from the set, disabling adds; both are idempotent.
func (q *LayerQueue) SetEnabled(id LayerID, enabled bool) {
	if enabled {
		delete(q.disabled, id)
	} else {
		q.disabled[id] = struct{}{}
	}
	if layer := q.Find(id); layer != nil {
		layer.Enabled = enabled
	}
}

func (q *LayerQueue) Enable(id LayerID)  { q.SetEnabled(id, true) }
func (q *LayerQueue) Disable(id LayerID) { q.SetEnabled(id, false) }

// IsDisabled reports disabled-set membership, which also covers ids not
// present in the current frame.
func (q *LayerQueue) IsDisabled(id LayerID) bool {
	_, ok := q.disabled[id]
	return ok
}

// SetActive replaces the active reference. Selecting the currently active
// id again clears it. The reference may name a layer absent from the
// current frame; it stays inert until that id reappears.
func (q *LayerQueue) SetActive(id LayerID) {
	if q.active == id {
		q.active = NoLayer
	} else {
		q.active = id
	}
}

// ClearActive unconditionally resets the active reference.
func (q *LayerQueue) ClearActive() {
	q.active = NoLayer
}

func (q *LayerQueue) Active() LayerID {
	return q.active
}

// Items projects the queue into the presentation model.
func (q *LayerQueue) Items() []QueueItem {
	items := make([]QueueItem, len(q.layers))
	for i, layer := range q.layers {
		items[i] = QueueItem{
			Label:    layer.ID.Readable(),
			Checked:  layer.Enabled,
			Selected: layer.ID == q.active,
			Index:    i,
		}
	}
	return items
}
