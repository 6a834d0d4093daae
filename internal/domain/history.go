package domain

// DefaultDenseWindow is how far past the end of the dense array a new tx id
// may land and still extend it.
const DefaultDenseWindow = 1 << 16

// TxHistory stores processed transactions by id. Ids are expected to arrive
// roughly in increasing order, so records live in a slice indexed by id while
// that stays compact; other ids fall back to a map. The slice stays within
// about 2*Len()+window slots, whatever the id pattern.
type TxHistory struct {
	dense  []ProcessedTransaction
	sparse map[TxID]*ProcessedTransaction
	window int
	count  int
}

// NewTxHistory creates an empty history. A window <= 0 selects DefaultDenseWindow.
func NewTxHistory(window int) *TxHistory {
	if window <= 0 {
		window = DefaultDenseWindow
	}
	return &TxHistory{
		sparse: make(map[TxID]*ProcessedTransaction),
		window: window,
	}
}

// Put stores rec under id, replacing any previous record with the same id.
func (h *TxHistory) Put(id TxID, rec ProcessedTransaction) {
	switch {
	case uint64(id) < uint64(len(h.dense)):
		idx := int(id)
		if !h.dense[idx].present() {
			h.forgetSparse(id)
		}
		h.dense[idx] = rec
	case h.canGrowTo(id):
		idx := int(id)
		h.dense = append(h.dense, make([]ProcessedTransaction, idx+1-len(h.dense))...)
		h.forgetSparse(id)
		h.dense[idx] = rec
	default:
		if _, ok := h.sparse[id]; !ok {
			h.count++
		}
		h.sparse[id] = &rec
	}
}

// canGrowTo reports whether the dense slice may be extended to hold id: the
// id must be within window of the tail and the slice must stay proportional
// to the number of stored records.
func (h *TxHistory) canGrowTo(id TxID) bool {
	gap := uint64(id) - uint64(len(h.dense))
	if gap >= uint64(h.window) {
		return false
	}
	limit := 2*(uint64(h.count)+1) + uint64(h.window)
	return uint64(id)+1 <= limit
}

// forgetSparse moves the accounting for id out of the sparse map, or counts
// id as new when it was not stored there.
func (h *TxHistory) forgetSparse(id TxID) {
	if _, ok := h.sparse[id]; ok {
		delete(h.sparse, id)
		return
	}
	h.count++
}

// Get returns the record stored under id. The pointer is valid until the next Put.
func (h *TxHistory) Get(id TxID) (*ProcessedTransaction, bool) {
	if uint64(id) < uint64(len(h.dense)) {
		if rec := &h.dense[int(id)]; rec.present() {
			return rec, true
		}
	}

	rec, ok := h.sparse[id]
	return rec, ok
}

// Len returns the number of stored records.
func (h *TxHistory) Len() int {
	return h.count
}
