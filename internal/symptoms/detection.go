package symptoms

// Detection is the set of symptom IDs found in one input, with insertion
// order preserved so downstream iteration is deterministic. It is created
// fresh per call and never shared between requests.
type Detection struct {
	ids  []ID
	seen map[ID]bool
}

// NewDetection returns an empty detection set.
func NewDetection() *Detection {
	return &Detection{seen: make(map[ID]bool)}
}

// Add inserts an ID, ignoring duplicates. A symptom, once added, is never
// removed by a later rule in the same call.
func (d *Detection) Add(id ID) {
	if d.seen[id] {
		return
	}
	d.seen[id] = true
	d.ids = append(d.ids, id)
}

// Has reports whether the set contains id.
func (d *Detection) Has(id ID) bool {
	return d.seen[id]
}

// IDs returns the detected symptoms in first-match order.
func (d *Detection) IDs() []ID {
	out := make([]ID, len(d.ids))
	copy(out, d.ids)
	return out
}

// Len returns the number of distinct symptoms detected.
func (d *Detection) Len() int {
	return len(d.ids)
}

// Empty reports whether nothing was detected.
func (d *Detection) Empty() bool {
	return len(d.ids) == 0
}
