package entity

// CanonicalRecord is the fully merged, renamed, normalized record ready
// for schema filtering and persistence. Produced once per session.
type CanonicalRecord map[string]string

// Clone returns a shallow copy of the record.
func (r CanonicalRecord) Clone() CanonicalRecord {
	out := make(CanonicalRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
