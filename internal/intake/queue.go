package intake

import (
	"github.com/easymigrate/docintake/internal/entity"
)

// MissingQueue is the ordered, de-duplicated backlog of unresolved
// (document type, field) pairs. Insertion order is preserved; consumption
// is FIFO. Not safe for concurrent use — a queue belongs to one session.
type MissingQueue struct {
	refs []entity.MissingFieldRef
	seen map[entity.MissingFieldRef]struct{}
}

func NewMissingQueue() *MissingQueue {
	return &MissingQueue{seen: make(map[entity.MissingFieldRef]struct{})}
}

// RestoreQueue rebuilds a queue from a session's pending refs, keeping
// their order and de-duplicating defensively.
func RestoreQueue(refs []entity.MissingFieldRef) *MissingQueue {
	q := NewMissingQueue()
	for _, r := range refs {
		q.Push(r)
	}
	return q
}

// Push appends ref unless an equal pair is already queued. Reports
// whether the ref was inserted; a duplicate keeps its first position.
func (q *MissingQueue) Push(ref entity.MissingFieldRef) bool {
	if _, dup := q.seen[ref]; dup {
		return false
	}
	q.seen[ref] = struct{}{}
	q.refs = append(q.refs, ref)
	return true
}

// Peek returns the head without consuming it.
func (q *MissingQueue) Peek() (entity.MissingFieldRef, bool) {
	if len(q.refs) == 0 {
		return entity.MissingFieldRef{}, false
	}
	return q.refs[0], true
}

// Pop consumes and returns the head.
func (q *MissingQueue) Pop() (entity.MissingFieldRef, bool) {
	if len(q.refs) == 0 {
		return entity.MissingFieldRef{}, false
	}
	head := q.refs[0]
	q.refs = q.refs[1:]
	delete(q.seen, head)
	return head, true
}

func (q *MissingQueue) Len() int {
	return len(q.refs)
}

// Refs returns a copy of the pending refs in order.
func (q *MissingQueue) Refs() []entity.MissingFieldRef {
	out := make([]entity.MissingFieldRef, len(q.refs))
	copy(out, q.refs)
	return out
}
