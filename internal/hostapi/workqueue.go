package hostapi

import "sync"

// inboundRecord is one posted record holding its own copy of the
// inbound bytes, queued from the receive worker's goroutine for later
// dispatch on the foreign runtime's own thread. It carries no separate
// ownership flag: every record owns its bytes.
type inboundRecord struct {
	bytes []byte
}

// workQueue is a plain mutex-guarded FIFO. Unlike sendQueue it is not
// interruptible or bounded — the foreign-runtime adapter is expected
// to drain it promptly via Pump, and Cleanup discards whatever is
// left unread.
type workQueue struct {
	mu    sync.Mutex
	items []inboundRecord
}

func newWorkQueue() *workQueue {
	return &workQueue{}
}

// post appends a copy-owned record. Safe to call from any goroutine,
// in particular the Channel's receive worker.
func (q *workQueue) post(b []byte) {
	cp := make([]byte, len(b))
	copy(cp, b)
	q.mu.Lock()
	q.items = append(q.items, inboundRecord{bytes: cp})
	q.mu.Unlock()
}

// drain removes and returns every record currently queued, in order.
func (q *workQueue) drain() []inboundRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	items := q.items
	q.items = nil
	return items
}
