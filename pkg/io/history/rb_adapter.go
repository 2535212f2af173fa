package history

import (
	"encoding/binary"
	"encoding/json"
	"sync"

	"github.com/smallnest/ringbuffer"
)

// bytes reserved per entry slot
const slotBytes = 2048

type rb_impl struct {
	mu      sync.Mutex
	entries int
	max     int
	rb      *ringbuffer.RingBuffer
}

// Push implements Ring. The oldest entries are evicted to make room.
func (r *rb_impl) Push(e Entry) error {
	frame, err := e.frame()
	if err != nil {
		return err
	}
	if len(frame) > r.rb.Capacity() {
		return ErrEntryTooLarge
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for r.entries >= r.max || r.rb.Free() < len(frame) {
		if !r.dropOldest() {
			// framing lost, start over
			r.rb.Reset()
			r.entries = 0
			break
		}
	}

	if _, err := r.rb.Write(frame); err != nil {
		return err
	}
	r.entries++
	return nil
}

func (r *rb_impl) dropOldest() bool {
	if r.rb.IsEmpty() {
		return false
	}
	head := make([]byte, 4)
	if n, err := r.rb.Read(head); err != nil || n != 4 {
		return false
	}
	size := int(binary.LittleEndian.Uint32(head))
	if size > 0 {
		skip := make([]byte, size)
		if n, err := r.rb.Read(skip); err != nil || n != size {
			return false
		}
	}
	r.entries--
	return true
}

// Snapshot implements Ring, oldest first, without consuming.
func (r *rb_impl) Snapshot() []Entry {
	r.mu.Lock()
	data := r.rb.Bytes(nil)
	r.mu.Unlock()

	out := make([]Entry, 0, r.max)
	for len(data) >= 4 {
		size := int(binary.LittleEndian.Uint32(data))
		data = data[4:]
		if size > len(data) {
			break
		}
		var e Entry
		if err := json.Unmarshal(data[:size], &e); err != nil {
			break
		}
		out = append(out, e)
		data = data[size:]
	}
	return out
}

// Len implements Ring.
func (r *rb_impl) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries
}

// Capacity implements Ring.
func (r *rb_impl) Capacity() int {
	return r.max
}

// New returns a ring keeping the latest maxEntries entries.
func New(maxEntries int) Ring {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &rb_impl{
		max: maxEntries,
		rb:  ringbuffer.New(maxEntries * slotBytes).SetBlocking(false),
	}
}
