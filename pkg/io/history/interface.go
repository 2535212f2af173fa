package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"
)

var ErrEntryTooLarge = errors.New("history entry too large for buffer")

// Entry pairs one utterance with the outcome of its translation.
type Entry struct {
	Seq         int64     `json:"seq"`
	Transcript  string    `json:"transcript"`
	Translation string    `json:"translation,omitempty"`
	Failure     string    `json:"failure,omitempty"`
	At          time.Time `json:"at"`
}

// frame encodes an entry as a 4 byte little endian length followed by JSON.
func (e Entry) frame() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[4:], body)
	return buf, nil
}

type Ring interface {
	Push(e Entry) error
	Snapshot() []Entry
	Len() int
	Capacity() int
}
