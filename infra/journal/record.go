package journal

import "time"

// Kind tags the event class of a record so scans can filter without
// decoding payloads.
type Kind uint8

const (
	KindNew Kind = iota
	KindAmend
	KindCancel
	KindTrade
)

// Record is one journaled event. Data is the raw feed line; replay
// decodes it with the same codec the live path uses.
type Record struct {
	Kind Kind
	Seq  uint64
	Time int64
	Data []byte
}

func NewRecord(k Kind, seq uint64, data []byte) *Record {
	return &Record{
		Kind: k,
		Seq:  seq,
		Time: time.Now().UnixNano(),
		Data: data,
	}
}
