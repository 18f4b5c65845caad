package api

import (
	"bytes"

	"lineview/internal/adapters/influxdb"

	"github.com/vmihailenco/msgpack/v5"
)

// encodeTimeline renders the timeline byte contract: a MessagePack array of
// [epoch_seconds, color-or-nil] pairs
func encodeTimeline(slots []influxdb.TimelineSlot) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	if err := enc.EncodeArrayLen(len(slots)); err != nil {
		return nil, err
	}
	for _, s := range slots {
		if err := enc.EncodeArrayLen(2); err != nil {
			return nil, err
		}
		if err := enc.EncodeInt(s.Start.Unix()); err != nil {
			return nil, err
		}
		if s.Color == nil {
			if err := enc.EncodeNil(); err != nil {
				return nil, err
			}
		} else if err := enc.EncodeUint(uint64(*s.Color)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
