package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidRecordList = errors.New("record list must be a JSON array of objects")

// Record is one entry of a semi-structured list such as an education history.
// Entries may differ in shape; numbers are kept as json.Number so they survive
// a round trip without float rounding.
type Record map[string]any

// RecordList is an ordered list of records. A nil list encodes as [] and
// null/absent input decodes to an empty list.
type RecordList []Record

func (l RecordList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Record(l))
}

func (l *RecordList) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeRecordList(data)
	if err != nil {
		return err
	}
	*l = decoded
	return nil
}

// Normalize returns an empty, non-nil list for nil input.
func (l RecordList) Normalize() RecordList {
	if l == nil {
		return RecordList{}
	}
	return l
}

// EncodeRecordList renders the storage form of a list (JSON text, never null).
func EncodeRecordList(l RecordList) (string, error) {
	b, err := l.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encode record list: %w", err)
	}
	return string(b), nil
}

// DecodeRecordList is the inverse of EncodeRecordList.
func DecodeRecordList(data []byte) (RecordList, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return RecordList{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecordList, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidRecordList)
	}

	out := make(RecordList, len(raw))
	for i, r := range raw {
		if r == nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidRecordList, i)
		}
		out[i] = Record(r)
	}
	return out, nil
}
