// Package decoders turns raw identifier + payload frames, as read from a CAN bus or a serial data logger, into
// sample fields.
package decoders

import (
	"fmt"
	"sort"
	"strings"

	"livechart/models"
	"livechart/utils"
)

const NoRounding = -1

type Decoder interface {
	Decode(id uint32, data []byte) []models.Field
}

// Signal is one value packed into the payload of a frame.
type Signal struct {
	Name string
	ID   uint32
	// Start is the first payload byte, a negative Start counts back from the end of the payload.
	Start int
	// Size is the number of big endian bytes holding the raw value.
	Size int
	// Mask, when set, reduces the raw value to 0 or 1 depending on whether any masked bit is set.
	Mask uint64
	// value = raw * Scale + Offset, a zero Scale means 1.
	Scale  float64
	Offset float64
	// Precision is the number of decimal places kept, NoRounding keeps them all.
	Precision int
}

func (s Signal) decode(data []byte) (float64, bool) {
	start := s.Start
	if start < 0 {
		start += len(data)
	}
	size := max(s.Size, 1)
	if start < 0 || start+size > len(data) {
		return 0, false
	}

	var raw uint64
	for _, b := range data[start : start+size] {
		raw = raw<<8 | uint64(b)
	}
	if s.Mask != 0 {
		return utils.BoolToFloat(raw&s.Mask != 0), true
	}

	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	value := float64(raw)*scale + s.Offset
	if s.Precision >= 0 {
		value = utils.RoundToXDp(value, uint8(s.Precision))
	}
	return value, true
}

// SignalTable decodes frames by looking up the signals registered for their identifier.
type SignalTable struct {
	signals map[uint32][]Signal
}

func NewSignalTable(signals []Signal) *SignalTable {
	table := &SignalTable{signals: make(map[uint32][]Signal)}
	for _, signal := range signals {
		table.signals[signal.ID] = append(table.signals[signal.ID], signal)
	}
	return table
}

func (t *SignalTable) Decode(id uint32, data []byte) []models.Field {
	var fields []models.Field
	for _, signal := range t.signals[id] {
		if value, ok := signal.decode(data); ok {
			fields = append(fields, models.Field{Name: signal.Name, Value: value})
		}
	}
	return fields
}

// IDs returns the identifiers the table knows, in ascending order.
func (t *SignalTable) IDs() []uint32 {
	ids := make([]uint32, 0, len(t.signals))
	for id := range t.signals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Raw emits every payload byte as its own field, named after the identifier and byte index.
type Raw struct{}

func (Raw) Decode(id uint32, data []byte) []models.Field {
	fields := make([]models.Field, len(data))
	for i, b := range data {
		fields[i] = models.Field{Name: fmt.Sprintf("0x%03X.%d", id, i), Value: float64(b)}
	}
	return fields
}

// Get returns the decoder registered under name.
func Get(name string) (Decoder, error) {
	switch strings.ToLower(name) {
	case "k701":
		return K701(), nil
	case "raw", "":
		return Raw{}, nil
	}
	return nil, fmt.Errorf("unknown decoder %q", name)
}
