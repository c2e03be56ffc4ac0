package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var errNotObject = errors.New("sample value is not a JSON object")

// Field is one named member of a sample's value map.
type Field struct {
	Name  string
	Value any
}

// Sample is a single timestamped measurement as delivered by a data source. Values keep the order in which the
// source sent them, the first numeric one is what a chart plots when no field has been chosen.
type Sample struct {
	// Timestamp is milliseconds since the unix epoch.
	Timestamp int64
	Values    []Field
}

func NewSample(timestamp int64, fields ...Field) Sample {
	sample := Sample{Timestamp: timestamp}
	for _, field := range fields {
		sample.set(field.Name, field.Value)
	}
	return sample
}

func (s Sample) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

func (s Sample) Get(name string) (any, bool) {
	for _, field := range s.Values {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Number returns the named value if it is present and numeric.
func (s Sample) Number(name string) (float64, bool) {
	value, ok := s.Get(name)
	if !ok {
		return 0, false
	}
	return AsNumber(value)
}

func (s Sample) FieldNames() []string {
	names := make([]string, len(s.Values))
	for i, field := range s.Values {
		names[i] = field.Name
	}
	return names
}

// set replaces the value of an existing field in place, or appends a new one.
func (s *Sample) set(name string, value any) {
	for i := range s.Values {
		if s.Values[i].Name == name {
			s.Values[i].Value = value
			return
		}
	}
	s.Values = append(s.Values, Field{name, value})
}

// AsNumber reports whether v is a numeric value and returns it as a float64. Booleans and numeric looking strings
// are not numbers.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// MarshalValues encodes the values as a JSON object, keys in sample order.
func (s Sample) MarshalValues() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, field := range s.Values {
		if i > 0 {
			buffer.WriteByte(',')
		}
		name, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		buffer.Write(name)
		buffer.WriteByte(':')
		buffer.Write(value)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// UnmarshalValues decodes a JSON object into fields, keeping the key order of the document. Numbers become float64.
func UnmarshalValues(data []byte) ([]Field, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	var sample Sample
	for decoder.More() {
		token, err = decoder.Token()
		if err != nil {
			return nil, err
		}
		name, ok := token.(string)
		if !ok {
			return nil, errNotObject
		}
		var value any
		if err = decoder.Decode(&value); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if number, ok := value.(json.Number); ok {
			if f, err := number.Float64(); err == nil {
				value = f
			}
		}
		sample.set(name, value)
	}
	if _, err = decoder.Token(); err != nil {
		return nil, err
	}
	return sample.Values, nil
}

func (s Sample) MarshalJSON() ([]byte, error) {
	values, err := s.MarshalValues()
	if err != nil {
		return nil, err
	}
	var buffer bytes.Buffer
	buffer.WriteString(`{"timestamp":`)
	buffer.WriteString(strconv.FormatInt(s.Timestamp, 10))
	buffer.WriteString(`,"value":`)
	buffer.Write(values)
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp int64           `json:"timestamp"`
		Value     json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	values, err := UnmarshalValues(raw.Value)
	if err != nil {
		return err
	}
	s.Timestamp = raw.Timestamp
	s.Values = values
	return nil
}
