package chart

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsortedSeries is returned when record years are not strictly increasing.
	ErrUnsortedSeries = errors.New("series years must be strictly increasing")
	// ErrFieldMismatch is returned when a record's value count differs from the field count.
	ErrFieldMismatch = errors.New("record values do not match series fields")
)

// Axis selects which vertical scale a field is plotted against.
type Axis string

const (
	AxisLeft  Axis = "left"
	AxisRight Axis = "right"
)

// Field describes one numeric column of a Series.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Unit  string `json:"unit" yaml:"unit"`
	Color string `json:"color" yaml:"color"`
	Axis  Axis   `json:"axis" yaml:"axis"`
}

// Record is one year of observations, with Values ordered like the series fields.
type Record struct {
	Year   int       `json:"year"`
	Values []float64 `json:"values"`
}

// Series is an immutable, year-ordered dataset indexed 0..Len()-1.
type Series struct {
	fields  []Field
	records []Record
}

// NewSeries validates and copies the given fields and records.
func NewSeries(fields []Field, records []Record) (Series, error) {
	s := Series{
		fields:  append([]Field(nil), fields...),
		records: make([]Record, len(records)),
	}

	for i, rec := range records {
		if len(rec.Values) != len(fields) {
			return Series{}, fmt.Errorf("record %d (year %d) has %d values for %d fields: %w",
				i, rec.Year, len(rec.Values), len(fields), ErrFieldMismatch)
		}
		if i > 0 && rec.Year <= records[i-1].Year {
			return Series{}, fmt.Errorf("year %d follows %d: %w", rec.Year, records[i-1].Year, ErrUnsortedSeries)
		}
		s.records[i] = copyRecord(rec)
	}

	return s, nil
}

// MustSeries is NewSeries for static datasets; it panics on invalid input.
func MustSeries(fields []Field, records []Record) Series {
	s, err := NewSeries(fields, records)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of records.
func (s Series) Len() int { return len(s.records) }

// MaxIndex returns the highest valid index, or 0 for an empty series.
func (s Series) MaxIndex() int { return maxIndexFor(len(s.records)) }

// Fields returns a copy of the field descriptors.
func (s Series) Fields() []Field { return append([]Field(nil), s.fields...) }

// At returns a copy of the record at index i. It panics when i is out of range.
func (s Series) At(i int) Record { return copyRecord(s.records[i]) }

// Prefix returns the first n records, clamped to [0, Len()].
func (s Series) Prefix(n int) []Record {
	n = clamp(n, 0, len(s.records))
	return copyRecords(s.records[:n])
}

// Slice returns the records in the inclusive index range [start, end], clamped to the series.
func (s Series) Slice(start, end int) []Record {
	if len(s.records) == 0 {
		return nil
	}
	start = clamp(start, 0, len(s.records)-1)
	end = clamp(end, 0, len(s.records)-1)
	if start > end {
		return nil
	}
	return copyRecords(s.records[start : end+1])
}

// Extent returns the minimum and maximum of field f across all records.
func (s Series) Extent(f int) (lo, hi float64) {
	for i, rec := range s.records {
		v := rec.Values[f]
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}

func copyRecord(r Record) Record {
	return Record{Year: r.Year, Values: append([]float64(nil), r.Values...)}
}

func copyRecords(rs []Record) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = copyRecord(r)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
