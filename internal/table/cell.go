// Package table holds the in-memory model the cleaner works on: an ordered
// set of named columns and positional rows of tagged cells.
//
// A Cell is one of Missing, Text, Number or Date. Transforms switch on Kind
// instead of inspecting dynamic types, so "missing" is never confused with an
// empty string or a zero.
package table

import (
	"strconv"
	"time"
)

// Kind tags the payload carried by a Cell.
type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindNumber
	KindDate
)

// DateLayout is the rendering used for Date cells (ISO calendar date).
const DateLayout = "2006-01-02"

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Cell is a single value at the intersection of a row and a column. The zero
// value is a Missing cell.
type Cell struct {
	Kind Kind
	Str  string    // KindText
	Num  float64   // KindNumber
	Date time.Time // KindDate, UTC midnight
}

// Missing returns the absence marker.
func Missing() Cell { return Cell{} }

// Text returns a textual cell.
func Text(s string) Cell { return Cell{Kind: KindText, Str: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{Kind: KindNumber, Num: f} }

// Date returns a calendar-date cell. The time-of-day and location of t are
// dropped.
func Date(t time.Time) Cell {
	y, m, d := t.Date()
	return Cell{Kind: KindDate, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// IsMissing reports whether c carries no value.
func (c Cell) IsMissing() bool { return c.Kind == KindMissing }

// String renders the cell the way it is written to delimited output.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Str
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindDate:
		return c.Date.Format(DateLayout)
	default:
		return ""
	}
}

// Equal reports value equality. Cells of different kinds are never equal;
// two Missing cells are.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case KindText:
		return c.Str == o.Str
	case KindNumber:
		return c.Num == o.Num
	case KindDate:
		return c.Date.Equal(o.Date)
	default:
		return true
	}
}

// AppendKey appends a kind-tagged, unambiguous encoding of c to dst. Two
// cells produce the same bytes iff they are Equal.
func (c Cell) AppendKey(dst []byte) []byte {
	dst = append(dst, byte(c.Kind))
	switch c.Kind {
	case KindText:
		dst = strconv.AppendInt(dst, int64(len(c.Str)), 10)
		dst = append(dst, ':')
		dst = append(dst, c.Str...)
	case KindNumber:
		dst = strconv.AppendFloat(dst, c.Num, 'g', -1, 64)
	case KindDate:
		dst = c.Date.AppendFormat(dst, DateLayout)
	}
	return append(dst, 0x1f)
}
