package common

import (
	"github.com/quantfold/replay/pkg/utility/fixed"
)

// Series maps an instrument id to a value. Instruments absent from the map
// are implicitly zero; binary operations work over the union of keys with
// zero fill and always return a fresh map.
type Series map[string]fixed.Point

func (s Series) Get(sid string) fixed.Point {
	return s[sid]
}

func (s Series) Clone() Series {
	out := make(Series, len(s))
	for sid, v := range s {
		out[sid] = v
	}
	return out
}

func (s Series) Add(o Series) Series {
	out := s.Clone()
	for sid, v := range o {
		out[sid] = out[sid].Add(v)
	}
	return out
}

func (s Series) Sub(o Series) Series {
	out := s.Clone()
	for sid, v := range o {
		out[sid] = out[sid].Sub(v)
	}
	return out
}

// MulSeries multiplies element-wise over the union of keys; an instrument
// missing on either side contributes zero.
func (s Series) MulSeries(o Series) Series {
	out := make(Series, len(s))
	for sid, v := range s {
		if ov, ok := o[sid]; ok {
			out[sid] = v.Mul(ov)
		} else {
			out[sid] = fixed.Zero
		}
	}
	for sid := range o {
		if _, ok := s[sid]; !ok {
			out[sid] = fixed.Zero
		}
	}
	return out
}

func (s Series) Scale(p fixed.Point) Series {
	out := make(Series, len(s))
	for sid, v := range s {
		out[sid] = v.Mul(p)
	}
	return out
}

func (s Series) Abs() Series {
	out := make(Series, len(s))
	for sid, v := range s {
		out[sid] = v.Abs()
	}
	return out
}

func (s Series) Sum() fixed.Point {
	sum := fixed.Zero
	for _, v := range s {
		sum = sum.Add(v)
	}
	return sum
}

func (s Series) AbsSum() fixed.Point {
	sum := fixed.Zero
	for _, v := range s {
		sum = sum.Add(v.Abs())
	}
	return sum
}

// NonZero returns only the entries with a non-zero value.
func (s Series) NonZero() Series {
	out := make(Series)
	for sid, v := range s {
		if !v.IsZero() {
			out[sid] = v
		}
	}
	return out
}

func (s Series) Len() int {
	return len(s)
}
