package momentumstore

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Kind is the element class of a dataset as stored on disk.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	}
	return "unknown"
}

// DecodeNumeric converts raw little-endian element bytes into float64s.
func DecodeNumeric(raw []byte, kind Kind, size int) ([]float64, error) {
	if size <= 0 || len(raw)%size != 0 {
		return nil, errors.Wrapf(ErrUnsupportedEncoding, "%d bytes is not a multiple of element size %d", len(raw), size)
	}

	n := len(raw) / size
	out := make([]float64, n)
	le := binary.LittleEndian

	for i := range n {
		b := raw[i*size : (i+1)*size]
		switch {
		case kind == KindFloat && size == 8:
			out[i] = math.Float64frombits(le.Uint64(b))
		case kind == KindFloat && size == 4:
			out[i] = float64(math.Float32frombits(le.Uint32(b)))
		case kind == KindInt && size == 8:
			out[i] = float64(int64(le.Uint64(b)))
		case kind == KindInt && size == 4:
			out[i] = float64(int32(le.Uint32(b)))
		case kind == KindInt && size == 2:
			out[i] = float64(int16(le.Uint16(b)))
		case kind == KindInt && size == 1:
			out[i] = float64(int8(b[0]))
		default:
			return nil, errors.Wrapf(ErrUnsupportedEncoding, "%s of %d bytes", kind, size)
		}
	}

	return out, nil
}

// DecodeInts is DecodeNumeric truncated to ints, used for flags.
func DecodeInts(raw []byte, kind Kind, size int) ([]int, error) {
	values, err := DecodeNumeric(raw, kind, size)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out, nil
}

// DecodeFixedStrings splits fixed-width, NUL padded byte strings.
func DecodeFixedStrings(raw []byte, size int) ([]string, error) {
	if size <= 0 || len(raw)%size != 0 {
		return nil, errors.Wrapf(ErrUnsupportedEncoding, "%d bytes is not a multiple of string width %d", len(raw), size)
	}

	n := len(raw) / size
	out := make([]string, n)
	for i := range n {
		b := raw[i*size : (i+1)*size]
		if j := bytes.IndexByte(b, 0); j >= 0 {
			b = b[:j]
		}
		if !utf8.Valid(b) {
			return nil, errors.Wrapf(ErrUnsupportedEncoding, "element %d is not valid utf-8", i)
		}
		out[i] = string(b)
	}
	return out, nil
}

// CleanStrings checks variable-length strings read by the hdf5 library and
// cuts each at its first NUL.
func CleanStrings(values []string) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		if j := strings.IndexByte(v, 0); j >= 0 {
			v = v[:j]
		}
		if !utf8.ValidString(v) {
			return nil, errors.Wrapf(ErrUnsupportedEncoding, "element %d is not valid utf-8", i)
		}
		out[i] = v
	}
	return out, nil
}
