package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
)

var (
	// ErrUnsupportedType is returned when a parameter value is not a string,
	// bool, integer or float.
	ErrUnsupportedType = errors.New("unsupported parameter type")

	// ErrDuplicateParam is returned when two parameters share a name.
	ErrDuplicateParam = errors.New("duplicate parameter name")

	// ErrNotCanonical is returned for values that have no single canonical
	// form, i.e. NaN.
	ErrNotCanonical = errors.New("parameter value has no canonical form")
)

// Key is the fingerprint of a set of request parameters
type Key [sha256.Size]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Param is a single named request parameter
type Param struct {
	Name  string
	Value interface{}
}

// Type tags written ahead of each encoded value. All integer types share a
// tag so that int(5), int64(5) and uint8(5) produce the same key.
const (
	tagString byte = 's'
	tagBool   byte = 'b'
	tagInt    byte = 'i'
	tagFloat  byte = 'f'
)

// DeriveKey returns the fingerprint for the given parameters. The order in
// which the parameters are supplied does not matter.
func DeriveKey(params []Param) (Key, error) {
	sorted := make([]Param, len(params))
	copy(sorted, params)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	h := sha256.New()
	for ii, p := range sorted {
		if ii > 0 && sorted[ii-1].Name == p.Name {
			return Key{}, fmt.Errorf("%w: %s", ErrDuplicateParam, p.Name)
		}

		tag, val, err := encodeValue(p.Value)
		if err != nil {
			return Key{}, fmt.Errorf("%w: %s (%T)", err, p.Name, p.Value)
		}

		writeField(h, []byte(p.Name))
		h.Write([]byte{tag})
		writeField(h, val)
	}

	var k Key
	copy(k[:], h.Sum(nil))
	return k, nil
}

// writeField writes a length prefixed field so that adjacent fields can never
// run into one another ("ab"+"c" vs "a"+"bc").
func writeField(w io.Writer, b []byte) {
	var l [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(l[:], uint64(len(b)))
	w.Write(l[:n])
	w.Write(b)
}

func encodeValue(v interface{}) (byte, []byte, error) {
	switch t := v.(type) {
	case string:
		return tagString, []byte(t), nil
	case bool:
		return tagBool, []byte(strconv.FormatBool(t)), nil
	case int:
		return tagInt, []byte(strconv.FormatInt(int64(t), 10)), nil
	case int8:
		return tagInt, []byte(strconv.FormatInt(int64(t), 10)), nil
	case int16:
		return tagInt, []byte(strconv.FormatInt(int64(t), 10)), nil
	case int32:
		return tagInt, []byte(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return tagInt, []byte(strconv.FormatInt(t, 10)), nil
	case uint:
		return tagInt, []byte(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return tagInt, []byte(strconv.FormatUint(uint64(t), 10)), nil
	case uint16:
		return tagInt, []byte(strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return tagInt, []byte(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return tagInt, []byte(strconv.FormatUint(t, 10)), nil
	case float32:
		s, err := formatFloat(float64(t), 32)
		return tagFloat, []byte(s), err
	case float64:
		s, err := formatFloat(t, 64)
		return tagFloat, []byte(s), err
	default:
		return 0, nil, ErrUnsupportedType
	}
}

// formatFloat renders f in shortest round-trip exponent form. Negative zero
// is folded into zero as the two compare equal.
func formatFloat(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) {
		return "", ErrNotCanonical
	}
	if f == 0 {
		f = 0
	}
	return strconv.FormatFloat(f, 'e', -1, bitSize), nil
}
