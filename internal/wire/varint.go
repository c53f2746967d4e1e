package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrVarintOverflow is returned for a varint that does not fit in 32 bits.
var ErrVarintOverflow = errors.New("wire: varint overflows uint32")

const maxStringLen = 1 << 16

// AppendVarint appends v as an unsigned LEB128 varint.
func AppendVarint(b []byte, v uint32) []byte {
	return binary.AppendUvarint(b, uint64(v))
}

// VarintSize is the encoded length of v, 1 to 5 bytes.
func VarintSize(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// ReadVarint reads one varint written by AppendVarint.
func ReadVarint(r io.ByteReader) (uint32, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, ErrVarintOverflow
	}
	return uint32(v), nil
}

func appendString(b []byte, s string) []byte {
	b = AppendVarint(b, uint32(len(s)))
	return append(b, s...)
}

// readCount reads a varint length and rejects anything above limit.
func readCount(r *bytes.Reader, what string, limit int) (int, error) {
	n, err := ReadVarint(r)
	if err != nil {
		return 0, fmt.Errorf("read %s count: %w", what, err)
	}
	if uint64(n) > uint64(limit) {
		return 0, fmt.Errorf("%s count out of range: %d", what, n)
	}
	return int(n), nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readCount(r, "string", min(maxStringLen, r.Len()))
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read string data: %w", err)
	}
	return string(buf), nil
}
