// Package wire encodes meshes and grids into compact binary frames for the
// preview clients.
//
// A frame is a varint length, then a varint kind and the body. Length covers
// kind and body.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/OCharnyshevich/cavegen/pkg/cave/grid"
	"github.com/OCharnyshevich/cavegen/pkg/cave/mesh"
)

// Kind identifies the body of a frame.
type Kind uint32

const (
	KindMesh       Kind = 0x01
	KindGrid       Kind = 0x02
	KindRegenerate Kind = 0x03
)

const maxFrameSize = 1 << 24 // 16MB

// AppendFrame appends a framed body to b.
func AppendFrame(b []byte, kind Kind, body []byte) []byte {
	b = AppendVarint(b, uint32(VarintSize(uint32(kind))+len(body)))
	b = AppendVarint(b, uint32(kind))
	return append(b, body...)
}

// SplitFrame parses exactly one frame and returns its kind and body. The body
// aliases data.
func SplitFrame(data []byte) (Kind, []byte, error) {
	r := bytes.NewReader(data)
	length, err := ReadVarint(r)
	if err != nil {
		return 0, nil, fmt.Errorf("read frame length: %w", err)
	}
	switch {
	case length < 1:
		return 0, nil, fmt.Errorf("frame length too small: %d", length)
	case length > maxFrameSize:
		return 0, nil, fmt.Errorf("frame too large: %d bytes", length)
	case int(length) > r.Len():
		return 0, nil, fmt.Errorf("frame truncated: want %d bytes, have %d", length, r.Len())
	case int(length) < r.Len():
		return 0, nil, fmt.Errorf("%d trailing bytes after frame", r.Len()-int(length))
	}

	kind, err := ReadVarint(r)
	if err != nil {
		return 0, nil, fmt.Errorf("read frame kind: %w", err)
	}
	return Kind(kind), data[len(data)-r.Len():], nil
}

func expect(data []byte, want Kind) (*bytes.Reader, error) {
	kind, body, err := SplitFrame(data)
	if err != nil {
		return nil, err
	}
	if kind != want {
		return nil, fmt.Errorf("expected frame 0x%02X, got 0x%02X", want, kind)
	}
	return bytes.NewReader(body), nil
}

// MeshFrame is a decoded KindMesh frame.
type MeshFrame struct {
	Seed      string
	Vertices  []mesh.Vec3
	Triangles []int32
}

// EncodeMesh encodes m as a KindMesh frame: seed, vertex count, big-endian
// float32 xyz triples, index count and varint indices.
func EncodeMesh(m *mesh.Mesh, seed string) []byte {
	body := make([]byte, 0, len(seed)+10+len(m.Vertices)*12+len(m.Triangles)*3)
	body = appendString(body, seed)
	body = AppendVarint(body, uint32(len(m.Vertices)))
	for _, v := range m.Vertices {
		body = binary.BigEndian.AppendUint32(body, math.Float32bits(v.X))
		body = binary.BigEndian.AppendUint32(body, math.Float32bits(v.Y))
		body = binary.BigEndian.AppendUint32(body, math.Float32bits(v.Z))
	}
	body = AppendVarint(body, uint32(len(m.Triangles)))
	for _, idx := range m.Triangles {
		body = AppendVarint(body, uint32(idx))
	}
	return AppendFrame(nil, KindMesh, body)
}

// DecodeMesh parses a frame produced by EncodeMesh. Every index must name a
// decoded vertex.
func DecodeMesh(data []byte) (*MeshFrame, error) {
	r, err := expect(data, KindMesh)
	if err != nil {
		return nil, err
	}
	seed, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	nv, err := readCount(r, "vertex", r.Len()/12)
	if err != nil {
		return nil, err
	}
	mf := &MeshFrame{Seed: seed, Vertices: make([]mesh.Vec3, nv)}
	var f [12]byte
	for i := range mf.Vertices {
		if _, err := io.ReadFull(r, f[:]); err != nil {
			return nil, fmt.Errorf("read vertex %d: %w", i, err)
		}
		mf.Vertices[i] = mesh.Vec3{
			X: math.Float32frombits(binary.BigEndian.Uint32(f[0:])),
			Y: math.Float32frombits(binary.BigEndian.Uint32(f[4:])),
			Z: math.Float32frombits(binary.BigEndian.Uint32(f[8:])),
		}
	}

	ni, err := readCount(r, "index", r.Len())
	if err != nil {
		return nil, err
	}
	mf.Triangles = make([]int32, ni)
	for i := range mf.Triangles {
		idx, err := ReadVarint(r)
		if err != nil {
			return nil, fmt.Errorf("read index %d: %w", i, err)
		}
		if int64(idx) >= int64(nv) {
			return nil, fmt.Errorf("index %d out of range: %d", i, idx)
		}
		mf.Triangles[i] = int32(idx)
	}
	return mf, nil
}

// EncodeGrid encodes g as a KindGrid frame with one bit per cell, row-major,
// set for wall.
func EncodeGrid(g *grid.Grid) []byte {
	body := AppendVarint(nil, uint32(g.Width))
	body = AppendVarint(body, uint32(g.Height))

	bits := make([]byte, (g.Width*g.Height+7)/8)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.At(x, y) == grid.Wall {
				i := y*g.Width + x
				bits[i/8] |= 1 << (i % 8)
			}
		}
	}
	return AppendFrame(nil, KindGrid, append(body, bits...))
}

// DecodeGrid parses a frame produced by EncodeGrid.
func DecodeGrid(data []byte) (*grid.Grid, error) {
	r, err := expect(data, KindGrid)
	if err != nil {
		return nil, err
	}
	limit := r.Len() * 8
	w, err := readCount(r, "width", limit)
	if err != nil {
		return nil, err
	}
	h, err := readCount(r, "height", limit)
	if err != nil {
		return nil, err
	}
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty grid %dx%d", w, h)
	}
	if (w*h+7)/8 != r.Len() {
		return nil, fmt.Errorf("grid %dx%d needs %d cell bytes, have %d", w, h, (w*h+7)/8, r.Len())
	}
	bits := make([]byte, r.Len())
	if _, err := io.ReadFull(r, bits); err != nil {
		return nil, fmt.Errorf("read grid cells: %w", err)
	}

	g := grid.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if bits[i/8]&(1<<(i%8)) != 0 {
				g.Set(x, y, grid.Wall)
			}
		}
	}
	return g, nil
}

// EncodeRegenerate returns a KindRegenerate request. An empty seed asks for a fresh random map.
func EncodeRegenerate(seed string) []byte {
	return AppendFrame(nil, KindRegenerate, appendString(nil, seed))
}

// DecodeRegenerate parses a KindRegenerate request and returns its seed.
func DecodeRegenerate(data []byte) (string, error) {
	r, err := expect(data, KindRegenerate)
	if err != nil {
		return "", err
	}
	if r.Len() == 0 {
		return "", nil
	}
	return readString(r)
}
