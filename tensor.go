package detkit

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"
)

// TensorType identifies the element type of a raw tensor buffer.
type TensorType int

const (
	TensorFloat32 TensorType = iota
	TensorFloat16
	TensorInt8
	TensorUint8
	TensorInt32
	TensorInt64
)

// String returns a readable description of the TensorType.
func (t TensorType) String() string {
	switch t {
	case TensorFloat32:
		return "FP32"
	case TensorFloat16:
		return "FP16"
	case TensorInt8:
		return "INT8"
	case TensorUint8:
		return "UINT8"
	case TensorInt32:
		return "INT32"
	case TensorInt64:
		return "INT64"
	default:
		return "UNKNOWN"
	}
}

// Size returns the width of one element in bytes.
func (t TensorType) Size() int {
	switch t {
	case TensorFloat32, TensorInt32:
		return 4
	case TensorFloat16:
		return 2
	case TensorInt64:
		return 8
	default:
		return 1
	}
}

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// DecodeFloat32 converts a little endian FP32 raw tensor buffer to float32
// values.
func DecodeFloat32(buf []byte) ([]float32, error) {

	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of 4", len(buf))
	}

	vals := make([]float32, len(buf)/4)

	for i := range vals {
		bits := binary.LittleEndian.Uint32(buf[i*4:])
		vals[i] = math.Float32frombits(bits)
	}

	return vals, nil
}

// DecodeFloat16 converts a little endian FP16 raw tensor buffer to float32
// values using the precomputed lookup table.
func DecodeFloat16(buf []byte) ([]float32, error) {

	if len(buf)%2 != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of 2", len(buf))
	}

	vals := make([]float32, len(buf)/2)

	for i := range vals {
		vals[i] = f16LookupTable[binary.LittleEndian.Uint16(buf[i*2:])]
	}

	return vals, nil
}

// DecodeInt64 converts a little endian INT64 raw tensor buffer, the common
// wire type for class label outputs.
func DecodeInt64(buf []byte) ([]int64, error) {

	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of 8", len(buf))
	}

	vals := make([]int64, len(buf)/8)

	for i := range vals {
		vals[i] = int64(binary.LittleEndian.Uint64(buf[i*8:]))
	}

	return vals, nil
}
