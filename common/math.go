// package common contains small shared helpers used throughout this library. They are not
// interface-wrapped, just plain functions for byte reinterpretation and alignment math.
package common

import (
	"unsafe"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// AlignUp rounds size up to the nearest multiple of align.
// align must be a positive power of two (GPU alignments always are).
//
// Parameters:
//   - size: the size in bytes to round up
//   - align: the alignment in bytes
//
// Returns:
//   - uint64: the smallest multiple of align that is >= size
func AlignUp(size, align uint64) uint64 {
	return (size + align - 1) &^ (align - 1)
}
