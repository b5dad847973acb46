package spright

import (
	"github.com/teenygame/spright/common"
)

// targetUniforms is the per-target uniform record, written once per Prepare
// and shared by every group through a single bind group.
// Matches the WGSL TargetUniforms struct layout exactly. Size: 8 bytes.
type targetUniforms struct {
	Size [2]float32 // offset 0: render target size in pixels (vec2<f32>)
}

// textureUniforms is the per-group uniform record, packed one record per group
// at the device's uniform alignment stride.
// Matches the WGSL TextureUniforms struct layout exactly. Size: 16 bytes.
type textureUniforms struct {
	Size   [2]float32 // offset  0: texture size in pixels (vec2<f32>)
	IsMask uint32     // offset  8: 1 if the texture is a single-channel mask, else 0
	_pad   uint32     // offset 12: padding to 16 bytes
}

// packPadded serializes records into one linear byte buffer at index*stride,
// leaving each record's tail bytes in [record size, stride) zero. stride is the
// device-reported minimum uniform buffer offset alignment and must be at least
// the record size.
func packPadded[T any](records []T, stride uint64) []byte {
	buf := make([]byte, uint64(len(records))*stride)
	for i := range records {
		copy(buf[uint64(i)*stride:], common.StructToBytes(&records[i]))
	}
	return buf
}
