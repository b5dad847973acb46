package spright

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teenygame/spright/common"
)

func TestPackPaddedPlacesRecordsAtStride(t *testing.T) {
	records := []textureUniforms{
		{Size: [2]float32{16, 16}, IsMask: 0},
		{Size: [2]float32{32, 64}, IsMask: 1},
		{Size: [2]float32{128, 8}, IsMask: 0},
	}
	const stride = 256

	buf := packPadded(records, stride)
	require.Len(t, buf, 3*stride)

	for i := range records {
		off := i * stride
		want := common.StructToBytes(&records[i])
		assert.Equal(t, want, buf[off:off+len(want)], "record %d", i)

		// Tail bytes up to the next record stay zero.
		for _, b := range buf[off+len(want) : off+stride] {
			require.Zero(t, b)
		}
	}
}

func TestPackPaddedTightStride(t *testing.T) {
	records := []textureUniforms{
		{Size: [2]float32{1, 2}},
		{Size: [2]float32{3, 4}, IsMask: 1},
	}
	stride := textureUniformsSize

	buf := packPadded(records, stride)
	require.Len(t, buf, int(2*stride))
	assert.Equal(t, common.StructToBytes(&records[0]), buf[:stride])
	assert.Equal(t, common.StructToBytes(&records[1]), buf[stride:])
}

func TestPackPaddedEmpty(t *testing.T) {
	assert.Empty(t, packPadded([]textureUniforms{}, 256))
	assert.Empty(t, packPadded[textureUniforms](nil, 256))
}

func TestUniformRecordSizes(t *testing.T) {
	// The WGSL structs mirror these layouts; the sizes are load-bearing for
	// the bind group MinBindingSize and the packing stride.
	assert.Equal(t, uint64(8), targetUniformsSize)
	assert.Equal(t, uint64(16), textureUniformsSize)
	assert.Equal(t, uint64(36), vertexStride)
}
