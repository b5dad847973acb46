package spright

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAllocator records buffer creations and releases in place of a device.
type fakeAllocator struct {
	created  []uint64
	released int
	fail     bool
}

func (f *fakeAllocator) create(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	if f.fail {
		return nil, errors.New("out of memory")
	}
	f.created = append(f.created, desc.Size)
	return &wgpu.Buffer{}, nil
}

func (f *fakeAllocator) release(*wgpu.Buffer) {
	f.released++
}

func newTestBuffer(alloc *fakeAllocator) *dynamicBuffer {
	return &dynamicBuffer{
		label:         "test_buffer",
		usage:         wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		createBuffer:  alloc.create,
		releaseBuffer: alloc.release,
	}
}

func TestEnsureAllocatesLazily(t *testing.T) {
	alloc := &fakeAllocator{}
	b := newTestBuffer(alloc)

	require.NoError(t, b.ensure(0))
	assert.Empty(t, alloc.created)
	assert.Nil(t, b.buffer)

	require.NoError(t, b.ensure(100))
	assert.Equal(t, []uint64{100}, alloc.created)
	assert.Equal(t, uint64(100), b.size)
	assert.NotNil(t, b.buffer)
}

func TestEnsureNeverShrinks(t *testing.T) {
	alloc := &fakeAllocator{}
	b := newTestBuffer(alloc)

	require.NoError(t, b.ensure(100))
	require.NoError(t, b.ensure(10))
	require.NoError(t, b.ensure(100))

	// A smaller or equal demand reuses the existing buffer untouched.
	assert.Equal(t, []uint64{100}, alloc.created)
	assert.Equal(t, uint64(100), b.size)
	assert.Zero(t, alloc.released)
}

func TestEnsureGrowsAndReleasesOld(t *testing.T) {
	alloc := &fakeAllocator{}
	b := newTestBuffer(alloc)

	require.NoError(t, b.ensure(100))
	require.NoError(t, b.ensure(101))

	assert.Equal(t, []uint64{100, 101}, alloc.created)
	assert.Equal(t, uint64(101), b.size)
	assert.Equal(t, 1, alloc.released)
}

func TestEnsureFailedGrowthKeepsOldBuffer(t *testing.T) {
	alloc := &fakeAllocator{}
	b := newTestBuffer(alloc)
	require.NoError(t, b.ensure(64))
	old := b.buffer

	alloc.fail = true
	err := b.ensure(128)
	require.Error(t, err)
	assert.ErrorContains(t, err, "test_buffer")

	// The old buffer survives a failed grow, so the renderer can keep
	// running at its previous capacity.
	assert.Same(t, old, b.buffer)
	assert.Equal(t, uint64(64), b.size)
	assert.Zero(t, alloc.released)
}

func TestReleaseIsIdempotent(t *testing.T) {
	alloc := &fakeAllocator{}
	b := newTestBuffer(alloc)
	require.NoError(t, b.ensure(32))

	b.release()
	b.release()

	assert.Equal(t, 1, alloc.released)
	assert.Nil(t, b.buffer)
	assert.Zero(t, b.size)

	// A released buffer can be grown again.
	require.NoError(t, b.ensure(16))
	assert.Equal(t, []uint64{32, 16}, alloc.created)
}
