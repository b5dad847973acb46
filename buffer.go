package spright

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// dynamicBuffer owns one GPU buffer and resizes it to fit each frame's data.
// Capacity never shrinks: a buffer that is already large enough is reused
// unmodified (stale contents are fine, the next upload fully overwrites the
// range that gets drawn), and a buffer that is too small is replaced by a new
// one of exactly the required size with the same usage flags.
type dynamicBuffer struct {
	label  string
	usage  wgpu.BufferUsage
	size   uint64
	buffer *wgpu.Buffer

	// createBuffer and releaseBuffer default to the device allocator and
	// wgpu.Buffer.Release; tests swap them to exercise the growth policy
	// without a GPU.
	createBuffer  func(*wgpu.BufferDescriptor) (*wgpu.Buffer, error)
	releaseBuffer func(*wgpu.Buffer)
}

// newDynamicBuffer creates an empty dynamicBuffer allocating from device.
// No GPU buffer exists until the first ensure call with a non-zero size.
func newDynamicBuffer(device *wgpu.Device, label string, usage wgpu.BufferUsage) *dynamicBuffer {
	return &dynamicBuffer{
		label:         label,
		usage:         usage,
		createBuffer:  device.CreateBuffer,
		releaseBuffer: (*wgpu.Buffer).Release,
	}
}

// ensure grows the buffer to hold at least required bytes. Reuse is free; a
// grow allocates the new buffer first and releases the old one only on
// success, so a failed allocation leaves the previous buffer intact.
func (b *dynamicBuffer) ensure(required uint64) error {
	if required == 0 || b.size >= required {
		return nil
	}
	buf, err := b.createBuffer(&wgpu.BufferDescriptor{
		Label: b.label,
		Size:  required,
		Usage: b.usage,
	})
	if err != nil {
		return fmt.Errorf("failed to grow %q to %d bytes: %w", b.label, required, err)
	}
	if b.buffer != nil {
		b.releaseBuffer(b.buffer)
	}
	b.buffer = buf
	b.size = required
	return nil
}

// release frees the underlying GPU buffer, if any.
func (b *dynamicBuffer) release() {
	if b.buffer != nil {
		b.releaseBuffer(b.buffer)
		b.buffer = nil
		b.size = 0
	}
}
