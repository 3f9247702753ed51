package engine

import "github.com/Alexander-D-Karpov/amp/pkg/types"

// SliceDecoder implements Decoder over frames already fully decoded into
// memory. It is used by hosts that have pre-decoded a short sound effect
// and by this package's tests, which need a Decoder with no I/O latency
// to exercise Transport/DecodeScheduler behavior deterministically.
type SliceDecoder struct {
	sampleRate uint32
	frames     []types.Frame
	chunkSize  int
	cursor     int64
}

// NewSliceDecoder builds a Decoder that serves frames chunkSize at a
// time. chunkSize <= 0 means "serve everything remaining in one chunk".
func NewSliceDecoder(sampleRate uint32, frames []types.Frame, chunkSize int) *SliceDecoder {
	return &SliceDecoder{sampleRate: sampleRate, frames: frames, chunkSize: chunkSize}
}

func (d *SliceDecoder) SampleRate() uint32 { return d.sampleRate }

func (d *SliceDecoder) NumFrames() int64 { return int64(len(d.frames)) }

func (d *SliceDecoder) Decode() ([]types.Frame, error) {
	if d.cursor >= int64(len(d.frames)) {
		return nil, nil
	}
	n := d.chunkSize
	if n <= 0 || int64(n) > int64(len(d.frames))-d.cursor {
		n = int(int64(len(d.frames)) - d.cursor)
	}
	out := d.frames[d.cursor : d.cursor+int64(n)]
	d.cursor += int64(n)
	return out, nil
}

func (d *SliceDecoder) Seek(i int64) (int64, error) {
	if i < 0 {
		i = 0
	}
	if i > int64(len(d.frames)) {
		i = int64(len(d.frames))
	}
	d.cursor = i
	return i, nil
}
