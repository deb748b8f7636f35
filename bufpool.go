package nodelim

import (
	"bytes"
	"sync"
)

// maxPooledBuffer bounds the capacity of buffers returned to encoderPool so
// one huge value does not pin its buffer for the life of the process.
const maxPooledBuffer = 64 * 1024

// encoderPool reuses scratch encoders for sequences of unknown length and
// for Encode. A 4KB default avoids re-allocations for common value sizes.
var encoderPool = sync.Pool{
	New: func() any {
		return &Encoder{buf: make([]byte, 0, 4096)}
	},
}

func getEncoder() *Encoder {
	e := encoderPool.Get().(*Encoder)
	e.Reset()
	return e
}

func putEncoder(e *Encoder) {
	if cap(e.buf) > maxPooledBuffer {
		return
	}
	encoderPool.Put(e)
}

// bytesBufPool holds buffers for reading whole inputs in Decode.
var bytesBufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

func putBytesBuf(b *bytes.Buffer) {
	if b.Cap() > maxPooledBuffer {
		return
	}
	bytesBufPool.Put(b)
}
