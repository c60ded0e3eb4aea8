package handler

import (
	"bytes"
	"sync"
)

const (
	// initialBufferSize fits a typical stats payload without growing
	initialBufferSize = 4 << 10
	// maxPooledBufferSize keeps a single large sweep response from pinning memory in the pool
	maxPooledBufferSize = 256 << 10
)

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, initialBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// putBuffer returns buf to the pool unless it grew past maxPooledBufferSize
func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
