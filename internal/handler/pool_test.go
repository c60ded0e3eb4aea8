package handler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBuffer_StartsEmpty(t *testing.T) {
	buf := getBuffer()
	buf.WriteString("payload")
	putBuffer(buf)

	again := getBuffer()
	defer putBuffer(again)
	assert.Zero(t, again.Len())
}

func TestPutBuffer_DropsOversized(t *testing.T) {
	big := bytes.NewBuffer(make([]byte, 0, maxPooledBufferSize+1))
	big.WriteString("x")

	putBuffer(big)

	assert.Equal(t, 1, big.Len(), "oversized buffers are not reset for reuse")
}
