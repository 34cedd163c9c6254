package pkg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type faultyWriter struct{}

func (fw *faultyWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestCombinedWriter(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	cw := NewCombinedWriter(&buf1, &buf2)

	n, err := cw.Write([]byte("log line"))
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, "log line", buf1.String())
	assert.Equal(t, "log line", buf2.String())
}

func TestCombinedWriter_faultyWriterDoesNotStopOthers(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCombinedWriter(&faultyWriter{}, &buf)

	n, err := cw.Write([]byte("log line"))
	require.Error(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "log line", buf.String())
}
