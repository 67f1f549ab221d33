package aprsrx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The raw-stream reader accepts ASCII '0'/'1' samples with line
// breaks, as well as the binary 0x00/0x01 bytes genframes emits.
func Test_decodeRawStream(t *testing.T) {
	var p, err = NewPipeline(DefaultConfig())
	require.NoError(t, err)

	var samples = frameSamples(DefaultConfig(), testFrame("raw stream"), 48)

	var buf bytes.Buffer
	for i, s := range samples {
		buf.WriteByte('0' + s)
		if i%64 == 63 {
			buf.WriteByte('\n')
		}
	}

	var frames []Frame
	require.NoError(t, decodeRawStream(p, &buf, func(f *Frame) {
		frames = append(frames, *f)
	}))

	require.Len(t, frames, 1)
	assert.Equal(t, "raw stream", string(frames[0].InfoBytes()))
}

func Test_parseCallsign(t *testing.T) {
	var a = parseCallsign("n0call-7")
	assert.Equal(t, "N0CALL", a.Call())
	assert.Equal(t, 7, a.SSID)

	a = parseCallsign("APRS")
	assert.Equal(t, "APRS", a.Call())
	assert.Equal(t, 0, a.SSID)
}
