package aprsrx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedWire pushes wire bytes through a fresh assembler and finalizes.
func feedWire(wire []byte) (Frame, bool, bool) {
	var fa frameAssembler
	fa.startFrame()
	for _, b := range wire {
		fa.addByte(b)
	}
	var f Frame
	var valid, truncated = fa.endFrame(&f)
	return f, valid, truncated
}

func Test_frame_positionReport(t *testing.T) {
	// The canonical position report: header bytes as they appear on
	// the air, FCS computed the same way the sender would.
	var wire = []byte{
		0x82, 0xa0, 0xaa, 0x64, 0x6a, 0x9c, 0xe0, // destination
		0x9c, 0x60, 0x86, 0x82, 0x98, 0x98, 0x61, // source, last
		0x03, 0xf0,
	}
	wire = append(wire, []byte("!3407.50N/07414.73W-")...)
	var crc = fcsCalc(wire)
	wire = append(wire, byte(crc&0xff), byte(crc>>8))

	var f, valid, truncated = feedWire(wire)
	require.True(t, valid)
	assert.False(t, truncated)
	assert.True(t, f.Valid)

	assert.Equal(t, "N0CALL", f.Source.Call())
	assert.Equal(t, "APU25N", f.Destination.Call())
	assert.Zero(t, f.NumDigipeaters)
	assert.Equal(t, byte(AX25ControlUI), f.Control)
	assert.Equal(t, byte(AX25PIDNoL3), f.PID)
	assert.Equal(t, byte('!'), f.InfoBytes()[0])
	assert.Equal(t, "!3407.50N/07414.73W-", string(f.InfoBytes()))
}

func Test_frame_shortRejected(t *testing.T) {
	var wire = bytes.Repeat([]byte{0x55}, 17)

	var f, valid, _ = feedWire(wire)
	assert.False(t, valid)
	assert.False(t, f.Valid)
}

func Test_frame_badCRCRejected(t *testing.T) {
	var wire = wireFrame(testFrame("test"))
	wire[20] ^= 0x01

	var _, valid, _ = feedWire(wire)
	assert.False(t, valid)
}

func Test_frame_digipeaters(t *testing.T) {
	var sent = Frame{
		Source:      addressFor("N0CALL", 9),
		Destination: addressFor("APRS", 0),
		Control:     AX25ControlUI,
		PID:         AX25PIDNoL3,
	}
	var d1 = addressFor("WIDE1", 1)
	d1.Repeated = true
	sent.addDigipeater(d1)
	sent.addDigipeater(addressFor("WIDE2", 2))
	sent.setInfo([]byte(">status"))

	var f, valid, _ = feedWire(wireFrame(sent))
	require.True(t, valid)

	require.Equal(t, 2, f.NumDigipeaters)
	assert.Equal(t, "WIDE1", f.Digipeaters[0].Call())
	assert.True(t, f.Digipeaters[0].Repeated)
	assert.Equal(t, "WIDE2", f.Digipeaters[1].Call())
	assert.True(t, f.Digipeaters[1].Last) // only the final address carries it
	assert.False(t, f.Source.Last)
	assert.False(t, f.Destination.Last)

	assert.Equal(t, "N0CALL-9>APRS,WIDE1-1*,WIDE2-2:>status", f.TNC2())
}

func Test_frame_infoTruncation(t *testing.T) {
	// Longer than MaxInfoLen on the air, so hand-build the wire
	// bytes the way a non-conforming sender would.
	var dst = encodeAddress(addressFor("APRS", 0))
	var srcAddr = addressFor("N0CALL", 0)
	srcAddr.Last = true
	var src = encodeAddress(srcAddr)

	var wire = append([]byte{}, dst[:]...)
	wire = append(wire, src[:]...)
	wire = append(wire, AX25ControlUI, AX25PIDNoL3)
	wire = append(wire, bytes.Repeat([]byte{'x'}, MaxInfoLen+20)...)
	var crc = fcsCalc(wire)
	wire = append(wire, byte(crc&0xff), byte(crc>>8))

	// Still under MaxFrameLen: 14 + 2 + 276 + 2.
	require.LessOrEqual(t, len(wire), MaxFrameLen)

	var f, valid, truncated = feedWire(wire)
	require.True(t, valid, "truncation alone must not invalidate the frame")
	assert.True(t, truncated)
	assert.Equal(t, MaxInfoLen, f.InfoLen)
}

func Test_frame_overflowRejected(t *testing.T) {
	var fa frameAssembler
	fa.startFrame()
	for i := 0; i < MaxFrameLen+50; i++ {
		fa.addByte(0x55)
	}
	var f Frame
	var valid, _ = fa.endFrame(&f)
	assert.False(t, valid)
}

func Test_frame_TNC2_simple(t *testing.T) {
	var f = testFrame("!test")
	assert.Equal(t, "N0CALL>APRS:!test", f.TNC2())
}
