package aprsrx

import (
	"math"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Generate test signals: wire frames, stuffed bit
 *		streams, and synthesized data-line samples.
 *
 * Description:	The receive pipeline needs known-good input to be
 *		tested against, so this is the whole transmit chain in
 *		miniature, used by the test suite and the genframes
 *		tool: encode addresses, append the FCS, stuff bits, add
 *		flags, NRZI-encode, and synthesize the square tone
 *		waveform a direct-mode radio would put on its data pin.
 *		The generator's sample rate is independent of the
 *		receiver's, which is how clock-offset tolerance gets
 *		exercised.
 *
 *---------------------------------------------------------------*/

// addressFor builds an Address from a callsign string, for the send
// side and tests.  Lowercase input is folded to upper.
func addressFor(call string, ssid int) Address {
	var a Address
	a.SSID = ssid & 0x0f
	for i := 0; i < len(call) && i < 6; i++ {
		var c = call[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		a.Callsign[a.CallLen] = c
		a.CallLen++
	}
	return a
}

// setInfo copies b into the fixed information field, truncating at
// MaxInfoLen.
func (f *Frame) setInfo(b []byte) {
	f.InfoLen = copy(f.Info[:], b)
}

// addDigipeater appends one address to the digipeater path, up to
// the protocol maximum.
func (f *Frame) addDigipeater(a Address) {
	if f.NumDigipeaters < MaxDigipeaters {
		f.Digipeaters[f.NumDigipeaters] = a
		f.NumDigipeaters++
	}
}

// encodeAddress packs callsign/SSID into the 7-byte wire form.
// Reserved bits are set as stations conventionally send them.
func encodeAddress(a Address) [AX25AddrLen]byte {
	var wire [AX25AddrLen]byte

	for i := 0; i < 6; i++ {
		var c byte = ' '
		if i < a.CallLen {
			c = a.Callsign[i]
		}
		wire[i] = c << 1
	}

	wire[6] = 0x60 | byte(a.SSID&0x0f)<<1
	if a.Last {
		wire[6] |= 0x01
	}
	if a.Repeated {
		wire[6] |= 0x80
	}

	return wire
}

// wireFrame flattens a frame into wire bytes with the FCS trailer
// attached, low byte first.  The extension bits are derived from the
// address order, not taken from the input.
func wireFrame(f Frame) []byte {
	var out = make([]byte, 0, MaxFrameLen)

	var addrs = make([]Address, 0, 2+MaxDigipeaters)
	addrs = append(addrs, f.Destination, f.Source)
	addrs = append(addrs, f.Digipeaters[:f.NumDigipeaters]...)

	for i, a := range addrs {
		a.Last = i == len(addrs)-1
		var w = encodeAddress(a)
		out = append(out, w[:]...)
	}

	out = append(out, f.Control, f.PID)
	out = append(out, f.InfoBytes()...)

	var crc = fcsCalc(out)
	out = append(out, byte(crc&0xff), byte(crc>>8))

	return out
}

// flagBits appends one flag pattern, LSB first.
func flagBits(bits []byte) []byte {
	for i := 0; i < 8; i++ {
		bits = append(bits, (AX25Flag>>i)&1)
	}
	return bits
}

// stuffedFrameBits converts a wire frame to the on-air bit sequence:
// opening flags, bit-stuffed data, closing flags.  Flags are exempt
// from stuffing, data is not.
func stuffedFrameBits(wire []byte, preFlags, postFlags int) []byte {
	var bits = make([]byte, 0, (preFlags+postFlags)*8+len(wire)*8*6/5)

	for i := 0; i < preFlags; i++ {
		bits = flagBits(bits)
	}

	var ones = 0
	for _, b := range wire {
		for i := 0; i < 8; i++ {
			var v = (b >> i) & 1
			bits = append(bits, v)
			if v == 1 {
				ones++
				if ones == 5 {
					bits = append(bits, 0)
					ones = 0
				}
			} else {
				ones = 0
			}
		}
	}

	for i := 0; i < postFlags; i++ {
		bits = flagBits(bits)
	}

	return bits
}

// signalGenerator synthesizes the hard-limited data-line waveform for
// a bit sequence: NRZI level coding, then a phase-continuous square
// tone per symbol.
type signalGenerator struct {
	sampleRate float64
	baudRate   float64
	markFreq   float64
	spaceFreq  float64

	level     byte    // NRZI line level
	phase     float64 // tone phase, radians
	remainder float64 // fractional samples carried between symbols
}

func newSignalGenerator(cfg Config) *signalGenerator {
	return &signalGenerator{
		sampleRate: float64(cfg.SampleRate),
		baudRate:   float64(cfg.BaudRate),
		markFreq:   float64(cfg.MarkFreq),
		spaceFreq:  float64(cfg.SpaceFreq),
		level:      1,
	}
}

// samples appends the waveform for the given transmitted bits to out
// and returns it.  Each output byte is one 0/1 sample.
func (g *signalGenerator) samples(bits []byte, out []byte) []byte {
	var perSymbol = g.sampleRate / g.baudRate

	for _, b := range bits {
		// NRZI: 0 flips the level, 1 holds it.
		if b == 0 {
			g.level ^= 1
		}

		var freq = g.spaceFreq
		if g.level == 1 {
			freq = g.markFreq
		}
		var dphase = 2 * math.Pi * freq / g.sampleRate

		var want = perSymbol + g.remainder
		var n = int(want)
		g.remainder = want - float64(n)

		for i := 0; i < n; i++ {
			g.phase += dphase
			if g.phase > 2*math.Pi {
				g.phase -= 2 * math.Pi
			}
			if math.Sin(g.phase) >= 0 {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}

	return out
}

// silence appends n zero samples of idle air.  Whether the carrier
// detector drops depends on n: its counter falls by one per symbol
// period from at most 255.
func (g *signalGenerator) silence(n int, out []byte) []byte {
	for i := 0; i < n; i++ {
		out = append(out, 0)
	}
	return out
}
