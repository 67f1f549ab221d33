package aprsrx

/*------------------------------------------------------------------
 *
 * Purpose:	Turn demodulated bits into framed bytes and flag
 *		events: NRZI decode, bit de-stuffing, flag detection.
 *
 * Description:	NRZI represents a data 1 as no change in level and a
 *		data 0 as a transition.  The transmitter inserts a 0
 *		after five consecutive data 1s so the flag pattern
 *		01111110 can never occur inside a frame; we remove
 *		those bits here.  Seven 1s in a row is not valid
 *		anywhere, so it resets the stage.
 *
 *		The flag window slides over the decoded stream one bit
 *		at a time, so a flag is recognized at any bit offset
 *		and re-aligns byte accumulation, which is how the
 *		receiver recovers between back-to-back frames.  The
 *		window check runs before the stuffing rule; the
 *		six-ones-then-zero inside a flag must not be
 *		de-stuffed.
 *
 *---------------------------------------------------------------*/

// deframeEvent is the outcome of feeding one demodulated bit.
type deframeEvent int

const (
	deframeNone deframeEvent = iota
	deframeFlag
	deframeByte
)

type deframer struct {
	lastBit byte // previous demodulated bit, for NRZI

	window byte // last 8 decoded bits, newest in bit 0
	ones   int  // consecutive decoded 1s

	acc      byte // byte accumulator, LSB first
	bitCount int
}

func (d *deframer) reset() {
	*d = deframer{}
}

// processBit consumes one demodulated bit and reports what, if
// anything, it completed.  On deframeByte the byte is the second
// return value.
func (d *deframer) processBit(raw byte) (deframeEvent, byte) {
	// NRZI: same level as last time means 1, a transition means 0.
	var dbit byte
	if raw == d.lastBit {
		dbit = 1
	}
	d.lastBit = raw

	d.window = (d.window << 1) | dbit

	if d.window == AX25Flag {
		// Flags are framing, not data.
		d.acc = 0
		d.bitCount = 0
		d.ones = 0
		return deframeFlag, 0
	}

	if dbit == 1 {
		d.ones++
		if d.ones > 6 {
			// Seven 1s cannot occur outside a flag.
			d.reset()
			return deframeNone, 0
		}
	} else {
		if d.ones == 5 {
			// Stuffed bit, discard.
			d.ones = 0
			return deframeNone, 0
		}
		d.ones = 0
	}

	d.acc = (d.acc >> 1) | (dbit << 7)
	d.bitCount++
	if d.bitCount == 8 {
		var b = d.acc
		d.acc = 0
		d.bitCount = 0
		return deframeByte, b
	}

	return deframeNone, 0
}
