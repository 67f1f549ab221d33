package aprsrx

/*------------------------------------------------------------------
 *
 * Purpose:	Demodulate the Bell 202 AFSK signal and recover the
 *		bit clock.
 *
 * Description:	The input is the radio's hard-limited data line
 *		sampled at the configured rate, one bit per sample,
 *		mapped to -1/+1 before tone detection.
 *
 *		Symbol timing lives in a Q16 phase accumulator.  Each
 *		sample adds dphase; when the accumulator wraps past
 *		0x10000 the trailing one-symbol window is handed to the
 *		tone detector and a hard decision comes out: mark wins,
 *		emit 1; space wins, emit 0.
 *
 *		The clock is disciplined by a bang-bang loop.  The sign
 *		of (mark - space) power over the sliding window is
 *		watched at every sample; when it flips, a symbol
 *		boundary just went by.  A boundary seen at phase below
 *		0x8000 trails the wrap, meaning our clock runs fast, so
 *		dphase drops by one; otherwise it rises by one.  dphase
 *		is clamped to nominal +- the pull range, which bounds
 *		how far the loop can be dragged by noise.
 *
 *---------------------------------------------------------------*/

const pllWrap = 0x10000 // Q16 full cycle

// demodulator extracts one hard-decision bit per symbol period from
// the oversampled input.
type demodulator struct {
	tp tonePower

	phase   int // Q16 position within the symbol
	dphase  int // Q16 per-sample increment
	nominal int
	pull    int // clamp half-width on dphase

	prevSign bool // sign of mark-space at the previous sample

	markPower  float64 // at the last decision
	spacePower float64

	carrierThreshold float64
	carrierCount     int // saturating 0..255
	carrier          bool
}

func newDemodulator(cfg Config) *demodulator {
	var n = cfg.SampleRate / cfg.BaudRate

	var tp tonePower
	if cfg.UsePrefilter {
		tp = newFIRPower(float64(cfg.MarkFreq), float64(cfg.SpaceFreq), float64(cfg.SampleRate), n)
	} else {
		tp = newGoertzelPower(float64(cfg.MarkFreq), float64(cfg.SpaceFreq), float64(cfg.SampleRate), n)
	}

	var d = &demodulator{
		tp:               tp,
		nominal:          pllWrap / n,
		pull:             cfg.PllPullRange,
		carrierThreshold: float64(cfg.CarrierThreshold),
	}
	d.dphase = d.nominal
	return d
}

func (d *demodulator) reset() {
	d.tp.reset()
	d.phase = 0
	d.dphase = d.nominal
	d.prevSign = false
	d.markPower = 0
	d.spacePower = 0
	d.carrierCount = 0
	d.carrier = false
}

// processSample consumes one input bit.  When the symbol clock wraps
// it returns the decided bit and true; otherwise the bit is
// meaningless and the second value is false.
func (d *demodulator) processSample(sample byte) (byte, bool) {
	var fsam = -1.0
	if sample != 0 {
		fsam = 1.0
	}
	d.tp.feed(fsam)

	var mark, space = d.tp.power()
	var sign = mark > space

	// A sign flip marks a symbol boundary; use it to discipline
	// the clock.  The sliding window reports the flip half a symbol
	// after the boundary itself (the new tone has to overtake the
	// old one), so recover the boundary phase before judging early
	// versus late.
	if sign != d.prevSign {
		var boundary = (d.phase - pllWrap/2) & (pllWrap - 1)
		if boundary < pllWrap/2 {
			// Boundary trailed the wrap: our clock runs fast.
			d.dphase--
		} else {
			d.dphase++
		}
		if d.dphase < d.nominal-d.pull {
			d.dphase = d.nominal - d.pull
		}
		if d.dphase > d.nominal+d.pull {
			d.dphase = d.nominal + d.pull
		}
	}
	d.prevSign = sign

	d.phase += d.dphase
	if d.phase < pllWrap {
		return 0, false
	}
	d.phase -= pllWrap

	// Decision instant: the window now spans the symbol just ended.
	d.markPower = mark
	d.spacePower = space

	var bit byte
	if sign {
		bit = 1
	}

	d.updateCarrier(mark + space)

	return bit, true
}

// updateCarrier runs the saturating carrier-detect counter once per
// symbol decision.
func (d *demodulator) updateCarrier(total float64) {
	if total > d.carrierThreshold {
		if d.carrierCount < 255 {
			d.carrierCount++
		}
		if d.carrierCount > 5 {
			d.carrier = true
		}
	} else {
		if d.carrierCount > 0 {
			d.carrierCount--
		}
		if d.carrierCount == 0 {
			d.carrier = false
		}
	}
}

func (d *demodulator) carrierDetected() bool {
	return d.carrier
}

// signalQuality reports 0..100 from the tone power imbalance at the
// most recent decision.  Diagnostics only.
func (d *demodulator) signalQuality() int {
	var total = d.markPower + d.spacePower
	if total == 0 {
		return 0
	}
	var diff = d.markPower - d.spacePower
	if diff < 0 {
		diff = -diff
	}
	var q = int(diff * 100 / (total + 1))
	if q > 100 {
		q = 100
	}
	return q
}
