package aprsrx

import (
	"math"

	"github.com/mjibson/go-dsp/window"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Measure the power of the mark and space tones over the
 *		most recent symbol period.
 *
 * Description:	A Goertzel recurrence evaluated over a one-symbol
 *		window (22 samples at the nominal rates) gives the
 *		energy at a single frequency for far less work than an
 *		FFT.  Two detector flavors implement the same
 *		interface:
 *
 *		  goertzelPower - raw samples straight into the window.
 *
 *		  firPower - each tone first passes through its own
 *		  32-tap Hamming-windowed bandpass filter (tone
 *		  +-200 Hz).  Better noise immunity, more arithmetic.
 *
 *		Which one a pipeline uses is construction-time
 *		configuration.
 *
 *---------------------------------------------------------------*/

// tonePower is fed one sample at a time and reports mark and space
// power over the trailing symbol window.  power may be called at any
// sample, not just at decision instants.
type tonePower interface {
	feed(sample float64)
	power() (mark, space float64)
	reset()
}

// goertzelBin holds the per-tone constants.
type goertzelBin struct {
	coeff float64 // 2 cos w
	sinw  float64
}

func newGoertzelBin(freq, sampleRate float64) goertzelBin {
	var w = 2 * math.Pi * freq / sampleRate
	return goertzelBin{coeff: 2 * math.Cos(w), sinw: math.Sin(w)}
}

// magSquared runs the recurrence over one window of samples, oldest
// first, and returns the squared magnitude of the tone component.
// The square root is never needed; decisions only compare.
func (g goertzelBin) magSquared(win *ring) float64 {
	var q1, q2 float64
	for i := 0; i < win.n; i++ {
		var q0 = g.coeff*q1 - q2 + win.at(i)
		q2 = q1
		q1 = q0
	}
	var re = q1 - q2*g.coeff/2
	var im = q2 * g.sinw
	return re*re + im*im
}

// ring is a fixed circular buffer of the last n samples.
type ring struct {
	buf []float64
	n   int
	idx int // next write position, also the oldest sample
}

func newRing(n int) *ring {
	return &ring{buf: make([]float64, n), n: n}
}

func (r *ring) push(v float64) {
	r.buf[r.idx] = v
	r.idx++
	if r.idx == r.n {
		r.idx = 0
	}
}

// at returns the i-th sample in time order, 0 being the oldest.
func (r *ring) at(i int) float64 {
	var j = r.idx + i
	if j >= r.n {
		j -= r.n
	}
	return r.buf[j]
}

func (r *ring) clear() {
	for i := range r.buf {
		r.buf[i] = 0
	}
	r.idx = 0
}

// goertzelPower is the plain detector: one shared window of raw
// samples, Goertzel at both tones.
type goertzelPower struct {
	mark  goertzelBin
	space goertzelBin
	win   *ring
}

func newGoertzelPower(markFreq, spaceFreq, sampleRate float64, samplesPerSymbol int) *goertzelPower {
	return &goertzelPower{
		mark:  newGoertzelBin(markFreq, sampleRate),
		space: newGoertzelBin(spaceFreq, sampleRate),
		win:   newRing(samplesPerSymbol),
	}
}

func (g *goertzelPower) feed(sample float64) {
	g.win.push(sample)
}

func (g *goertzelPower) power() (float64, float64) {
	return g.mark.magSquared(g.win), g.space.magSquared(g.win)
}

func (g *goertzelPower) reset() {
	g.win.clear()
}

// firTaps is the pre-filter length.
const firTaps = 32

// firFilter is a direct-form FIR with its own delay line.
type firFilter struct {
	coeffs []float64
	delay  *ring
}

func (f *firFilter) filter(sample float64) float64 {
	f.delay.push(sample)
	var acc float64
	// Newest sample is at the end of time order.
	for i := 0; i < firTaps; i++ {
		acc += f.coeffs[i] * f.delay.at(firTaps-1-i)
	}
	return acc
}

func (f *firFilter) reset() {
	f.delay.clear()
}

// designBandpass builds Hamming-windowed bandpass taps centered on
// center with the given width, normalized to unity gain at center.
func designBandpass(center, width, sampleRate float64) []float64 {
	var f1 = (center - width/2) / sampleRate
	var f2 = (center + width/2) / sampleRate

	var win = window.Hamming(firTaps)

	var coeffs = make([]float64, firTaps)
	for i := 0; i < firTaps; i++ {
		var n = float64(i) - float64(firTaps-1)/2
		var h float64
		if n == 0 {
			h = 2 * (f2 - f1)
		} else {
			h = (math.Sin(2*math.Pi*f2*n) - math.Sin(2*math.Pi*f1*n)) / (math.Pi * n)
		}
		coeffs[i] = h * win[i]
	}

	// Unity gain at the center frequency.  (Normalizing by the DC
	// sum, as one might for a lowpass, is meaningless for a
	// bandpass.)
	var w = 2 * math.Pi * center / sampleRate
	var re, im float64
	for i := 0; i < firTaps; i++ {
		re += coeffs[i] * math.Cos(w*float64(i))
		im -= coeffs[i] * math.Sin(w*float64(i))
	}
	var gain = math.Hypot(re, im)
	if gain > 0 {
		for i := range coeffs {
			coeffs[i] /= gain
		}
	}

	return coeffs
}

// firPower runs each tone through its own bandpass before the
// Goertzel window.
type firPower struct {
	mark     goertzelBin
	space    goertzelBin
	markFIR  firFilter
	spaceFIR firFilter
	markWin  *ring
	spaceWin *ring
}

// firBandwidth is the pre-filter passband width around each tone.
const firBandwidth = 400 // Hz

func newFIRPower(markFreq, spaceFreq, sampleRate float64, samplesPerSymbol int) *firPower {
	return &firPower{
		mark:     newGoertzelBin(markFreq, sampleRate),
		space:    newGoertzelBin(spaceFreq, sampleRate),
		markFIR:  firFilter{coeffs: designBandpass(markFreq, firBandwidth, sampleRate), delay: newRing(firTaps)},
		spaceFIR: firFilter{coeffs: designBandpass(spaceFreq, firBandwidth, sampleRate), delay: newRing(firTaps)},
		markWin:  newRing(samplesPerSymbol),
		spaceWin: newRing(samplesPerSymbol),
	}
}

func (f *firPower) feed(sample float64) {
	f.markWin.push(f.markFIR.filter(sample))
	f.spaceWin.push(f.spaceFIR.filter(sample))
}

func (f *firPower) power() (float64, float64) {
	return f.mark.magSquared(f.markWin), f.space.magSquared(f.spaceWin)
}

func (f *firPower) reset() {
	f.markFIR.reset()
	f.spaceFIR.reset()
	f.markWin.clear()
	f.spaceWin.clear()
}
