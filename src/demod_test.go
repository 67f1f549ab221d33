package aprsrx

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// squareTone produces n hard-limited samples of a tone, continuing
// from *phase.
func squareTone(freq, rate float64, n int, phase *float64) []byte {
	var out = make([]byte, n)
	for i := 0; i < n; i++ {
		*phase += 2 * math.Pi * freq / rate
		if math.Sin(*phase) >= 0 {
			out[i] = 1
		}
	}
	return out
}

func Test_goertzel_discriminatesTones(t *testing.T) {
	var gp = newGoertzelPower(DefaultMarkFreq, DefaultSpaceFreq, DefaultSampleRate, 22)

	var phase float64
	for _, s := range squareTone(DefaultMarkFreq, DefaultSampleRate, 22, &phase) {
		if s == 1 {
			gp.feed(1)
		} else {
			gp.feed(-1)
		}
	}
	var mark, space = gp.power()
	assert.Greater(t, mark, space, "mark tone must win the mark bin")

	gp.reset()
	phase = 0
	for _, s := range squareTone(DefaultSpaceFreq, DefaultSampleRate, 22, &phase) {
		if s == 1 {
			gp.feed(1)
		} else {
			gp.feed(-1)
		}
	}
	mark, space = gp.power()
	assert.Greater(t, space, mark, "space tone must win the space bin")
}

func Test_designBandpass_gain(t *testing.T) {
	var coeffs = designBandpass(DefaultMarkFreq, firBandwidth, DefaultSampleRate)
	require.Len(t, coeffs, firTaps)

	// Unity gain at the center frequency by construction.
	var w = 2 * math.Pi * DefaultMarkFreq / DefaultSampleRate
	var re, im float64
	for i, c := range coeffs {
		re += c * math.Cos(w*float64(i))
		im -= c * math.Sin(w*float64(i))
	}
	assert.InDelta(t, 1.0, math.Hypot(re, im), 1e-9)

	// And the other tone sits below the peak.  Check on the full
	// spectrum rather than trusting the direct evaluation twice.
	var padded = make([]float64, 2048)
	copy(padded, coeffs)
	var spectrum = fft.FFTReal(padded)

	var binOf = func(freq float64) int {
		return int(math.Round(freq * 2048 / DefaultSampleRate))
	}
	var atMark = cmplx.Abs(spectrum[binOf(DefaultMarkFreq)])
	var atSpace = cmplx.Abs(spectrum[binOf(DefaultSpaceFreq)])
	assert.Greater(t, atMark, atSpace)
}

func Test_firPower_discriminatesTones(t *testing.T) {
	var fp = newFIRPower(DefaultMarkFreq, DefaultSpaceFreq, DefaultSampleRate, 22)

	// Long enough to flush the filter delay lines.
	var phase float64
	var samples = squareTone(DefaultMarkFreq, DefaultSampleRate, 220, &phase)
	for _, s := range samples {
		if s == 1 {
			fp.feed(1)
		} else {
			fp.feed(-1)
		}
	}
	var mark, space = fp.power()
	assert.Greater(t, mark, space)
}

// The PLL frequency must never leave the clamp window, whatever the
// input looks like.
func Test_pll_rangeBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var d = newDemodulator(DefaultConfig())
		var samples = rapid.SliceOfN(rapid.ByteRange(0, 1), 1, 2000).Draw(t, "samples")

		for _, s := range samples {
			d.processSample(s)
			assert.GreaterOrEqual(t, d.dphase, d.nominal-d.pull)
			assert.LessOrEqual(t, d.dphase, d.nominal+d.pull)
		}
	})
}

func Test_carrierDetect(t *testing.T) {
	var d = newDemodulator(DefaultConfig())

	var phase float64
	for _, s := range squareTone(DefaultMarkFreq, DefaultSampleRate, 40*22, &phase) {
		d.processSample(s)
	}
	assert.True(t, d.carrierDetected(), "steady tone must raise carrier detect")
	assert.Positive(t, d.signalQuality())
	assert.LessOrEqual(t, d.signalQuality(), 100)

	for i := 0; i < 100*22; i++ {
		d.processSample(0)
	}
	assert.False(t, d.carrierDetected(), "silence must drop carrier detect")
}

// All-zero data bits make the NRZI level flip every symbol, so the
// decisions must alternate strictly once the clock settles.
func Test_demod_alternatingBits(t *testing.T) {
	var cfg = DefaultConfig()
	var d = newDemodulator(cfg)

	var gen = newSignalGenerator(cfg)
	var bits = make([]byte, 300)
	var samples = gen.samples(bits, nil)

	var decisions []byte
	for _, s := range samples {
		if b, ok := d.processSample(s); ok {
			decisions = append(decisions, b)
		}
	}
	require.Greater(t, len(decisions), 250)

	// Ignore the acquisition period, then expect strict alternation.
	var tail = decisions[len(decisions)-100:]
	for i := 1; i < len(tail); i++ {
		assert.NotEqual(t, tail[i-1], tail[i], "decision %d repeated", i)
	}
}
