// Package aprsrx converts a stream of one-bit samples from the data
// output of a direct-mode FSK radio into validated AX.25 UI frames.
//
// The pipeline has four stages: an AFSK (Bell 202) demodulator with
// Goertzel tone detection and digital PLL bit-clock recovery, an NRZI
// decoder with bit de-stuffing and flag detection, an AX.25 frame
// assembler with CRC-16-CCITT validation, and a receiver state machine
// tying them together.  The radio driver, the sampling clock, and the
// APRS application layer all live outside this package; only samples
// come in and frames go out.
package aprsrx

/*
 * Bell 202:  1200 Hz = space = 0,  2200 Hz = mark = 1,  1200 baud.
 *
 * The radio is expected to sample its data line at 26400 Hz, giving
 * an oversampling ratio of 22 samples per symbol.
 */

const (
	DefaultSampleRate = 26400 // Hz
	DefaultBaudRate   = 1200  // symbols per second
	DefaultMarkFreq   = 2200  // Hz, logic 1
	DefaultSpaceFreq  = 1200  // Hz, logic 0
)

const (
	// AX25Flag delimits frames on the air: 01111110, kept unique in
	// the payload by bit stuffing.
	AX25Flag = 0x7e

	AX25AddrLen = 7 // wire bytes per address field

	// MinFrameLen is two addresses + control + PID + 2 FCS bytes.
	MinFrameLen = 18
	MaxFrameLen = 330

	// MaxInfoLen caps the information field; anything beyond it on
	// the air is truncated, not rejected.
	MaxInfoLen = 256

	MaxDigipeaters = 8

	// UI frame values.  The parser reads whatever is there; these are
	// for consumers that want to filter.
	AX25ControlUI = 0x03
	AX25PIDNoL3   = 0xf0
)

const (
	// DefaultCarrierThreshold is compared against the summed mark and
	// space tone power at each symbol decision.
	DefaultCarrierThreshold = 10

	// DefaultPllPullRange bounds how far the PLL frequency may wander
	// from nominal, in Q16 phase increment units.
	DefaultPllPullRange = 100
)

const (
	// Timeouts are measured in symbol periods, not wall clock:
	// two seconds of flag hunting, twenty symbols of mid-frame
	// stall.
	syncTimeoutSeconds = 2
	byteTimeoutSymbols = 20
)
