package aprsrx

/*------------------------------------------------------------------
 *
 * Purpose:	Tie the demodulator, the deframer, and the frame
 *		assembler into one receiver.
 *
 * Description:	The caller owns a Pipeline and pushes one sample at a
 *		time; completed valid frames come back out through a
 *		single-slot latch.  The sample path is non-blocking and
 *		does not allocate; it may be driven from a timer
 *		interrupt or a tight reader loop.
 *
 *		States:
 *
 *		  Idle       no carrier; everything quiescent.
 *		  Sync       carrier present, hunting for a flag.
 *		  Receiving  between flags, accumulating frame bytes.
 *		  Complete   a frame was just published; the closing
 *		             flag has already re-armed the assembler,
 *		             so a back-to-back frame is not lost.
 *
 *		Timeouts are counted in symbol periods: a receiver that
 *		stops seeing bytes mid-frame, or hunts for a flag too
 *		long, drops back to Idle and self-recovers at the next
 *		carrier.
 *
 *---------------------------------------------------------------*/

type rxState int

const (
	stateIdle rxState = iota
	stateSync
	stateReceiving
	stateComplete
)

// Pipeline is a complete receiver instance.  Not safe for concurrent
// ProcessSample calls; one producer drives it while one consumer may
// poll TakeFrame from another goroutine.
type Pipeline struct {
	cfg Config

	demod *demodulator
	defr  deframer
	asm   frameAssembler

	state rxState

	syncTimeout      int // symbol periods of flag hunting allowed
	syncSymbols      int // symbols spent hunting in Sync
	symbolsSinceByte int // symbols since the last byte in Receiving

	scratch Frame // reused parse target; the latch copies it out
	latch   frameLatch
	stats   Stats
}

// NewPipeline builds a receiver for the given configuration.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:         cfg,
		demod:       newDemodulator(cfg),
		state:       stateIdle,
		syncTimeout: syncTimeoutSeconds * cfg.BaudRate,
	}, nil
}

// ProcessSample consumes one bit sampled from the radio's data line.
// The caller guarantees the nominal sample rate; a modest rate error
// degrades decoding, nothing more.
func (p *Pipeline) ProcessSample(sample byte) {
	var bit, decided = p.demod.processSample(sample)
	if !decided {
		return
	}

	var ev, b = p.defr.processBit(bit)

	switch p.state {

	case stateIdle:
		if p.demod.carrierDetected() {
			p.state = stateSync
			p.syncSymbols = 0
			p.defr.reset()
		}

	case stateSync:
		if ev == deframeFlag {
			p.startReceiving()
			break
		}
		p.syncSymbols++
		if p.syncSymbols > p.syncTimeout {
			p.state = stateIdle
			satIncr(&p.stats.SyncTimeouts)
		}

	case stateReceiving:
		p.receivingEvent(ev, b)

	case stateComplete:
		// The assembler was re-armed by the flag that closed the
		// previous frame; the first byte of a back-to-back frame
		// moves us straight back into Receiving.
		switch ev {
		case deframeByte:
			p.state = stateReceiving
			p.receivingEvent(ev, b)
		case deframeFlag:
			p.startReceiving()
		case deframeNone:
			// End of transmission: no byte timeout here, just wait
			// for the carrier to go away.
			if !p.demod.carrierDetected() {
				p.state = stateIdle
			}
		}
	}
}

// startReceiving opens a fresh frame at a flag boundary.
func (p *Pipeline) startReceiving() {
	p.state = stateReceiving
	p.asm.startFrame()
	p.symbolsSinceByte = 0
}

// receivingEvent handles one deframer event while a frame is open.
func (p *Pipeline) receivingEvent(ev deframeEvent, b byte) {
	switch ev {

	case deframeByte:
		p.asm.addByte(b)
		satIncr(&p.stats.BytesReceived)
		p.symbolsSinceByte = 0

	case deframeFlag:
		if p.asm.len == 0 {
			// Adjacent flags: preamble or idle fill, not a frame.
			p.asm.startFrame()
			p.symbolsSinceByte = 0
			break
		}
		satIncr(&p.stats.FramesReceived)
		var valid, truncated = p.asm.endFrame(&p.scratch)
		if !valid {
			satIncr(&p.stats.FramesCRCError)
			p.state = stateIdle
			break
		}
		satIncr(&p.stats.FramesValid)
		if truncated {
			satIncr(&p.stats.InfoTruncations)
		}
		if p.latch.publish(&p.scratch) {
			satIncr(&p.stats.FramesDropped)
		}
		// The closing flag opens the next frame.
		p.asm.startFrame()
		p.symbolsSinceByte = 0
		p.state = stateComplete

	case deframeNone:
		p.tickByteTimeout()
	}
}

// tickByteTimeout counts a byte-less symbol period mid-frame.
func (p *Pipeline) tickByteTimeout() {
	p.symbolsSinceByte++
	if p.symbolsSinceByte > byteTimeoutSymbols {
		p.state = stateIdle
		satIncr(&p.stats.SyncTimeouts)
	}
}

// TakeFrame returns the most recently completed valid frame, exactly
// once, and false until the next one arrives.  Safe to call from a
// different goroutine than the one pushing samples.
func (p *Pipeline) TakeFrame() (Frame, bool) {
	return p.latch.take()
}

// Stats returns a snapshot of the receiver counters.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// CarrierDetected reports whether the demodulator currently sees
// enough tone energy to call the channel busy.
func (p *Pipeline) CarrierDetected() bool {
	return p.demod.carrierDetected()
}

// SignalQuality reports the 0..100 mark/space imbalance figure from
// the most recent symbol decision.  Diagnostics only.
func (p *Pipeline) SignalQuality() int {
	return p.demod.signalQuality()
}

// Reset returns the pipeline to its freshly constructed state,
// counters included.  Destructive: only call while the producer is
// quiesced.
func (p *Pipeline) Reset() {
	p.demod.reset()
	p.defr.reset()
	p.asm.startFrame()
	p.state = stateIdle
	p.syncSymbols = 0
	p.symbolsSinceByte = 0
	p.latch.clear()
	p.stats = Stats{}
}
