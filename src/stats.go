package aprsrx

/*------------------------------------------------------------------
 *
 * Purpose:	Receiver statistics.
 *
 * Description:	Monotonic counters, saturating at 2^32-1.  They are
 *		owned and written by the pipeline; Stats() hands out a
 *		copy, with no ordering guarantee relative to frames in
 *		flight.
 *
 *---------------------------------------------------------------*/

// Stats counts what the receiver has seen since construction or the
// last Reset.
type Stats struct {
	FramesReceived  uint32 // every frame that reached endFrame
	FramesValid     uint32
	FramesCRCError  uint32
	BytesReceived   uint32
	SyncTimeouts    uint32 // covers both sync and mid-frame byte timeouts
	FramesDropped   uint32 // completed frames displaced before consumption
	InfoTruncations uint32 // info fields cut at MaxInfoLen
}

// satIncr bumps a saturating counter.
func satIncr(c *uint32) {
	if *c != ^uint32(0) {
		*c++
	}
}
