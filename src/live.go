package aprsrx

import (
	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Drive the pipeline from a sound card.
 *
 * Description:	For bench work without the radio's direct data line:
 *		feed the discriminator or data output into a sound
 *		card input and hard-limit each sample here.  The card
 *		must be opened at the pipeline's configured rate; the
 *		+-1% tolerance of the sample input contract is then the
 *		card's problem, which consumer hardware meets easily.
 *
 *---------------------------------------------------------------*/

// runLiveCapture reads from the default input device until stop is
// closed, pushing hard-limited samples into the pipeline and handing
// each completed frame to emit.
func runLiveCapture(p *Pipeline, stop <-chan struct{}, emit func(*Frame)) error {
	if err := portaudio.Initialize(); err != nil {
		return errors.Wrap(err, "initializing portaudio")
	}
	defer portaudio.Terminate()

	var in = make([]int16, 1024)
	var stream, err = portaudio.OpenDefaultStream(1, 0, float64(p.cfg.SampleRate), len(in), in)
	if err != nil {
		return errors.Wrap(err, "opening default input stream")
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return errors.Wrap(err, "starting input stream")
	}
	defer stream.Stop()

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if err := stream.Read(); err != nil {
			return errors.Wrap(err, "reading audio")
		}

		for _, s := range in {
			if s > 0 {
				p.ProcessSample(1)
			} else {
				p.ProcessSample(0)
			}
		}

		if f, ok := p.TakeFrame(); ok {
			emit(&f)
		}
	}
}
