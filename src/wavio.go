package aprsrx

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Move one-bit sample streams in and out of WAV files.
 *
 * Description:	A recording of the radio's data line is just audio
 *		with two levels, so WAV is a convenient container for
 *		captures and for generated test signals.  On the way in
 *		anything above zero reads as 1; on the way out bits
 *		become +-16000 16-bit samples, about half of full scale.  Only channel 0
 *		of a multi-channel file is used.
 *
 *---------------------------------------------------------------*/

// readWAVSamples loads a capture and slices it to 0/1 samples.
// It also returns the file's sample rate so the caller can warn when
// it disagrees with the configured rate.
func readWAVSamples(path string) ([]byte, int, error) {
	var f, err = os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	var dec = wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, errors.Errorf("%s is not a usable WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, errors.Wrapf(err, "decoding %s", path)
	}

	var chans = buf.Format.NumChannels
	if chans < 1 {
		chans = 1
	}

	var samples = make([]byte, 0, len(buf.Data)/chans)
	for i := 0; i < len(buf.Data); i += chans {
		if buf.Data[i] > 0 {
			samples = append(samples, 1)
		} else {
			samples = append(samples, 0)
		}
	}

	return samples, buf.Format.SampleRate, nil
}

// writeWAVSamples stores a generated 0/1 stream as 16-bit mono PCM.
func writeWAVSamples(path string, samples []byte, sampleRate int) error {
	var f, err = os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}

	var enc = wav.NewEncoder(f, sampleRate, 16, 1, 1)

	var data = make([]int, len(samples))
	for i, s := range samples {
		if s != 0 {
			data[i] = 16000
		} else {
			data[i] = -16000
		}
	}

	var buf = &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return errors.Wrapf(err, "finishing %s", path)
	}
	return f.Close()
}
