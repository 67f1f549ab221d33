package aprsrx

/*------------------------------------------------------------------
 *
 * Purpose:	Main program for the "genframes" command: synthesize
 *		the data-line waveform for an AX.25 UI frame.
 *
 * Description:	Builds a frame from the command line, stuffs and
 *		NRZI-encodes it, and writes the square-tone sample
 *		stream as WAV or as a raw 0/1 byte stream.  Useful for
 *		exercising the receiver under controlled conditions;
 *		the output rate can deliberately differ from nominal to
 *		probe clock recovery.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func GenFramesMain() {
	var from = pflag.String("from", "N0CALL", "Source callsign, with optional -SSID.")
	var to = pflag.String("to", "APRS", "Destination callsign, with optional -SSID.")
	var via = pflag.String("via", "", "Comma-separated digipeater path.")
	var info = pflag.String("info", "!4903.50N/07201.75W-Test", "Information field.")
	var count = pflag.Int("count", 1, "Number of copies of the frame.")
	var preFlags = pflag.Int("flags", 32, "Opening flags before each frame.")
	var rate = pflag.Int("rate", 0, "Output sample rate; 0 means the default 26400 Hz.")
	var wavPath = pflag.StringP("wav", "w", "", "Write a WAV file.")
	var rawPath = pflag.StringP("raw", "r", "", "Write raw 0/1 bytes, '-' for stdout.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nGenerate AFSK test signals for the receiver.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	var logger = log.New(os.Stderr)

	var frame = Frame{
		Source:      parseCallsign(*from),
		Destination: parseCallsign(*to),
		Control:     AX25ControlUI,
		PID:         AX25PIDNoL3,
	}
	frame.setInfo([]byte(*info))
	if *via != "" {
		for _, d := range strings.Split(*via, ",") {
			frame.addDigipeater(parseCallsign(d))
		}
	}

	var cfg = DefaultConfig()
	if *rate != 0 {
		cfg.SampleRate = *rate
	}

	var gen = newSignalGenerator(cfg)
	var wire = wireFrame(frame)

	var samples []byte
	for i := 0; i < *count; i++ {
		var bits = stuffedFrameBits(wire, *preFlags, 2)
		samples = gen.samples(bits, samples)
	}
	samples = gen.silence(cfg.SampleRate/10, samples)

	logger.Info("Generated",
		"frame", frame.TNC2(),
		"wire_bytes", len(wire),
		"samples", len(samples),
		"rate", cfg.SampleRate)

	switch {
	case *wavPath != "":
		if err := writeWAVSamples(*wavPath, samples, cfg.SampleRate); err != nil {
			logger.Fatal("Cannot write WAV", "err", err)
		}

	case *rawPath != "":
		var out = os.Stdout
		if *rawPath != "-" {
			var f, err = os.Create(*rawPath)
			if err != nil {
				logger.Fatal("Cannot create output", "err", err)
			}
			defer f.Close()
			out = f
		}
		if _, err := out.Write(samples); err != nil {
			logger.Fatal("Write failed", "err", err)
		}

	default:
		pflag.Usage()
		os.Exit(64)
	}
}

// parseCallsign splits "CALL-SSID" into an Address.
func parseCallsign(s string) Address {
	var call, ssid, found = strings.Cut(strings.TrimSpace(s), "-")
	var n int
	if found {
		if v, err := strconv.Atoi(ssid); err == nil && v >= 0 && v <= 15 {
			n = v
		}
	}
	return addressFor(call, n)
}
