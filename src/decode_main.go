package aprsrx

/*------------------------------------------------------------------
 *
 * Purpose:	Main program for the "aprsrx" command: decode APRS
 *		frames from a capture of a direct-mode FSK radio's
 *		data line.
 *
 * Description:	Input can be a WAV capture, a raw byte stream of
 *		0/1 samples (binary or ASCII), standard input, or the
 *		default sound card.  Decoded frames go to standard
 *		output in TNC2 monitor format and, optionally, out a
 *		serial port the way the reference firmware drove its
 *		APRS UART.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"
)

func DecodeMain() {
	var configPath = pflag.StringP("config", "c", "", "YAML config file overriding the Bell 202 defaults.")
	var wavPath = pflag.StringP("wav", "w", "", "Decode a WAV capture of the data line.")
	var rawPath = pflag.StringP("raw", "r", "", "Decode a raw 0/1 sample stream (binary or ASCII), '-' for stdin.")
	var live = pflag.Bool("live", false, "Capture from the default sound card input.")
	var serialDev = pflag.String("serial", "", "Also write TNC2 lines to this serial device.")
	var serialBaud = pflag.Int("serial-baud", 9600, "Serial output speed.")
	var prefilter = pflag.Bool("prefilter", false, "Use the FIR-prefiltered tone detector.")
	var logFile = pflag.String("log-file", "", "Append logs to this file (rotated) instead of stderr.")
	var verbose = pflag.BoolP("verbose", "v", false, "Debug logging.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nAPRS receiver: data-line samples in, AX.25 UI frames out.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	var logger = log.New(os.Stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if *logFile != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    10, // MB
			MaxBackups: 5,
		})
	}

	var cfg = DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("Bad config", "err", err)
		}
	}
	if *prefilter {
		cfg.UsePrefilter = true
	}

	var pipeline, err = NewPipeline(cfg)
	if err != nil {
		logger.Fatal("Cannot build pipeline", "err", err)
	}

	var sink *serialSink
	if *serialDev != "" {
		sink, err = openSerialSink(*serialDev, *serialBaud)
		if err != nil {
			logger.Fatal("Serial output unavailable", "err", err)
		}
		defer sink.close()
	}

	var emit = func(f *Frame) {
		fmt.Println(f.TNC2())
		logger.Debug("Frame",
			"from", f.Source.String(),
			"to", f.Destination.String(),
			"digis", f.NumDigipeaters,
			"info_len", f.InfoLen,
			"quality", pipeline.SignalQuality())
		if sink != nil {
			if err := sink.send(f); err != nil {
				logger.Error("Serial write failed", "err", err)
			}
		}
	}

	switch {
	case *live:
		logger.Info("Listening on the default sound card", "rate", cfg.SampleRate)
		if err := runLiveCapture(pipeline, nil, emit); err != nil {
			logger.Fatal("Live capture failed", "err", err)
		}

	case *wavPath != "":
		samples, fileRate, err := readWAVSamples(*wavPath)
		if err != nil {
			logger.Fatal("Cannot read capture", "err", err)
		}
		if fileRate != cfg.SampleRate {
			logger.Warn("Capture rate differs from configured rate",
				"file", fileRate, "configured", cfg.SampleRate)
		}
		decodeSamples(pipeline, samples, emit)

	case *rawPath != "":
		var in io.Reader = os.Stdin
		if *rawPath != "-" {
			f, err := os.Open(*rawPath)
			if err != nil {
				logger.Fatal("Cannot open input", "err", err)
			}
			defer f.Close()
			in = f
		}
		if err := decodeRawStream(pipeline, in, emit); err != nil {
			logger.Fatal("Read failed", "err", err)
		}

	default:
		pflag.Usage()
		os.Exit(64)
	}

	var stats = pipeline.Stats()
	logger.Info("Done",
		"frames_received", stats.FramesReceived,
		"frames_valid", stats.FramesValid,
		"crc_errors", stats.FramesCRCError,
		"bytes", stats.BytesReceived,
		"timeouts", stats.SyncTimeouts,
		"dropped", stats.FramesDropped)
}

// decodeSamples pushes a finite sample slice through the pipeline.
func decodeSamples(p *Pipeline, samples []byte, emit func(*Frame)) {
	for _, s := range samples {
		p.ProcessSample(s)
		if f, ok := p.TakeFrame(); ok {
			emit(&f)
		}
	}
}

// decodeRawStream feeds a byte stream where each byte is one sample:
// 0x00/0x01 or ASCII '0'/'1', whitespace ignored.
func decodeRawStream(p *Pipeline, in io.Reader, emit func(*Frame)) error {
	var br = bufio.NewReader(in)
	for {
		var b, err = br.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch b {
		case 0, '0':
			p.ProcessSample(0)
		case 1, '1':
			p.ProcessSample(1)
		case ' ', '\t', '\r', '\n':
			continue
		default:
			continue
		}
		if f, ok := p.TakeFrame(); ok {
			emit(&f)
		}
	}
}
