package aprsrx

import (
	"github.com/pkg/errors"
	"github.com/pkg/term"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Send received frames out a serial port in TNC2
 *		monitor format, the way the reference firmware fed its
 *		APRS UART.
 *
 *---------------------------------------------------------------*/

type serialSink struct {
	port *term.Term
}

// openSerialSink opens the port in raw mode.  baud 0 leaves the
// port's current speed alone.
func openSerialSink(device string, baud int) (*serialSink, error) {
	var port, err = term.Open(device, term.RawMode)
	if err != nil {
		return nil, errors.Wrapf(err, "opening serial port %s", device)
	}

	switch baud {
	case 0:
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		if err := port.SetSpeed(baud); err != nil {
			port.Close()
			return nil, errors.Wrapf(err, "setting %s to %d baud", device, baud)
		}
	default:
		port.Close()
		return nil, errors.Errorf("unsupported serial speed %d", baud)
	}

	return &serialSink{port: port}, nil
}

// send writes one frame as a TNC2 line.
func (s *serialSink) send(f *Frame) error {
	var _, err = s.port.Write([]byte(f.TNC2() + "\r\n"))
	return errors.Wrap(err, "writing to serial port")
}

func (s *serialSink) close() error {
	return s.port.Close()
}
