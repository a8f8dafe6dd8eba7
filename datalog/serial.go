package datalog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

// OpenPort opens a serial device such as /dev/ttyGS0 or /dev/ttyACM0.
func OpenPort(name string, baud int) (*serial.Port, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port: %w", err)
	}
	return port, nil
}

// Server answers commands arriving on a byte stream and sends stream
// messages at a fixed interval while streaming is active.
type Server struct {
	h        *Handler
	rw       io.ReadWriter
	interval time.Duration

	wmut sync.Mutex
}

func NewServer(h *Handler, rw io.ReadWriter, interval time.Duration) *Server {
	return &Server{h: h, rw: rw, interval: interval}
}

// Serve runs until the context is cancelled or the stream fails. A reader
// blocked on the stream returns only when the caller closes it.
func (s *Server) Serve(ctx context.Context) error {
	errs := make(chan error, 2)
	go func() { errs <- s.readLoop() }()
	go func() { errs <- s.streamLoop(ctx) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errs:
		return err
	}
}

func (s *Server) readLoop() error {
	br := bufio.NewReader(s.rw)
	for {
		frame, err := br.ReadBytes(EOF)
		if errors.Is(err, io.EOF) && len(frame) == 0 {
			return io.EOF
		}
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}

		m, err := Decode(frame)
		if err != nil {
			log.Debugf("Dropping frame % x: %v", frame, err)
			continue
		}
		log.Debugln("Received", m)
		if !s.h.Handle(m) {
			continue
		}
		if err := s.send(m); err != nil {
			return err
		}
	}
}

func (s *Server) streamLoop(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		m, ok := s.h.Stream()
		if !ok {
			continue
		}
		if err := s.send(m); err != nil {
			return err
		}
	}
}

func (s *Server) send(m *Msg) error {
	s.wmut.Lock()
	defer s.wmut.Unlock()
	if _, err := s.rw.Write(Encode(m)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
