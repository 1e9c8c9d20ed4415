// 9pdump reads a stream of 9P2000(.e) frames from a file or standard
// input and prints one line per message. It is a debugging aid for
// captured protocol traffic; it performs no I/O of its own beyond
// reading the dump.
//
// By default frames are decoded as requests (a client-to-server
// capture); pass -r for a server-to-client capture.
package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"aqwari.net/net/ninep/proto"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var opts struct {
	responses bool
	msize     uint32
}

func main() {
	cmd := &cobra.Command{
		Use:   "9pdump [file]",
		Short: "print the 9P messages in a frame dump",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,

		SilenceUsage: true,
	}
	cmd.Flags().BoolVarP(&opts.responses, "responses", "r", false,
		"decode frames as R-messages instead of T-messages")
	cmd.Flags().Uint32Var(&opts.msize, "msize", proto.DefaultMaxSize,
		"maximum frame size to accept")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	p := proto.NewParser(proto.Config{MaxMessageSize: opts.msize})
	br := bufio.NewReader(in)
	buf := make([]byte, opts.msize)

	for n := 0; ; n++ {
		frame, err := readFrame(br, buf)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			logrus.WithError(err).Errorf("frame %d", n)
			return err
		}

		d := proto.NewDecoder(frame)
		h, err := p.ParseHeader(&d)
		if err != nil {
			logrus.WithError(err).Errorf("frame %d", n)
			return err
		}

		var msg fmt.Stringer
		if opts.responses {
			resp, err := p.ParseResponse(h, &d)
			if err != nil {
				logrus.WithError(err).Errorf("frame %d (%s)", n, h.Type)
				return err
			}
			msg = resp.(fmt.Stringer)
		} else {
			req, err := p.ParseRequest(h, &d)
			if err != nil {
				logrus.WithError(err).Errorf("frame %d (%s)", n, h.Type)
				return err
			}
			msg = req.(fmt.Stringer)
		}
		fmt.Printf("%6d %5d %s\n", h.Size, h.Tag, msg)
	}
}

// readFrame reads one size-prefixed frame into buf.
func readFrame(r io.Reader, buf []byte) ([]byte, error) {
	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(buf[:4])
	if size < proto.HeaderSize {
		return nil, proto.ErrFrameTooShort
	}
	if size > uint32(len(buf)) {
		return nil, proto.ErrFrameTooBig
	}
	if _, err := io.ReadFull(r, buf[4:size]); err != nil {
		return nil, err
	}
	return buf[:size], nil
}
