package ninep

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"aqwari.net/net/ninep/proto"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// startConn wires a conn to one end of an in-memory pipe and returns
// the client end.
func startConn(t *testing.T, handler Handler) net.Conn {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	srv := &Server{Handler: handler, Log: log}
	c := newConn(srv, server)
	go c.serve()
	return client
}

func readFrame(t *testing.T, r io.Reader, buf []byte) []byte {
	t.Helper()
	_, err := io.ReadFull(r, buf[:4])
	require.NoError(t, err)
	size := binary.LittleEndian.Uint32(buf[:4])
	require.GreaterOrEqual(t, size, uint32(proto.HeaderSize))
	require.LessOrEqual(t, int(size), len(buf))
	_, err = io.ReadFull(r, buf[4:size])
	require.NoError(t, err)
	return buf[:size]
}

func negotiate(t *testing.T, client net.Conn, buf []byte) *proto.Parser {
	t.Helper()
	p := proto.NewParser(proto.Config{})

	n, err := p.Tversion(buf)
	require.NoError(t, err)
	_, err = client.Write(buf[:n])
	require.NoError(t, err)

	frame := readFrame(t, client, buf)
	d := proto.NewDecoder(frame)
	h, err := p.ParseHeader(&d)
	require.NoError(t, err)
	require.Equal(t, proto.MsgRversion, h.Type)

	resp, err := p.ParseResponse(h, &d)
	require.NoError(t, err)
	rver := resp.(proto.Rversion)
	require.Equal(t, proto.Version, string(rver.Version))

	p.SetNegotiatedMaxSize(rver.Msize)
	p.SetNegotiatedVersion(string(rver.Version))
	return p
}

func TestConnNegotiation(t *testing.T) {
	client := startConn(t, nil)
	client.SetDeadline(time.Now().Add(5 * time.Second))

	buf := make([]byte, proto.DefaultMaxSize)
	p := negotiate(t, client, buf)
	require.Equal(t, uint32(proto.DefaultMaxSize), p.NegotiatedMaxSize())
}

func TestConnDowngrade(t *testing.T) {
	client := startConn(t, nil)
	client.SetDeadline(time.Now().Add(5 * time.Second))

	buf := make([]byte, proto.DefaultMaxSize)
	p := proto.NewParser(proto.Config{MaxMessageSize: 1024, Version: "9P2000"})

	n, err := p.Tversion(buf)
	require.NoError(t, err)
	_, err = client.Write(buf[:n])
	require.NoError(t, err)

	frame := readFrame(t, client, buf)
	d := proto.NewDecoder(frame)
	h, err := p.ParseHeader(&d)
	require.NoError(t, err)
	resp, err := p.ParseResponse(h, &d)
	require.NoError(t, err)

	rver := resp.(proto.Rversion)
	require.Equal(t, "9P2000", string(rver.Version), "server must not answer with a newer dialect")
	require.Equal(t, uint32(1024), rver.Msize, "server must not grow the client's msize")
}

func TestConnRejectsNonVersionOpening(t *testing.T) {
	client := startConn(t, nil)
	client.SetDeadline(time.Now().Add(5 * time.Second))

	buf := make([]byte, proto.DefaultMaxSize)
	b := proto.NewRequestBuilder(buf, 1)
	n, err := b.Tclunk(1)
	require.NoError(t, err)
	_, err = client.Write(buf[:n])
	require.NoError(t, err)

	p := proto.NewParser(proto.Config{})
	frame := readFrame(t, client, buf)
	d := proto.NewDecoder(frame)
	h, err := p.ParseHeader(&d)
	require.NoError(t, err)
	require.Equal(t, proto.MsgRerror, h.Type)
}

func TestConnDispatch(t *testing.T) {
	qid := proto.Qid{Type: proto.QTFILE, Version: 1, Path: 42}

	handler := HandlerFunc(func(w *ResponseWriter, h proto.Header, req proto.Request) {
		switch m := req.(type) {
		case proto.Topen:
			if m.Fid == 42 && m.Mode == proto.OREAD {
				w.Ropen(qid, 0)
				return
			}
			w.Rerror("wrong fid")
		default:
			w.Rerror("not supported")
		}
	})

	client := startConn(t, handler)
	client.SetDeadline(time.Now().Add(5 * time.Second))

	buf := make([]byte, proto.DefaultMaxSize)
	p := negotiate(t, client, buf)

	b := proto.NewRequestBuilder(buf, 7)
	n, err := b.Topen(42, proto.OREAD)
	require.NoError(t, err)
	_, err = client.Write(buf[:n])
	require.NoError(t, err)

	frame := readFrame(t, client, buf)
	d := proto.NewDecoder(frame)
	h, err := p.ParseHeader(&d)
	require.NoError(t, err)
	require.Equal(t, proto.Tag(7), h.Tag, "response must echo the request tag")

	resp, err := p.ParseResponse(h, &d)
	require.NoError(t, err)
	open, ok := resp.(proto.Ropen)
	require.True(t, ok, "parsed %T, want Ropen", resp)
	require.Equal(t, qid, open.Qid)
}
