package ninep

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"net"

	"aqwari.net/net/ninep/internal/wire"
	"aqwari.net/net/ninep/proto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// minMsize is the smallest frame size a connection will agree to.
// Anything smaller cannot carry a Twalk with a realistic path, and a
// client offering it is assumed to be broken.
const minMsize = 256

// A Handler answers decoded 9P requests. Serve9P is called once per
// request, from the connection's read loop; the request's string and
// data fields borrow from the connection's frame buffer and are only
// valid until Serve9P returns.
//
// The handler is responsible for answering every request with the
// response type the protocol pairs with it (or Rerror). Tversion is
// never passed to a handler; version negotiation is part of the
// connection setup.
type Handler interface {
	Serve9P(w *ResponseWriter, h proto.Header, req proto.Request)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as 9P handlers.
type HandlerFunc func(w *ResponseWriter, h proto.Header, req proto.Request)

// Serve9P calls f(w, h, req).
func (f HandlerFunc) Serve9P(w *ResponseWriter, h proto.Header, req proto.Request) {
	f(w, h, req)
}

// A conn receives and sends 9P messages across a single network
// connection. It owns the session's proto.Parser; the negotiated
// frame size and version are established once, by the first
// Tversion/Rversion exchange, before any request reaches the
// handler.
type conn struct {
	srv *Server
	rwc io.ReadWriteCloser

	// The session codec. Holds the negotiated frame size the read
	// loop enforces.
	p *proto.Parser

	br *bufio.Reader

	// Serializes response frames; handlers may reply from other
	// goroutines than the read loop.
	tx *wire.FrameWriter

	// Frame read buffer. Parsed requests borrow from it, so it is
	// reused only after a request has been handled.
	rbuf []byte

	log logrus.FieldLogger
}

func newConn(srv *Server, rwc io.ReadWriteCloser) *conn {
	log := srv.logger()
	if nc, ok := rwc.(net.Conn); ok {
		log = log.WithField("remote", nc.RemoteAddr().String())
	}
	return &conn{
		srv:  srv,
		rwc:  rwc,
		p:    proto.NewParser(proto.Config{MaxMessageSize: srv.maxSize()}),
		br:   bufio.NewReader(rwc),
		tx:   &wire.FrameWriter{W: rwc},
		rbuf: make([]byte, srv.maxSize()),
		log:  log,
	}
}

// serve runs in its own goroutine, one per connection.
func (c *conn) serve() {
	defer c.rwc.Close()

	if !c.negotiate() {
		return
	}

	for {
		frame, err := c.readFrame()
		if err != nil {
			if err != io.EOF {
				c.log.WithError(err).Debug("connection closed")
			}
			return
		}

		d := proto.NewDecoder(frame)
		h, err := c.p.ParseHeader(&d)
		if err != nil {
			// The stream cannot be trusted past a framing
			// error; there is no tag to answer with.
			c.log.WithError(err).Warn("dropping connection")
			return
		}

		req, err := c.p.ParseRequest(h, &d)
		if err != nil {
			c.log.WithError(err).WithField("type", h.Type.String()).Warn("bad message")
			w := &ResponseWriter{c: c, tag: h.Tag}
			w.Rerror(err.Error())
			return
		}

		c.handle(h, req)
	}
}

func (c *conn) handle(h proto.Header, req proto.Request) {
	w := &ResponseWriter{c: c, tag: h.Tag}

	if _, ok := req.(proto.Tversion); ok {
		// A second Tversion would reset the session; supporting
		// that means aborting outstanding I/O, which is the
		// business of the layer above.
		w.Rerror("version already negotiated")
		return
	}
	if c.srv.Handler == nil {
		w.Rerror("no handler configured")
		return
	}
	c.srv.Handler.Serve9P(w, h, req)
}

// readFrame reads one size-prefixed frame into the connection's
// frame buffer. The size prefix is validated against the negotiated
// maximum before the body is read, so an absurd length cannot make
// the connection allocate or block for more than one frame.
func (c *conn) readFrame() ([]byte, error) {
	if _, err := io.ReadFull(c.br, c.rbuf[:4]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(c.rbuf[:4])
	if size < proto.HeaderSize {
		return nil, proto.ErrFrameTooShort
	}
	if size > c.p.NegotiatedMaxSize() {
		return nil, proto.ErrFrameTooBig
	}
	if _, err := io.ReadFull(c.br, c.rbuf[4:size]); err != nil {
		return nil, errors.Wrap(err, "read frame body")
	}
	return c.rbuf[:size], nil
}

// negotiate performs the version exchange that begins every session.
// The first message on the wire must be a Tversion; anything else
// ends the connection.
func (c *conn) negotiate() bool {
	frame, err := c.readFrame()
	if err != nil {
		if err != io.EOF {
			c.log.WithError(err).Debug("connection closed before negotiation")
		}
		return false
	}

	d := proto.NewDecoder(frame)
	h, err := c.p.ParseHeader(&d)
	if err != nil {
		c.log.WithError(err).Warn("bad opening message")
		return false
	}
	req, err := c.p.ParseRequest(h, &d)
	if err != nil {
		c.log.WithError(err).Warn("bad opening message")
		return false
	}
	tver, ok := req.(proto.Tversion)
	if !ok {
		w := &ResponseWriter{c: c, tag: h.Tag}
		w.Rerror("need Tversion")
		return false
	}

	if tver.Msize < minMsize {
		w := &ResponseWriter{c: c, tag: h.Tag}
		w.Rerror("buffer too small")
		return false
	}

	msize := tver.Msize
	if max := c.p.MaxSize(); msize > max {
		msize = max
	}

	w := &ResponseWriter{c: c, tag: proto.NoTag}
	if !bytes.HasPrefix(tver.Version, []byte("9P2000")) {
		w.Rversion(msize, proto.UnknownVersion)
		return false
	}
	version := "9P2000"
	if string(tver.Version) == proto.Version {
		version = proto.Version
	}

	c.p.SetNegotiatedMaxSize(msize)
	c.p.SetNegotiatedVersion(version)
	c.log.WithFields(logrus.Fields{
		"msize":   msize,
		"version": version,
	}).Debug("session negotiated")

	return w.Rversion(msize, version) == nil
}

// A ResponseWriter encodes responses to a single request and writes
// them to the connection, stamped with the request's tag. Each write
// is one complete frame; concurrent writers on the same connection
// do not interleave.
type ResponseWriter struct {
	c   *conn
	tag proto.Tag
}

// Tag returns the tag responses will be stamped with.
func (w *ResponseWriter) Tag() proto.Tag { return w.tag }

func (w *ResponseWriter) send(build func(b *proto.ResponseBuilder) (int, error)) error {
	buf := getBuf(int(w.c.p.NegotiatedMaxSize()))
	defer putBuf(buf)

	b := proto.NewResponseBuilder(buf, w.tag)
	n, err := build(&b)
	if err != nil {
		return err
	}
	if err := w.c.tx.WriteFrame(b.Bytes()[:n]); err != nil {
		return errors.Wrap(err, "write response")
	}
	return nil
}

// Rversion answers a Tversion request. Used during connection setup;
// handlers never see a Tversion.
func (w *ResponseWriter) Rversion(msize uint32, version string) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rversion(msize, version) })
}

// Rauth answers a Tauth request with the qid of the authentication
// file.
func (w *ResponseWriter) Rauth(aqid proto.Qid) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rauth(aqid) })
}

// Rattach answers a Tattach request with the qid of the tree root.
func (w *ResponseWriter) Rattach(qid proto.Qid) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rattach(qid) })
}

// Rerror answers any request with an error string.
func (w *ResponseWriter) Rerror(ename string) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rerror(ename) })
}

// Rflush answers a Tflush request.
func (w *ResponseWriter) Rflush() error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rflush() })
}

// Rwalk answers a Twalk request with one qid per walked element.
func (w *ResponseWriter) Rwalk(wqid ...proto.Qid) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rwalk(wqid...) })
}

// Ropen answers a Topen request.
func (w *ResponseWriter) Ropen(qid proto.Qid, iounit uint32) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Ropen(qid, iounit) })
}

// Rcreate answers a Tcreate request.
func (w *ResponseWriter) Rcreate(qid proto.Qid, iounit uint32) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rcreate(qid, iounit) })
}

// Rread answers a Tread request with the bytes read.
func (w *ResponseWriter) Rread(data []byte) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rread(data) })
}

// Rwrite answers a Twrite request with the number of bytes recorded.
func (w *ResponseWriter) Rwrite(count uint32) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rwrite(count) })
}

// Rclunk answers a Tclunk request.
func (w *ResponseWriter) Rclunk() error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rclunk() })
}

// Rremove answers a Tremove request.
func (w *ResponseWriter) Rremove() error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rremove() })
}

// Rstat answers a Tstat request with the entry of the named file.
func (w *ResponseWriter) Rstat(stat proto.Stat) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rstat(stat) })
}

// Rwstat answers a Twstat request.
func (w *ResponseWriter) Rwstat() error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rwstat() })
}

// Rsession answers a Tsession request (9P2000.e).
func (w *ResponseWriter) Rsession() error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rsession() })
}

// Rsread answers a Tsread request with the whole file contents
// (9P2000.e).
func (w *ResponseWriter) Rsread(data []byte) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rsread(data) })
}

// Rswrite answers a Tswrite request with the number of bytes recorded
// (9P2000.e).
func (w *ResponseWriter) Rswrite(count uint32) error {
	return w.send(func(b *proto.ResponseBuilder) (int, error) { return b.Rswrite(count) })
}
