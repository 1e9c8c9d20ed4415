package ninep

import (
	"crypto/tls"
	"net"
	"time"

	"aqwari.net/net/ninep/internal/util"
	"aqwari.net/net/ninep/proto"
	"aqwari.net/retry"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Server defines parameters for running a 9P server. The zero
// value of a Server is usable as a 9P server, and will use the
// defaults set by the ninep package.
type Server struct {
	Addr string // Address to listen on, ":564" if empty.

	// MaxSize is the maximum size of a 9P message the server offers
	// during version negotiation, proto.DefaultMaxSize if unset.
	// Clients may negotiate it down, never up.
	MaxSize uint32

	TLSConfig *tls.Config // optional TLS config, used by ListenAndServeTLS

	// Handler receives every request decoded after a successful
	// version negotiation. If nil, every request is answered with
	// an Rerror.
	Handler Handler

	// Log receives diagnostic information about accepted
	// connections and protocol violations. If nil, the logrus
	// standard logger is used.
	Log logrus.FieldLogger
}

func (srv *Server) logger() logrus.FieldLogger {
	if srv.Log != nil {
		return srv.Log
	}
	return logrus.StandardLogger()
}

func (srv *Server) maxSize() uint32 {
	if srv.MaxSize >= minMsize {
		return srv.MaxSize
	}
	if srv.MaxSize != 0 {
		return minMsize
	}
	return proto.DefaultMaxSize
}

// Serve accepts connections on the listener l, creating a new
// service goroutine for each. The service goroutines negotiate the
// protocol version, read requests, and call srv.Handler to reply to
// them. Temporary errors from Accept are retried with exponential
// backoff.
func (srv *Server) Serve(l net.Listener) error {
	backoff := retry.Exponential(time.Millisecond).Max(time.Second)
	try := 0

	for {
		rwc, err := l.Accept()
		if err != nil {
			if util.IsTempErr(err) {
				try++
				srv.logger().WithError(err).Warnf("accept error; retrying in %v", backoff(try))
				time.Sleep(backoff(try))
				continue
			}
			return errors.Wrap(err, "accept")
		}
		try = 0

		c := newConn(srv, rwc)
		go c.serve()
	}
}

// ListenAndServe listens on the TCP network address srv.Addr and
// calls Serve to handle requests on incoming connections. If
// srv.Addr is blank, :564 is used.
func (srv *Server) ListenAndServe() error {
	addr := srv.Addr
	if addr == "" {
		addr = ":564"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return srv.Serve(ln)
}

// ListenAndServeTLS listens on the TCP network address srv.Addr for
// incoming TLS connections. certFile must be a valid x509
// certificate in PEM format, concatenated with any intermediate and
// CA certificates.
func (srv *Server) ListenAndServeTLS(certFile, keyFile string) error {
	addr := srv.Addr
	if addr == "" {
		addr = ":564"
	}
	cfg := srv.TLSConfig
	if cfg == nil {
		cfg = new(tls.Config)
	}
	if len(cfg.Certificates) == 0 || certFile != "" || keyFile != "" {
		var err error
		cfg.Certificates = make([]tls.Certificate, 1)
		cfg.Certificates[0], err = tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	ln = tls.NewListener(ln, cfg)
	return srv.Serve(ln)
}

// ListenAndServe listens on the specified TCP address, and then calls
// Serve with handler to handle requests of incoming connections.
func ListenAndServe(addr string, handler Handler) error {
	srv := Server{Handler: handler, Addr: addr}
	return srv.ListenAndServe()
}

// ListenAndServeTLS listens on the specified TCP address for incoming
// TLS connections.
func ListenAndServeTLS(addr string, certFile, keyFile string, handler Handler) error {
	srv := Server{Handler: handler, Addr: addr}
	return srv.ListenAndServeTLS(certFile, keyFile)
}
