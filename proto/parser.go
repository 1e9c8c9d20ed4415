package proto

// A Config holds the session parameters a Parser starts out with.
// The zero value selects the package defaults.
type Config struct {
	// MaxMessageSize is the largest frame the session will accept,
	// in bytes. It is the upper bound for size negotiation; the
	// negotiated size can only shrink from here. Defaults to
	// DefaultMaxSize.
	MaxMessageSize uint32

	// Version is the protocol version offered during negotiation.
	// Defaults to Version ("9P2000.e").
	Version string
}

// A Parser holds the state of one protocol session: the frame size
// and protocol version it started with, and the values negotiated by
// the Tversion/Rversion exchange. One Parser is created per
// connection; both negotiated values are updated once, by the
// negotiation, and remain constant afterwards.
//
// Parsed messages borrow from the buffer they were parsed out of; the
// negotiated version string is the one session-scoped value the
// Parser owns.
//
// A Parser must not be copied after first use: a duplicated session
// would admit drift between a connection and its codec. Parsing
// methods read only immutable state and are safe for concurrent use,
// provided no negotiation setter is called at the same time.
type Parser struct {
	noCopy noCopy

	maxSize uint32 // initial, immutable
	version string // initial, immutable

	msize      uint32 // negotiated
	negotiated string // negotiated, owned
}

// NewParser returns a Parser for a fresh session described by cfg.
func NewParser(cfg Config) *Parser {
	if cfg.MaxMessageSize == 0 {
		cfg.MaxMessageSize = DefaultMaxSize
	}
	if cfg.Version == "" {
		cfg.Version = Version
	}
	return &Parser{
		maxSize:    cfg.MaxMessageSize,
		version:    cfg.Version,
		msize:      cfg.MaxMessageSize,
		negotiated: cfg.Version,
	}
}

// MaxSize returns the maximum frame size the session started with.
func (p *Parser) MaxSize() uint32 { return p.maxSize }

// NegotiatedMaxSize returns the frame size in effect for the session.
func (p *Parser) NegotiatedMaxSize() uint32 { return p.msize }

// SetNegotiatedMaxSize records the frame size agreed during version
// negotiation. The size is clamped to the initial maximum; the value
// actually stored is returned.
func (p *Parser) SetNegotiatedMaxSize(n uint32) uint32 {
	if n > p.maxSize {
		n = p.maxSize
	}
	p.msize = n
	return n
}

// Version returns the protocol version the session offers.
func (p *Parser) Version() string { return p.version }

// NegotiatedVersion returns the protocol version in effect for the
// session.
func (p *Parser) NegotiatedVersion() string { return p.negotiated }

// SetNegotiatedVersion records the protocol version agreed during
// negotiation. The string is stored as-is; a server may downgrade a
// client by answering Rversion with a version other than the one
// offered.
func (p *Parser) SetNegotiatedVersion(v string) { p.negotiated = v }

// ParseHeader decodes and validates a message header:
//
// 	size[4] type[1] tag[2]
//
// The declared frame size must cover at least the header itself and
// must not exceed the negotiated maximum; the type code must name a
// supported message. On success the decoder is positioned at the
// first payload byte.
func (p *Parser) ParseHeader(d *Decoder) (Header, error) {
	if d.Remaining() < HeaderSize {
		return Header{}, ErrTruncatedHeader
	}

	var h Header
	h.Size = d.Read32()
	if h.Size < HeaderSize {
		return Header{}, ErrFrameTooShort
	}
	if h.Size > p.msize {
		return Header{}, ErrFrameTooBig
	}

	h.Type = MsgType(d.Read8())
	if !h.Type.Supported() {
		return Header{}, ErrUnsupportedType
	}

	// Tags are chosen by the client and cannot be validated here.
	h.Tag = Tag(d.Read16())
	return h, nil
}

// ParseRequest decodes the payload of a T-message. The decoder must
// hold exactly h.PayloadSize() bytes: fewer is ErrNotEnoughData, more
// is ErrTooMuchData. String and data fields of the returned Request
// are views into the decoder's buffer.
func (p *Parser) ParseRequest(h Header, d *Decoder) (Request, error) {
	if err := p.checkPayload(h, d); err != nil {
		return nil, err
	}

	switch h.Type {
	case MsgTversion:
		return parseTversion(d)
	case MsgTauth:
		return parseTauth(d)
	case MsgTflush:
		return parseTflush(d)
	case MsgTattach:
		return parseTattach(d)
	case MsgTwalk:
		return parseTwalk(d)
	case MsgTopen:
		return parseTopen(d)
	case MsgTcreate:
		return parseTcreate(d)
	case MsgTread:
		return parseTread(d)
	case MsgTwrite:
		return parseTwrite(d)
	case MsgTclunk:
		return parseTclunk(d)
	case MsgTremove:
		return parseTremove(d)
	case MsgTstat:
		return parseTstat(d)
	case MsgTwstat:
		return parseTwstat(d)
	case MsgTsession:
		return parseTsession(d)
	case MsgTsread:
		return parseTsread(d)
	case MsgTswrite:
		return parseTswrite(d)
	}
	return nil, ErrUnsupportedType
}

// ParseResponse decodes the payload of an R-message, under the same
// envelope rules as ParseRequest.
func (p *Parser) ParseResponse(h Header, d *Decoder) (Response, error) {
	if err := p.checkPayload(h, d); err != nil {
		return nil, err
	}

	switch h.Type {
	case MsgRversion:
		return parseRversion(d)
	case MsgRauth:
		return parseRauth(d)
	case MsgRattach:
		return parseRattach(d)
	case MsgRerror:
		return parseRerror(d)
	case MsgRwalk:
		return parseRwalk(d)
	case MsgRopen:
		return parseRopen(d)
	case MsgRcreate:
		return parseRcreate(d)
	case MsgRread:
		return parseRread(d)
	case MsgRwrite:
		return parseRwrite(d)
	case MsgRstat:
		return parseRstat(d)
	case MsgRflush:
		return Rflush{}, nil
	case MsgRclunk:
		return Rclunk{}, nil
	case MsgRremove:
		return Rremove{}, nil
	case MsgRwstat:
		return Rwstat{}, nil
	case MsgRsession:
		return Rsession{}, nil
	case MsgRsread:
		// Same layout as Rread.
		return parseRsread(d)
	case MsgRswrite:
		// Same layout as Rwrite.
		return parseRswrite(d)
	}
	return nil, ErrUnsupportedType
}

// checkPayload enforces the framing envelope: the decoder must hold
// exactly the payload declared by the header, and the frame must
// still be within the negotiated maximum.
func (p *Parser) checkPayload(h Header, d *Decoder) error {
	if h.Size > p.msize {
		return ErrFrameTooBig
	}
	expected := int(h.PayloadSize())
	if remaining := d.Remaining(); expected > remaining {
		return ErrNotEnoughData
	} else if expected < remaining {
		return ErrTooMuchData
	}
	return nil
}

// Tversion encodes the session's opening Tversion message into buf,
// offering the Parser's maximum frame size and version string, tagged
// NoTag as the protocol requires. It returns the frame length.
func (p *Parser) Tversion(buf []byte) (int, error) {
	b := NewRequestBuilder(buf, NoTag)
	return b.Tversion(p.maxSize, p.version)
}

// noCopy triggers a go vet warning when a structure embedding it is
// copied. It has no runtime effect.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
