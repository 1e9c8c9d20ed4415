package proto

import "encoding/binary"

// Shorthand for parsing numbers
var (
	guint16 = binary.LittleEndian.Uint16
	guint32 = binary.LittleEndian.Uint32
	guint64 = binary.LittleEndian.Uint64
)

// A Tag is a transaction identifier chosen by the client. No two
// pending T-messages may use the same tag. All R-messages must
// reference the tag of the T-message being answered.
type Tag uint16

// A Fid is a 32-bit identifier chosen by the client that names a
// "current file" on the server, analogous to a file descriptor.
type Fid uint32

// A MsgType identifies the type of a 9P message. Request types
// (T-messages) have even values, response types (R-messages) odd
// values. The code for Terror is reserved; there is no such message.
type MsgType uint8

// 9P2000 message types. The values are fixed by the protocol.
const (
	MsgTversion MsgType = 100 + iota
	MsgRversion
	MsgTauth
	MsgRauth
	MsgTattach
	MsgRattach
	MsgTerror // illegal
	MsgRerror
	MsgTflush
	MsgRflush
	MsgTwalk
	MsgRwalk
	MsgTopen
	MsgRopen
	MsgTcreate
	MsgRcreate
	MsgTread
	MsgRread
	MsgTwrite
	MsgRwrite
	MsgTclunk
	MsgRclunk
	MsgTremove
	MsgRremove
	MsgTstat
	MsgRstat
	MsgTwstat
	MsgRwstat
)

// 9P2000.e extension message types.
const (
	MsgTsession MsgType = 150 + iota
	MsgRsession
	MsgTsread
	MsgRsread
	MsgTswrite
	MsgRswrite
)

// Half-open range of message type codes understood by this package.
const (
	firstMsgType = MsgTversion
	lastMsgType  = MsgRswrite + 1
)

var msgTypeNames = map[MsgType]string{
	MsgTversion: "Tversion",
	MsgRversion: "Rversion",
	MsgTauth:    "Tauth",
	MsgRauth:    "Rauth",
	MsgTattach:  "Tattach",
	MsgRattach:  "Rattach",
	MsgTerror:   "Terror",
	MsgRerror:   "Rerror",
	MsgTflush:   "Tflush",
	MsgRflush:   "Rflush",
	MsgTwalk:    "Twalk",
	MsgRwalk:    "Rwalk",
	MsgTopen:    "Topen",
	MsgRopen:    "Ropen",
	MsgTcreate:  "Tcreate",
	MsgRcreate:  "Rcreate",
	MsgTread:    "Tread",
	MsgRread:    "Rread",
	MsgTwrite:   "Twrite",
	MsgRwrite:   "Rwrite",
	MsgTclunk:   "Tclunk",
	MsgRclunk:   "Rclunk",
	MsgTremove:  "Tremove",
	MsgRremove:  "Rremove",
	MsgTstat:    "Tstat",
	MsgRstat:    "Rstat",
	MsgTwstat:   "Twstat",
	MsgRwstat:   "Rwstat",
	MsgTsession: "Tsession",
	MsgRsession: "Rsession",
	MsgTsread:   "Tsread",
	MsgRsread:   "Rsread",
	MsgTswrite:  "Tswrite",
	MsgRswrite:  "Rswrite",
}

// String returns the short conventional name of a message type, such
// as "Tversion" or "Rwalk".
func (t MsgType) String() string {
	if s, ok := msgTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Supported reports whether t is a message type understood by this
// package. Terror is part of the numbering but is not a real message
// and is not supported.
func (t MsgType) Supported() bool {
	return t >= firstMsgType && t < lastMsgType && t != MsgTerror &&
		(t <= MsgRwstat || t >= MsgTsession)
}

// A Header is the fixed-size envelope that every 9P message starts
// with on the wire:
//
// 	size[4] type[1] tag[2]
//
// Size counts the entire frame, including the header itself.
type Header struct {
	Size uint32
	Type MsgType
	Tag  Tag
}

// PayloadSize returns the number of payload bytes that follow the
// header on the wire.
func (h Header) PayloadSize() uint32 { return h.Size - HeaderSize }
