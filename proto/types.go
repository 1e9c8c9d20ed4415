package proto

import (
	"bytes"
	"fmt"
)

const (
	// HeaderSize is the length in bytes of the fixed message header.
	HeaderSize = 4 + 1 + 2

	// QidSize is the length in bytes of an encoded Qid.
	QidSize = 1 + 4 + 8

	// DefaultMaxSize is the default maximum size of a 9P message.
	// Clients and servers can negotiate a smaller frame size through
	// the Tversion/Rversion exchange.
	DefaultMaxSize = 8192

	// MaxWElem is the maximum allowed number of path elements in a
	// Twalk request, and of qids in an Rwalk response.
	MaxWElem = 16
)

const (
	// Version is the protocol version offered by this package by
	// default, the 9P2000 protocol with the Erlang-on-Xen session
	// extension.
	Version = "9P2000.e"

	// UnknownVersion is the version string a server answers with
	// when it does not understand the version offered by the client.
	UnknownVersion = "unknown"
)

const (
	// NoTag is the tag used for messages that are part of the
	// version negotiation, which precedes any tagged transaction.
	NoTag Tag = 0xFFFF

	// NoFid is a reserved fid used in a Tattach request for the afid
	// field, when the client does not want to authenticate.
	NoFid Fid = 0xFFFFFFFF
)

// A QidType represents the type of a file (directory, etc.),
// represented as a bit vector corresponding to the high 8 bits of the
// file's mode word.
type QidType uint8

const (
	QTDIR    QidType = 0x80 // directories
	QTAPPEND QidType = 0x40 // append only files
	QTEXCL   QidType = 0x20 // exclusive use files
	QTMOUNT  QidType = 0x10 // mounted channel
	QTAUTH   QidType = 0x08 // authentication file (afid)
	QTTMP    QidType = 0x04 // non-backed-up file
	QTLINK   QidType = 0x02 // symbolic link (Unix, 9P2000.u)
	QTFILE   QidType = 0x00
)

// A Qid is the server's unique identification for the file being
// accessed: two files on the same server hierarchy are the same if and
// only if their qids are the same.
type Qid struct {
	// Type of the file (directory, append-only, ...).
	Type QidType

	// Version number for the file; typically, it is incremented
	// every time the file is modified.
	Version uint32

	// Path is an integer unique among all files in the hierarchy.
	// If a file is deleted and recreated with the same name in the
	// same directory, the old and new path components of the qids
	// should be different.
	Path uint64
}

func (q Qid) String() string {
	return fmt.Sprintf("type=%d ver=%d path=%x", q.Type, q.Version, q.Path)
}

// Flags for the mode field in Topen and Tcreate messages. The low two
// bits select the access class; OTRUNC, OCEXEC and ORCLOSE may be
// or'ed in independently.
type OpenMode uint8

const (
	OREAD   OpenMode = 0  // open read-only
	OWRITE  OpenMode = 1  // open write-only
	ORDWR   OpenMode = 2  // open read-write
	OEXEC   OpenMode = 3  // execute (== read but check execute permission)
	OTRUNC  OpenMode = 16 // or'ed in (except for exec), truncate file first
	OCEXEC  OpenMode = 32 // or'ed in, close on exec
	ORCLOSE OpenMode = 64 // or'ed in, remove on close
)

// Access returns the access class of m: OREAD, OWRITE, ORDWR or OEXEC.
func (m OpenMode) Access() OpenMode { return m & 3 }

// File mode bits, as found in the mode field of a Stat structure and
// the perm field of a Tcreate request. The low bits follow the unix
// permission model; the 3 least-significant 3-bit triads describe
// read, write and execute access for owner, group and others.
const (
	DMDIR       uint32 = 0x80000000 // mode bit for directories
	DMAPPEND    uint32 = 0x40000000 // mode bit for append only files
	DMEXCL      uint32 = 0x20000000 // mode bit for exclusive use files
	DMMOUNT     uint32 = 0x10000000 // mode bit for mounted channel
	DMAUTH      uint32 = 0x08000000 // mode bit for authentication file
	DMTMP       uint32 = 0x04000000 // mode bit for non-backed-up file
	DMSYMLINK   uint32 = 0x02000000 // mode bit for symbolic link (Unix, 9P2000.u)
	DMDEVICE    uint32 = 0x00800000 // mode bit for device file (Unix, 9P2000.u)
	DMNAMEDPIPE uint32 = 0x00200000 // mode bit for named pipe (Unix, 9P2000.u)
	DMSOCKET    uint32 = 0x00100000 // mode bit for socket (Unix, 9P2000.u)
	DMSETUID    uint32 = 0x00080000 // mode bit for setuid (Unix, 9P2000.u)
	DMSETGID    uint32 = 0x00040000 // mode bit for setgid (Unix, 9P2000.u)
	DMREAD      uint32 = 0x4        // mode bit for read permission
	DMWRITE     uint32 = 0x2        // mode bit for write permission
	DMEXEC      uint32 = 0x1        // mode bit for execute permission
)

// The Stat structure describes a directory entry. It is contained in
// Rstat and Twstat messages. Tread requests on directories return a
// packed sequence of Stat structures, one per directory entry.
//
// The Name, UID, GID and MUID fields of a parsed Stat are views into
// the parse buffer.
type Stat struct {
	// Size is the length of the remainder of the encoded structure,
	// not counting the two bytes of the size field itself. It is
	// filled in by the decoder; the encoder computes it from the
	// other fields.
	Size uint16

	// The type field contains implementation-specific data that is
	// outside the scope of the 9P protocol; likewise dev. In Plan 9,
	// dev holds an identifier for the block device storing the file.
	Type uint16
	Dev  uint32

	// Qid is the unique identifier of the file.
	Qid Qid

	// Mode contains the permissions and flags set for the file.
	Mode uint32

	// Last access and modification times, in seconds since the epoch.
	Atime uint32
	Mtime uint32

	// Length of the file in bytes.
	Length uint64

	// File name; must be "/" if the file is the root directory of
	// the server.
	Name []byte

	// Owner name, group name, and name of the user who last
	// modified the file.
	UID  []byte
	GID  []byte
	MUID []byte
}

// Equal reports whether two Stat structures describe the same entry,
// comparing string fields by content.
func (s Stat) Equal(o Stat) bool {
	return s.Size == o.Size &&
		s.Type == o.Type &&
		s.Dev == o.Dev &&
		s.Qid == o.Qid &&
		s.Mode == o.Mode &&
		s.Atime == o.Atime &&
		s.Mtime == o.Mtime &&
		s.Length == o.Length &&
		bytes.Equal(s.Name, o.Name) &&
		bytes.Equal(s.UID, o.UID) &&
		bytes.Equal(s.GID, o.GID) &&
		bytes.Equal(s.MUID, o.MUID)
}

func (s Stat) String() string {
	return fmt.Sprintf("type=%x dev=%x qid=%q mode=%o atime=%d mtime=%d "+
		"length=%d name=%q uid=%q gid=%q muid=%q", s.Type, s.Dev, s.Qid,
		s.Mode, s.Atime, s.Mtime, s.Length, s.Name, s.UID, s.GID, s.MUID)
}

// A WalkPath is a view over an encoded sequence of path elements, as
// carried by Twalk, Tsread and Tswrite messages:
//
// 	nwname[2] nwname*(wname[s])
//
// A WalkPath produced by the decoder spans whole elements only and
// holds at most MaxWElem of them.
type WalkPath []byte

// Len returns the number of path elements.
func (p WalkPath) Len() int {
	if len(p) < 2 {
		return 0
	}
	return int(guint16(p[:2]))
}

// Element returns the nth path element, counting from zero. Element
// panics if n is out of range.
func (p WalkPath) Element(n int) []byte {
	if n < 0 || n >= p.Len() {
		panic("walk path element out of range")
	}
	offset := 2
	size := int(guint16(p[offset : offset+2]))
	for i := 0; i < n; i++ {
		offset += size + 2
		size = int(guint16(p[offset : offset+2]))
	}
	return p[offset+2 : offset+2+size]
}

func (p WalkPath) String() string {
	var buf [MaxWElem][]byte
	elems := buf[:0]
	for i := 0; i < p.Len(); i++ {
		elems = append(elems, p.Element(i))
	}
	return string(bytes.Join(elems, []byte("/")))
}
