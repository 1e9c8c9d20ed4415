package proto

import "encoding/binary"

// An Encoder is the write-side counterpart of a Decoder: a cursor
// over a caller-supplied mutable byte region. A write that does not
// fit records ErrBufferOverflow and every subsequent write becomes a
// no-op. The Encoder never grows the buffer and never allocates.
type Encoder struct {
	buf []byte
	off int
	err error
}

// NewEncoder returns an Encoder writing into buf.
func NewEncoder(buf []byte) Encoder {
	return Encoder{buf: buf}
}

// Err returns the first error encountered by the Encoder, or nil.
func (e *Encoder) Err() error { return e.err }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return e.off }

// Bytes returns the encoded data written so far.
func (e *Encoder) Bytes() []byte { return e.buf[:e.off] }

// fits reports whether n more bytes can be written, recording
// ErrBufferOverflow if they cannot.
func (e *Encoder) fits(n int) bool {
	if e.err != nil {
		return false
	}
	if len(e.buf)-e.off < n {
		e.err = ErrBufferOverflow
		return false
	}
	return true
}

// Write8 writes a single byte.
func (e *Encoder) Write8(v uint8) {
	if !e.fits(1) {
		return
	}
	e.buf[e.off] = v
	e.off++
}

// Write16 writes a little-endian 16-bit integer.
func (e *Encoder) Write16(v uint16) {
	if !e.fits(2) {
		return
	}
	binary.LittleEndian.PutUint16(e.buf[e.off:], v)
	e.off += 2
}

// Write32 writes a little-endian 32-bit integer.
func (e *Encoder) Write32(v uint32) {
	if !e.fits(4) {
		return
	}
	binary.LittleEndian.PutUint32(e.buf[e.off:], v)
	e.off += 4
}

// Write64 writes a little-endian 64-bit integer.
func (e *Encoder) Write64(v uint64) {
	if !e.fits(8) {
		return
	}
	binary.LittleEndian.PutUint64(e.buf[e.off:], v)
	e.off += 8
}

// WriteString writes a length-prefixed string. Strings longer than
// the 16-bit length prefix can express are rejected with
// ErrBufferOverflow.
func (e *Encoder) WriteString(s []byte) {
	if len(s) > 1<<16-1 {
		if e.err == nil {
			e.err = ErrBufferOverflow
		}
		return
	}
	if !e.fits(2 + len(s)) {
		return
	}
	e.Write16(uint16(len(s)))
	copy(e.buf[e.off:], s)
	e.off += len(s)
}

// WriteData writes a counted data blob: count[4] count*(data).
func (e *Encoder) WriteData(p []byte) {
	if !e.fits(4 + len(p)) {
		return
	}
	e.Write32(uint32(len(p)))
	copy(e.buf[e.off:], p)
	e.off += len(p)
}

// WriteQid writes a 13-byte qid.
func (e *Encoder) WriteQid(q Qid) {
	if !e.fits(QidSize) {
		return
	}
	e.Write8(uint8(q.Type))
	e.Write32(q.Version)
	e.Write64(q.Path)
}

// WriteStat writes a Stat structure. The two-byte size field is
// computed from the remaining fields; the Size member of s is not
// consulted.
func (e *Encoder) WriteStat(s Stat) {
	n := SizeofStat(s)
	if n-2 > 1<<16-1 {
		if e.err == nil {
			e.err = ErrBufferOverflow
		}
		return
	}
	if !e.fits(n) {
		return
	}
	e.Write16(uint16(n - 2))
	e.Write16(s.Type)
	e.Write32(s.Dev)
	e.WriteQid(s.Qid)
	e.Write32(s.Mode)
	e.Write32(s.Atime)
	e.Write32(s.Mtime)
	e.Write64(s.Length)
	e.WriteString(s.Name)
	e.WriteString(s.UID)
	e.WriteString(s.GID)
	e.WriteString(s.MUID)
}

// WriteWalkPath writes a walk path: nwname[2] nwname*(wname[s]).
// Paths of more than MaxWElem elements are rejected with ErrMaxWElem.
func (e *Encoder) WriteWalkPath(elems ...string) {
	if len(elems) > MaxWElem {
		if e.err == nil {
			e.err = ErrMaxWElem
		}
		return
	}
	if !e.fits(sizeofWalkPath(elems)) {
		return
	}
	e.Write16(uint16(len(elems)))
	for _, el := range elems {
		e.WriteString([]byte(el))
	}
}

// beginMessage reserves space for a message header and returns the
// position it must later be patched at.
func (e *Encoder) beginMessage() int {
	p0 := e.off
	if e.fits(HeaderSize) {
		e.off += HeaderSize
	}
	return p0
}

// endMessage back-patches the header reserved by beginMessage with
// the final frame size, type and tag, and returns the frame length.
func (e *Encoder) endMessage(p0 int, t MsgType, tag Tag) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	size := e.off - p0
	binary.LittleEndian.PutUint32(e.buf[p0:], uint32(size))
	e.buf[p0+4] = uint8(t)
	binary.LittleEndian.PutUint16(e.buf[p0+5:], uint16(tag))
	return size, nil
}

// Exact encoded sizes of the variable-width primitives. These feed
// the encoder's room checks, the Rstat count and the directory listing
// arithmetic; endMessage measures the frame from the cursor instead.

func sizeofString(s []byte) int { return 2 + len(s) }

func sizeofWalkPath(elems []string) int {
	n := 2
	for _, el := range elems {
		n += 2 + len(el)
	}
	return n
}

// SizeofStat returns the exact encoded length of s in bytes,
// including the two-byte size field.
func SizeofStat(s Stat) int {
	return 2 + 2 + 4 + QidSize + 4 + 4 + 4 + 8 +
		sizeofString(s.Name) + sizeofString(s.UID) +
		sizeofString(s.GID) + sizeofString(s.MUID)
}
