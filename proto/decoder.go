package proto

// A Decoder is a cursor over an immutable byte region that extracts
// the wire primitives of the 9P protocol. Every read either advances
// the cursor by the exact number of bytes consumed, or records
// ErrNotEnoughData and leaves the cursor untouched.
//
// The first failed read makes all subsequent reads no-ops, so field
// reads can be chained without per-field error checks; callers test
// Err once after the last read. Reads never allocate: strings, data
// blobs and walk paths are views into the decoder's buffer.
type Decoder struct {
	buf []byte
	off int
	err error
}

// NewDecoder returns a Decoder reading from buf. The Decoder borrows
// buf; the caller must not mutate it until parsing is complete.
func NewDecoder(buf []byte) Decoder {
	return Decoder{buf: buf}
}

// Err returns the first error encountered by the Decoder, or nil.
func (d *Decoder) Err() error { return d.err }

// Remaining returns the number of unread bytes left in the buffer.
func (d *Decoder) Remaining() int { return len(d.buf) - d.off }

// need reports whether n more bytes can be consumed, recording
// ErrNotEnoughData if they cannot.
func (d *Decoder) need(n int) bool {
	if d.err != nil {
		return false
	}
	if d.Remaining() < n {
		d.err = ErrNotEnoughData
		return false
	}
	return true
}

// Read8 reads a single byte.
func (d *Decoder) Read8() uint8 {
	if !d.need(1) {
		return 0
	}
	v := d.buf[d.off]
	d.off++
	return v
}

// Read16 reads a little-endian 16-bit integer.
func (d *Decoder) Read16() uint16 {
	if !d.need(2) {
		return 0
	}
	v := guint16(d.buf[d.off:])
	d.off += 2
	return v
}

// Read32 reads a little-endian 32-bit integer.
func (d *Decoder) Read32() uint32 {
	if !d.need(4) {
		return 0
	}
	v := guint32(d.buf[d.off:])
	d.off += 4
	return v
}

// Read64 reads a little-endian 64-bit integer.
func (d *Decoder) Read64() uint64 {
	if !d.need(8) {
		return 0
	}
	v := guint64(d.buf[d.off:])
	d.off += 8
	return v
}

// ReadString reads a length-prefixed string:
//
// 	len[2] len*(utf8)
//
// The returned slice is a view into the decoder's buffer. A read that
// would run past the buffer leaves the cursor before the length
// prefix.
func (d *Decoder) ReadString() []byte {
	if d.err != nil {
		return nil
	}
	if d.Remaining() < 2 {
		d.err = ErrNotEnoughData
		return nil
	}
	n := int(guint16(d.buf[d.off:]))
	if d.Remaining() < 2+n {
		d.err = ErrNotEnoughData
		return nil
	}
	v := d.buf[d.off+2 : d.off+2+n]
	d.off += 2 + n
	return v
}

// ReadData reads a counted data blob:
//
// 	count[4] count*(data)
//
// The returned slice is a view into the decoder's buffer.
func (d *Decoder) ReadData() []byte {
	if d.err != nil {
		return nil
	}
	if d.Remaining() < 4 {
		d.err = ErrNotEnoughData
		return nil
	}
	n := int(guint32(d.buf[d.off:]))
	if n < 0 || d.Remaining()-4 < n {
		d.err = ErrNotEnoughData
		return nil
	}
	v := d.buf[d.off+4 : d.off+4+n]
	d.off += 4 + n
	return v
}

// ReadQid reads a 13-byte qid.
func (d *Decoder) ReadQid() Qid {
	if !d.need(QidSize) {
		return Qid{}
	}
	b := d.buf[d.off:]
	d.off += QidSize
	return Qid{
		Type:    QidType(b[0]),
		Version: guint32(b[1:5]),
		Path:    guint64(b[5:13]),
	}
}

// ReadStat reads a Stat structure:
//
// 	size[2] type[2] dev[4] qid[13] mode[4] atime[4] mtime[4]
// 	length[8] name[s] uid[s] gid[s] muid[s]
//
// The string fields of the returned Stat are views into the decoder's
// buffer. A partial Stat is never consumed: if any field is missing
// the cursor rewinds to where the Stat began.
func (d *Decoder) ReadStat() Stat {
	if d.err != nil {
		return Stat{}
	}
	start := d.off
	var s Stat
	s.Size = d.Read16()
	s.Type = d.Read16()
	s.Dev = d.Read32()
	s.Qid = d.ReadQid()
	s.Mode = d.Read32()
	s.Atime = d.Read32()
	s.Mtime = d.Read32()
	s.Length = d.Read64()
	s.Name = d.ReadString()
	s.UID = d.ReadString()
	s.GID = d.ReadString()
	s.MUID = d.ReadString()
	if d.err != nil {
		d.off = start
		return Stat{}
	}
	return s
}

// ReadWalkPath reads a walk path:
//
// 	nwname[2] nwname*(wname[s])
//
// The returned WalkPath is a view spanning the count and every
// element. Paths of more than MaxWElem elements are rejected with
// ErrMaxWElem, and the cursor rewinds to where the path began.
func (d *Decoder) ReadWalkPath() WalkPath {
	if d.err != nil {
		return nil
	}
	start := d.off
	n := d.Read16()
	if d.err != nil {
		return nil
	}
	if n > MaxWElem {
		d.off = start
		d.err = ErrMaxWElem
		return nil
	}
	for i := uint16(0); i < n; i++ {
		d.ReadString()
	}
	if d.err != nil {
		d.off = start
		return nil
	}
	return WalkPath(d.buf[start:d.off])
}
