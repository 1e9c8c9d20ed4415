package proto

// Builders encode complete frames into a caller-supplied buffer. Each
// message method reserves room for the header, encodes the payload
// through the Encoder, back-patches the real size[4] type[1] tag[2]
// once the payload length is known, and returns the frame length.
// Successive calls append successive frames to the same buffer.
//
// When the buffer runs out of room mid-encode the method returns
// ErrBufferOverflow and the buffer contents are invalid; no partial
// frame is ever handed to the transport.

// A RequestBuilder encodes T-messages. The tag it was created with is
// stamped into every frame it produces.
type RequestBuilder struct {
	e   Encoder
	tag Tag
}

// NewRequestBuilder returns a RequestBuilder encoding into buf,
// stamping tag into every message. Version negotiation must use
// NoTag.
func NewRequestBuilder(buf []byte, tag Tag) RequestBuilder {
	return RequestBuilder{e: NewEncoder(buf), tag: tag}
}

// Err returns the first error encountered by the builder, or nil.
func (b *RequestBuilder) Err() error { return b.e.Err() }

// Bytes returns the frames encoded so far.
func (b *RequestBuilder) Bytes() []byte { return b.e.Bytes() }

// Tversion encodes a Tversion request. The tag of the builder is
// ignored; version messages always carry NoTag.
func (b *RequestBuilder) Tversion(msize uint32, version string) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(msize)
	b.e.WriteString([]byte(version))
	return b.e.endMessage(p0, MsgTversion, NoTag)
}

// Tauth encodes a Tauth request.
func (b *RequestBuilder) Tauth(afid Fid, uname, aname string) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(afid))
	b.e.WriteString([]byte(uname))
	b.e.WriteString([]byte(aname))
	return b.e.endMessage(p0, MsgTauth, b.tag)
}

// Tflush encodes a Tflush request aborting oldtag.
func (b *RequestBuilder) Tflush(oldtag Tag) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write16(uint16(oldtag))
	return b.e.endMessage(p0, MsgTflush, b.tag)
}

// Tattach encodes a Tattach request. If the client does not want to
// authenticate, afid should be NoFid.
func (b *RequestBuilder) Tattach(fid, afid Fid, uname, aname string) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	b.e.Write32(uint32(afid))
	b.e.WriteString([]byte(uname))
	b.e.WriteString([]byte(aname))
	return b.e.endMessage(p0, MsgTattach, b.tag)
}

// Twalk encodes a Twalk request. An error is returned if wname has
// more than MaxWElem elements.
func (b *RequestBuilder) Twalk(fid, newfid Fid, wname ...string) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	b.e.Write32(uint32(newfid))
	b.e.WriteWalkPath(wname...)
	return b.e.endMessage(p0, MsgTwalk, b.tag)
}

// Topen encodes a Topen request.
func (b *RequestBuilder) Topen(fid Fid, mode OpenMode) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	b.e.Write8(uint8(mode))
	return b.e.endMessage(p0, MsgTopen, b.tag)
}

// Tcreate encodes a Tcreate request.
func (b *RequestBuilder) Tcreate(fid Fid, name string, perm uint32, mode OpenMode) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	b.e.WriteString([]byte(name))
	b.e.Write32(perm)
	b.e.Write8(uint8(mode))
	return b.e.endMessage(p0, MsgTcreate, b.tag)
}

// Tread encodes a Tread request.
func (b *RequestBuilder) Tread(fid Fid, offset uint64, count uint32) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	b.e.Write64(offset)
	b.e.Write32(count)
	return b.e.endMessage(p0, MsgTread, b.tag)
}

// Twrite encodes a Twrite request. The data is copied into the frame.
func (b *RequestBuilder) Twrite(fid Fid, offset uint64, data []byte) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	b.e.Write64(offset)
	b.e.WriteData(data)
	return b.e.endMessage(p0, MsgTwrite, b.tag)
}

// Tclunk encodes a Tclunk request.
func (b *RequestBuilder) Tclunk(fid Fid) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	return b.e.endMessage(p0, MsgTclunk, b.tag)
}

// Tremove encodes a Tremove request.
func (b *RequestBuilder) Tremove(fid Fid) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	return b.e.endMessage(p0, MsgTremove, b.tag)
}

// Tstat encodes a Tstat request.
func (b *RequestBuilder) Tstat(fid Fid) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	return b.e.endMessage(p0, MsgTstat, b.tag)
}

// Twstat encodes a Twstat request.
func (b *RequestBuilder) Twstat(fid Fid, stat Stat) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	b.e.WriteStat(stat)
	return b.e.endMessage(p0, MsgTwstat, b.tag)
}

// Tsession encodes a Tsession request (9P2000.e).
func (b *RequestBuilder) Tsession(key [8]byte) (int, error) {
	p0 := b.e.beginMessage()
	for _, k := range key {
		b.e.Write8(k)
	}
	return b.e.endMessage(p0, MsgTsession, b.tag)
}

// Tsread encodes a Tsread request (9P2000.e). An error is returned if
// path has more than MaxWElem elements.
func (b *RequestBuilder) Tsread(fid Fid, path []string) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	b.e.WriteWalkPath(path...)
	return b.e.endMessage(p0, MsgTsread, b.tag)
}

// Tswrite encodes a Tswrite request (9P2000.e).
func (b *RequestBuilder) Tswrite(fid Fid, path []string, data []byte) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(uint32(fid))
	b.e.WriteWalkPath(path...)
	b.e.WriteData(data)
	return b.e.endMessage(p0, MsgTswrite, b.tag)
}

// A ResponseBuilder encodes R-messages, stamping the tag of the
// request being answered into every frame it produces.
type ResponseBuilder struct {
	e   Encoder
	tag Tag
}

// NewResponseBuilder returns a ResponseBuilder encoding into buf,
// answering the request identified by tag.
func NewResponseBuilder(buf []byte, tag Tag) ResponseBuilder {
	return ResponseBuilder{e: NewEncoder(buf), tag: tag}
}

// Err returns the first error encountered by the builder, or nil.
func (b *ResponseBuilder) Err() error { return b.e.Err() }

// Bytes returns the frames encoded so far.
func (b *ResponseBuilder) Bytes() []byte { return b.e.Bytes() }

// Rversion encodes an Rversion response. The tag of the builder is
// ignored; version messages always carry NoTag.
func (b *ResponseBuilder) Rversion(msize uint32, version string) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(msize)
	b.e.WriteString([]byte(version))
	return b.e.endMessage(p0, MsgRversion, NoTag)
}

// Rauth encodes an Rauth response. The aqid should be of type QTAUTH.
func (b *ResponseBuilder) Rauth(aqid Qid) (int, error) {
	p0 := b.e.beginMessage()
	b.e.WriteQid(aqid)
	return b.e.endMessage(p0, MsgRauth, b.tag)
}

// Rattach encodes an Rattach response.
func (b *ResponseBuilder) Rattach(qid Qid) (int, error) {
	p0 := b.e.beginMessage()
	b.e.WriteQid(qid)
	return b.e.endMessage(p0, MsgRattach, b.tag)
}

// Rerror encodes an Rerror response.
func (b *ResponseBuilder) Rerror(ename string) (int, error) {
	p0 := b.e.beginMessage()
	b.e.WriteString([]byte(ename))
	return b.e.endMessage(p0, MsgRerror, b.tag)
}

// Rflush encodes an Rflush response.
func (b *ResponseBuilder) Rflush() (int, error) {
	p0 := b.e.beginMessage()
	return b.e.endMessage(p0, MsgRflush, b.tag)
}

// Rwalk encodes an Rwalk response. An error is returned if wqid has
// more than MaxWElem elements.
func (b *ResponseBuilder) Rwalk(wqid ...Qid) (int, error) {
	if len(wqid) > MaxWElem {
		return 0, ErrMaxWElem
	}
	p0 := b.e.beginMessage()
	b.e.Write16(uint16(len(wqid)))
	for _, q := range wqid {
		b.e.WriteQid(q)
	}
	return b.e.endMessage(p0, MsgRwalk, b.tag)
}

// Ropen encodes an Ropen response.
func (b *ResponseBuilder) Ropen(qid Qid, iounit uint32) (int, error) {
	p0 := b.e.beginMessage()
	b.e.WriteQid(qid)
	b.e.Write32(iounit)
	return b.e.endMessage(p0, MsgRopen, b.tag)
}

// Rcreate encodes an Rcreate response.
func (b *ResponseBuilder) Rcreate(qid Qid, iounit uint32) (int, error) {
	p0 := b.e.beginMessage()
	b.e.WriteQid(qid)
	b.e.Write32(iounit)
	return b.e.endMessage(p0, MsgRcreate, b.tag)
}

// Rread encodes an Rread response. The data is copied into the frame.
func (b *ResponseBuilder) Rread(data []byte) (int, error) {
	p0 := b.e.beginMessage()
	b.e.WriteData(data)
	return b.e.endMessage(p0, MsgRread, b.tag)
}

// Rwrite encodes an Rwrite response.
func (b *ResponseBuilder) Rwrite(count uint32) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(count)
	return b.e.endMessage(p0, MsgRwrite, b.tag)
}

// Rclunk encodes an Rclunk response.
func (b *ResponseBuilder) Rclunk() (int, error) {
	p0 := b.e.beginMessage()
	return b.e.endMessage(p0, MsgRclunk, b.tag)
}

// Rremove encodes an Rremove response.
func (b *ResponseBuilder) Rremove() (int, error) {
	p0 := b.e.beginMessage()
	return b.e.endMessage(p0, MsgRremove, b.tag)
}

// Rstat encodes an Rstat response, wrapping the stat in the outer
// two-byte count the protocol requires.
func (b *ResponseBuilder) Rstat(stat Stat) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write16(uint16(SizeofStat(stat)))
	b.e.WriteStat(stat)
	return b.e.endMessage(p0, MsgRstat, b.tag)
}

// Rwstat encodes an Rwstat response.
func (b *ResponseBuilder) Rwstat() (int, error) {
	p0 := b.e.beginMessage()
	return b.e.endMessage(p0, MsgRwstat, b.tag)
}

// Rsession encodes an Rsession response (9P2000.e).
func (b *ResponseBuilder) Rsession() (int, error) {
	p0 := b.e.beginMessage()
	return b.e.endMessage(p0, MsgRsession, b.tag)
}

// Rsread encodes an Rsread response (9P2000.e).
func (b *ResponseBuilder) Rsread(data []byte) (int, error) {
	p0 := b.e.beginMessage()
	b.e.WriteData(data)
	return b.e.endMessage(p0, MsgRsread, b.tag)
}

// Rswrite encodes an Rswrite response (9P2000.e).
func (b *ResponseBuilder) Rswrite(count uint32) (int, error) {
	p0 := b.e.beginMessage()
	b.e.Write32(count)
	return b.e.endMessage(p0, MsgRswrite, b.tag)
}
