package proto

import "fmt"

// A Response is a message sent by a 9P server (an R-message).
// Response is a closed sum over the payload types below.
type Response interface {
	// MsgType returns the type code stamped into the frame header.
	MsgType() MsgType

	response()
}

// An Rversion reply is sent in response to a Tversion request. It
// contains the version of the protocol that the server has chosen,
// and the maximum size of all successive messages. It is of the form
//
// 	size[4] Rversion tag[2] msize[4] version[s]
type Rversion struct {
	// The maximum frame size the server accepts; must be equal to
	// or less than the maximum offered in the Tversion request.
	Msize uint32

	// The protocol version chosen by the server. If the server does
	// not understand the offered version, Version is "unknown"; the
	// server may also answer with an earlier protocol version than
	// the one offered.
	Version []byte
}

// Servers that require authentication reply to a Tauth request with
// an Rauth message. It is of the form
//
// 	size[4] Rauth tag[2] aqid[13]
type Rauth struct {
	Aqid Qid // qid of the authentication file; of type QTAUTH
}

// The Rattach message contains a server's reply to a Tattach request.
// The returned qid is associated with the fid of the request and
// names the root directory of the attached file tree. It is of the
// form
//
// 	size[4] Rattach tag[2] qid[13]
type Rattach struct {
	Qid Qid
}

// The Rerror message (there is no Terror) is used to return an error
// string describing the failure of a transaction. It is of the form
//
// 	size[4] Rerror tag[2] ename[s]
type Rerror struct {
	Ename []byte // description of the error
}

// An Rflush message is the answer to a Tflush request. It has no
// payload.
type Rflush struct{}

// An Rwalk message contains a server's reply to a successful Twalk
// request, one qid per walked path element. It is of the form
//
// 	size[4] Rwalk tag[2] nwqid[2] nwqid*(wqid[13])
type Rwalk struct {
	// Nwqid is the number of valid entries at the front of Wqid. It
	// must be equal to or less than the nwname of the corresponding
	// Twalk request; only when the two are equal is newfid
	// established.
	Nwqid uint16

	// Qid values of each path element walked, up to the first
	// failure.
	Wqid [MaxWElem]Qid
}

// Qids returns the valid prefix of the walked qids.
func (m Rwalk) Qids() []Qid { return m.Wqid[:m.Nwqid] }

// An Ropen message is the server's reply to a successful Topen
// request. It is of the form
//
// 	size[4] Ropen tag[2] qid[13] iounit[4]
type Ropen struct {
	Qid Qid // qid of the opened file

	// If not zero, iounit is the number of bytes guaranteed to be
	// transferred in a single read or write without being broken
	// into multiple 9P messages.
	Iounit uint32
}

// An Rcreate message is the server's reply to a successful Tcreate
// request. It is of the form
//
// 	size[4] Rcreate tag[2] qid[13] iounit[4]
type Rcreate struct {
	Qid    Qid
	Iounit uint32
}

// The Rread message returns the bytes requested by a Tread message.
// It is of the form
//
// 	size[4] Rread tag[2] count[4] data[count]
type Rread struct {
	Data []byte // view into the parse buffer
}

// The Rwrite message reports the number of bytes recorded by a Twrite
// request. It is of the form
//
// 	size[4] Rwrite tag[2] count[4]
type Rwrite struct {
	Count uint32
}

// Rclunk, Rremove and Rwstat acknowledge their requests and carry no
// payload.
type (
	Rclunk  struct{}
	Rremove struct{}
	Rwstat  struct{}
)

// An Rstat message carries the directory entry of the file named by a
// Tstat request, wrapped in an outer two-byte count. It is of the
// form
//
// 	size[4] Rstat tag[2] n[2] stat[n]
type Rstat struct {
	Stat Stat
}

// An Rsession message acknowledges a Tsession request (9P2000.e). It
// has no payload.
type Rsession struct{}

// An Rsread message returns the whole file contents requested by a
// Tsread request (9P2000.e). It has the same layout as Rread.
type Rsread struct {
	Data []byte
}

// An Rswrite message reports the number of bytes recorded by a
// Tswrite request (9P2000.e). It has the same layout as Rwrite.
type Rswrite struct {
	Count uint32
}

func (Rversion) MsgType() MsgType { return MsgRversion }
func (Rauth) MsgType() MsgType    { return MsgRauth }
func (Rattach) MsgType() MsgType  { return MsgRattach }
func (Rerror) MsgType() MsgType   { return MsgRerror }
func (Rflush) MsgType() MsgType   { return MsgRflush }
func (Rwalk) MsgType() MsgType    { return MsgRwalk }
func (Ropen) MsgType() MsgType    { return MsgRopen }
func (Rcreate) MsgType() MsgType  { return MsgRcreate }
func (Rread) MsgType() MsgType    { return MsgRread }
func (Rwrite) MsgType() MsgType   { return MsgRwrite }
func (Rclunk) MsgType() MsgType   { return MsgRclunk }
func (Rremove) MsgType() MsgType  { return MsgRremove }
func (Rstat) MsgType() MsgType    { return MsgRstat }
func (Rwstat) MsgType() MsgType   { return MsgRwstat }
func (Rsession) MsgType() MsgType { return MsgRsession }
func (Rsread) MsgType() MsgType   { return MsgRsread }
func (Rswrite) MsgType() MsgType  { return MsgRswrite }

func (Rversion) response() {}
func (Rauth) response()    {}
func (Rattach) response()  {}
func (Rerror) response()   {}
func (Rflush) response()   {}
func (Rwalk) response()    {}
func (Ropen) response()    {}
func (Rcreate) response()  {}
func (Rread) response()    {}
func (Rwrite) response()   {}
func (Rclunk) response()   {}
func (Rremove) response()  {}
func (Rstat) response()    {}
func (Rwstat) response()   {}
func (Rsession) response() {}
func (Rsread) response()   {}
func (Rswrite) response()  {}

func (m Rversion) String() string {
	return fmt.Sprintf("Rversion msize=%d version=%q", m.Msize, m.Version)
}

func (m Rauth) String() string   { return fmt.Sprintf("Rauth aqid=%q", m.Aqid) }
func (m Rattach) String() string { return fmt.Sprintf("Rattach qid=%q", m.Qid) }
func (m Rerror) String() string  { return fmt.Sprintf("Rerror ename=%q", m.Ename) }
func (Rflush) String() string    { return "Rflush" }

func (m Rwalk) String() string {
	return fmt.Sprintf("Rwalk nwqid=%d", m.Nwqid)
}

func (m Ropen) String() string {
	return fmt.Sprintf("Ropen qid=%q iounit=%d", m.Qid, m.Iounit)
}

func (m Rcreate) String() string {
	return fmt.Sprintf("Rcreate qid=%q iounit=%d", m.Qid, m.Iounit)
}

func (m Rread) String() string  { return fmt.Sprintf("Rread count=%d", len(m.Data)) }
func (m Rwrite) String() string { return fmt.Sprintf("Rwrite count=%d", m.Count) }
func (Rclunk) String() string   { return "Rclunk" }
func (Rremove) String() string  { return "Rremove" }
func (m Rstat) String() string  { return "Rstat " + m.Stat.String() }
func (Rwstat) String() string   { return "Rwstat" }
func (Rsession) String() string { return "Rsession" }

func (m Rsread) String() string  { return fmt.Sprintf("Rsread count=%d", len(m.Data)) }
func (m Rswrite) String() string { return fmt.Sprintf("Rswrite count=%d", m.Count) }

func parseRversion(d *Decoder) (Response, error) {
	var m Rversion
	m.Msize = d.Read32()
	m.Version = d.ReadString()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRauth(d *Decoder) (Response, error) {
	var m Rauth
	m.Aqid = d.ReadQid()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRattach(d *Decoder) (Response, error) {
	var m Rattach
	m.Qid = d.ReadQid()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRerror(d *Decoder) (Response, error) {
	var m Rerror
	m.Ename = d.ReadString()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRwalk(d *Decoder) (Response, error) {
	var m Rwalk
	m.Nwqid = d.Read16()
	if err := d.Err(); err != nil {
		return nil, err
	}
	if m.Nwqid > MaxWElem {
		return nil, ErrMaxWElem
	}
	for i := uint16(0); i < m.Nwqid; i++ {
		m.Wqid[i] = d.ReadQid()
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRopen(d *Decoder) (Response, error) {
	var m Ropen
	m.Qid = d.ReadQid()
	m.Iounit = d.Read32()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRcreate(d *Decoder) (Response, error) {
	var m Rcreate
	m.Qid = d.ReadQid()
	m.Iounit = d.Read32()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRread(d *Decoder) (Response, error) {
	var m Rread
	m.Data = d.ReadData()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRwrite(d *Decoder) (Response, error) {
	var m Rwrite
	m.Count = d.Read32()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRstat(d *Decoder) (Response, error) {
	var m Rstat
	d.Read16() // outer count; the stat carries its own size
	m.Stat = d.ReadStat()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRsread(d *Decoder) (Response, error) {
	var m Rsread
	m.Data = d.ReadData()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseRswrite(d *Decoder) (Response, error) {
	var m Rswrite
	m.Count = d.Read32()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
