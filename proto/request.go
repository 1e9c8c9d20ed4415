package proto

import "fmt"

// A Request is a message sent by a 9P client (a T-message). Request
// is a closed sum over the payload types below; the parser returns
// exactly one variant per supported type code.
type Request interface {
	// MsgType returns the type code stamped into the frame header.
	MsgType() MsgType

	request()
}

// The version request negotiates the protocol version and message
// size to be used on the connection and initializes the connection
// for I/O. It must be the first message sent on the connection, and
// the client cannot issue any further requests until it has received
// the Rversion reply. It is of the form
//
// 	size[4] Tversion tag[2] msize[4] version[s]
type Tversion struct {
	// The maximum frame length, in bytes, that the client will ever
	// generate or expect to receive in a single 9P message.
	Msize uint32

	// The protocol version the client supports. The string must
	// always begin with the two characters "9P".
	Version []byte
}

// The Tauth message is used to authenticate users on a connection.
// It is of the form
//
// 	size[4] Tauth tag[2] afid[4] uname[s] aname[s]
//
// The client can use I/O operations on afid to authenticate itself;
// the authentication protocol used is outside the scope of 9P.
type Tauth struct {
	Afid  Fid    // new fid to be established for authentication
	Uname []byte // user identified by the message
	Aname []byte // file tree to access
}

// When the response to a request is no longer needed, a Tflush
// request is sent to the server to purge the pending response. It is
// of the form
//
// 	size[4] Tflush tag[2] oldtag[2]
type Tflush struct {
	Oldtag Tag // tag of the message to abort
}

// The attach message serves as a fresh introduction from a user on
// the client machine to the server. It is of the form
//
// 	size[4] Tattach tag[2] fid[4] afid[4] uname[s] aname[s]
//
// The afid must have been established by a previous Tauth request, or
// be NoFid if the client does not wish to authenticate.
type Tattach struct {
	Fid   Fid    // fid to use as the root of the file tree
	Afid  Fid    // fid established by a previous Tauth, or NoFid
	Uname []byte // user name; all actions are performed as this user
	Aname []byte // file tree to attach to
}

// A Twalk message is used to descend a directory hierarchy, changing
// the file associated with newfid to the file reached by following
// path from fid. It is of the form
//
// 	size[4] Twalk tag[2] fid[4] newfid[4] nwname[2] nwname*(wname[s])
type Twalk struct {
	Fid    Fid      // directory to start the walk from
	Newfid Fid      // proposed fid for the walk result
	Path   WalkPath // path elements to descend, at most MaxWElem
}

// The open request asks the file server to check permissions and
// prepare a fid for I/O with subsequent read and write messages. It
// is of the form
//
// 	size[4] Topen tag[2] fid[4] mode[1]
type Topen struct {
	Fid  Fid      // file to open, from a previous walk or attach
	Mode OpenMode // type of I/O requested
}

// The create request asks the file server to create a new file with
// the supplied name in the directory represented by fid, which
// requires write permission in the directory. The owner of the file
// is the implied user of the request. It is of the form
//
// 	size[4] Tcreate tag[2] fid[4] name[s] perm[4] mode[1]
type Tcreate struct {
	Fid  Fid      // directory the file is created in
	Name []byte   // name of the new file
	Perm uint32   // permissions for the new file
	Mode OpenMode // mode the file is opened in once created
}

// The read request asks for count bytes of data from the file, which
// must be opened for reading, starting offset bytes after the
// beginning of the file. It is of the form
//
// 	size[4] Tread tag[2] fid[4] offset[8] count[4]
type Tread struct {
	Fid    Fid
	Offset uint64
	Count  uint32
}

// The write request asks that count bytes of data be recorded in the
// file, which must be opened for writing, starting offset bytes after
// the beginning of the file. It is of the form
//
// 	size[4] Twrite tag[2] fid[4] offset[8] count[4] data[count]
type Twrite struct {
	Fid    Fid
	Offset uint64
	Data   []byte
}

// The clunk request informs the file server that the current file is
// no longer needed by the client. It is of the form
//
// 	size[4] Tclunk tag[2] fid[4]
type Tclunk struct {
	Fid Fid
}

// The remove request asks the file server both to remove the file
// represented by fid and to clunk the fid, even if the remove fails.
// It is of the form
//
// 	size[4] Tremove tag[2] fid[4]
type Tremove struct {
	Fid Fid
}

// The stat transaction inquires about the file identified by fid.
// It is of the form
//
// 	size[4] Tstat tag[2] fid[4]
type Tstat struct {
	Fid Fid
}

// A request to update the stat fields of a file. It is of the form
//
// 	size[4] Twstat tag[2] fid[4] stat[n]
type Twstat struct {
	Fid  Fid
	Stat Stat
}

// A Tsession request asks to re-establish a previous session after a
// connection loss (9P2000.e). It is of the form
//
// 	size[4] Tsession tag[2] key[8]
type Tsession struct {
	Key [8]byte // key of the previously established session
}

// A Tsread request reads the entire contents of the file named by
// path, relative to fid, in a single transaction (9P2000.e). It is of
// the form
//
// 	size[4] Tsread tag[2] fid[4] nwname[2] nwname*(wname[s])
type Tsread struct {
	Fid  Fid      // root directory the path is walked from
	Path WalkPath // path to the file to read
}

// A Tswrite request replaces the entire contents of the file named by
// path, relative to fid, in a single transaction (9P2000.e). It is of
// the form
//
// 	size[4] Tswrite tag[2] fid[4] nwname[2] nwname*(wname[s]) count[4] data[count]
type Tswrite struct {
	Fid  Fid
	Path WalkPath
	Data []byte
}

func (Tversion) MsgType() MsgType { return MsgTversion }
func (Tauth) MsgType() MsgType    { return MsgTauth }
func (Tflush) MsgType() MsgType   { return MsgTflush }
func (Tattach) MsgType() MsgType  { return MsgTattach }
func (Twalk) MsgType() MsgType    { return MsgTwalk }
func (Topen) MsgType() MsgType    { return MsgTopen }
func (Tcreate) MsgType() MsgType  { return MsgTcreate }
func (Tread) MsgType() MsgType    { return MsgTread }
func (Twrite) MsgType() MsgType   { return MsgTwrite }
func (Tclunk) MsgType() MsgType   { return MsgTclunk }
func (Tremove) MsgType() MsgType  { return MsgTremove }
func (Tstat) MsgType() MsgType    { return MsgTstat }
func (Twstat) MsgType() MsgType   { return MsgTwstat }
func (Tsession) MsgType() MsgType { return MsgTsession }
func (Tsread) MsgType() MsgType   { return MsgTsread }
func (Tswrite) MsgType() MsgType  { return MsgTswrite }

func (Tversion) request() {}
func (Tauth) request()    {}
func (Tflush) request()   {}
func (Tattach) request()  {}
func (Twalk) request()    {}
func (Topen) request()    {}
func (Tcreate) request()  {}
func (Tread) request()    {}
func (Twrite) request()   {}
func (Tclunk) request()   {}
func (Tremove) request()  {}
func (Tstat) request()    {}
func (Twstat) request()   {}
func (Tsession) request() {}
func (Tsread) request()   {}
func (Tswrite) request()  {}

func (m Tversion) String() string {
	return fmt.Sprintf("Tversion msize=%d version=%q", m.Msize, m.Version)
}

func (m Tauth) String() string {
	return fmt.Sprintf("Tauth afid=%x uname=%q aname=%q", m.Afid, m.Uname, m.Aname)
}

func (m Tflush) String() string { return fmt.Sprintf("Tflush oldtag=%x", m.Oldtag) }

func (m Tattach) String() string {
	return fmt.Sprintf("Tattach fid=%x afid=%x uname=%q aname=%q",
		m.Fid, m.Afid, m.Uname, m.Aname)
}

func (m Twalk) String() string {
	return fmt.Sprintf("Twalk fid=%x newfid=%x %q", m.Fid, m.Newfid, m.Path.String())
}

func (m Topen) String() string {
	return fmt.Sprintf("Topen fid=%x mode=%#o", m.Fid, uint8(m.Mode))
}

func (m Tcreate) String() string {
	return fmt.Sprintf("Tcreate fid=%x name=%q perm=%o mode=%#o",
		m.Fid, m.Name, m.Perm, uint8(m.Mode))
}

func (m Tread) String() string {
	return fmt.Sprintf("Tread fid=%d offset=%d count=%d", m.Fid, m.Offset, m.Count)
}

func (m Twrite) String() string {
	return fmt.Sprintf("Twrite fid=%x offset=%d count=%d", m.Fid, m.Offset, len(m.Data))
}

func (m Tclunk) String() string  { return fmt.Sprintf("Tclunk fid=%x", m.Fid) }
func (m Tremove) String() string { return fmt.Sprintf("Tremove fid=%x", m.Fid) }
func (m Tstat) String() string   { return fmt.Sprintf("Tstat fid=%x", m.Fid) }

func (m Twstat) String() string {
	return fmt.Sprintf("Twstat fid=%x stat=%q", m.Fid, m.Stat)
}

func (m Tsession) String() string { return fmt.Sprintf("Tsession key=%x", m.Key) }

func (m Tsread) String() string {
	return fmt.Sprintf("Tsread fid=%x %q", m.Fid, m.Path.String())
}

func (m Tswrite) String() string {
	return fmt.Sprintf("Tswrite fid=%x %q count=%d", m.Fid, m.Path.String(), len(m.Data))
}

func parseTversion(d *Decoder) (Request, error) {
	var m Tversion
	m.Msize = d.Read32()
	m.Version = d.ReadString()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTauth(d *Decoder) (Request, error) {
	var m Tauth
	m.Afid = Fid(d.Read32())
	m.Uname = d.ReadString()
	m.Aname = d.ReadString()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTflush(d *Decoder) (Request, error) {
	var m Tflush
	m.Oldtag = Tag(d.Read16())
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTattach(d *Decoder) (Request, error) {
	var m Tattach
	m.Fid = Fid(d.Read32())
	m.Afid = Fid(d.Read32())
	m.Uname = d.ReadString()
	m.Aname = d.ReadString()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTwalk(d *Decoder) (Request, error) {
	var m Twalk
	m.Fid = Fid(d.Read32())
	m.Newfid = Fid(d.Read32())
	m.Path = d.ReadWalkPath()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTopen(d *Decoder) (Request, error) {
	var m Topen
	m.Fid = Fid(d.Read32())
	m.Mode = OpenMode(d.Read8())
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTcreate(d *Decoder) (Request, error) {
	var m Tcreate
	m.Fid = Fid(d.Read32())
	m.Name = d.ReadString()
	m.Perm = d.Read32()
	m.Mode = OpenMode(d.Read8())
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTread(d *Decoder) (Request, error) {
	var m Tread
	m.Fid = Fid(d.Read32())
	m.Offset = d.Read64()
	m.Count = d.Read32()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTwrite(d *Decoder) (Request, error) {
	var m Twrite
	m.Fid = Fid(d.Read32())
	m.Offset = d.Read64()
	m.Data = d.ReadData()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTclunk(d *Decoder) (Request, error) {
	var m Tclunk
	m.Fid = Fid(d.Read32())
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTremove(d *Decoder) (Request, error) {
	var m Tremove
	m.Fid = Fid(d.Read32())
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTstat(d *Decoder) (Request, error) {
	var m Tstat
	m.Fid = Fid(d.Read32())
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTwstat(d *Decoder) (Request, error) {
	var m Twstat
	m.Fid = Fid(d.Read32())
	m.Stat = d.ReadStat()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTsession(d *Decoder) (Request, error) {
	var m Tsession
	for i := range m.Key {
		m.Key[i] = d.Read8()
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTsread(d *Decoder) (Request, error) {
	var m Tsread
	m.Fid = Fid(d.Read32())
	m.Path = d.ReadWalkPath()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseTswrite(d *Decoder) (Request, error) {
	var m Tswrite
	m.Fid = Fid(d.Read32())
	m.Path = d.ReadWalkPath()
	m.Data = d.ReadData()
	if err := d.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
