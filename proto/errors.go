package proto

// Framing violations are unrecoverable: once a frame fails to parse,
// the byte stream can no longer be trusted and the caller must discard
// the connection or resynchronize by other means. The fixed error
// values below describe every way a frame can be rejected.

type protocolError string

func (e protocolError) Error() string { return "9p2000: " + string(e) }

var (
	// ErrTruncatedHeader is returned by ParseHeader when the buffer
	// holds fewer than HeaderSize bytes.
	ErrTruncatedHeader = protocolError("ill-formed message header: not enough data to read a header")

	// ErrFrameTooShort is returned when the declared message size is
	// smaller than the header itself.
	ErrFrameTooShort = protocolError("ill-formed message: declared frame size less than header")

	// ErrFrameTooBig is returned when the declared message size
	// exceeds the maximum negotiated for the session.
	ErrFrameTooBig = protocolError("ill-formed message: declared frame size greater than negotiated one")

	// ErrUnsupportedType is returned for type codes outside the set
	// of 9P2000 and 9P2000.e messages, and for the reserved Terror.
	ErrUnsupportedType = protocolError("ill-formed message: unsupported message type")

	// ErrNotEnoughData is returned when a message payload is shorter
	// than its declared frame size, or by a Decoder read that runs
	// past the end of its buffer.
	ErrNotEnoughData = protocolError("ill-formed message: declared frame size larger than message data received")

	// ErrTooMuchData is returned when the buffer holds more data
	// than the declared frame size accounts for.
	ErrTooMuchData = protocolError("ill-formed message: declared frame size less than message data received")

	// ErrMaxWElem is returned when a walk path or an Rwalk qid list
	// holds more than MaxWElem elements.
	ErrMaxWElem = protocolError("maximum walk elements exceeded")

	// ErrBufferOverflow is returned by an Encoder or a message
	// builder when the destination buffer is too small for the data
	// being written. The buffer contents are invalid afterwards.
	ErrBufferOverflow = protocolError("message does not fit into the destination buffer")
)
