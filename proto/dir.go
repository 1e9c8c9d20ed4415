package proto

// A DirListingWriter packs a stream of Stat structures into a bounded
// region, honoring the offset/count contract of a Tread on a
// directory: the client reads a directory as a packed byte stream,
// advancing by ever larger offsets, and the server must answer each
// read with whole entries only.
//
// The writer measures each entry; entries that end at or before
// offset are skipped without being written, and writing stops before
// the first entry that would push the reply past count bytes.
// A partial entry is never emitted.
//
// 	w := proto.NewDirListingWriter(&enc, count, offset)
// 	for _, stat := range entries {
// 		if more, err := w.Encode(stat); err != nil || !more {
// 			break
// 		}
// 	}
//
// Listing order is the caller's; the writer does not reorder.
type DirListingWriter struct {
	dest      *Encoder
	offset    uint64
	count     uint32
	traversed uint64
	encoded   uint32
}

// NewDirListingWriter returns a writer that skips the first offset
// bytes of the packed stream and encodes at most count bytes into
// dest.
func NewDirListingWriter(dest *Encoder, count uint32, offset uint64) *DirListingWriter {
	return &DirListingWriter{dest: dest, count: count, offset: offset}
}

// Encode considers one directory entry. It returns true while the
// caller should keep going: either the entry fell before offset and
// was skipped, or it was written to the destination. It returns false
// once the next entry can no longer fit in count bytes. A write error
// on the destination is returned as-is.
func (w *DirListingWriter) Encode(stat Stat) (bool, error) {
	m := uint64(SizeofStat(stat))

	if w.traversed+m <= w.offset {
		w.traversed += m
		return true, nil
	}
	if uint64(w.encoded)+m > uint64(w.count) {
		return false, nil
	}

	w.dest.WriteStat(stat)
	if err := w.dest.Err(); err != nil {
		return false, err
	}
	w.traversed += m
	w.encoded += uint32(m)
	return true, nil
}

// BytesTraversed returns the number of packed-stream bytes seen so
// far, counting skipped entries.
func (w *DirListingWriter) BytesTraversed() uint64 { return w.traversed }

// BytesEncoded returns the number of bytes written to the
// destination.
func (w *DirListingWriter) BytesEncoded() uint32 { return w.encoded }
