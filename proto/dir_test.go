package proto

import (
	"fmt"
	"testing"
)

func listingStats(n int) []Stat {
	stats := make([]Stat, n)
	for i := range stats {
		s := Stat{
			Qid:    Qid{Type: QTFILE, Version: 1, Path: uint64(i)},
			Mode:   0644,
			Length: uint64(100 * i),
			Name:   []byte(fmt.Sprintf("file%d", i)),
			UID:    []byte("none"),
			GID:    []byte("none"),
			MUID:   []byte("none"),
		}
		s.Size = uint16(SizeofStat(s) - 2)
		stats[i] = s
	}
	return stats
}

func packListing(t *testing.T, stats []Stat, count uint32, offset uint64) (*DirListingWriter, []byte) {
	t.Helper()
	buf := make([]byte, DefaultMaxSize)
	enc := NewEncoder(buf)
	w := NewDirListingWriter(&enc, count, offset)
	for _, s := range stats {
		more, err := w.Encode(s)
		if err != nil {
			t.Fatal(err)
		}
		if !more {
			break
		}
	}
	return w, enc.Bytes()
}

func TestDirListingFromStart(t *testing.T) {
	stats := listingStats(5)
	w, packed := packListing(t, stats, DefaultMaxSize, 0)

	var total uint32
	for _, s := range stats {
		total += uint32(SizeofStat(s))
	}
	if w.BytesEncoded() != total {
		t.Fatalf("encoded %d bytes, want %d", w.BytesEncoded(), total)
	}
	if w.BytesTraversed() != uint64(total) {
		t.Fatalf("traversed %d bytes, want %d", w.BytesTraversed(), total)
	}

	// The packed stream must parse back entry for entry.
	d := NewDecoder(packed)
	for i := range stats {
		got := d.ReadStat()
		if err := d.Err(); err != nil {
			t.Fatalf("entry %d: %v", i, err)
		}
		if !got.Equal(stats[i]) {
			t.Errorf("entry %d: got %s, want %s", i, got, stats[i])
		}
	}
	if d.Remaining() != 0 {
		t.Errorf("%d trailing bytes in packed listing", d.Remaining())
	}
}

func TestDirListingOffset(t *testing.T) {
	stats := listingStats(5)
	skip := uint64(SizeofStat(stats[0]) + SizeofStat(stats[1]))

	w, packed := packListing(t, stats, DefaultMaxSize, skip)
	if w.BytesTraversed() <= skip {
		t.Fatalf("traversed %d bytes, want more than the %d skipped", w.BytesTraversed(), skip)
	}

	d := NewDecoder(packed)
	for i := 2; i < len(stats); i++ {
		got := d.ReadStat()
		if err := d.Err(); err != nil {
			t.Fatalf("entry %d: %v", i, err)
		}
		if !got.Equal(stats[i]) {
			t.Errorf("entry %d: got %s, want %s", i, got, stats[i])
		}
	}
	if d.Remaining() != 0 {
		t.Errorf("%d trailing bytes after the offset window", d.Remaining())
	}
}

func TestDirListingCount(t *testing.T) {
	stats := listingStats(5)

	// Room for the first two entries and one byte more: the third
	// entry must not be emitted, not even partially.
	count := uint32(SizeofStat(stats[0])+SizeofStat(stats[1])) + 1

	w, packed := packListing(t, stats, count, 0)
	if w.BytesEncoded() > count {
		t.Fatalf("encoded %d bytes with count=%d", w.BytesEncoded(), count)
	}
	if want := uint32(SizeofStat(stats[0]) + SizeofStat(stats[1])); w.BytesEncoded() != want {
		t.Fatalf("encoded %d bytes, want %d", w.BytesEncoded(), want)
	}

	d := NewDecoder(packed)
	for i := 0; i < 2; i++ {
		if got := d.ReadStat(); !got.Equal(stats[i]) {
			t.Errorf("entry %d mismatch", i)
		}
	}
	if d.Remaining() != 0 {
		t.Errorf("partial entry leaked into the reply")
	}
}

func TestDirListingStop(t *testing.T) {
	stats := listingStats(2)
	buf := make([]byte, DefaultMaxSize)
	enc := NewEncoder(buf)

	w := NewDirListingWriter(&enc, uint32(SizeofStat(stats[0])), 0)
	if more, err := w.Encode(stats[0]); err != nil || !more {
		t.Fatalf("first entry: more=%v err=%v", more, err)
	}
	if more, err := w.Encode(stats[1]); err != nil || more {
		t.Fatalf("second entry should stop the listing: more=%v err=%v", more, err)
	}
}

// A directory read reply is an Rread whose payload is the packed
// listing; the data length seen by the client is exactly the bytes
// the listing writer produced.
func TestDirListingInRread(t *testing.T) {
	stat := testStat()

	scratch := make([]byte, DefaultMaxSize)
	enc := NewEncoder(scratch)
	w := NewDirListingWriter(&enc, 4096, 0)
	if more, err := w.Encode(stat); err != nil || !more {
		t.Fatalf("encode: more=%v err=%v", more, err)
	}
	if w.BytesEncoded() != uint32(SizeofStat(stat)) {
		t.Fatalf("encoded %d bytes, want %d", w.BytesEncoded(), SizeofStat(stat))
	}

	frame := make([]byte, DefaultMaxSize)
	b := NewResponseBuilder(frame, 1)
	n, err := b.Rread(enc.Bytes())
	if err != nil {
		t.Fatal(err)
	}

	p := NewParser(Config{})
	d := NewDecoder(frame[:n])
	h, err := p.ParseHeader(&d)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.ParseResponse(h, &d)
	if err != nil {
		t.Fatal(err)
	}
	read, ok := resp.(Rread)
	if !ok {
		t.Fatalf("parsed %T, want Rread", resp)
	}
	if len(read.Data) != SizeofStat(stat) {
		t.Fatalf("reply carries %d bytes, want %d", len(read.Data), SizeofStat(stat))
	}

	sd := NewDecoder(read.Data)
	if got := sd.ReadStat(); !got.Equal(stat) {
		t.Errorf("listing entry did not survive the round trip:\ngot  %s\nwant %s", got, stat)
	}
}
