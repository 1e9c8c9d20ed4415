package proto

import (
	"bytes"
	"testing"
)

func TestDecoderPrimitives(t *testing.T) {
	var buf [64]byte
	e := NewEncoder(buf[:])
	e.Write8(0x8f)
	e.Write16(0xbeef)
	e.Write32(0xdeadbeef)
	e.Write64(0x1122334455667788)
	e.WriteString([]byte("styx"))
	e.WriteData([]byte{1, 2, 3})
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}

	d := NewDecoder(e.Bytes())
	if v := d.Read8(); v != 0x8f {
		t.Errorf("Read8 = %#x, want 0x8f", v)
	}
	if v := d.Read16(); v != 0xbeef {
		t.Errorf("Read16 = %#x, want 0xbeef", v)
	}
	if v := d.Read32(); v != 0xdeadbeef {
		t.Errorf("Read32 = %#x, want 0xdeadbeef", v)
	}
	if v := d.Read64(); v != 0x1122334455667788 {
		t.Errorf("Read64 = %#x, want 0x1122334455667788", v)
	}
	if s := d.ReadString(); !bytes.Equal(s, []byte("styx")) {
		t.Errorf("ReadString = %q, want %q", s, "styx")
	}
	if p := d.ReadData(); !bytes.Equal(p, []byte{1, 2, 3}) {
		t.Errorf("ReadData = %v, want [1 2 3]", p)
	}
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	if d.Remaining() != 0 {
		t.Errorf("%d bytes left after reading everything back", d.Remaining())
	}
}

func TestDecoderShortRead(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		read func(d *Decoder)
	}{
		{"uint16", []byte{1}, func(d *Decoder) { d.Read16() }},
		{"uint32", []byte{1, 2, 3}, func(d *Decoder) { d.Read32() }},
		{"uint64", []byte{1, 2, 3, 4, 5, 6, 7}, func(d *Decoder) { d.Read64() }},
		{"string prefix", []byte{5}, func(d *Decoder) { d.ReadString() }},
		{"string body", []byte{5, 0, 'a', 'b'}, func(d *Decoder) { d.ReadString() }},
		{"data body", []byte{9, 0, 0, 0, 'x'}, func(d *Decoder) { d.ReadData() }},
		{"qid", make([]byte, QidSize-1), func(d *Decoder) { d.ReadQid() }},
		{"stat", []byte{40, 0, 1, 0}, func(d *Decoder) { d.ReadStat() }},
		{"walk path", []byte{2, 0, 3, 0, 'u', 's', 'r'}, func(d *Decoder) { d.ReadWalkPath() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.buf)
			tt.read(&d)
			if d.Err() != ErrNotEnoughData {
				t.Fatalf("err = %v, want ErrNotEnoughData", d.Err())
			}
			if d.Remaining() != len(tt.buf) {
				t.Errorf("failed read moved the cursor: %d bytes remaining, want %d",
					d.Remaining(), len(tt.buf))
			}
		})
	}
}

func TestDecoderShortCircuit(t *testing.T) {
	d := NewDecoder([]byte{1, 2})
	d.Read32()
	if d.Err() != ErrNotEnoughData {
		t.Fatalf("err = %v, want ErrNotEnoughData", d.Err())
	}

	// Every read after the first failure is a no-op, even though
	// two bytes are still buffered.
	if v := d.Read16(); v != 0 {
		t.Errorf("Read16 after failure = %#x, want 0", v)
	}
	if d.Remaining() != 2 {
		t.Errorf("reads after failure moved the cursor")
	}
}

func TestDecoderWalkPath(t *testing.T) {
	var buf [128]byte
	e := NewEncoder(buf[:])
	e.WriteWalkPath("usr", "local", "bin")
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}

	d := NewDecoder(e.Bytes())
	path := d.ReadWalkPath()
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	if path.Len() != 3 {
		t.Fatalf("path.Len() = %d, want 3", path.Len())
	}
	want := []string{"usr", "local", "bin"}
	for i, w := range want {
		if got := path.Element(i); string(got) != w {
			t.Errorf("element %d = %q, want %q", i, got, w)
		}
	}
	if s := path.String(); s != "usr/local/bin" {
		t.Errorf("path.String() = %q, want %q", s, "usr/local/bin")
	}
}

func TestDecoderWalkPathTooLong(t *testing.T) {
	elems := make([]string, MaxWElem+1)
	for i := range elems {
		elems[i] = "e"
	}

	// The encoder refuses to produce such a path, so assemble the
	// bytes by hand.
	var buf [128]byte
	e := NewEncoder(buf[:])
	e.Write16(uint16(len(elems)))
	for _, el := range elems {
		e.WriteString([]byte(el))
	}
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}

	d := NewDecoder(e.Bytes())
	d.ReadWalkPath()
	if d.Err() != ErrMaxWElem {
		t.Fatalf("err = %v, want ErrMaxWElem", d.Err())
	}
}

func TestStatRoundTrip(t *testing.T) {
	stat := Stat{
		Type:   1,
		Dev:    31,
		Qid:    Qid{Type: QTFILE, Version: 203, Path: 0x83208},
		Mode:   0644,
		Atime:  1144426853,
		Mtime:  1144426853,
		Length: 492,
		Name:   []byte("georgia"),
		UID:    []byte("root"),
		GID:    []byte("wheel"),
		MUID:   []byte("admin"),
	}
	stat.Size = uint16(SizeofStat(stat) - 2)

	var buf [128]byte
	e := NewEncoder(buf[:])
	e.WriteStat(stat)
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}
	if e.Len() != SizeofStat(stat) {
		t.Errorf("encoded %d bytes, SizeofStat says %d", e.Len(), SizeofStat(stat))
	}

	d := NewDecoder(e.Bytes())
	got := d.ReadStat()
	if err := d.Err(); err != nil {
		t.Fatal(err)
	}
	if !got.Equal(stat) {
		t.Errorf("round trip changed the stat:\ngot  %s\nwant %s", got, stat)
	}
}

func TestEncoderOverflow(t *testing.T) {
	var buf [4]byte
	e := NewEncoder(buf[:])
	e.Write32(42)
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}
	e.Write8(1)
	if e.Err() != ErrBufferOverflow {
		t.Fatalf("err = %v, want ErrBufferOverflow", e.Err())
	}

	// Writes after the first overflow stay no-ops.
	e.Write64(99)
	if e.Len() != 4 {
		t.Errorf("overflowing write moved the cursor to %d", e.Len())
	}
}
