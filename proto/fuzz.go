//go:build gofuzz

package proto

// Automated fuzz testing

func Fuzz(data []byte) int {
	p := NewParser(Config{})

	d := NewDecoder(data)
	h, err := p.ParseHeader(&d)
	if err != nil {
		return 0
	}

	rd := d
	if _, err := p.ParseRequest(h, &rd); err == nil {
		return 1
	}
	if _, err := p.ParseResponse(h, &d); err == nil {
		return 1
	}
	return 0
}
