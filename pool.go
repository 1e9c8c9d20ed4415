package ninep

import "sync"

var bufPool sync.Pool

// getBuf returns a buffer of at least size bytes, reusing a pooled
// one when possible.
func getBuf(size int) []byte {
	if v := bufPool.Get(); v != nil {
		b := v.([]byte)
		if cap(b) >= size {
			return b[:size]
		}
	}
	return make([]byte, size)
}

func putBuf(b []byte) {
	bufPool.Put(b[:cap(b)])
}
