/*
Package ninep provides connection-level plumbing for the 9P2000
protocol with the 9P2000.e extension.

The heart of the module is the proto subpackage, a pure wire codec:
it parses framed 9P messages out of byte buffers and encodes them
back, without performing any I/O. Package ninep supplies the thin
transport layer around it: a Server accepts TCP (or TLS) connections,
performs the Tversion/Rversion negotiation, reads and validates
frames, and hands every decoded request to a Handler along with a
ResponseWriter bound to the request's tag.

	fs := ninep.HandlerFunc(func(w *ninep.ResponseWriter, h proto.Header, req proto.Request) {
		switch req.(type) {
		case proto.Tattach:
			w.Rattach(root)
		default:
			w.Rerror("not supported")
		}
	})
	ninep.ListenAndServe(":564", fs)

Requests borrow from the connection's frame buffer: their string and
data fields are valid only until Serve9P returns. Handlers that need
a field longer than that must copy it.

Package ninep does not implement file system semantics: there is no
fid table, no tag bookkeeping and no flush tracking. Those belong to
the layer above, which is expected to be built on top of this one.
*/
package ninep
