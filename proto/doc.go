// Package proto provides low-level routines for parsing and producing
// 9P2000 messages, including the 9P2000.e session extension.
//
// The proto package is to be used for building higher-level 9P2000
// libraries. It is a pure protocol engine: it does not open sockets,
// perform I/O, or implement file system semantics. Messages are parsed
// from and encoded into caller-supplied buffers, and the parsing
// routines make very few assumptions or decisions, so that the package
// may be used for a wide variety of higher-level packages.
//
// To minimize allocations, parsed messages do not copy their payloads.
// String and data fields are views into the buffer the message was
// parsed from, and remain valid only for the lifetime of that buffer.
// Callers must not reuse or mutate a parse buffer until they are done
// with every field of the message decoded from it.
package proto
