// Package bpg implements the binary packet-group wire protocol: a
// streaming decoder that reassembles framed AppPackets from an
// arbitrary byte-stream chunking and groups them by group_id, and an
// encoder that writes packets into a caller-provided buffer.
//
// The protocol is transport-agnostic. It does not know about shared
// memory, rendezvous, or any particular link layer; callers feed it
// bytes and drain its callbacks.
package bpg
