package cobs

import (
	"bytes"
	"errors"
)

// Sentinel is the default frame delimiter value.
const Sentinel = byte(0x00)

var (
	// ErrMalformedFrame is the error returned when a byte sequence cannot
	// represent a well-formed frame: the sentinel shows up while a group
	// still owes data bytes, or a frame terminates without containing a
	// single group.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrIncompleteFrame is the error returned when the input ends before
	// the frame's terminating sentinel.
	ErrIncompleteFrame = errors.New("frame incomplete")

	// ErrTrailingData is the error returned by Decode when bytes remain
	// after the frame's terminating sentinel.
	ErrTrailingData = errors.New("data after frame terminator")
)

type config struct {
	sentinel byte
	reduced  bool
}

// An Option adjusts the wire format used by a Codec or Decoder.
type Option func(*config)

// WithSentinel selects the frame delimiter value.  Encoder and decoder must
// agree on the sentinel for frames to round-trip.
func WithSentinel(sentinel byte) Option {
	return func(c *config) { c.sentinel = sentinel }
}

// WithReduced enables the COBS/R variant, which replaces the final group's
// code byte with the frame's final data byte whenever that byte is large
// enough, saving one byte on the wire.
func WithReduced(reduced bool) Option {
	return func(c *config) { c.reduced = reduced }
}

// maxCode returns the highest value a group's code byte can take for the
// given sentinel.  A full group always holds 254 data bytes.
func maxCode(sentinel byte) byte {
	if sentinel == 0xff {
		return 0xfe
	}
	return 0xff
}

// codeFor returns the code byte for a group of n data bytes.  Code values
// skip over the sentinel so that it can never appear inside a frame; for the
// default sentinel this is the classic n+1.
func codeFor(n int, sentinel byte) byte {
	if sentinel == 0 || n >= int(sentinel) {
		return byte(n + 1)
	}
	return byte(n)
}

// groupLen is the inverse of codeFor: the number of data bytes implied by a
// code byte.
func groupLen(code byte, sentinel byte) int {
	if sentinel == 0 || code > sentinel {
		return int(code) - 1
	}
	return int(code)
}

// findSentinel looks for the sentinel within the first maxRun bytes of
// payload.  If we find it, we return its index within payload.  If not, we
// return the length of the subset of payload that we looked in.  (That is,
// the minimum of maxRun and the actual length of payload.)
func findSentinel(payload []byte, maxRun int, sentinel byte) int {
	if len(payload) < maxRun {
		maxRun = len(payload)
	} else {
		payload = payload[:maxRun]
	}
	if i := bytes.IndexByte(payload, sentinel); i != -1 {
		return i
	}
	return maxRun
}

// A Codec encodes payloads into sentinel-free frames and decodes single
// complete frames.  The zero value uses the default sentinel and plain COBS.
// A Codec is stateless and safe for concurrent use.
type Codec struct {
	config
}

// New returns a Codec configured by opts.
func New(opts ...Option) Codec {
	var c Codec
	for _, opt := range opts {
		opt(&c.config)
	}
	return c
}

// EncodeTo writes the frame for payload into buf: a sequence of
// (code, data) groups followed by exactly one sentinel byte.  The sentinel
// value does not occur anywhere else in the frame.  Encoding cannot fail.
func (c Codec) EncodeTo(payload []byte, buf *bytes.Buffer) {
	s := c.sentinel
	maxRun := groupLen(maxCode(s), s)
	for {
		run := findSentinel(payload, maxRun, s)
		if run == maxRun {
			// Full group, no byte removed.
			buf.WriteByte(maxCode(s))
			buf.Write(payload[:run])
			payload = payload[run:]
			continue
		}
		if run < len(payload) {
			// Group ends at a sentinel occurrence, which is dropped.
			buf.WriteByte(codeFor(run, s))
			buf.Write(payload[:run])
			payload = payload[run+1:]
			continue
		}
		// Final group, ends at the payload boundary.
		code := codeFor(run, s)
		if c.reduced && run > 0 && payload[run-1] >= code {
			code = payload[run-1]
			payload = payload[:run-1]
		}
		buf.WriteByte(code)
		buf.Write(payload)
		buf.WriteByte(s)
		return
	}
}

// Encode returns the frame for payload, terminating sentinel included.
func (c Codec) Encode(payload []byte) []byte {
	// Reserve room for the code bytes, the terminal group and the sentinel.
	buf := bytes.NewBuffer(make([]byte, 0, len(payload)+(len(payload)+253)/254+2))
	c.EncodeTo(payload, buf)
	return buf.Bytes()
}

// Decode decodes a single complete frame: data must hold exactly one frame,
// terminating sentinel included.  It returns ErrIncompleteFrame if the
// terminator is missing and ErrTrailingData if bytes follow it.  Use a
// Decoder instead when frames arrive as a chunked stream.
func (c Codec) Decode(data []byte) ([]byte, error) {
	d := Decoder{config: c.config}
	payloads, err := d.Decode(data)
	if err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, ErrIncompleteFrame
	}
	if len(payloads) > 1 || d.Pending() {
		return nil, ErrTrailingData
	}
	return payloads[0], nil
}

// Encode returns the frame for payload using the default sentinel.
func Encode(payload []byte) []byte {
	return Codec{}.Encode(payload)
}

// Decode decodes a single complete frame using the default sentinel.
func Decode(data []byte) ([]byte, error) {
	return Codec{}.Decode(data)
}
