package cobs

import "bytes"

// A Decoder reassembles payloads from a stream of encoded frames.  Feed it
// chunks of wire bytes in arrival order; whenever a frame's terminating
// sentinel is observed the reconstructed payload is returned, and any
// residual partial frame is buffered internally, so chunk boundaries do not
// have to line up with frame boundaries.
//
// A Decoder owns its buffered state exclusively and must not be used from
// multiple goroutines without external synchronization; use one Decoder per
// stream.  The zero value is ready to use with the default sentinel.
type Decoder struct {
	config
	payload   []byte // accumulated payload of the frame in progress
	remaining int    // data bytes still owed to the current group
	code      byte   // raw code byte of the current group
	inFrame   bool   // a group has been read since the last terminator
	full      bool   // the previous group was full, so no sentinel was dropped
}

// NewDecoder returns a Decoder configured by opts.
func NewDecoder(opts ...Option) *Decoder {
	d := new(Decoder)
	for _, opt := range opts {
		opt(&d.config)
	}
	return d
}

// Decode consumes one chunk of the stream and returns every payload whose
// terminating sentinel was observed, in stream order.  A chunk with no
// complete frame returns no payloads and only updates internal state.
//
// Decode returns ErrMalformedFrame when the sentinel shows up while a group
// still owes data bytes (a truncated frame, unless COBS/R is enabled), or
// when a frame terminates without containing a single group.  On error the
// partial frame is dropped, payloads completed earlier in the same chunk are
// still returned, and the remainder of the chunk — the offending sentinel
// included — is discarded.  The decoder is left at a frame boundary, so the
// caller can abort, or resume feeding input starting after the next sentinel
// in its stream.
func (d *Decoder) Decode(chunk []byte) ([][]byte, error) {
	var payloads [][]byte
	for len(chunk) > 0 {
		if d.remaining > 0 {
			n := d.remaining
			if n > len(chunk) {
				n = len(chunk)
			}
			if i := bytes.IndexByte(chunk[:n], d.sentinel); i >= 0 {
				// The terminator arrived while this group still owes data.
				// COBS/R stores the frame's final data byte as the group's
				// code; a plain COBS frame is truncated here.
				if !d.reduced {
					d.Reset()
					return payloads, ErrMalformedFrame
				}
				d.payload = append(d.payload, chunk[:i]...)
				d.payload = append(d.payload, d.code)
				payloads = append(payloads, d.finishFrame())
				chunk = chunk[i+1:]
				continue
			}
			d.payload = append(d.payload, chunk[:n]...)
			d.remaining -= n
			chunk = chunk[n:]
			continue
		}

		c := chunk[0]
		chunk = chunk[1:]
		if c == d.sentinel {
			if !d.inFrame {
				// A frame with zero groups; the encoder never produces one.
				return payloads, ErrMalformedFrame
			}
			payloads = append(payloads, d.finishFrame())
			continue
		}

		// Next group's code byte.  Restore the sentinel the encoder dropped
		// at the end of the previous group, unless that group was full.
		if d.inFrame && !d.full {
			d.payload = append(d.payload, d.sentinel)
		}
		d.inFrame = true
		d.full = c == maxCode(d.sentinel)
		d.code = c
		d.remaining = groupLen(c, d.sentinel)
	}
	return payloads, nil
}

// Pending reports whether the decoder holds a partially received frame.
func (d *Decoder) Pending() bool {
	return d.inFrame
}

// Reset discards any buffered partial frame and returns the decoder to a
// frame boundary, for abandoning a stream mid-frame before reusing the
// decoder.  Decode resets the decoder itself when it reports an error.
func (d *Decoder) Reset() {
	d.payload = nil
	d.remaining = 0
	d.code = 0
	d.inFrame = false
	d.full = false
}

func (d *Decoder) finishFrame() []byte {
	p := d.payload
	if p == nil {
		p = []byte{}
	}
	d.payload = nil
	d.remaining = 0
	d.code = 0
	d.inFrame = false
	d.full = false
	return p
}
