package cobs

import (
	"bytes"
)

// FrameBuilder makes it easier to build up the content of several payloads
// that are then framed back-to-back into one output buffer, for writers that
// flush many messages per call.  To build up an individual payload, just use
// the FrameBuilder as a bytes.Buffer.  Once a payload is done, call
// FinishFrame.  Once you are done with all payloads, call Encode to frame
// everything.
type FrameBuilder struct {
	bytes.Buffer

	// Codec selects the wire format; the zero value is plain COBS with the
	// default sentinel.
	Codec Codec

	start int
	spans []span
}

type span struct {
	start, end int
}

// FinishFrame indicates that you have finished constructing an individual
// payload.  The payload is not encoded until you call Encode, which encodes
// _all_ of the payloads added to the builder.
func (fb *FrameBuilder) FinishFrame() {
	end := fb.Len()
	fb.spans = append(fb.spans, span{fb.start, end})
	fb.start = end
}

// Encode frames all of the payloads in this builder into an output buffer,
// each terminated by the codec's sentinel.
func (fb *FrameBuilder) Encode(dest *bytes.Buffer) {
	data := fb.Bytes()
	for _, s := range fb.spans {
		fb.Codec.EncodeTo(data[s.start:s.end], dest)
	}
}
