// Command cobs encodes and decodes COBS framed byte streams between standard
// input and standard output.
//
// Usage:
//
//	cobs [-s <sentinel>] [-r] encode
//	cobs [-s <sentinel>] [-r] decode
//
// encode reads standard input as one payload and writes the encoded frame,
// terminating sentinel included.  decode reads encoded frames and writes the
// decoded payloads back-to-back; it fails on malformed input or an
// incomplete trailing frame.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/byteframe/cobs-go/cobs"
)

type context struct {
	opts []cobs.Option
	in   io.Reader
	out  io.Writer
}

type encodeCmd struct{}

func (encodeCmd) Run(ctx *context) error {
	payload, err := io.ReadAll(ctx.in)
	if err != nil {
		return err
	}
	codec := cobs.New(ctx.opts...)
	_, err = ctx.out.Write(codec.Encode(payload))
	return err
}

type decodeCmd struct{}

func (decodeCmd) Run(ctx *context) error {
	dec := cobs.NewDecoder(ctx.opts...)
	buf := make([]byte, 4096)
	for {
		n, err := ctx.in.Read(buf)
		if n > 0 {
			payloads, derr := dec.Decode(buf[:n])
			for _, p := range payloads {
				if _, werr := ctx.out.Write(p); werr != nil {
					return werr
				}
			}
			if derr != nil {
				return derr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if dec.Pending() {
		return cobs.ErrIncompleteFrame
	}
	return nil
}

var cli struct {
	Sentinel uint `short:"s" default:"0" help:"Sentinel byte value (0-255)."`
	Reduced  bool `short:"r" help:"Use the COBS/R reduced encoding."`

	Encode encodeCmd `cmd:"" help:"Encode stdin as one frame on stdout."`
	Decode decodeCmd `cmd:"" help:"Decode frames from stdin to stdout."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("cobs"),
		kong.Description("Encode and decode COBS framed byte streams."))
	if cli.Sentinel > 0xff {
		ctx.Fatalf("sentinel value %d must be in [0, 255]", cli.Sentinel)
	}
	err := ctx.Run(&context{
		opts: []cobs.Option{
			cobs.WithSentinel(byte(cli.Sentinel)),
			cobs.WithReduced(cli.Reduced),
		},
		in:  os.Stdin,
		out: os.Stdout,
	})
	ctx.FatalIfErrorf(err)
}
