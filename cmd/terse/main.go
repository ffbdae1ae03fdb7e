// Command terse packs a raw binary stream of fixed-width integers into a
// Container file, unpacks one back to raw bytes, and prints a Container's
// header without fully decoding its frames.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/terse-codec/terse/container"
	"github.com/terse-codec/terse/endian"
	"github.com/terse-codec/terse/header"
	"github.com/terse-codec/terse/wireformat"
)

// byteOrder is the raw stream's element layout; pack/unpack only ever
// operate on a little-endian integer stream.
var byteOrder = endian.GetLittleEndianEngine()

var (
	dashType  string
	dashBlock int
	dashMode  string
	dashFrame int
)

func init() {
	flag.StringVar(&dashType, "type", "u16", "element type: i8, u8, i16, u16, i32, u32, i64, u64")
	flag.IntVar(&dashBlock, "block", wireformat.DefaultBlock, "values per encoding block")
	flag.StringVar(&dashMode, "mode", "unsigned", "unsigned frame mode: unsigned, small-unsigned")
	flag.IntVar(&dashFrame, "frame", 0, "values per frame")
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f, args...)
	os.Exit(1)
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	switch args[0] {
	case "pack":
		if len(args) != 3 {
			exitf("usage: terse [-type=u16] [-block=12] [-mode=unsigned] [-frame=256] pack <in> <out>\n")
		}
		pack(args[1], args[2])
	case "unpack":
		if len(args) != 3 {
			exitf("usage: terse unpack <in> <out>\n")
		}
		unpack(args[1], args[2])
	case "info":
		if len(args) != 2 {
			exitf("usage: terse info <in>\n")
		}
		info(args[1])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "    %s [-type=u16] [-block=12] [-mode=unsigned] [-frame=256] pack <in> <out>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        split a raw little-endian integer stream into frames and write a container\n")
	fmt.Fprintf(os.Stderr, "    %s unpack <in> <out>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        parse a container and write its decoded values as a raw stream\n")
	fmt.Fprintf(os.Stderr, "    %s info <in>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        parse a container's header and print a summary\n")
	os.Exit(1)
}

type typeShape struct {
	width  int
	signed bool
}

var typeShapes = map[string]typeShape{
	"i8":  {1, true},
	"u8":  {1, false},
	"i16": {2, true},
	"u16": {2, false},
	"i32": {4, true},
	"u32": {4, false},
	"i64": {8, true},
	"u64": {8, false},
}

func parseMode(s string) wireformat.Mode {
	switch s {
	case "unsigned":
		return wireformat.ModeUnsigned
	case "small-unsigned":
		return wireformat.ModeSmallUnsigned
	default:
		exitf("unknown mode %q\n", s)
		return wireformat.ModeUnsigned
	}
}

func pack(inPath, outPath string) {
	shape, ok := typeShapes[dashType]
	if !ok {
		exitf("unknown type %q\n", dashType)
	}

	raw, err := os.ReadFile(inPath)
	if err != nil {
		exitf("reading %s: %s\n", inPath, err)
	}
	if len(raw)%shape.width != 0 {
		exitf("input length %d is not a multiple of element width %d\n", len(raw), shape.width)
	}

	frameLen := dashFrame
	if frameLen <= 0 {
		frameLen = len(raw) / shape.width
		if frameLen == 0 {
			frameLen = 1
		}
	}

	c := container.New(shape.width*8, dashBlock)
	mode := parseMode(dashMode)

	n := len(raw) / shape.width
	for pos := 0; pos < n; pos += frameLen {
		end := pos + frameLen
		if end > n {
			end = n
		}
		if shape.signed {
			vals := make([]int64, end-pos)
			for i := range vals {
				v, err := endian.ReadSigned(byteOrder, raw, (pos+i)*shape.width, shape.width)
				if err != nil {
					exitf("reading element at %d: %s\n", pos+i, err)
				}
				vals[i] = v
			}
			if err := c.PushBackSigned(vals); err != nil {
				exitf("packing frame at %d: %s\n", pos, err)
			}
		} else {
			vals := make([]uint64, end-pos)
			for i := range vals {
				v, err := endian.ReadUnsigned(byteOrder, raw, (pos+i)*shape.width, shape.width)
				if err != nil {
					exitf("reading element at %d: %s\n", pos+i, err)
				}
				vals[i] = v
			}
			if err := c.PushBackUnsigned(vals, mode); err != nil {
				exitf("packing frame at %d: %s\n", pos, err)
			}
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		exitf("creating %s: %s\n", outPath, err)
	}
	defer out.Close()

	if _, err := c.Write(out); err != nil {
		exitf("writing container: %s\n", err)
	}
}

func unpack(inPath, outPath string) {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		exitf("reading %s: %s\n", inPath, err)
	}

	c, _, err := container.Read(raw)
	if err != nil {
		exitf("parsing container: %s\n", err)
	}

	width := c.ProlixBits() / 8

	out, err := os.Create(outPath)
	if err != nil {
		exitf("creating %s: %s\n", outPath, err)
	}
	defer out.Close()

	if c.Signed() {
		vals, err := c.ProlixAllSigned()
		if err != nil {
			exitf("decoding container: %s\n", err)
		}
		buf := make([]byte, len(vals)*width)
		for i, v := range vals {
			if err := endian.WriteSigned(byteOrder, buf, i*width, width, v); err != nil {
				exitf("writing element %d: %s\n", i, err)
			}
		}
		if _, err := out.Write(buf); err != nil {
			exitf("writing %s: %s\n", outPath, err)
		}
		return
	}

	vals, err := c.ProlixAllUnsigned()
	if err != nil {
		exitf("decoding container: %s\n", err)
	}
	buf := make([]byte, len(vals)*width)
	for i, v := range vals {
		if err := endian.WriteUnsigned(byteOrder, buf, i*width, width, v); err != nil {
			exitf("writing element %d: %s\n", i, err)
		}
	}
	if _, err := out.Write(buf); err != nil {
		exitf("writing %s: %s\n", outPath, err)
	}
}

func info(inPath string) {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		exitf("reading %s: %s\n", inPath, err)
	}

	h, headerLen, err := header.Decode(raw)
	if err != nil {
		exitf("parsing header: %s\n", err)
	}

	fmt.Printf("prolix_bits:     %d\n", h.ProlixBits)
	fmt.Printf("signed:          %t\n", h.Signed)
	fmt.Printf("block:           %d\n", h.Block)
	fmt.Printf("number_of_values: %d\n", h.NumberOfValues)
	fmt.Printf("number_of_frames: %d\n", h.NumberOfFrames)
	fmt.Printf("memory_size:     %d\n", h.MemorySize)
	if len(h.Dimensions) > 0 {
		fmt.Printf("dimensions:      %v\n", h.Dimensions)
	}
	fmt.Printf("header_bytes:    %d\n", headerLen)
	if h.FrameSizes != nil {
		fmt.Printf("frame_sizes:     %v\n", h.FrameSizes)
	} else {
		fmt.Printf("frame_sizes:     (not recorded; re-parse required)\n")
	}
	if h.MetadataSizes != nil {
		fmt.Printf("metadata_sizes:  %v\n", h.MetadataSizes)
	}
}
