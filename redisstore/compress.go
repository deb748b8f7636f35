package redisstore

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/oy3o/nodelim"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how stored values are compressed.
type Compression uint8

const (
	// CompressionNone stores the encoding as is.
	CompressionNone Compression = iota
	// CompressionZstd compresses with zstd at the default level.
	CompressionZstd
	// CompressionLZ4 compresses with an LZ4 block.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression maps a name as printed by String back to a Compression.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, zstd or lz4)", name)
	}
}

// compressionShape writes the tag at the front of a compressed frame.
var compressionShape = nodelim.Constants(CompressionNone, CompressionZstd, CompressionLZ4)

// errIncompressible is returned when compressing makes the data no smaller.
// The frame is then stored uncompressed.
var errIncompressible = errors.New("data is incompressible")

// maxFrameSize bounds the declared uncompressed size of a frame.
const maxFrameSize = 512 << 20

// zstd.Encoder and zstd.Decoder are safe for concurrent use with
// EncodeAll and DecodeAll, so one of each serves every Store.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("redisstore: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = newZstdDecoder(maxFrameSize)
	if err != nil {
		panic("redisstore: zstd decoder initialization failed: " + err.Error())
	}
}

// newZstdDecoder returns a decoder that refuses to produce more than limit
// bytes, whatever size a frame declares.
func newZstdDecoder(limit uint64) (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(limit))
}

// compressFrame wraps data in a frame: the compression tag, then for
// compressed frames the uncompressed length as a size code, then the
// payload. Data that does not shrink is framed with CompressionNone.
func compressFrame(c Compression, data []byte) []byte {
	var (
		payload []byte
		err     error
	)
	switch c {
	case CompressionZstd:
		payload, err = compressZstd(data)
	case CompressionLZ4:
		payload, err = compressLZ4(data)
	default:
		err = errIncompressible
	}
	e := nodelim.NewEncoder(make([]byte, 0, len(data)+10))
	if err != nil {
		compressionShape.Encode(e, CompressionNone)
		e.WriteRaw(data)
		return e.Bytes()
	}
	compressionShape.Encode(e, c)
	e.WriteLen(len(data))
	e.WriteRaw(payload)
	return e.Bytes()
}

// decompressFrame reverses compressFrame.
func decompressFrame(frame []byte) ([]byte, error) {
	d := nodelim.NewDecoder(frame)
	c := compressionShape.Decode(d)
	if c == CompressionNone {
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("frame header: %w", err)
		}
		return d.ReadRaw(d.Available()), nil
	}
	size := d.ReadLen()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("frame header: %w", err)
	}
	if size > maxFrameSize {
		return nil, fmt.Errorf("frame declares %d bytes, limit is %d", size, maxFrameSize)
	}
	payload := d.ReadRaw(d.Available())
	switch c {
	case CompressionZstd:
		return decompressZstd(payload, size)
	default:
		return decompressLZ4(payload, size)
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, size int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != size {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
	}
	return result, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock reports 0 for input it cannot shrink.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(compressed []byte, size int) ([]byte, error) {
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != size {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
	}
	return destination, nil
}
