package growthexpr

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}

	return "invalid"
}

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType checks the leading bytes of b against a set of known
// compression signatures. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(b []byte) DataType {
	if len(b) == 0 {
		return DataTypeInvalid
	}

Outer:
	for dt, sig := range byteCodeSigs {
		if len(b) < len(sig) {
			continue
		}
		for position := range sig {
			if b[position] != sig[position] {
				continue Outer
			}
		}
		return dt
	}

	return DataTypeNoCompression
}

// MaybeDecompress returns b unchanged unless it starts with the signature of
// a supported compression format, in which case the decompressed contents are
// returned. Zip archives yield their first entry.
func MaybeDecompress(b []byte) ([]byte, error) {
	dt := DetectDataType(b)

	var r io.Reader
	var err error

	switch dt {
	case DataTypeInvalid:
		return nil, fmt.Errorf("no data")
	case DataTypeNoCompression:
		return b, nil
	case DataTypeGzip:
		r, err = gzip.NewReader(bytes.NewReader(b))
	case DataTypeZip:
		zr := zipstream.NewReader(bytes.NewReader(b))
		if _, err = zr.Next(); err == nil {
			r = zr
		}
	case DataTypeBZip2:
		r = bzip2.NewReader(bytes.NewReader(b))
	case DataTypeXZ:
		r, err = xz.NewReader(bytes.NewReader(b), 0)
	case DataTypeZ:
		r, err = zlib.NewReader(bytes.NewReader(b))
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s stream: %w", dt, err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s stream: %w", dt, err)
	}

	return out, nil
}
