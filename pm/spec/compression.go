package spec

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/cockroachdb/errors"
)

var ErrUnsupportedCompression = errors.New("pmtiles: compression not supported")

func Compress(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
	default:
		return nil, errors.Wrapf(ErrUnsupportedCompression, "%d", compression)
	}

	var buffer bytes.Buffer
	writer, _ := gzip.NewWriterLevel(&buffer, gzip.BestCompression)
	if _, err := writer.Write(data); err != nil {
		return nil, errors.Wrap(err, "gzip")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "gzip")
	}
	return buffer.Bytes(), nil
}

func Decompress(data []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
	default:
		return nil, errors.Wrapf(ErrUnsupportedCompression, "%d", compression)
	}

	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "gunzip")
	}
	defer reader.Close()

	result, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "gunzip")
	}
	return result, nil
}
