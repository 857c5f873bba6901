// Package compression wraps output streams in an optional codec chosen by
// file extension, the same registry-of-codecs shape the teacher's HTTP
// compression manager used to pick a content-encoding, adapted here to pick
// a result file's on-disk encoding instead (spec §6: ".zst" suffix
// triggers zstandard; kept alongside a gzip codec to keep the registry
// genuinely pluggable).
package compression

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/cdoepmann/ppcalc-go/pkg/apperr"
)

// Codec wraps a plain io.Writer into a compressing one.
type Codec interface {
	Suffix() string
	NewWriter(w io.Writer) (io.WriteCloser, error)
	NewReader(r io.Reader) (io.ReadCloser, error)
}

type zstdCodec struct{}

func (zstdCodec) Suffix() string { return ".zst" }

func (zstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

func (zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

type gzipCodec struct{}

func (gzipCodec) Suffix() string { return ".gz" }

func (gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// registry lists the codecs recognized by file suffix, most specific first.
var registry = []Codec{zstdCodec{}, gzipCodec{}}

// ForPath returns the codec whose suffix matches path, or nil if path names
// an uncompressed file.
func ForPath(path string) Codec {
	for _, c := range registry {
		if strings.HasSuffix(path, c.Suffix()) {
			return c
		}
	}
	return nil
}

// compressedWriteCloser chains a codec's writer in front of the underlying
// file so a single Close flushes and closes both.
type compressedWriteCloser struct {
	codec io.WriteCloser
	file  *os.File
}

func (c *compressedWriteCloser) Write(p []byte) (int, error) {
	return c.codec.Write(p)
}

func (c *compressedWriteCloser) Close() error {
	if err := c.codec.Close(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}

// CreateFile opens path for writing, transparently wrapping it in the codec
// matching its suffix. The returned WriteCloser's Close flushes the codec
// and closes the file.
func CreateFile(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, apperr.NewIOError("create", path, err)
	}

	codec := ForPath(path)
	if codec == nil {
		return f, nil
	}

	cw, err := codec.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, apperr.NewIOError("create", path, err)
	}
	return &compressedWriteCloser{codec: cw, file: f}, nil
}

// compressedReadCloser chains a codec's reader in front of the underlying
// file.
type compressedReadCloser struct {
	codec io.ReadCloser
	file  *os.File
}

func (c *compressedReadCloser) Read(p []byte) (int, error) {
	return c.codec.Read(p)
}

func (c *compressedReadCloser) Close() error {
	c.codec.Close()
	return c.file.Close()
}

// OpenFile opens path for reading, transparently unwrapping the codec
// matching its suffix.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.NewIOError("open", path, err)
	}

	codec := ForPath(path)
	if codec == nil {
		return f, nil
	}

	cr, err := codec.NewReader(f)
	if err != nil {
		f.Close()
		return nil, apperr.NewIOError("open", path, err)
	}
	return &compressedReadCloser{codec: cr, file: f}, nil
}
