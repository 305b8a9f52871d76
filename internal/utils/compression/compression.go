package compression

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Reader wraps r in a decompressing reader chosen by the file extension of
// name. Unrecognized extensions pass through untouched.
func Reader(r io.Reader, name string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gr, nil
	case ".xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return io.NopCloser(xr), nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}

// DecompressFile decompresses inFile into outFile, picking the codec from the
// input file extension (.gz, .xz, .zst). Any other extension is copied as-is.
func DecompressFile(inFile, outFile string) error {
	in, err := os.Open(inFile)
	if err != nil {
		return fmt.Errorf("failed to open compressed file: %w", err)
	}
	defer in.Close()

	reader, err := Reader(in, inFile)
	if err != nil {
		return err
	}
	defer reader.Close()

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create decompressed file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("failed to decompress file: %w", err)
	}
	return nil
}

// CompressFileGZ writes a gzip-compressed copy of inFile to outFile.
func CompressFileGZ(inFile, outFile string) error {
	in, err := os.Open(inFile)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create compressed file: %w", err)
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return fmt.Errorf("failed to compress file: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return nil
}
