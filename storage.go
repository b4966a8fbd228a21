package stagetrend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const gsScheme = "gs://"

// IsGoogleStorage reports whether p is a gs:// URL.
func IsGoogleStorage(p string) bool {
	return strings.HasPrefix(p, gsScheme)
}

// JoinPath joins path elements onto base. Local paths use the OS separator;
// gs:// URLs always use forward slashes and keep their scheme.
func JoinPath(base string, elem ...string) string {
	if IsGoogleStorage(base) {
		parts := append([]string{strings.TrimPrefix(base, gsScheme)}, elem...)
		return gsScheme + path.Join(parts...)
	}

	return filepath.Join(append([]string{base}, elem...)...)
}

func splitGoogleStoragePath(p string) (bucket, object string, err error) {
	// Detect the bucket and the path to the actual file
	pathParts := strings.SplitN(strings.TrimPrefix(p, gsScheme), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into bucket and object, but got %d parts: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

func objectHandle(p string, client *storage.Client) (*storage.ObjectHandle, error) {
	if client == nil {
		return nil, fmt.Errorf("%s: a google storage client is required for gs:// paths", p)
	}

	bucketName, pathName, err := splitGoogleStoragePath(p)
	if err != nil {
		return nil, err
	}

	return client.Bucket(bucketName).Object(pathName), nil
}

// Exists reports whether a local file or google storage object is present.
// Errors other than "not found" are returned.
func Exists(ctx context.Context, p string, client *storage.Client) (bool, error) {
	if IsGoogleStorage(p) {
		handle, err := objectHandle(p, client)
		if err != nil {
			return false, err
		}

		if _, err := handle.Attrs(ctx); errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		} else if err != nil {
			return false, pfx.Err(fmt.Errorf("%s: %w", p, err))
		}

		return true, nil
	}

	if _, err := os.Stat(p); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}

// Open opens a local file or google storage object and transparently
// decompresses it. Closing the returned reader releases the underlying file
// or object reader as well.
func Open(ctx context.Context, p string, client *storage.Client) (io.ReadCloser, error) {
	var raw io.ReadCloser

	if IsGoogleStorage(p) {
		handle, err := objectHandle(p, client)
		if err != nil {
			return nil, err
		}

		rdr, err := handle.NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", p, err))
		}
		raw = rdr
	} else {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		raw = f
	}

	dec, err := MaybeDecompress(raw)
	if err != nil {
		raw.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", p, err))
	}

	return &multiReadCloser{Reader: dec, closers: []io.Closer{dec, raw}}, nil
}

// multiReadCloser closes the decompressor and then the source.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
