package growthexpr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// OpenFileOrURL fetches the full contents of input, which may be an http(s)
// URL, a gs://bucket/object path (requires a non-nil client), or a local
// path. Compressed payloads are transparently decompressed.
func OpenFileOrURL(ctx context.Context, input string, client *storage.Client) ([]byte, error) {
	var raw []byte
	var err error

	switch {
	case strings.HasPrefix(input, "http://"), strings.HasPrefix(input, "https://"):
		raw, err = readHTTP(ctx, input)
	case strings.HasPrefix(input, "gs://"):
		raw, err = readGoogleStorage(ctx, input, client)
	default:
		raw, err = os.ReadFile(ExpandHome(input))
	}
	if err != nil {
		return nil, pfx.Err(err)
	}

	out, err := MaybeDecompress(raw)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", input, err))
	}

	return out, nil
}

func readHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: unexpected HTTP status %s", url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func readGoogleStorage(ctx context.Context, path string, client *storage.Client) ([]byte, error) {
	if client == nil {
		return nil, fmt.Errorf("%s: no Google Storage client was configured", path)
	}

	// Detect the bucket and the path to the actual file
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return nil, fmt.Errorf("Tried to split your google storage path into a bucket and an object, but got %d parts: %v", len(pathParts), pathParts)
	}

	rdr, err := client.Bucket(pathParts[0]).Object(pathParts[1]).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer rdr.Close()

	return io.ReadAll(rdr)
}

// ExpandHome expands ~ to its proper path, where appropriate.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		usr, err := user.Current()
		if err != nil {
			return path
		}
		return filepath.Join(usr.HomeDir, strings.TrimPrefix(path[1:], "/"))
	}

	return path
}
