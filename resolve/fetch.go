// Copyright 2025 Sample Data Authors

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolve

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/sampledata/sampledata/catalog"
)

// downloadChunkSize is the streaming copy buffer size.
const downloadChunkSize = 1024

// HashMismatchError is returned when a downloaded file's content hash does
// not match the registered value. The corrupted file is never left on disk.
type HashMismatchError struct {
	URL      string
	Expected string
	Actual   string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("hash mismatch for %s. Expected: %s, Got: %s. "+
		"File may be corrupted.", e.URL, e.Expected, e.Actual)
}

type contextKey int

const (
	clientContextKey contextKey = iota
)

// UseClient injects the HTTP client used by Download into the context.
// Without it, http.DefaultClient is used.
func UseClient(ctx context.Context, c *http.Client) context.Context {
	return context.WithValue(ctx, clientContextKey, c)
}

// GetClient extracts the HTTP client from the context, if any.
func GetClient(ctx context.Context) *http.Client {
	c, ok := ctx.Value(clientContextKey).(*http.Client)
	if !ok {
		return http.DefaultClient
	}
	return c
}

// Download streams the URL's content to dest. The body is written to a temp
// file in dest's directory and renamed into place only after the transfer
// (and the hash check, when wantSHA256 is non-empty) completes, so an
// interrupted transfer never leaves a partial file under the final name.
func Download(ctx context.Context, url, dest, wantSHA256 string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Annotate(err, "failed to create request for '%s'", url)
	}
	req.Header.Set("User-Agent", catalog.UserAgent)

	resp, err := GetClient(ctx).Do(req)
	if err != nil {
		return errors.Annotate(err, "failed to download '%s'", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Reason("failed to download '%s': HTTP status %d",
			url, resp.StatusCode)
	}
	if err := saveBody(resp.Body, url, dest, wantSHA256); err != nil {
		return err
	}
	logging.Infof(ctx, "file saved to %s", dest)
	return nil
}

// saveBody streams r into dest via a temp file, verifying the content hash
// when one is expected. On any failure the temp file is removed.
func saveBody(r io.Reader, url, dest, wantSHA256 string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return errors.Annotate(err, "failed to create temp file for '%s'", dest)
	}
	closed := false
	defer func() {
		if err != nil {
			if !closed {
				tmp.Close()
			}
			os.Remove(tmp.Name())
		}
	}()

	var sum hash.Hash
	var w io.Writer = tmp
	if wantSHA256 != "" {
		sum = sha256.New()
		w = io.MultiWriter(tmp, sum)
	}
	buf := make([]byte, downloadChunkSize)
	if _, err = io.CopyBuffer(w, r, buf); err != nil {
		return errors.Annotate(err, "failed to stream '%s'", url)
	}
	if err = tmp.Close(); err != nil {
		closed = true
		return errors.Annotate(err, "failed to close '%s'", tmp.Name())
	}
	closed = true
	if sum != nil {
		actual := hex.EncodeToString(sum.Sum(nil))
		if actual != wantSHA256 {
			err = &HashMismatchError{URL: url, Expected: wantSHA256, Actual: actual}
			return err
		}
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return errors.Annotate(err, "failed to rename '%s' to '%s'", tmp.Name(), dest)
	}
	return nil
}
