// Package upload pushes media to storage through backend-issued presigned
// URLs: the client asks the backend for an upload slot, PUTs the bytes
// straight to storage, then references the returned storage key in posts,
// stories and profiles.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/sachwave/sachwave/internal/rpc"
)

// Progress receives the upload percentage in whole percent steps.
type Progress func(percent int)

// Uploader requests upload slots from the backend and performs the PUTs.
type Uploader struct {
	backend rpc.Backend
	client  *http.Client
}

func New(backend rpc.Backend) *Uploader {
	return &Uploader{backend: backend, client: &http.Client{}}
}

// UploadMedia requests a presigned slot for contentType, uploads data to it
// and returns the storage key to reference. progress may be nil.
func (u *Uploader) UploadMedia(ctx context.Context, contentType string, data []byte, progress Progress) (string, error) {
	slot, err := u.backend.RequestMediaUpload(ctx, contentType)
	if err != nil {
		return "", fmt.Errorf("requesting upload slot: %w", err)
	}

	if err := u.putPresigned(ctx, slot.URL, contentType, data, progress); err != nil {
		return "", err
	}
	return slot.StorageKey, nil
}

// ResolveURL turns a storage key into a time-limited download URL.
func (u *Uploader) ResolveURL(ctx context.Context, storageKey string) (string, error) {
	return u.backend.ResolveMediaURL(ctx, storageKey)
}

func (u *Uploader) putPresigned(ctx context.Context, url, contentType string, data []byte, progress Progress) error {
	body := &progressReader{r: bytes.NewReader(data), total: int64(len(data)), report: progress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload failed: %s", resp.Status)
	}
	if progress != nil {
		progress(100)
	}
	return nil
}

// progressReader reports whole-percent progress as the HTTP client drains
// the body.
type progressReader struct {
	r      *bytes.Reader
	total  int64
	read   int64
	last   int
	report Progress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.report != nil && p.total > 0 {
		percent := int(p.read * 100 / p.total)
		if percent > p.last {
			p.last = percent
			p.report(percent)
		}
	}
	return n, err
}
