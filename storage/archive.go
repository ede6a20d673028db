// Package storage archives bracket snapshots in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

type UploadResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	ETag     string `json:"etag,omitempty"`
}

type ObjectUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	PublicURL(key string) string
}

// SnapshotArchive writes immutable JSON copies of a bracket, one object per
// export, under brackets/<tournamentID>/<uuid>.json.
type SnapshotArchive struct {
	uploader ObjectUploader
	newID    func() uuid.UUID
}

func NewSnapshotArchive(uploader ObjectUploader) *SnapshotArchive {
	return &SnapshotArchive{uploader: uploader, newID: uuid.New}
}

func SnapshotKey(tournamentID int, id uuid.UUID) string {
	return fmt.Sprintf("brackets/%d/%s.json", tournamentID, id)
}

func (a *SnapshotArchive) Store(ctx context.Context, tournamentID int, snapshot interface{}) (*UploadResult, error) {
	body, err := json.MarshalIndent(snapshot, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot of tournament %d: %w", tournamentID, err)
	}
	return a.uploader.Upload(ctx, SnapshotKey(tournamentID, a.newID()), "application/json", bytes.NewReader(body))
}

// Remove deletes an archived snapshot by key.
func (a *SnapshotArchive) Remove(ctx context.Context, key string) error {
	return a.uploader.Delete(ctx, key)
}
