// Package archive keeps catalog snapshots in S3-compatible object storage so a
// restarted server can serve the last good catalog while the backend is down.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"giftshop.GO/catalog"
	"giftshop.GO/config"
)

const (
	prefix    = "snapshots/"
	latestKey = prefix + "latest.json"
)

// ErrNoSnapshot is returned by Latest when nothing was archived yet.
var ErrNoSnapshot = errors.New("archive: no snapshot")

// Store writes snapshots as JSON objects into one bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore connects to the endpoint in cfg. It does not touch the network.
func NewStore(cfg config.Archive) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("archive: endpoint not configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: create client: %w", err)
	}
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string { return s.bucket }

// EnsureBucket creates the bucket if it doesn't exist.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("archive: check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("archive: create bucket: %w", err)
	}
	return nil
}

// Save uploads snap under a timestamped key and as the latest snapshot.
func (s *Store) Save(ctx context.Context, snap catalog.Snapshot) error {
	body, err := Encode(snap)
	if err != nil {
		return err
	}
	for _, key := range []string{SnapshotKey(snap.FetchedAt), latestKey} {
		_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)),
			minio.PutObjectOptions{ContentType: "application/json"})
		if err != nil {
			return fmt.Errorf("archive: put %s: %w", key, err)
		}
	}
	return nil
}

// Latest downloads the most recently saved snapshot.
func (s *Store) Latest(ctx context.Context) (catalog.Snapshot, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, latestKey, minio.GetObjectOptions{})
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("archive: get %s: %w", latestKey, err)
	}
	defer obj.Close()
	snap, err := Decode(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return catalog.Snapshot{}, ErrNoSnapshot
		}
		return catalog.Snapshot{}, err
	}
	return snap, nil
}

// SnapshotKey is the object key a snapshot fetched at t is stored under.
func SnapshotKey(t time.Time) string {
	return fmt.Sprintf("%s%d.json", prefix, t.Unix())
}

// Encode serializes a snapshot the way Save stores it.
func Encode(snap catalog.Snapshot) ([]byte, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("archive: encode snapshot: %w", err)
	}
	return b, nil
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (catalog.Snapshot, error) {
	var snap catalog.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		if minio.ToErrorResponse(err).Code != "" {
			return catalog.Snapshot{}, err
		}
		return catalog.Snapshot{}, fmt.Errorf("archive: decode snapshot: %w", err)
	}
	return snap, nil
}
