package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/tags"

	"github.com/mindvault/curator/internal/domain/items"
)

// RemoteStore implementasi items.BlobStore di atas MinIO.
type RemoteStore struct {
	client     *minio.Client
	bucketName string
	region     string
	owner      string
}

// NewRemote buat koneksi MinIO
func NewRemote(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool, owner string) (*RemoteStore, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &RemoteStore{client: cli, bucketName: bucket, region: region, owner: owner}, nil
}

// Store uploads the original bytes under the display name. A failing upload
// fails the whole ingestion; there is no fallback to the local backend.
func (s *RemoteStore) Store(ctx context.Context, put items.BlobPut) (items.StorageRef, error) {
	contentType := put.MediaType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucketName, put.DisplayName,
		bytes.NewReader(put.Data), int64(len(put.Data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return items.StorageRef{}, fmt.Errorf("%w: %v", items.ErrStorageUnavailable, err)
	}

	// share ke owner best-effort; gagal cuma dicatat
	if s.owner != "" {
		if err := s.grantOwner(ctx, put.DisplayName); err != nil {
			log.Printf("warning: failed to share %s with owner %s: %v", put.DisplayName, s.owner, err)
		}
	}

	url := fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucketName, put.DisplayName)
	return items.StorageRef{Backend: items.BackendRemote, BlobID: put.DisplayName, URL: url}, nil
}

func (s *RemoteStore) grantOwner(ctx context.Context, key string) error {
	t, err := tags.NewTags(map[string]string{"owner": s.owner}, true)
	if err != nil {
		return err
	}
	return s.client.PutObjectTagging(ctx, s.bucketName, key, t, minio.PutObjectTaggingOptions{})
}

// Fetch reads the blob back.
func (s *RemoteStore) Fetch(ctx context.Context, ref items.StorageRef) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, ref.BlobID, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", items.ErrStorageUnavailable, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", items.ErrStorageUnavailable, err)
	}
	return data, nil
}

// Delete removes the blob.
func (s *RemoteStore) Delete(ctx context.Context, ref items.StorageRef) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, ref.BlobID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", items.ErrStorageUnavailable, err)
	}
	return nil
}
