package minio

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/posehash/blobstore"
)

func TestTranslate(t *testing.T) {
	err := translate(minio.ErrorResponse{Code: "NoSuchKey"})
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

// TestMinioStore_Integration requires a running MinIO instance on
// localhost:9000 and is skipped otherwise.
func TestMinioStore_Integration(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	const bucket = "test-posehash"
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, fmt.Sprintf("run-%d/", time.Now().UnixNano()))

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "a/manifest.json", data))

	got, err := store.Get(ctx, "a/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/manifest.json"}, names)

	require.NoError(t, store.Delete(ctx, "a/manifest.json"))
	_, err = store.Get(ctx, "a/manifest.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
