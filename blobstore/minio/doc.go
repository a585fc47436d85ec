// Package minio provides a blobstore.Store backed by the MinIO client, for
// MinIO and other S3-compatible servers (Ceph, Garage, SeaweedFS).
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    return err
//	}
//
//	store := minioblob.NewStore(client, "poses", "tables/")
//	t, err := posehash.Open(ctx, store, "contacts")
package minio
