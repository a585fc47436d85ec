// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("tables/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	t, err := posehash.Open(ctx, store, "contacts")
//
// Small blobs are written with a single PutObject carrying a CRC32C
// checksum; blobs of at least one part size go through the multipart
// uploader.
package s3
