// Package hash provides the CRC32-Castagnoli checksum shared by the persisted
// formats: the transform hash encoding carries it as a trailer, key map
// snapshots stream it over their blocks, and S3 uploads send it as an
// object checksum.
//
//	buf = hash.AppendTrailer(buf)
//	payload, ok := hash.CheckTrailer(buf)
package hash
