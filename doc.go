// Package posehash enumerates and hashes rigid-body transforms (SE(3)) for
// exhaustive and branch-and-bound search over docking poses.
//
// The module is organized in layers:
//
//   - geom: vectors, rotation matrices, quaternions and transforms
//   - zorder: the z-order codec that addresses hierarchy cells
//   - hier: Cartesian, orientation and transform hierarchies with top-N
//     expansion
//   - xbin: the fixed-resolution transform hash with paired and tagged keys
//   - keymap: a sharded uint64 -> float64 map with compressed snapshots
//   - search: branch-and-bound over a transform hierarchy
//   - cluster, nnindex: pose thinning and nearest-neighbour queries
//   - blobstore: local, S3 and MinIO persistence
//
// This package ties the hash, the key map and a blob store together into a
// Table: a persistent score table keyed by relative pose.
//
// # Quick Start
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./data")
//
//	t, err := posehash.Open(ctx, store, "contacts",
//	    posehash.WithParams(xbin.Params{CartResl: 1, OriResl: 20, MaxCart: 64}),
//	)
//	if err != nil {
//	    return err
//	}
//	defer t.Close()
//
//	// Score the relative pose of every (i, j) pair of two rigid bodies.
//	err = t.Insert(ctx, pairs, xs1, xs2, scores)
//	err = t.Commit(ctx)
//
//	vals, err := t.Lookup(ctx, pairs, xs1, xs2, 0)
//
// # Durability Model
//
// Inserts are buffered in memory. Commit writes a key map snapshot and then
// a manifest pointing at it; the manifest is the commit point, so a crash
// before it leaves the previous commit intact. Open always loads the latest
// manifest.
//
// # Tags
//
// LookupTagged and InsertTagged pack two 2-bit tags (for example residue
// classes of the two bodies) into the top bits of every key, so one table
// holds up to 16 independent score maps.
//
// # Observability
//
// Structured logging goes through Logger (log/slog); operation counters
// through MetricsCollector.
package posehash
