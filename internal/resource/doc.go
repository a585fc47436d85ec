// Package resource bounds the work a search or a table commit may do at once.
//
// A Controller manages three resources:
//
//   - Workers: a weighted semaphore limiting concurrent scoring batches.
//   - Memory: fail-fast reservations for candidate buffers.
//   - IO: a token bucket for blob reads and writes.
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers:         4,
//	    MemoryLimitBytes:   1 << 30,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// All methods are safe for concurrent use and are no-ops on a nil Controller.
package resource
