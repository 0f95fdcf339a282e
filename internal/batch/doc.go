// Package batch schedules transcoding jobs across a fixed worker pool.
//
// Plan pairs each source with its destination, Partition splits the job list
// into contiguous chunks sized from the worker count, and Run fans the chunks
// out to workers that process their jobs in order. Per-file failures are
// captured in an ErrorLog and never stop the batch; Run returns a Summary once
// every worker has joined.
package batch
