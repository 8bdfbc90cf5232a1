// Package publish uploads the segments of a finished store to object storage.
//
// Segments are uploaded as-is under <prefix>/<file name>, so a bucket mirrors
// the store's root directory and can be consumed by the same readers.
//
//	up := publish.NewS3Uploader(s3.NewFromConfig(cfg), "diagnostics")
//	res, err := publish.Publish(ctx, store, up, func(o *publish.Options) {
//	    o.Prefix = "2024-06-01/"
//	    o.Concurrency = 8
//	})
//
// Publishing reads closed segments only; it closes the store's open handles
// before it starts and must not run concurrently with writes to the store.
package publish
