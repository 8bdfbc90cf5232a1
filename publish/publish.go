package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"sync/atomic"

	"github.com/hupe1980/segstore"
	"github.com/hupe1980/segstore/segment"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ContentType is the MIME type segments are uploaded with.
const ContentType = "application/x-ndjson"

// Uploader stores one object.
// Implementations must be safe for concurrent use.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64) error
}

// Options configures Publish.
type Options struct {
	// Prefix is prepended to every object key.
	Prefix string

	// Concurrency bounds parallel uploads.
	Concurrency int

	// Limiter throttles upload starts. Nil means unlimited.
	Limiter *rate.Limiter

	// Logger receives one debug event per uploaded segment.
	Logger *slog.Logger
}

// DefaultOptions contains the default Publish configuration.
var DefaultOptions = Options{
	Concurrency: 4,
}

// Result summarizes a publish run.
type Result struct {
	Objects int
	Bytes   int64
}

// Publish uploads every non-empty segment of every stream in s. The first
// failure cancels the remaining uploads and is returned.
func Publish(ctx context.Context, s *segstore.Store, up Uploader, optFns ...func(o *Options)) (Result, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if err := s.Close(); err != nil {
		return Result{}, err
	}

	var segs []*segment.Segment
	for _, name := range s.Names() {
		w, err := s.Stream(name)
		if err != nil {
			return Result{}, err
		}
		for _, seg := range w.Segments() {
			size, err := seg.Size()
			if err != nil {
				return Result{}, err
			}
			if size > 0 {
				segs = append(segs, seg)
			}
		}
	}

	var (
		objects atomic.Int64
		bytes   atomic.Int64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, seg := range segs {
		g.Go(func() error {
			if opts.Limiter != nil {
				if err := opts.Limiter.Wait(ctx); err != nil {
					return err
				}
			}
			n, err := uploadSegment(ctx, up, Key(opts.Prefix, seg), seg)
			if err != nil {
				return err
			}
			objects.Add(1)
			bytes.Add(n)
			opts.Logger.DebugContext(ctx, "segment published", "path", seg.Path(), "bytes", n)
			return nil
		})
	}

	err := g.Wait()
	return Result{Objects: int(objects.Load()), Bytes: bytes.Load()}, err
}

// Key returns the object key of seg under prefix.
func Key(prefix string, seg *segment.Segment) string {
	return path.Join(prefix, filepath.Base(seg.Path()))
}

func uploadSegment(ctx context.Context, up Uploader, key string, seg *segment.Segment) (int64, error) {
	size, err := seg.Size()
	if err != nil {
		return 0, err
	}
	r, err := seg.OpenReader()
	if err != nil {
		return 0, err
	}
	defer r.Close()

	if err := up.Upload(ctx, key, r, size); err != nil {
		return 0, fmt.Errorf("publish %s: %w", key, err)
	}
	return size, nil
}
