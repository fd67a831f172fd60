// Package modelio resolves and opens the model, class-name, and
// centroid files the digitize driver depends on, uniformly whether
// they live on local disk or in object storage (s3://bucket/key),
// exactly as the teacher's pileup/fusion commands open BAM and FASTA
// inputs through grailbio/base/file's scheme dispatch.
package modelio

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// Open resolves path (a local filesystem path or an s3:// URL) and
// returns a reader for its contents along with a close function. The
// caller must call close when done reading.
func Open(ctx context.Context, path string) (io.Reader, func() error, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "modelio: opening", path)
	}
	return f.Reader(ctx), func() error { return f.Close(ctx) }, nil
}

// ReadAll reads the full contents of path into memory. Suitable for
// the small configuration, class-name, and centroid files this
// pipeline loads; not for model weights.
func ReadAll(ctx context.Context, path string) ([]byte, error) {
	r, closeFn, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.E(err, "modelio: reading", path)
	}
	return data, nil
}
