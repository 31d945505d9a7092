package awss3

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/pathutil"
)

// OpenWriter streams the written bytes to the upload manager.
// Small objects end up in a single PutObject, larger ones in a multipart upload
// that the manager aborts if the writer is aborted.
func (b *Backend) OpenWriter(ctx context.Context, path string) (backend.Writer, error) {
	key := pathutil.ObjectKey(path)
	if key == "" || pathutil.IsDirKey(path) {
		return nil, backend.NewError("open_writer", path, backend.ErrOther, nil)
	}
	b.log.Debug("OpenWriter", slog.String("key", key))

	w := backend.NewPipeWriter(func(r io.Reader) error {
		_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(key),
			Body:   r,
		})
		if err != nil {
			return translateError("write", path, err)
		}
		b.log.Debug("Upload completed", slog.String("key", key))
		return nil
	})
	return w, nil
}
