package awss3

import (
	"context"
	"log/slog"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/dto"
	"github.com/sgaunet/s3dfs/pkg/pathutil"
)

const delimiter = "/"

// List returns the objects and the common prefixes directly under path.
// When nothing lives under path/ and path names an object, that object is returned alone.
func (b *Backend) List(ctx context.Context, path string) ([]dto.Entry, error) {
	prefix := pathutil.DirKey(path)
	b.log.Debug("List", slog.String("path", path), slog.String("prefix", prefix))

	result := []dto.Entry{}
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(delimiter),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translateError("list", path, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix {
				// directory marker
				continue
			}
			e := dto.Entry{
				Path: key,
				Kind: dto.KindFile,
				Size: uint64(aws.ToInt64(obj.Size)),
			}
			if obj.LastModified != nil {
				mtime := *obj.LastModified
				e.Modified = &mtime
			}
			result = append(result, e)
		}
		for _, p := range page.CommonPrefixes {
			result = append(result, dto.Entry{
				Path: aws.ToString(p.Prefix),
				Kind: dto.KindDir,
			})
		}
	}
	// S3 returns objects and prefixes in two lists, both in key order
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	if len(result) == 0 && !pathutil.IsDirKey(path) {
		e, err := b.statObject(ctx, pathutil.ObjectKey(path))
		if err != nil {
			if backend.IsNotFound(err) {
				return result, nil
			}
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

// hasChildren reports whether at least one key starts with the directory prefix of path.
func (b *Backend) hasChildren(ctx context.Context, path string) (bool, error) {
	out, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.bucket),
		Prefix:  aws.String(pathutil.DirKey(path)),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, translateError("list", path, err)
	}
	return len(out.Contents) > 0 || len(out.CommonPrefixes) > 0, nil
}
