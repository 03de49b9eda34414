package grants

import (
	"context"
	"fmt"

	"erp-portal/internal/rbac"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
)

// ObjectGetter is the part of the S3 API the source needs
type ObjectGetter interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

// S3Source reads a YAML catalog object from a bucket
type S3Source struct {
	client ObjectGetter
	bucket string
	key    string
}

func NewS3Source(client ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

func (s *S3Source) Load(ctx context.Context) (rbac.Catalog, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return rbac.Catalog{}, fmt.Errorf(errFetchObjectFmt, s.bucket, s.key, err)
	}
	defer out.Body.Close()

	return Decode(out.Body)
}
