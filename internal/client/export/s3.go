package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/qacurator/internal/filex"
	"github.com/google/uuid"
)

// S3Options locate the bucket. Endpoint is set for S3-compatible stores such
// as MinIO; AccessKey and SecretKey, when set, replace the default
// credential chain.
type S3Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Test seams.
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads each export as a new object.
type S3 struct {
	bucket string
	client objectPutter
	now    func() time.Time
	newID  func() string
}

func NewS3(ctx context.Context, o S3Options) (*S3, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("s3 export: bucket is required")
	}
	region := o.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}
	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})
	return newS3(o.Bucket, client), nil
}

func newS3(bucket string, client objectPutter) *S3 {
	return &S3{
		bucket: bucket,
		client: client,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// ObjectKey is exports/<yyyy>/<mm>/<dd>/<id>-<name>.
func ObjectKey(t time.Time, id, name string) string {
	return fmt.Sprintf("exports/%04d/%02d/%02d/%s-%s", t.Year(), t.Month(), t.Day(), id, filex.SafeName(name))
}

func (s *S3) Export(ctx context.Context, name string, data []byte) (string, error) {
	key := ObjectKey(s.now().UTC(), s.newID(), name)
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if path.Ext(key) == ".json" {
		in.ContentType = aws.String("application/json")
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}
