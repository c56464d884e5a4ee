package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_ExportNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	d, err := NewDir(filepath.Join(t.TempDir(), "exports"))
	require.NoError(t, err)

	first, err := d.Export(ctx, "results.json", []byte(`{"a":1}`))
	require.NoError(t, err)
	second, err := d.Export(ctx, "results.json", []byte(`{"a":2}`))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(d.Root(), "results.json"), first)
	assert.Equal(t, filepath.Join(d.Root(), "results-1.json"), second)

	got, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
}

func TestDir_ExportStaysInsideRoot(t *testing.T) {
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)

	loc, err := d.Export(context.Background(), "../../escape.json", []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, d.Root(), filepath.Dir(loc))
}

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "exports/2026/02/03/abc-my-results.json", ObjectKey(at, "abc", "my results.json"))
}

func TestS3_Export(t *testing.T) {
	fp := &fakePutter{}
	s := newS3("bucket", fp)
	s.now = func() time.Time { return time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC) }
	s.newID = func() string { return "id1" }

	loc, err := s.Export(context.Background(), "dataset-7.json", []byte(`[]`))
	require.NoError(t, err)

	assert.Equal(t, "s3://bucket/exports/2026/02/03/id1-dataset-7.json", loc)
	assert.Equal(t, "bucket", aws.ToString(fp.in.Bucket))
	assert.Equal(t, "application/json", aws.ToString(fp.in.ContentType))
	assert.Equal(t, int64(2), aws.ToInt64(fp.in.ContentLength))
	assert.Equal(t, []byte(`[]`), fp.body)

	fp.err = errors.New("denied")
	_, err = s.Export(context.Background(), "x.json", nil)
	assert.ErrorContains(t, err, "denied")
}

func TestNewS3_AppliesOptions(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var region string
	var hasCreds bool
	loadDefaultAWSConfig = func(_ context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		region = lo.Region
		hasCreds = lo.Credentials != nil
		return aws.Config{}, nil
	}
	var so s3.Options
	newS3ClientFromConfig = func(_ aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&so)
		}
		return &s3.Client{}
	}

	s, err := NewS3(context.Background(), S3Options{
		Endpoint: "http://127.0.0.1:9000", Bucket: "exports", AccessKey: "k", SecretKey: "s",
	})
	require.NoError(t, err)
	assert.Equal(t, "exports", s.bucket)
	assert.Equal(t, "us-east-1", region)
	assert.True(t, hasCreds)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(so.BaseEndpoint))
	assert.True(t, so.UsePathStyle)

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = NewS3(context.Background(), S3Options{Bucket: "b"})
	assert.EqualError(t, err, "load-fail")

	_, err = NewS3(context.Background(), S3Options{})
	assert.Error(t, err)
}

func TestNew_PicksSink(t *testing.T) {
	e, err := New(context.Background(), t.TempDir(), S3Options{})
	require.NoError(t, err)
	assert.IsType(t, &Dir{}, e)
}
