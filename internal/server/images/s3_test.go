package images

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	err     error
	lastPut *s3.PutObjectInput
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastPut = in
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(strings.NewReader(string(data))),
		ContentType: aws.String(f.types[aws.ToString(in.Key)]),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// onlyReader hides Seek so Put has to buffer.
type onlyReader struct{ io.Reader }

func TestS3Store_PutGetDelete(t *testing.T) {
	fake := newFakeS3()
	s := NewS3Store(fake, "uploads")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k.webp", "image/webp", onlyReader{strings.NewReader("webp")}, 4))
	assert.Equal(t, "uploads", aws.ToString(fake.lastPut.Bucket))
	assert.Equal(t, int64(4), aws.ToInt64(fake.lastPut.ContentLength))

	rc, ct, err := s.Get(ctx, "k.webp")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "webp", string(data))
	assert.Equal(t, "image/webp", ct)

	require.NoError(t, s.Delete(ctx, "k.webp"))
	_, _, err = s.Get(ctx, "k.webp")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestS3Store_Errors(t *testing.T) {
	fake := newFakeS3()
	fake.err = errors.New("s3 down")
	s := NewS3Store(fake, "uploads")
	ctx := context.Background()

	require.ErrorContains(t, s.Put(ctx, "k.png", "image/png", strings.NewReader("x"), 1), "s3 down")
	_, _, err := s.Get(ctx, "k.png")
	require.ErrorContains(t, err, "s3 down")
	require.NotErrorIs(t, err, common.ErrorNotFound)
	require.ErrorContains(t, s.Delete(ctx, "k.png"), "s3 down")
}

func TestNewS3StoreFromConfig(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	var opts s3.Options
	fake := newFakeS3()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(&opts)
		}
		return fake
	}

	cfg := &config.Config{S3Bucket: "b", S3BaseEndpoint: "http://127.0.0.1:9000/"}
	s, err := NewS3StoreFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "b", s.bucket)
	assert.Equal(t, "http://127.0.0.1:9000/", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3StoreFromConfig_LoadError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}

	_, err := NewS3StoreFromConfig(context.Background(), &config.Config{})
	require.ErrorContains(t, err, "no creds")
}

func TestNew_SelectsStore(t *testing.T) {
	cfg := &config.Config{ImageStorage: config.ImageStorageDisk, UploadsDir: t.TempDir()}
	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &DiskStore{}, s)

	cfg.ImageStorage = "ftp"
	_, err = New(context.Background(), cfg)
	require.ErrorContains(t, err, `unknown image storage "ftp"`)
}
