package cloudwriter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	calls  int
	bucket string
	key    string
	body   []byte
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3WriterUploadsOnClose(t *testing.T) {
	putter := &fakePutter{}
	factory := NewS3WriterFactoryWithClient(putter)

	w, err := factory.NewWriter("juice-lake", "orders/data.parquet")
	require.NoError(t, err)

	_, err = w.Write([]byte("PAR1"))
	require.NoError(t, err)
	_, err = w.Write([]byte("-body"))
	require.NoError(t, err)
	assert.Zero(t, putter.calls)

	require.NoError(t, w.Close())
	assert.Equal(t, 1, putter.calls)
	assert.Equal(t, "juice-lake", putter.bucket)
	assert.Equal(t, "orders/data.parquet", putter.key)
	assert.Equal(t, "PAR1-body", string(putter.body))

	require.NoError(t, w.Close())
	assert.Equal(t, 1, putter.calls)

	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

func TestS3WriterRequiresBucket(t *testing.T) {
	_, err := NewS3WriterFactoryWithClient(&fakePutter{}).NewWriter("", "x")
	assert.Error(t, err)
}

func TestS3WriterReportsUploadFailure(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}
	w, err := NewS3WriterFactoryWithClient(putter).NewWriter("b", "k")
	require.NoError(t, err)

	err = w.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://b/k")
}
