package xopen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_HTTPRead(t *testing.T) {
	var compressed Buffer
	require.NoError(t, WriteAll(&compressed, []byte("served over http\n"), func(opts *Options) {
		opts.Compression = "gzip"
		opts.NoPrograms = true
	}))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data.gz":
			_, _ = w.Write(compressed.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	got, err := ReadAll(server.URL+"/data.gz", func(opts *Options) {
		opts.NoPrograms = true
	})
	require.NoError(t, err)
	assert.Equal(t, "served over http\n", string(got))

	_, err = ReadAll(server.URL + "/missing.gz")
	var oe *OpenError
	assert.ErrorAs(t, err, &oe)
}

func TestOpen_HTTPWriteRejected(t *testing.T) {
	_, err := Open("https://example.com/data.gz", func(opts *Options) {
		opts.Mode = Write
	})
	var ite *InvalidTargetError
	assert.ErrorAs(t, err, &ite)
}

func TestOpen_S3RoundTrip(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{}}
	o := New(func(o *Opener) {
		o.S3 = client
	})

	require.NoError(t, o.WriteAll("s3://bucket/path/data.txt.gz", []byte("stored in s3\n"), func(opts *Options) {
		opts.NoPrograms = true
	}))
	assert.Contains(t, client.objects, "bucket/path/data.txt.gz")

	got, err := o.ReadAll("s3://bucket/path/data.txt.gz", func(opts *Options) {
		opts.NoPrograms = true
	})
	require.NoError(t, err)
	assert.Equal(t, "stored in s3\n", string(got))
}

func TestOpen_S3Missing(t *testing.T) {
	o := New(func(o *Opener) {
		o.S3 = &fakeS3{objects: map[string][]byte{}}
	})

	_, err := o.Open("s3://bucket/missing.gz")
	var oe *OpenError
	assert.ErrorAs(t, err, &oe)
}

func TestOpen_S3Unconfigured(t *testing.T) {
	_, err := Open("s3://bucket/key.gz")
	var oe *OpenError
	assert.ErrorAs(t, err, &oe)
}

// fakeS3 implements S3Client with an in-memory object store. Uploads below the multipart threshold always go through
// PutObject so the multipart methods only guard against accidental use.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ S3Client = &fakeS3{}

func (f *fakeS3) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[aws.ToString(input.Bucket)+"/"+aws.ToString(input.Key)]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey: %s", aws.ToString(input.Key))
	}

	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(input.Bucket)+"/"+aws.ToString(input.Key)] = data

	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, fmt.Errorf("multipart upload not supported")
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, fmt.Errorf("multipart upload not supported")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, fmt.Errorf("multipart upload not supported")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, fmt.Errorf("multipart upload not supported")
}
