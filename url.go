package xopen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is the subset of the Amazon S3 API used by s3 targets. *s3.Client implements it.
type S3Client interface {
	manager.UploadAPIClient

	GetObject(ctx context.Context, input *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (o *Opener) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return http.DefaultClient
}

func (o *Opener) openURLRead(ctx context.Context, t *target) (io.ReadCloser, error) {
	switch t.url.Scheme {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.name, nil)
		if err != nil {
			return nil, &OpenError{Target: t.name, Err: err}
		}

		resp, err := o.httpClient().Do(req)
		if err != nil {
			return nil, &OpenError{Target: t.name, Err: err}
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, &OpenError{Target: t.name, Err: fmt.Errorf("unexpected status %s", resp.Status)}
		}

		return resp.Body, nil

	case "s3":
		if o.S3 == nil {
			return nil, &OpenError{Target: t.name, Err: errors.New("no S3 client configured")}
		}

		out, err := o.S3.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(t.url.Host),
			Key:    aws.String(strings.TrimPrefix(t.url.Path, "/")),
		})
		if err != nil {
			return nil, &OpenError{Target: t.name, Err: err}
		}

		return out.Body, nil

	default:
		return nil, &InvalidTargetError{Target: t.name, Reason: fmt.Sprintf(`unsupported URL scheme "%s"`, t.url.Scheme)}
	}
}

func (o *Opener) openURLWrite(ctx context.Context, t *target) (io.WriteCloser, error) {
	if t.url.Scheme != "s3" {
		return nil, &InvalidTargetError{Target: t.name, Reason: fmt.Sprintf(`cannot write to URL scheme "%s"`, t.url.Scheme)}
	}
	if o.S3 == nil {
		return nil, &OpenError{Target: t.name, Err: errors.New("no S3 client configured")}
	}

	// the upload streams from a pipe so the caller can produce bytes incrementally; Close joins the upload and
	// reports its outcome.
	pr, pw := io.Pipe()
	w := &s3Writer{name: t.name, pw: pw, done: make(chan error, 1)}

	go func() {
		_, err := manager.NewUploader(o.S3).Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(t.url.Host),
			Key:    aws.String(strings.TrimPrefix(t.url.Path, "/")),
			Body:   pr,
		})
		// an upload failure must also unblock any in-flight Write.
		_ = pr.CloseWithError(err)
		w.done <- err
	}()

	return w, nil
}

type s3Writer struct {
	name string
	pw   *io.PipeWriter
	done chan error
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *s3Writer) Close() error {
	_ = w.pw.Close()
	if err := <-w.done; err != nil {
		return fmt.Errorf(`upload to "%s" error: %w`, w.name, err)
	}
	return nil
}
