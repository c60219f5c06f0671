package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nguyengg/xopen"
)

// OpenerMixin lazily builds the shared xopen.Opener for a command. The AWS config is only loaded when at least one
// target is an s3 URL so purely local invocations never touch credentials.
type OpenerMixin struct {
	Profile string `short:"p" long:"profile" description:"override AWS_PROFILE when an s3 target is given"`

	once   sync.Once
	opener *xopen.Opener
	err    error
}

// Opener returns the shared opener, loading AWS config on first use if any of the given targets is an s3 URL.
func (m *OpenerMixin) Opener(ctx context.Context, targets ...string) (*xopen.Opener, error) {
	m.once.Do(func() {
		m.opener = xopen.New()

		for _, t := range targets {
			if !strings.HasPrefix(t, "s3://") {
				continue
			}

			var optFns []func(*config.LoadOptions) error
			if m.Profile != "" {
				optFns = append(optFns, config.WithSharedConfigProfile(m.Profile))
			}

			cfg, err := config.LoadDefaultConfig(ctx, optFns...)
			if err != nil {
				m.err = fmt.Errorf("load AWS config error: %w", err)
				return
			}

			m.opener.S3 = s3.NewFromConfig(cfg)
			return
		}
	})

	return m.opener, m.err
}
