package fixture

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"
)

// ObjectGetter is the part of the S3 client used to fetch remote fixtures.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source opens fixture files from a local file system or from S3
// (s3://bucket/key locations).
type Source struct {
	Fs afero.Fs
	S3 ObjectGetter
}

func NewSource(fs afero.Fs) *Source {
	return &Source{Fs: fs}
}

func (s *Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "s3://") {
		return s.openS3(ctx, location)
	}
	f, err := s.Fs.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	return f, nil
}

// Read opens and decodes the fixture at location.
func (s *Source) Read(ctx context.Context, location string) ([]Entry, error) {
	rc, err := s.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Decode(rc)
}

func (s *Source) openS3(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := parseS3Location(location)
	if err != nil {
		return nil, err
	}
	if s.S3 == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		s.S3 = s3.NewFromConfig(cfg)
	}
	out, err := s.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get fixture s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

func parseS3Location(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("parse fixture location: %w", err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("fixture location %q: want s3://bucket/key", location)
	}
	return bucket, key, nil
}
