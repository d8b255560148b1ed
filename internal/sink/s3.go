package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/shopmonkeyus/product-type-generator/internal/util"
)

// hashMetadataKey is the object metadata key holding the xxhash of the content.
const hashMetadataKey = "xxhash"

type s3API interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *awss3.HeadObjectInput, optFns ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
}

type s3Sink struct {
	logger logger.Logger
	bucket string
	prefix string
	s3     s3API
	opts   Options
}

var _ Sink = (*s3Sink)(nil)

type s3Location struct {
	bucket   string
	prefix   string
	region   string
	endpoint string
}

// parseS3URL parses s3://bucket/prefix?region=us-east-1&endpoint=http://localhost:4566
func parseS3URL(u *url.URL) (s3Location, error) {
	loc := s3Location{
		bucket:   u.Host,
		prefix:   strings.Trim(u.Path, "/"),
		region:   u.Query().Get("region"),
		endpoint: u.Query().Get("endpoint"),
	}
	if loc.bucket == "" {
		return loc, fmt.Errorf("bucket is required in url, for example: s3://bucket/folder")
	}
	if loc.prefix != "" {
		loc.prefix += "/"
	}
	if loc.region == "" {
		loc.region = os.Getenv("AWS_REGION")
	}
	if loc.region == "" {
		loc.region = "us-west-2"
	}
	return loc, nil
}

func newS3Sink(ctx context.Context, logger logger.Logger, u *url.URL, opts Options) (Sink, error) {
	loc, err := parseS3URL(u)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(loc.region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		o.UsePathStyle = true
		if loc.endpoint != "" {
			o.BaseEndpoint = aws.String(loc.endpoint)
		}
	})
	return &s3Sink{
		logger: logger.WithPrefix("[s3]"),
		bucket: loc.bucket,
		prefix: loc.prefix,
		s3:     client,
		opts:   opts,
	}, nil
}

func (s *s3Sink) unchanged(ctx context.Context, key string, hash string) bool {
	resp, err := s.s3.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false
	}
	return resp.Metadata[hashMetadataKey] == hash
}

func (s *s3Sink) Write(ctx context.Context, name string, buf []byte) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	key := s.prefix + name
	hash := util.Hash(buf)
	if s.opts.SkipUnchanged && s.unchanged(ctx, key, hash) {
		s.logger.Trace("unchanged %s:%s", s.bucket, key)
		return false, nil
	}
	if s.opts.DryRun {
		s.logger.Trace("would store %s:%s", s.bucket, key)
		return true, nil
	}
	_, err := s.s3.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String("application/json"),
		Body:          bytes.NewReader(buf),
		ContentLength: aws.Int64(int64(len(buf))),
		Metadata:      map[string]string{hashMetadataKey: hash},
	})
	if err != nil {
		return false, fmt.Errorf("error storing s3 object to %s:%s: %w", s.bucket, key, err)
	}
	s.logger.Trace("stored %s:%s", s.bucket, key)
	return true, nil
}

func (s *s3Sink) Close() error {
	return nil
}

func (s *s3Sink) String() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

func init() {
	Register("s3", newS3Sink)
}
