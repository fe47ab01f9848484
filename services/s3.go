package services

import (
	"fmt"
	"strings"
	"time"

	"conversions/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const s3Scheme = "s3://"

// S3Service signs time-limited download links for converter output stored in S3.
// It never reads or writes object data.
type S3Service struct {
	client *s3.S3
	ttl    time.Duration
}

func NewS3Service(cfg *config.Config) (*S3Service, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.S3Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSS3AccessKey,
			cfg.AWSS3SecretKey,
			"",
		),
	}

	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
	}

	if cfg.S3UsePathStyle {
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	ttl := cfg.S3PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Service{client: s3.New(sess), ttl: ttl}, nil
}

// ParseS3Ref splits "s3://bucket/key" into its parts.
func ParseS3Ref(ref string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(ref, s3Scheme) {
		return "", "", false
	}
	bucket, key, found := strings.Cut(strings.TrimPrefix(ref, s3Scheme), "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// PresignOutput returns a GET URL for an s3:// reference. References in any
// other form are reported with ok=false and no error.
func (s *S3Service) PresignOutput(ref string) (string, bool, error) {
	bucket, key, ok := ParseS3Ref(ref)
	if !ok {
		return "", false, nil
	}

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(s.ttl)
	if err != nil {
		return "", false, fmt.Errorf("failed to presign %s: %w", ref, err)
	}
	return url, true, nil
}
