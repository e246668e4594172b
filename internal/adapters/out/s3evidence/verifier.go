// Package s3evidence checks that the proof photos a driver references were
// actually uploaded to the evidence bucket.
package s3evidence

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"marketplace/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type headObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Verifier implements ports.EvidenceVerifier with HeadObject lookups.
type Verifier struct {
	client headObjectAPI
	bucket string
}

func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Verifier{client: s3.NewFromConfig(sdkConfig), bucket: cfg.Bucket}, nil
}

func newVerifier(client headObjectAPI, bucket string) *Verifier {
	return &Verifier{client: client, bucket: bucket}
}

// Verify fails on the first reference that is not in the bucket.
func (v *Verifier) Verify(ctx context.Context, imageRefs []string) error {
	for _, ref := range imageRefs {
		key, err := v.objectKey(ref)
		if err != nil {
			return err
		}

		_, err = v.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(v.bucket),
			Key:    aws.String(key),
		})
		if err == nil {
			continue
		}
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return errs.NewValueIsInvalidErrorWithCause("proof image", fmt.Errorf("%s was not uploaded", ref))
		}
		return fmt.Errorf("failed to check proof image %s: %w", ref, err)
	}
	return nil
}

// objectKey accepts a bare key, an s3:// URI or an https URL of the bucket
// (virtual-hosted or CDN style, where the path is the key).
func (v *Verifier) objectKey(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if !strings.Contains(ref, "://") {
		return strings.TrimPrefix(ref, "/"), nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("proof image", err)
	}
	if u.Scheme == "s3" && u.Host != v.bucket {
		return "", errs.NewValueIsInvalidErrorWithCause("proof image", fmt.Errorf("%s is outside bucket %s", ref, v.bucket))
	}

	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", errs.NewValueIsInvalidError("proof image")
	}
	return key, nil
}
