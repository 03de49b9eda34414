package s3

import (
	"fmt"

	"erp-portal/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const errCreateSessionFmt = "failed to create aws session: %w"

// NewClient creates an S3 client for the configured region. Static
// credentials are used when both keys are set; otherwise the default AWS
// credential chain applies.
func NewClient(cfg *config.AWSConfig) (*s3.S3, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errCreateSessionFmt, err)
	}

	return s3.New(sess), nil
}
