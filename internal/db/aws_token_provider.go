package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/pgload/pgload/pkg/pgload"
)

// rdsTokenLifetime is how long an RDS IAM authentication token stays valid.
const rdsTokenLifetime = 15 * time.Minute

// AWSIAMTokenProvider builds RDS IAM authentication tokens from the default
// AWS credential chain (environment, shared config, instance role).
type AWSIAMTokenProvider struct {
	endpoint string // host:port
	region   string
	user     string

	// credentials resolves the AWS credentials; replaced in tests.
	credentials func(ctx context.Context, region string) (aws.CredentialsProvider, error)
	now         func() time.Time
}

// NewAWSIAMTokenProvider creates a token provider for AWS RDS IAM authentication.
// An empty region falls back to $AWS_REGION.
func NewAWSIAMTokenProvider(endpoint, region, user string) (*AWSIAMTokenProvider, error) {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if endpoint == "" || endpoint[0] == ':' {
		return nil, fmt.Errorf("AWS IAM auth requires host: %w", pgload.ErrInvalidConfig)
	}
	if region == "" {
		return nil, fmt.Errorf("AWS IAM auth requires aws_region or $AWS_REGION: %w", pgload.ErrInvalidConfig)
	}
	if user == "" {
		return nil, fmt.Errorf("AWS IAM auth requires user: %w", pgload.ErrInvalidConfig)
	}

	return &AWSIAMTokenProvider{
		endpoint:    endpoint,
		region:      region,
		user:        user,
		credentials: defaultAWSCredentials,
		now:         time.Now,
	}, nil
}

func defaultAWSCredentials(ctx context.Context, region string) (aws.CredentialsProvider, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg.Credentials, nil
}

// GetToken signs a fresh authentication token for the configured user.
func (p *AWSIAMTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	creds, err := p.credentials(ctx, p.region)
	if err != nil {
		return "", time.Time{}, err
	}

	issued := p.now()
	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.user, creds)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build RDS auth token: %w", err)
	}

	return token, issued.Add(rdsTokenLifetime), nil
}

func (p *AWSIAMTokenProvider) String() string {
	return fmt.Sprintf("AWSIAMTokenProvider(endpoint=%s, region=%s, user=%s)", p.endpoint, p.region, p.user)
}
