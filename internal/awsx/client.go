// Package awsx wraps the AWS SDK v2 clients for the two stores this service
// reads at runtime: SSM Parameter Store (IP allow-list, notification webhook
// config) and Secrets Manager (exchange signing credential).
package awsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// LoadConfig builds the base AWS configuration for the given region using the
// default credential chain (environment, shared config, task role).
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("awsx: load aws config: %w", err)
	}
	return awsCfg, nil
}

// NewSSMClient constructs the Parameter Store client from a base config.
func NewSSMClient(awsCfg aws.Config) *ssm.Client {
	return ssm.NewFromConfig(awsCfg)
}

// NewSecretsClient constructs the Secrets Manager client from a base config.
func NewSecretsClient(awsCfg aws.Config) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(awsCfg)
}
