package awsx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretAPI is the slice of the Secrets Manager client that Secrets depends on.
type SecretAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SigningCredential is the exchange account credential stored as a JSON
// secret: the trading address and the mnemonic its key derives from.
type SigningCredential struct {
	Address  string `json:"address"`
	Mnemonic string `json:"mnemonic"`
}

// Secrets reads the signing credential from Secrets Manager.
type Secrets struct {
	api        SecretAPI
	secretName string
}

// NewSecrets creates a Secrets reader bound to the configured secret name.
func NewSecrets(api SecretAPI, secretName string) *Secrets {
	return &Secrets{
		api:        api,
		secretName: secretName,
	}
}

// SigningCredential fetches and decodes the credential secret. It is called
// exactly once at process start; the credential is then held for the process
// lifetime.
func (s *Secrets) SigningCredential(ctx context.Context) (SigningCredential, error) {
	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretName),
	})
	if err != nil {
		return SigningCredential{}, fmt.Errorf("awsx: get secret %s: %w", s.secretName, err)
	}
	if out.SecretString == nil {
		return SigningCredential{}, fmt.Errorf("awsx: secret %s has no string value", s.secretName)
	}

	var cred SigningCredential
	if err := json.Unmarshal([]byte(*out.SecretString), &cred); err != nil {
		return SigningCredential{}, fmt.Errorf("awsx: decode secret %s: %w", s.secretName, err)
	}
	if cred.Address == "" || cred.Mnemonic == "" {
		return SigningCredential{}, fmt.Errorf("awsx: secret %s is missing address or mnemonic", s.secretName)
	}
	return cred, nil
}
