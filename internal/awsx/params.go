package awsx

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterAPI is the slice of the SSM client that Params depends on.
type ParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Params reads operational parameters from SSM Parameter Store.
type Params struct {
	api           ParameterAPI
	allowListName string
	messageName   string
}

// NewParams creates a Params reader bound to the configured parameter names.
func NewParams(api ParameterAPI, allowListName, messageName string) *Params {
	return &Params{
		api:           api,
		allowListName: allowListName,
		messageName:   messageName,
	}
}

// AllowList fetches the comma-separated approved-IP parameter and splits it
// into individual entries. It is called on every authorization check so that
// list updates take effect immediately; correctness over latency.
func (p *Params) AllowList(ctx context.Context) ([]string, error) {
	value, err := p.get(ctx, p.allowListName)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(value, ",")
	ips := make([]string, 0, len(parts))
	for _, part := range parts {
		if ip := strings.TrimSpace(part); ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips, nil
}

// WebhookConfig is the operator-notification delivery credential pair stored
// as a JSON parameter.
type WebhookConfig struct {
	WebhookID    string `json:"message_webhook_id"`
	WebhookToken string `json:"message_webhook_token"`
}

// MessageConfig fetches and decodes the notification webhook parameter. It is
// read once at process start.
func (p *Params) MessageConfig(ctx context.Context) (WebhookConfig, error) {
	value, err := p.get(ctx, p.messageName)
	if err != nil {
		return WebhookConfig{}, err
	}

	var cfg WebhookConfig
	if err := json.Unmarshal([]byte(value), &cfg); err != nil {
		return WebhookConfig{}, fmt.Errorf("awsx: decode message parameter %s: %w", p.messageName, err)
	}
	if cfg.WebhookID == "" || cfg.WebhookToken == "" {
		return WebhookConfig{}, fmt.Errorf("awsx: message parameter %s is missing webhook id or token", p.messageName)
	}
	return cfg, nil
}

// get retrieves a single parameter value by name.
func (p *Params) get(ctx context.Context, name string) (string, error) {
	out, err := p.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("awsx: get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("awsx: parameter %s has no value", name)
	}
	return *out.Parameter.Value, nil
}
