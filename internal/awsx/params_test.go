package awsx

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

type fakeParameterAPI struct {
	values map[string]string
	err    error
}

func (f *fakeParameterAPI) GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[aws.ToString(in.Name)]
	if !ok {
		return nil, errors.New("ParameterNotFound")
	}
	return &ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String(v)},
	}, nil
}

func TestAllowListSplitsAndTrims(t *testing.T) {
	api := &fakeParameterAPI{values: map[string]string{
		"allowlist": "203.0.113.7, 198.51.100.4 ,192.0.2.1,",
	}}
	p := NewParams(api, "allowlist", "message")

	ips, err := p.AllowList(context.Background())
	if err != nil {
		t.Fatalf("AllowList: %v", err)
	}
	want := []string{"203.0.113.7", "198.51.100.4", "192.0.2.1"}
	if len(ips) != len(want) {
		t.Fatalf("ips = %v, want %v", ips, want)
	}
	for i := range want {
		if ips[i] != want[i] {
			t.Fatalf("ips[%d] = %q, want %q", i, ips[i], want[i])
		}
	}
}

func TestAllowListPropagatesFetchError(t *testing.T) {
	api := &fakeParameterAPI{err: errors.New("throttled")}
	p := NewParams(api, "allowlist", "message")

	if _, err := p.AllowList(context.Background()); err == nil {
		t.Fatalf("fetch error must propagate so the authorizer can fail closed")
	}
}

func TestMessageConfig(t *testing.T) {
	api := &fakeParameterAPI{values: map[string]string{
		"message": `{"message_webhook_id":"123","message_webhook_token":"tok"}`,
	}}
	p := NewParams(api, "allowlist", "message")

	cfg, err := p.MessageConfig(context.Background())
	if err != nil {
		t.Fatalf("MessageConfig: %v", err)
	}
	if cfg.WebhookID != "123" || cfg.WebhookToken != "tok" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestMessageConfigRejectsIncomplete(t *testing.T) {
	api := &fakeParameterAPI{values: map[string]string{
		"message": `{"message_webhook_id":"123"}`,
	}}
	p := NewParams(api, "allowlist", "message")

	if _, err := p.MessageConfig(context.Background()); err == nil {
		t.Fatalf("missing token must be an error")
	}
}
