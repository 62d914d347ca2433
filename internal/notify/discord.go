package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DiscordSender delivers signal summaries via a Discord webhook addressed by
// id and token.
type DiscordSender struct {
	webhookURL string
	username   string
	content    string
	client     *http.Client
}

// NewDiscordSender creates a DiscordSender from the webhook id/token pair
// held in the parameter store. It uses a default HTTP client with a
// 10-second timeout.
func NewDiscordSender(webhookID, webhookToken, username string) *DiscordSender {
	return &DiscordSender{
		webhookURL: fmt.Sprintf("https://discord.com/api/webhooks/%s/%s", webhookID, webhookToken),
		username:   username,
		content:    "Trading signal receiving from webhook",
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// embedField is one name/value row in a Discord embed.
type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// embed is one rich block in a Discord message.
type embed struct {
	Fields []embedField `json:"fields"`
}

// discordPayload is the webhook body shape Discord expects.
type discordPayload struct {
	Username string  `json:"username"`
	Content  string  `json:"content"`
	Embeds   []embed `json:"embeds"`
}

// Send posts the summary as an embed. Discord acknowledges success with an
// empty 204 response; any non-2xx status is a failure.
func (d *DiscordSender) Send(ctx context.Context, msg Message) error {
	payload := discordPayload{
		Username: d.username,
		Content:  d.content,
		Embeds: []embed{{
			Fields: []embedField{
				{Name: "Strategy", Value: msg.Strategy, Inline: true},
				{Name: "Time", Value: msg.SignalTime, Inline: true},
				{Name: "Market", Value: msg.MarketPair},
				{Name: "Price", Value: msg.SignalPrice},
				{Name: "Order Side", Value: msg.Side},
				{Name: "Order Size", Value: msg.Size},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("discord: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("discord: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Name returns the sender identifier.
func (d *DiscordSender) Name() string {
	return "discord"
}
