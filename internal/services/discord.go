package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/hamdaan-dev/taskboard-api/internal/config"
)

// ErrWebhookNotConfigured is returned when the target channel has no URL set.
var ErrWebhookNotConfigured = errors.New("discord webhook URL not configured")

// DiscordMessage is the webhook payload. allowed_mentions restricts pings to
// the users named in the content.
type DiscordMessage struct {
	Content         string           `json:"content"`
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
}

// AllowedMentions lists Discord user IDs the message may ping.
type AllowedMentions struct {
	Users []string `json:"users"`
}

// FormatReminder builds the reminder message for one assignee. The mention
// token is parsed by Discord, so the structure is a contract.
func FormatReminder(discordID, taskTitle, eventName string) DiscordMessage {
	return DiscordMessage{
		Content: fmt.Sprintf("<@%s> ⏰ **Reminder**: Task **'%s'** for event **'%s'** needs your attention!",
			discordID, taskTitle, eventName),
		AllowedMentions: &AllowedMentions{Users: []string{discordID}},
	}
}

// FormatCannotDoAlert builds the admin-channel alert for a blocked task.
// Each field sits on its own line.
func FormatCannotDoAlert(actorName, taskTitle, eventName, reason string) DiscordMessage {
	return DiscordMessage{
		Content: fmt.Sprintf("⚠️ **Task Blocked Alert**\n\n**User**: %s\n**Task**: %s\n**Event**: %s\n**Reason**: %s",
			actorName, taskTitle, eventName, reason),
	}
}

// Notifier dispatches messages to the two configured channels. Delivery
// failures are for the caller to log, never to propagate into the state
// transition that triggered them.
type Notifier interface {
	SendReminder(ctx context.Context, discordID, taskTitle, eventName string) error
	SendCannotDoAlert(ctx context.Context, actorName, taskTitle, eventName, reason string) error
}

// DiscordNotifier posts messages to Discord webhooks with a bounded timeout.
type DiscordNotifier struct {
	reminderURL string
	adminURL    string
	client      *http.Client
	logger      *zap.Logger
}

// NewDiscordNotifier creates a DiscordNotifier from config.
func NewDiscordNotifier(cfg *config.Config, logger *zap.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		reminderURL: cfg.ReminderWebhookURL,
		adminURL:    cfg.AdminWebhookURL,
		client:      &http.Client{Timeout: cfg.WebhookTimeout},
		logger:      logger,
	}
}

// SendReminder posts a reminder ping to the general reminder channel.
func (n *DiscordNotifier) SendReminder(ctx context.Context, discordID, taskTitle, eventName string) error {
	if n.reminderURL == "" {
		n.logger.Warn("reminder webhook URL not configured")
		return ErrWebhookNotConfigured
	}
	return n.post(ctx, n.reminderURL, FormatReminder(discordID, taskTitle, eventName))
}

// SendCannotDoAlert posts a blocked-task alert to the admin channel.
func (n *DiscordNotifier) SendCannotDoAlert(ctx context.Context, actorName, taskTitle, eventName, reason string) error {
	if n.adminURL == "" {
		n.logger.Warn("admin webhook URL not configured")
		return ErrWebhookNotConfigured
	}
	return n.post(ctx, n.adminURL, FormatCannotDoAlert(actorName, taskTitle, eventName, reason))
}

func (n *DiscordNotifier) post(ctx context.Context, url string, msg DiscordMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
