package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/logger"
)

// DiscordNotifier posts sweep summaries to a Discord channel webhook
type DiscordNotifier struct {
	session   *discordgo.Session
	webhookID string
	token     string
}

// NewDiscordNotifier parses a webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}
func NewDiscordNotifier(webhookURL string) (*DiscordNotifier, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	// Webhook execution is authorized by the token in the path, not a bot token
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateSession, err)
	}

	return &DiscordNotifier{session: session, webhookID: id, token: token}, nil
}

// NotifySweep implements syncer.SweepNotifier
func (n *DiscordNotifier) NotifySweep(ctx context.Context, summary *domain.SweepSummary) error {
	params := &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{summaryEmbed(summary)},
	}

	if _, err := n.session.WebhookExecute(n.webhookID, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgExecuteWebhook, err)
	}

	logger.FromContext(ctx).Info(LogMsgSweepNotified,
		"users_failed", summary.UsersFailed,
		"users_partial", summary.UsersPartial)
	return nil
}

func parseWebhookURL(raw string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", ErrMsgInvalidWebhookURL, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", "", errors.New(ErrMsgInvalidWebhookURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == webhookPathPrefix && i+2 < len(parts) && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", errors.New(ErrMsgInvalidWebhookURL)
}

func summaryEmbed(s *domain.SweepSummary) *discordgo.MessageEmbed {
	color := ColorPartial
	if s.UsersFailed > 0 && s.UsersSucceeded == 0 && s.UsersPartial == 0 {
		color = ColorFailed
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   FieldUsers,
			Value:  fmt.Sprintf("%d total, %d ok, %d partial, %d failed", s.UsersTotal, s.UsersSucceeded, s.UsersPartial, s.UsersFailed),
			Inline: false,
		},
		{
			Name:   FieldPlatforms,
			Value:  fmt.Sprintf("%d synced, %d failed", s.PlatformsSynced, s.PlatformsFailed),
			Inline: true,
		},
		{
			Name:   FieldDuration,
			Value:  s.Duration().Round(time.Millisecond).String(),
			Inline: true,
		},
	}
	if lines := failureLines(s.Failures); lines != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: FieldFailures, Value: lines})
	}

	return &discordgo.MessageEmbed{
		Title:     EmbedTitle,
		Color:     color,
		Fields:    fields,
		Timestamp: s.FinishedAt.UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: EmbedFooter},
	}
}

// failureLines lists at most MaxFailureLines users in stable order
func failureLines(failures map[string]string) string {
	if len(failures) == 0 {
		return ""
	}
	users := make([]string, 0, len(failures))
	for user := range failures {
		users = append(users, user)
	}
	sort.Strings(users)

	var b strings.Builder
	for i, user := range users {
		if i == MaxFailureLines {
			fmt.Fprintf(&b, "... and %d more", len(users)-MaxFailureLines)
			break
		}
		fmt.Fprintf(&b, "`%s`: %s\n", user, failures[user])
	}
	return strings.TrimRight(b.String(), "\n")
}
