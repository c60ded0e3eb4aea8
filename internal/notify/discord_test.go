package notify

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

// MockRoundTripper intercepts requests the Discord session sends
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantID    string
		wantToken string
		wantErr   bool
	}{
		{"discord.com", "https://discord.com/api/webhooks/123456/abc-DEF_tok", "123456", "abc-DEF_tok", false},
		{"versioned api path", "https://discord.com/api/v10/webhooks/42/tkn/", "42", "tkn", false},
		{"missing token", "https://discord.com/api/webhooks/123456", "", "", true},
		{"not a webhook", "https://example.com/hooks/1/2", "", "", true},
		{"bad scheme", "ftp://discord.com/api/webhooks/1/2", "", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, token, err := parseWebhookURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestNotifySweep_PostsEmbed(t *testing.T) {
	n, err := NewDiscordNotifier("https://discord.com/api/webhooks/123/secret")
	require.NoError(t, err)

	var gotPath string
	var gotBody []byte
	n.session.Client = &http.Client{Transport: &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			gotPath = req.URL.Path
			gotBody, _ = io.ReadAll(req.Body)
			return &http.Response{
				StatusCode: http.StatusNoContent,
				Body:       io.NopCloser(bytes.NewBufferString("")),
				Header:     make(http.Header),
			}, nil
		},
	}}

	start := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	summary := &domain.SweepSummary{
		UsersTotal:      3,
		UsersSucceeded:  1,
		UsersPartial:    1,
		UsersFailed:     1,
		PlatformsSynced: 4,
		PlatformsFailed: 3,
		Failures:        map[string]string{"bob": "all platforms failed: github=RateLimited", "alice": "some platforms failed: codechef=UpstreamUnavailable"},
		StartedAt:       start,
		FinishedAt:      start.Add(90 * time.Second),
	}

	require.NoError(t, n.NotifySweep(context.Background(), summary))

	assert.Contains(t, gotPath, "/webhooks/123/secret")

	var params struct {
		Embeds []struct {
			Title  string `json:"title"`
			Color  int    `json:"color"`
			Fields []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"fields"`
		} `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &params))
	require.Len(t, params.Embeds, 1)
	embed := params.Embeds[0]
	assert.Equal(t, EmbedTitle, embed.Title)
	assert.Equal(t, ColorPartial, embed.Color)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "3 total, 1 ok, 1 partial, 1 failed", embed.Fields[0].Value)
	assert.Equal(t, "1m30s", embed.Fields[2].Value)
	assert.Contains(t, embed.Fields[3].Value, "`alice`")
	assert.Less(t, bytes.Index([]byte(embed.Fields[3].Value), []byte("alice")), bytes.Index([]byte(embed.Fields[3].Value), []byte("bob")))
}

func TestNotifySweep_WebhookError(t *testing.T) {
	n, err := NewDiscordNotifier("https://discord.com/api/webhooks/123/secret")
	require.NoError(t, err)
	n.session.Client = &http.Client{Transport: &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(bytes.NewBufferString(`{"message":"Unknown Webhook","code":10015}`)),
				Header:     make(http.Header),
			}, nil
		},
	}}

	err = n.NotifySweep(context.Background(), &domain.SweepSummary{UsersTotal: 1, UsersFailed: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgExecuteWebhook)
}

func TestSummaryEmbed_AllFailedIsRed(t *testing.T) {
	embed := summaryEmbed(&domain.SweepSummary{UsersTotal: 2, UsersFailed: 2})
	assert.Equal(t, ColorFailed, embed.Color)
	assert.Len(t, embed.Fields, 3, "no failures field without failure details")
}

func TestFailureLines_Truncates(t *testing.T) {
	failures := make(map[string]string)
	for i := 0; i < MaxFailureLines+5; i++ {
		failures[string(rune('a'+i))] = "all platforms failed"
	}

	lines := failureLines(failures)

	assert.Contains(t, lines, "... and 5 more")
	assert.NotContains(t, lines, "`o`")
}
