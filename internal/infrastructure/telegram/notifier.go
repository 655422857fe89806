package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// markdownEscaper covers the entity markers of Telegram's legacy Markdown mode.
var markdownEscaper = strings.NewReplacer(`\`, `\\`, "_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// Notifier sends run reports to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishReport posts a Markdown summary of the run. Skipped runs are not reported.
func (n *Notifier) PublishReport(ctx context.Context, report domain.RunReport) error {
	if report.Skipped {
		return nil
	}
	return n.send(ctx, FormatReport(report))
}

// FormatReport renders a run report as a Markdown message.
func FormatReport(report domain.RunReport) string {
	var b strings.Builder
	if report.Error != "" {
		fmt.Fprintf(&b, "*SalesDrive sync failed* (%s)\n%s\n", report.Trigger, markdownEscaper.Replace(report.Error))
	} else {
		fmt.Fprintf(&b, "*SalesDrive sync finished* (%s)\n", report.Trigger)
	}
	fmt.Fprintf(&b, "Offers: %d, skipped without id: %d\n", report.Offers, report.Omitted)
	fmt.Fprintf(&b, "Created: %d, updated: %d\n", report.Created, report.Updated)
	fmt.Fprintf(&b, "Duration: %s", report.Duration().Round(time.Millisecond))
	return b.String()
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}
