package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pezkuwi/wallet-config/internal/syncer"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type SlackService struct {
	logger     *logrus.Logger
	webhookURL string
	client     *http.Client
}

type SlackMessage struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	Color  string  `json:"color,omitempty"`
	Text   string  `json:"text,omitempty"`
	Fields []Field `json:"fields,omitempty"`
	Footer string  `json:"footer,omitempty"`
	Ts     int64   `json:"ts,omitempty"`
}

type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func NewSlackService(logger *logrus.Logger) (*SlackService, error) {
	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")
	if webhookURL == "" {
		return nil, fmt.Errorf("SLACK_WEBHOOK_URL environment variable is not set")
	}

	return &SlackService{
		logger:     logger,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// SendSyncSummary posts a short digest of a completed sync run.
func (s *SlackService) SendSyncSummary(summary *syncer.Summary) error {
	title := cases.Title(language.English)

	fields := []Field{
		{
			Title: title.String("overlay chains"),
			Value: fmt.Sprintf("%d", summary.OverlayChains),
			Short: true,
		},
		{
			Title: title.String("xcm files"),
			Value: fmt.Sprintf("%d", summary.XCMFiles),
			Short: true,
		},
		{
			Title: title.String("icons copied"),
			Value: fmt.Sprintf("%d", summary.IconsCopied),
			Short: true,
		},
	}

	for _, v := range summary.Versions {
		fields = append(fields, Field{
			Title: fmt.Sprintf("Chains %s", v.Version),
			Value: fmt.Sprintf("%d overlay + %d base = %d", v.Overlay, v.Base, v.Merged),
			Short: true,
		})
	}

	message := SlackMessage{
		Text: "✅ Pezkuwi wallet config sync completed",
		Attachments: []Attachment{
			{
				Color:  "#36a64f",
				Fields: fields,
				Footer: "wallet-config sync",
				Ts:     time.Now().Unix(),
			},
		},
	}

	return s.send(message)
}

func (s *SlackService) send(message SlackMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to send Slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status code: %d", resp.StatusCode)
	}

	s.logger.Debug("Slack notification sent")
	return nil
}
