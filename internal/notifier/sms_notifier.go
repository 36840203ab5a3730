package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Keoroanthony/go-customers/configs"
)

type SMSResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Cost       string `json:"cost"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// ATSMSSender sends SMS through the Africa's Talking messaging API.
type ATSMSSender struct {
	client *resty.Client
	cfg    config.AfricaTalkingConfig
	log    *slog.Logger
}

func NewATSMSSender(cfg config.AfricaTalkingConfig, log *slog.Logger) *ATSMSSender {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("apikey", cfg.APIKey)

	return &ATSMSSender{client: client, cfg: cfg, log: log}
}

func (s *ATSMSSender) SendSMS(ctx context.Context, to, text string) error {
	var smsResp SMSResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": s.cfg.Username,
			"to":       to,
			"message":  text,
			"from":     s.cfg.SenderID,
		}).
		SetResult(&smsResp).
		Post(s.cfg.SMSURL)
	if err != nil {
		return fmt.Errorf("SMS send failed: %w", err)
	}

	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		s.log.WarnContext(ctx, "SMS API returned non-success status", "to", to, "status", resp.StatusCode(), "body", resp.String())
		return fmt.Errorf("SMS API returned non-success status: %d", resp.StatusCode())
	}

	s.log.InfoContext(ctx, "SMS sent", "to", to, "message", smsResp.SMSMessageData.Message)
	return nil
}

func passwordChangedSMS() string {
	return "Your account password was just changed. If this was not you, contact us immediately."
}
