package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/clinicdesk/pkg/config"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
	"github.com/zatekoja/clinicdesk/pkg/retry"
)

// WhatsAppCloudSender sends patient messages via the WhatsApp Cloud API
type WhatsAppCloudSender struct {
	accessToken   string
	phoneNumberID string
	countryCode   string
	httpClient    *http.Client
	baseURL       string
	retry         retry.Config
}

// NewWhatsAppCloudSender creates a sender from configuration
func NewWhatsAppCloudSender(cfg *config.WhatsAppConfig) (*WhatsAppCloudSender, error) {
	if cfg.AccessToken == "" || cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("WHATSAPP_ACCESS_TOKEN and WHATSAPP_PHONE_NUMBER_ID must be set")
	}

	return &WhatsAppCloudSender{
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		countryCode:   cfg.CountryCode,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		retry: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  500 * time.Millisecond,
			MaxDelay:      4 * time.Second,
			BackoffFactor: 2,
		},
	}, nil
}

// WhatsAppTemplateMessage represents a template message
type WhatsAppTemplateMessage struct {
	MessagingProduct string                      `json:"messaging_product"`
	RecipientType    string                      `json:"recipient_type"`
	To               string                      `json:"to"`
	Type             string                      `json:"type"`
	Template         WhatsAppTemplateMessageBody `json:"template"`
}

// WhatsAppTemplateMessageBody represents the template body
type WhatsAppTemplateMessageBody struct {
	Name       string                             `json:"name"`
	Language   WhatsAppLanguage                   `json:"language"`
	Components []WhatsAppTemplateMessageComponent `json:"components,omitempty"`
}

// WhatsAppLanguage represents the language code
type WhatsAppLanguage struct {
	Code string `json:"code"`
}

// WhatsAppTemplateMessageComponent represents a template component
type WhatsAppTemplateMessageComponent struct {
	Type       string                             `json:"type"`
	Parameters []WhatsAppTemplateMessageParameter `json:"parameters"`
}

// WhatsAppTemplateMessageParameter represents a template parameter
type WhatsAppTemplateMessageParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// WhatsAppTextMessage represents a text message
type WhatsAppTextMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

// WhatsAppResponse represents the API response
type WhatsAppResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Messages         []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// NormalizePhone turns a local number such as 0555123456 into international digits
// using countryCode. Numbers already carrying a + or 00 prefix keep their own code.
func NormalizePhone(phone, countryCode string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	out := digits.String()
	switch {
	case strings.HasPrefix(strings.TrimSpace(phone), "+"):
		return out
	case strings.HasPrefix(out, "00"):
		return out[2:]
	case strings.HasPrefix(out, "0") && countryCode != "":
		return countryCode + out[1:]
	}
	return out
}

// SendTemplate sends a template message and returns its message id
func (w *WhatsAppCloudSender) SendTemplate(ctx context.Context, to, templateName, languageCode string, parameters []string) (string, error) {
	var components []WhatsAppTemplateMessageComponent
	if len(parameters) > 0 {
		params := make([]WhatsAppTemplateMessageParameter, len(parameters))
		for i, param := range parameters {
			params[i] = WhatsAppTemplateMessageParameter{Type: "text", Text: param}
		}
		components = append(components, WhatsAppTemplateMessageComponent{
			Type:       "body",
			Parameters: params,
		})
	}

	return w.sendMessage(ctx, WhatsAppTemplateMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               NormalizePhone(to, w.countryCode),
		Type:             "template",
		Template: WhatsAppTemplateMessageBody{
			Name:       templateName,
			Language:   WhatsAppLanguage{Code: languageCode},
			Components: components,
		},
	})
}

// SendText sends a free-form text message and returns its message id
func (w *WhatsAppCloudSender) SendText(ctx context.Context, to, body string) (string, error) {
	message := WhatsAppTextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               NormalizePhone(to, w.countryCode),
		Type:             "text",
	}
	message.Text.Body = body

	return w.sendMessage(ctx, message)
}

// apiError is the error envelope returned by the Graph API
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// errPermanent wraps a failure that retrying cannot fix
type errPermanent struct{ err error }

func (e errPermanent) Error() string { return e.err.Error() }

func (w *WhatsAppCloudSender) sendMessage(ctx context.Context, message interface{}) (string, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return "", apperrors.NewInternalError("failed to encode WhatsApp message", err)
	}

	var (
		messageID string
		permanent error
	)
	err = retry.DoWithLog(ctx, w.retry, "WhatsApp",
		func() error {
			id, err := w.post(ctx, payload)
			var p errPermanent
			if errors.As(err, &p) {
				permanent = p.err
				return nil
			}
			messageID = id
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("WhatsApp send failed")
		},
	)
	if permanent != nil {
		err = permanent
	}
	if err != nil {
		return "", apperrors.NewExternalError("WhatsApp message was not sent", err)
	}
	return messageID, nil
}

// post performs one send; rate limits and server errors are returned as retryable
func (w *WhatsAppCloudSender) post(ctx context.Context, payload []byte) (string, error) {
	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", errPermanent{err}
	}
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := strings.TrimSpace(string(body))
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			detail = fmt.Sprintf("%s (code %d)", apiErr.Error.Message, apiErr.Error.Code)
		}
		err := fmt.Errorf("WhatsApp API error (status %d): %s", resp.StatusCode, detail)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", err
		}
		return "", errPermanent{err}
	}

	var sent WhatsAppResponse
	if err := json.Unmarshal(body, &sent); err != nil {
		return "", errPermanent{fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(sent.Messages) == 0 {
		return "", errPermanent{errors.New("no message ID in response")}
	}
	return sent.Messages[0].ID, nil
}
