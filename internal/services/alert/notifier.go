package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/custodian/internal/domain"
	"github.com/vadiminshakov/custodian/pkg/retrier"
)

// Notifier delivers alert events to the operator channel. Once an event is
// handed off, delivery is the channel's problem, not the monitor's.
type Notifier interface {
	Notify(ctx context.Context, event domain.AlertEvent) error
}

// LogNotifier writes alerts to the log. It is the fallback when no operator
// channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event domain.AlertEvent) error {
	n.logger.Warn("wallet balance below floor",
		zap.String("asset", event.Asset.String()),
		zap.String("liquid_usd", event.LiquidUSD.String()),
		zap.String("floor", event.Floor.String()))
	return nil
}

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier posts alerts to a Telegram chat.
type TelegramNotifier struct {
	token      string
	chatID     string
	apiBase    string
	httpClient *http.Client
	retrier    *retrier.Retrier
}

// NewTelegramNotifier creates a notifier for the given bot token and chat.
func NewTelegramNotifier(token, chatID string, timeout time.Duration) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TelegramNotifier{
		token:      token,
		chatID:     chatID,
		apiBase:    telegramAPIBase,
		httpClient: &http.Client{Timeout: timeout},
		retrier: retrier.New(
			retrier.WithMaxRetries(3),
			retrier.WithInitialInterval(time.Second),
		),
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Notify delivers one alert, retrying transient failures with backoff.
func (n *TelegramNotifier) Notify(ctx context.Context, event domain.AlertEvent) error {
	text := fmt.Sprintf("⚠️ <b>%s</b> wallet is low\nliquid: $%s\nfloor: $%s",
		event.Asset, event.LiquidUSD.StringFixed(0), event.Floor.StringFixed(0))

	return n.retrier.Do(ctx, func(ctx context.Context) error {
		return n.send(ctx, text)
	})
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return errors.Wrap(err, "marshal telegram message")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build telegram request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send telegram message")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return errors.Errorf("telegram returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
