package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/smenalab/smena-backend/internal/logger"
	"github.com/smenalab/smena-backend/internal/utils"
)

// Client is a thin Telegram Bot API wrapper; the backend only needs
// sendMessage to reach a user's chat.
type Client interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Config struct {
	BotToken   string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv() Config {
	timeoutSec := utils.GetEnvAsInt("TELEGRAM_TIMEOUT_SECONDS", 10, nil)
	maxRetries := utils.GetEnvAsInt("TELEGRAM_MAX_RETRIES", 3, nil)

	return Config{
		BotToken:   strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		BaseURL:    strings.TrimSpace(os.Getenv("TELEGRAM_BASE_URL")),
		Timeout:    time.Duration(timeoutSec) * time.Second,
		MaxRetries: maxRetries,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BotToken) == "" {
		return nil, fmt.Errorf("missing TELEGRAM_BOT_TOKEN")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.telegram.org"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &client{
		log:        log.With("client", "TelegramClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	maxRetries int
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after,omitempty"`
	} `json:"parameters,omitempty"`
}

type HTTPError struct {
	StatusCode  int
	Description string
	RetryAfter  int
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "telegram: <nil error>"
	}
	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		desc = "<empty description>"
	}
	return fmt.Sprintf("telegram http %d: %s", e.StatusCode, desc)
}

func (c *client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if c == nil || c.httpClient == nil {
		return fmt.Errorf("telegram client unavailable")
	}
	if chatID == 0 {
		return fmt.Errorf("telegram: chat id required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("telegram: text required")
	}

	return c.do(ctx, "sendMessage", sendMessageRequest{ChatID: chatID, Text: text})
}

func (c *client) do(ctx context.Context, method string, body any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := c.doOnce(ctx, method, body)
		if err == nil {
			return nil
		}

		if !retryable(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := backoff
		var he *HTTPError
		if errors.As(err, &he) && he.RetryAfter > 0 {
			sleepFor = time.Duration(he.RetryAfter) * time.Second
		}
		if sleepFor > 10*time.Second {
			sleepFor = 10 * time.Second
		}

		c.log.Warn("Telegram request retrying",
			"method", method,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return errors.New("unreachable retry loop")
}

func (c *client) doOnce(ctx context.Context, method string, body any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.cfg.BaseURL, c.cfg.BotToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	var parsed apiResponse
	_ = json.Unmarshal(raw, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !parsed.OK {
		he := &HTTPError{StatusCode: resp.StatusCode, Description: parsed.Description}
		if parsed.Parameters != nil {
			he.RetryAfter = parsed.Parameters.RetryAfter
		}
		return he
	}

	return nil
}

func retryable(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= 500
	}
	// Transport errors (timeouts, resets) are worth one more try.
	return true
}
