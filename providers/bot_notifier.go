package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"recipebot.app/config"
	"recipebot.app/errors"
)

// BotNotifier delivers messages to users through the bot HTTP API
type BotNotifier struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewBotNotifier creates a new bot API notifier
func NewBotNotifier(config *config.BotConfig) *BotNotifier {
	return &BotNotifier{
		baseURL: config.APIBaseURL,
		token:   config.Token,
		client: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// SendMessage posts a text message to the given chat
func (p *BotNotifier) SendMessage(chatID int64, text string) error {
	if text == "" {
		return errors.NewValidationError("message text cannot be empty")
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return errors.NewDeliveryError("failed to encode message", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", p.baseURL, p.token)
	resp, err := p.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.NewDeliveryError("failed to send message", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewDeliveryError(
			fmt.Sprintf("bot API returned status %d", resp.StatusCode), nil)
	}

	return nil
}
