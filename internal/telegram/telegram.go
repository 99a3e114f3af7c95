package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Notifier sends one-shot messages to a Telegram chat. A Notifier with empty
// credentials is valid and silently skips delivery, so callers never need to
// branch on whether Telegram is configured.
type Notifier struct {
	Token  string
	ChatID string
}

// Notify posts a Markdown message to the configured chat. Delivery failures
// are logged, not returned; a lost notification must never fail a cycle.
func (n *Notifier) Notify(text string) {
	if n == nil || n.Token == "" || n.ChatID == "" {
		return
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.Token)
	payload := map[string]string{
		"chat_id":    n.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Telegram notification failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Telegram API error: status %s", resp.Status)
	}
}
