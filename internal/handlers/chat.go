package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const chatSystemPrompt = "You are a friendly support assistant for an online clothing store. " +
	"Answer briefly in the language of the customer. You can help with orders, delivery, " +
	"returns, sizes and payment questions. If you do not know the answer, point the " +
	"customer to the support email."

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type openAIChatRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

var chatHTTPClient = &http.Client{Timeout: 15 * time.Second}

type cannedReply struct {
	keywords []string
	reply    string
}

// Keyword-matched fallback answers used when no API key is configured or the
// upstream call fails. First match wins.
var cannedReplies = []cannedReply{
	{
		keywords: []string{"доставка", "доставите", "delivery", "shipping"},
		reply:    "Доставяме с куриер в рамките на 2-4 работни дни. При поръчка над прага за безплатна доставка не дължите такса.",
	},
	{
		keywords: []string{"плащане", "карта", "наложен", "payment", "pay"},
		reply:    "Приемаме плащане с карта (Visa, Mastercard) и наложен платеж при доставка.",
	},
	{
		keywords: []string{"връщане", "замяна", "върна", "return", "refund"},
		reply:    "Можете да върнете или замените продукт до 14 дни след получаване, стига да е в оригиналния си вид.",
	},
	{
		keywords: []string{"размер", "размери", "size"},
		reply:    "Таблицата с размери е на страницата на всеки продукт. Ако се колебаете между два размера, препоръчваме по-големия.",
	},
	{
		keywords: []string{"контакт", "телефон", "имейл", "contact", "email"},
		reply:    "Можете да се свържете с нас на имейла за поддръжка, посочен в сайта. Отговаряме в рамките на един работен ден.",
	},
}

const defaultCannedReply = "Здравейте! Как можем да Ви помогнем? Можете да ни питате за доставка, плащане, връщане или размери."

// fallbackReply picks a canned answer by keyword.
func fallbackReply(message string) string {
	lowered := strings.ToLower(message)
	for _, canned := range cannedReplies {
		for _, keyword := range canned.keywords {
			if strings.Contains(lowered, keyword) {
				return canned.reply
			}
		}
	}
	return defaultCannedReply
}

func askOpenAI(apiKey, model, message string) (string, error) {
	payload, err := json.Marshal(openAIChatRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := chatHTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d", res.StatusCode)
	}

	var parsed openAIChatResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// ChatAI answers support questions. Degrades to canned replies instead of
// failing when the completion API is unavailable.
func ChatAI(apiKey, model string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		message := strings.TrimSpace(req.Message)
		if message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}

		if apiKey == "" {
			c.JSON(http.StatusOK, gin.H{"reply": fallbackReply(message), "source": "rules"})
			return
		}

		reply, err := askOpenAI(apiKey, model, message)
		if err != nil {
			log.Println("[CHAT] [ERROR] completion call failed:", err)
			c.JSON(http.StatusOK, gin.H{"reply": fallbackReply(message), "source": "rules"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"reply": reply, "source": "ai"})
	}
}
