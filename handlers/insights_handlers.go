package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"retailpos/analytics"
	"retailpos/config"
	"retailpos/models"
)

// HandleGetInsights feeds the computed analytics to Gemini and returns a
// human-readable narrative. The numbers always come from the local
// computation; the model only explains them.
func HandleGetInsights(c *fiber.Ctx) error {
	if config.AppConfig.GeminiAPIKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "AI insights are not configured"})
	}

	var req models.InsightsRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	bills, products := appStore.Snapshot()
	summary := analytics.Compute(bills, products, time.Now())

	narrative, err := generateInsights(req.Prompt, summary)
	if err != nil {
		log.Printf("Error generating insights: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate insights"})
	}

	return c.JSON(fiber.Map{
		"status":    "success",
		"analysis":  narrative,
		"analytics": summary,
	})
}

// generateInsights asks Gemini to narrate the analytics snapshot.
func generateInsights(prompt string, summary models.SalesAnalytics) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	data, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to marshal analytics: %w", err)
	}

	if prompt == "" {
		prompt = "Summarize how the store is doing and what to restock."
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	fullPrompt := fmt.Sprintf(
		`You are a retail analyst for a small store. Using only the JSON analytics below, answer the question in a short, plain-language summary. Do not invent numbers.

Question: %s

Analytics: %s`,
		prompt, data,
	)

	resp, err := model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate insights: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return fmt.Sprint(resp.Candidates[0].Content.Parts[0]), nil
}
