package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/david/lead-intake/internal/models"
)

// ScoringResult is the structured output requested from the model.
type ScoringResult struct {
	Score           int      `json:"score"`
	Reasoning       string   `json:"reasoning"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

const scoringSystemPrompt = "You are an expert B2B lead scoring system. Always respond with valid JSON only."

// ScoreLead asks the model for a score plus insights for one normalized lead.
// Any failure (missing credentials, transport error, non-2xx, empty or
// unparsable response) is returned to the caller, who is expected to fall
// back to deterministic scoring.
func (c *Client) ScoreLead(ctx context.Context, p models.LeadProfile) (*ScoringResult, error) {
	prompt := buildScoringPrompt(p)

	resp, err := c.ChatCompletion(ctx, scoringSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseScoringResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ai scoring response: %w", err)
	}
	return result, nil
}

func buildScoringPrompt(p models.LeadProfile) string {
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	return fmt.Sprintf(`You are an expert lead scoring system. Analyze the following lead information and provide a comprehensive score and insights.

Lead Information:
- Name: %s
- Company: %s
- Email: %s
- Industry: %s
- Title: %s
- Phone: %s
- Website: %s
- Location: %s

Please provide:
1. A lead score from 0-100 based on:
   - Data completeness and quality
   - Company size indicators (if available)
   - Decision-making authority (based on title)
   - Industry relevance
   - Contact information quality

2. Brief reasoning for the score (2-3 sentences)

3. Key insights about this lead (3-5 bullet points)

4. Recommendations for outreach (2-3 actionable items)

Respond in JSON format:
{
  "score": <number 0-100>,
  "reasoning": "<brief explanation>",
  "insights": ["<insight 1>", "<insight 2>", ...],
  "recommendations": ["<recommendation 1>", "<recommendation 2>", ...]
}`,
		orDefault(p.Name, "Unknown"),
		orDefault(p.Company, "Unknown"),
		orDefault(p.Email, "Not provided"),
		orDefault(p.Industry, "Unknown"),
		orDefault(p.Title, "Not provided"),
		orDefault(p.Phone, "Not provided"),
		orDefault(p.Website, "Not provided"),
		orDefault(p.Location, "Not provided"),
	)
}

// parseScoringResponse tolerates responses wrapped in markdown fences or
// surrounding prose by extracting the first balanced JSON object.
func parseScoringResponse(resp string) (*ScoringResult, error) {
	cleaned := strings.TrimSpace(resp)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	if jsonStr, ok := extractFirstJSONObject(cleaned); ok {
		cleaned = jsonStr
	}

	var raw struct {
		Score           float64  `json:"score"`
		Reasoning       string   `json:"reasoning"`
		Insights        []string `json:"insights"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, err
	}

	score := int(math.Round(raw.Score))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	result := &ScoringResult{
		Score:           score,
		Reasoning:       raw.Reasoning,
		Insights:        raw.Insights,
		Recommendations: raw.Recommendations,
	}
	if result.Insights == nil {
		result.Insights = []string{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}
	return result, nil
}

// extractFirstJSONObject finds the first outermost balanced {...}.
func extractFirstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == '{' {
				depth++
			} else if char == '}' {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}

// GenerateAINotes renders the scoring result into the stored notes text:
// the reasoning, then bulleted insight and recommendation sections. Empty
// sections are omitted.
func GenerateAINotes(result *ScoringResult) string {
	notes := []string{result.Reasoning}

	if len(result.Insights) > 0 {
		notes = append(notes, "Key Insights:")
		for _, insight := range result.Insights {
			notes = append(notes, "• "+insight)
		}
	}

	if len(result.Recommendations) > 0 {
		notes = append(notes, "Recommendations:")
		for _, rec := range result.Recommendations {
			notes = append(notes, "• "+rec)
		}
	}

	return strings.Join(notes, "\n")
}
