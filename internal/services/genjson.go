package services

import (
	"encoding/json"
	"strings"
)

// decodeGenerated decodes JSON out of model-generated text into target. It is
// total: the return value says whether target was populated, and a false
// return means the caller must use its documented fallback. Generation output
// never produces an error past this boundary.
func decodeGenerated(response string, target interface{}) bool {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return false
	}

	return json.Unmarshal([]byte(jsonStr), target) == nil
}

// extractJSON pulls a JSON object or array out of text that may carry
// markdown fences or prose around it.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	startArr := strings.Index(text, "[")
	endArr := strings.LastIndex(text, "]")
	if startArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return ""
}
