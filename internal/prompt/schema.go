package prompt

// StudyNotesSchema is the response schema sent with every generation
// request, in the OpenAPI subset the Gemini API accepts.
func StudyNotesSchema() map[string]interface{} {
	str := map[string]interface{}{"type": "STRING"}
	strArray := map[string]interface{}{"type": "ARRAY", "items": str}

	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"title": str,
			"notes": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"heading": str,
						"points":  strArray,
					},
					"required": []string{"heading", "points"},
				},
			},
			"keyTerms": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"term":       str,
						"definition": str,
					},
					"required": []string{"term", "definition"},
				},
			},
			"quiz": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"question": str,
						"options":  strArray,
						"answer":   str,
					},
					"required": []string{"question", "options", "answer"},
				},
			},
		},
		"required": []string{"title", "notes", "keyTerms", "quiz"},
	}
}

// SchemaHint describes the schema in prose for providers that only support
// a JSON mode without an enforced schema.
const SchemaHint = `The JSON object must have exactly this shape:
{"title": string, "notes": [{"heading": string, "points": [string]}], "keyTerms": [{"term": string, "definition": string}], "quiz": [{"question": string, "options": [string], "answer": string}]}`
