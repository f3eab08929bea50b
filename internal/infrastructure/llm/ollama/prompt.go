package ollama

func buildSentimentPrompt(text string) string {
	return `You are a binary sentiment classifier for business correspondence.
Return strict JSON object with keys:
label ("POSITIVE" or "NEGATIVE"), confidence (number from 0 to 1).
No markdown, no extra keys.

Text:
` + text
}
