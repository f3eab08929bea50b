package chunking

import "strings"

const (
	StrategyHead     = "head"
	StrategyHeadTail = "head_tail"
)

// Windower bounds text to the classifier's token budget. Tokens are
// whitespace-delimited words. The head_tail strategy keeps the opening and
// the closing of a long document so both influence the sentiment signal.
type Windower struct {
	MaxTokens int
	Strategy  string
	HeadRatio float64
}

func NewWindower(maxTokens int, strategy string, headRatio float64) *Windower {
	if maxTokens <= 0 {
		maxTokens = 510
	}
	if strategy != StrategyHead {
		strategy = StrategyHeadTail
	}
	if headRatio <= 0 || headRatio > 1 {
		headRatio = 0.6
	}
	return &Windower{
		MaxTokens: maxTokens,
		Strategy:  strategy,
		HeadRatio: headRatio,
	}
}

// Window returns text unchanged when it fits the budget.
func (w *Windower) Window(text string) string {
	words := strings.Fields(text)
	if len(words) <= w.MaxTokens {
		return text
	}

	if w.Strategy == StrategyHead {
		return strings.Join(words[:w.MaxTokens], " ")
	}

	head := int(float64(w.MaxTokens) * w.HeadRatio)
	tail := w.MaxTokens - head
	out := make([]string, 0, w.MaxTokens)
	out = append(out, words[:head]...)
	out = append(out, words[len(words)-tail:]...)
	return strings.Join(out, " ")
}

// CountTokens uses the same word approximation as Window.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}
