package utils

import "strings"

// SplitBySentences packs sentences greedily into chunks bounded by
// maxWords, where a "word" is a whitespace-split field. This cheap measure
// is deliberate: it only bounds chunk size for embedding, while the prompt
// assembler uses the model's real tokenizer. Chunks are never shorter than
// one sentence, so a single long sentence may exceed the bound.
func SplitBySentences(text string, maxWords int) []string {
	sentences := strings.Split(text, ". ")

	var chunks []string
	current := ""
	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		if wordCount(current)+wordCount(sentence) < maxWords {
			current += sentence + ". "
		} else {
			if trimmed := strings.TrimSpace(current); trimmed != "" {
				chunks = append(chunks, trimmed)
			}
			current = sentence + ". "
		}
	}
	if trimmed := strings.TrimSpace(current); trimmed != "" {
		chunks = append(chunks, trimmed)
	}
	return chunks
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
