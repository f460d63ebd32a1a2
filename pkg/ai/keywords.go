package ai

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeywordDelimiter separates keywords in plain text model output.
const KeywordDelimiter = ", "

// keywordTokenBudget bounds generated tokens per requested keyword.
const keywordTokenBudget = 6

// SplitKeywords splits model output on delimiter, trims every entry and
// drops empty ones. Order is preserved.
func SplitKeywords(output string, delimiter string) []string {
	output = strings.TrimSpace(output)
	if output == "" {
		return []string{}
	}
	return cleanKeywords(strings.Split(output, delimiter), 0)
}

func cleanKeywords(in []string, topK int) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, k)
		if topK > 0 && len(out) == topK {
			break
		}
	}
	return out
}

// ModelKeywordExtractor asks a model for a delimited keyword list.
type ModelKeywordExtractor struct {
	client GraphAIClient
	opts   []GenerateOption
}

// NewModelKeywordExtractor creates an extractor that prompts client with
// KeywordPrompt and splits the answer on KeywordDelimiter.
func NewModelKeywordExtractor(client GraphAIClient, opts ...GenerateOption) *ModelKeywordExtractor {
	return &ModelKeywordExtractor{
		client: client,
		opts:   opts,
	}
}

// ExtractKeys returns at most topK keywords in the order the model listed
// them. Empty input yields an empty list without a model call.
func (e *ModelKeywordExtractor) ExtractKeys(ctx context.Context, text string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	opts := append([]GenerateOption{WithMaxTokens(topK * keywordTokenBudget)}, e.opts...)
	prompt := fmt.Sprintf(KeywordPrompt, topK, text)
	res, err := e.client.GenerateCompletion(ctx, prompt, opts...)
	if err != nil {
		return nil, fmt.Errorf("keyword extraction failed: %w", err)
	}

	keys := SplitKeywords(res, KeywordDelimiter)
	if len(keys) > topK {
		keys = keys[:topK]
	}
	return keys, nil
}

type keywordList struct {
	Keywords []string `json:"keywords" jsonschema:"description=Keywords ordered from most to least relevant"`
}

// StructuredKeywordExtractor asks a model for keywords constrained by a
// JSON schema.
type StructuredKeywordExtractor struct {
	client GraphAIClient
	opts   []GenerateOption
}

// NewStructuredKeywordExtractor creates an extractor that requests a
// {"keywords": [...]} object from client.
func NewStructuredKeywordExtractor(client GraphAIClient, opts ...GenerateOption) *StructuredKeywordExtractor {
	return &StructuredKeywordExtractor{
		client: client,
		opts:   opts,
	}
}

// ExtractKeys returns at most topK keywords in model order.
func (e *StructuredKeywordExtractor) ExtractKeys(ctx context.Context, text string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	var out keywordList
	prompt := fmt.Sprintf(StructuredKeywordPrompt, topK, text)
	err := e.client.GenerateCompletionWithFormat(
		ctx,
		"keywords",
		"Keywords describing a text",
		prompt,
		&out,
		e.opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("keyword extraction failed: %w", err)
	}

	return cleanKeywords(out.Keywords, topK), nil
}

// HeuristicKeywordExtractor ranks words by frequency without a model.
//
// Text is lowercased, punctuation and symbols are removed and stopwords as
// well as words of MinLength characters or less are dropped. The remaining
// words are ranked by count, ties broken by first occurrence.
type HeuristicKeywordExtractor struct {
	MinLength int
	stopWords map[string]struct{}
}

// NewHeuristicKeywordExtractor creates an extractor with the default English
// stopword list, keeping words longer than four characters.
func NewHeuristicKeywordExtractor() *HeuristicKeywordExtractor {
	return &HeuristicKeywordExtractor{
		MinLength: 4,
		stopWords: defaultStopWords(),
	}
}

// ExtractKeys returns the topK most frequent significant words of text.
func (e *HeuristicKeywordExtractor) ExtractKeys(ctx context.Context, text string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	type rankedWord struct {
		word  string
		count int
		first int
	}

	ranked := make(map[string]*rankedWord)
	for i, word := range e.tokenize(text) {
		if utf8.RuneCountInString(word) <= e.MinLength {
			continue
		}
		if _, stop := e.stopWords[word]; stop {
			continue
		}
		if rw, ok := ranked[word]; ok {
			rw.count++
			continue
		}
		ranked[word] = &rankedWord{word: word, count: 1, first: i}
	}

	words := make([]*rankedWord, 0, len(ranked))
	for _, rw := range ranked {
		words = append(words, rw)
	}
	slices.SortFunc(words, func(a, b *rankedWord) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.first, b.first)
	})

	keys := make([]string, 0, min(topK, len(words)))
	for _, rw := range words[:min(topK, len(words))] {
		keys = append(keys, rw.word)
	}
	return keys, nil
}

func (e *HeuristicKeywordExtractor) tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Fields(b.String())
}

func defaultStopWords() map[string]struct{} {
	words := []string{
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
		"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
		"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
		"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
		"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
		"when", "make", "can", "like", "time", "no", "just", "him", "know", "take",
		"people", "into", "year", "your", "good", "some", "could", "them", "see", "other",
		"than", "then", "now", "look", "only", "come", "its", "over", "think", "also",
		"back", "after", "use", "two", "how", "our", "work", "first", "well", "way",
		"even", "new", "want", "because", "any", "these", "give", "day", "most", "us",
		"is", "was", "are", "been", "has", "had", "were", "said", "did", "having",
		"may", "am", "should", "too", "very", "those", "while", "where", "being",
		"again", "against", "before", "below", "between", "during", "further", "itself",
		"myself", "other", "ourselves", "themselves", "through", "under", "until",
		"yourself", "yourselves", "whose", "whom", "every", "another", "around",
		"without", "within", "across", "along", "among", "might", "shall", "though",
		"although", "however", "therefore", "thus", "still", "since", "upon", "whether",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
