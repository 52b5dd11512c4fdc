package sentiment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/jiyeonseo/surveypulse/internal/models"
)

// OverridePolicy is one deterministic rule evaluated before the statistical
// classifier's label is accepted. Policies are checked in order; the first
// verdict wins unconditionally.
type OverridePolicy interface {
	Name() string
	Apply(keyword string) (models.Sentiment, bool)
}

// Affirmations of good conduct or improvement force a positive label no
// matter what the model said.
var positiveLexicon = []string{"긍정적", "적극", "모범적", "솔선수범", "개선"}

// The deficiency marker forces a negative label.
const deficiencyMarker = "부족"

// DefaultOverridePolicies returns the standard chain: Korean positive lexicon,
// deficiency marker, then VADER for Latin-script keywords. Extending the
// lexicons means appending here, not touching the merge logic.
func DefaultOverridePolicies() []OverridePolicy {
	return []OverridePolicy{
		lexiconPolicy{name: "positive-lexicon", tokens: positiveLexicon, verdict: models.SentimentPositive},
		lexiconPolicy{name: "deficiency-marker", tokens: []string{deficiencyMarker}, verdict: models.SentimentNegative},
		newVaderPolicy(),
	}
}

type lexiconPolicy struct {
	name    string
	tokens  []string
	verdict models.Sentiment
}

func (p lexiconPolicy) Name() string { return p.name }

func (p lexiconPolicy) Apply(keyword string) (models.Sentiment, bool) {
	for _, token := range p.tokens {
		if strings.Contains(keyword, token) {
			return p.verdict, true
		}
	}
	return "", false
}

// vaderPolicy covers the English keywords that show up in mixed-language
// survey exports, where the Korean checkpoint has nothing useful to say.
type vaderPolicy struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func newVaderPolicy() vaderPolicy {
	return vaderPolicy{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (p vaderPolicy) Name() string { return "vader-latin" }

func (p vaderPolicy) Apply(keyword string) (models.Sentiment, bool) {
	if !mostlyLatin(keyword) {
		return "", false
	}

	score := p.analyzer.PolarityScores(convertMarkdownToText(keyword)).Compound
	if score >= 0.20 {
		return models.SentimentPositive, true
	}
	if score <= -0.20 {
		return models.SentimentNegative, true
	}
	return "", false
}

func mostlyLatin(s string) bool {
	var latin, letters int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r < unicode.MaxLatin1 {
			latin++
		}
	}
	return letters > 0 && latin*2 >= letters
}

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

func removeLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func convertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return removeLinks(plainText)
}
