package processor

import (
	"strings"
	"unicode"
)

// Sentiment 情感分析结果：Polarity ∈ [-1, 1]，Subjectivity ∈ [0, 1]
type Sentiment struct {
	Polarity     float64
	Subjectivity float64
}

// Scorer 抽象情感分析模型，便于替换或在测试中打桩
type Scorer interface {
	Score(text string) Sentiment
}

type lexiconEntry struct {
	polarity     float64
	subjectivity float64
}

// LexiconScorer 基于词典的情感打分：对命中的词取平均，支持否定翻转与程度副词加权。
// 不会失败，空文本或无命中返回 (0, 0)。
type LexiconScorer struct {
	lexicon      map[string]lexiconEntry
	intensifiers map[string]float64
	negations    map[string]struct{}
}

// NewLexiconScorer 使用内置英文词典
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{
		lexicon:      defaultLexicon,
		intensifiers: defaultIntensifiers,
		negations:    defaultNegations,
	}
}

// 否定词让极性乘以该系数
const negationFactor = -0.5

func (s *LexiconScorer) Score(text string) Sentiment {
	words := tokenize(text)
	if len(words) == 0 {
		return Sentiment{}
	}

	var (
		polSum, subjSum float64
		hits            int
	)
	for i, w := range words {
		entry, ok := s.lexicon[w]
		if !ok {
			continue
		}
		pol, subj := entry.polarity, entry.subjectivity

		// 只看紧邻的前两个词：程度副词放大，否定词翻转
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			prev := words[j]
			if m, ok := s.intensifiers[prev]; ok {
				pol *= m
				subj *= m
				continue
			}
			if _, ok := s.negations[prev]; ok {
				pol *= negationFactor
				break
			}
		}

		polSum += clamp(pol, -1, 1)
		subjSum += clamp(subj, 0, 1)
		hits++
	}
	if hits == 0 {
		return Sentiment{}
	}
	return Sentiment{
		Polarity:     clamp(polSum/float64(hits), -1, 1),
		Subjectivity: clamp(subjSum/float64(hits), 0, 1),
	}
}

func tokenize(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	// n't 统一展开成 not，方便否定判断
	text = strings.ReplaceAll(text, "n't", " not")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var defaultNegations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "without": {}, "nor": {},
}

var defaultIntensifiers = map[string]float64{
	"very":       1.3,
	"extremely":  1.5,
	"highly":     1.3,
	"really":     1.2,
	"severely":   1.4,
	"incredibly": 1.4,
	"slightly":   0.6,
	"somewhat":   0.7,
}

var defaultLexicon = map[string]lexiconEntry{
	// 负面
	"deadly":       {-0.8, 0.9},
	"fatal":        {-0.8, 0.6},
	"devastating":  {-0.9, 0.9},
	"devastated":   {-0.8, 0.9},
	"catastrophic": {-0.9, 0.9},
	"terrible":     {-1.0, 1.0},
	"horrible":     {-1.0, 1.0},
	"tragic":       {-0.75, 0.85},
	"bad":          {-0.7, 0.67},
	"worst":        {-1.0, 1.0},
	"worse":        {-0.4, 0.6},
	"severe":       {-0.5, 0.7},
	"dangerous":    {-0.6, 0.9},
	"destructive":  {-0.5, 0.6},
	"dead":         {-0.2, 0.4},
	"killed":       {-0.6, 0.5},
	"injured":      {-0.4, 0.4},
	"missing":      {-0.2, 0.05},
	"damaged":      {-0.3, 0.4},
	"destroyed":    {-0.5, 0.5},
	"homeless":     {-0.4, 0.4},
	"panic":        {-0.5, 0.8},
	"fear":         {-0.5, 0.8},
	"sad":          {-0.5, 1.0},
	"critical":     {-0.2, 0.6},
	"poor":         {-0.4, 0.6},
	"crisis":       {-0.5, 0.5},
	"chaos":        {-0.6, 0.7},
	"warning":      {-0.2, 0.3},
	"threat":       {-0.4, 0.5},
	"heavy":        {-0.2, 0.5},
	"massive":      {-0.1, 0.6},
	"huge":         {0.2, 0.9},
	"major":        {0.06, 0.5},
	"sudden":       {-0.1, 0.6},

	// 正面
	"good":         {0.7, 0.6},
	"great":        {0.8, 0.75},
	"safe":         {0.5, 0.5},
	"safely":       {0.5, 0.5},
	"successful":   {0.75, 0.95},
	"successfully": {0.75, 0.95},
	"hope":         {0.5, 0.6},
	"hopeful":      {0.6, 0.8},
	"relief":       {0.4, 0.4},
	"rescued":      {0.4, 0.3},
	"recovered":    {0.4, 0.3},
	"recovery":     {0.3, 0.3},
	"support":      {0.3, 0.3},
	"stable":       {0.3, 0.4},
	"helpful":      {0.5, 0.5},
	"brave":        {0.8, 1.0},
	"heroic":       {0.8, 0.9},
	"generous":     {0.6, 0.8},
	"best":         {1.0, 0.3},
	"better":       {0.5, 0.5},
	"strong":       {0.43, 0.73},
	"resilient":    {0.6, 0.6},
	"happy":        {0.8, 1.0},
	"win":          {0.8, 0.4},
	"wins":         {0.8, 0.4},
	"award":        {0.5, 0.3},
}
