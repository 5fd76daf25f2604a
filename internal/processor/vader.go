package processor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// Model 选择情感模型
type Model string

const (
	// ModelVader 基于 VADER 词典与规则
	ModelVader Model = "vader"
	// ModelLexicon 内置的小词典，作为不依赖外部数据的备选
	ModelLexicon Model = "lexicon"
)

// ParseModel 空字符串视为 vader
func ParseModel(s string) (Model, error) {
	switch Model(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModelVader:
		return ModelVader, nil
	case ModelLexicon:
		return ModelLexicon, nil
	default:
		return "", fmt.Errorf("unknown sentiment model %q", s)
	}
}

// NewScorer 按模型名构造打分器
func NewScorer(m Model) Scorer {
	if m == ModelLexicon {
		return NewLexiconScorer()
	}
	return NewVaderScorer()
}

// VaderScorer 用 govader 计算情感：Compound 作为极性，Positive+Negative 作为主观性
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// 词典加载较重，进程内共用一份；分析器只读，可并发使用
var sharedAnalyzer = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: sharedAnalyzer()}
}

func (v *VaderScorer) Score(text string) Sentiment {
	if strings.TrimSpace(text) == "" {
		return Sentiment{}
	}
	s := v.analyzer.PolarityScores(text)
	return Sentiment{
		Polarity:     clamp(s.Compound, -1, 1),
		Subjectivity: clamp(s.Positive+s.Negative, 0, 1),
	}
}
