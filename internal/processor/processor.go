package processor

import (
	"fmt"
	"math"
	"strings"
)

// URLMode 决定 NewsItem.Source 的取值方式
type URLMode string

const (
	// URLModeClean Source 使用采集器名称
	URLModeClean URLMode = "clean"
	// URLModeLabel Source 使用链接的 host 标签
	URLModeLabel URLMode = "label"
)

// ParseURLMode 解析配置中的链接模式，空字符串视为 label
func ParseURLMode(s string) (URLMode, error) {
	switch URLMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", URLModeLabel:
		return URLModeLabel, nil
	case URLModeClean:
		return URLModeClean, nil
	default:
		return "", fmt.Errorf("unknown url mode %q", s)
	}
}

// Analysis 是单条新闻经过过滤与分类后的结果
type Analysis struct {
	Relevant  bool
	Severity  Severity
	Sentiment *Sentiment // 关键词策略下为 nil
}

// Processor 把相关性过滤、情感打分、严重程度分类与链接清洗组合到一起，各采集器共用
type Processor struct {
	scorer   Scorer
	strategy Strategy
	urlMode  URLMode
}

// NewProcessor scorer 为 nil 时使用 VADER
func NewProcessor(strategy Strategy, mode URLMode, scorer Scorer) *Processor {
	if scorer == nil {
		scorer = NewVaderScorer()
	}
	if strategy == "" {
		strategy = StrategyKeyword
	}
	if mode == "" {
		mode = URLModeLabel
	}
	return &Processor{scorer: scorer, strategy: strategy, urlMode: mode}
}

func (p *Processor) Strategy() Strategy { return p.strategy }

// Analyze 对标题与正文拼接后的文本做相关性判断与分类；不相关时不再计算情感
func (p *Processor) Analyze(title, body string) Analysis {
	text := strings.TrimSpace(strings.TrimSpace(title) + " " + strings.TrimSpace(body))
	if !IsDisasterRelated(text) {
		return Analysis{}
	}

	if p.strategy == StrategyPolarity {
		s := p.scorer.Score(text)
		// 外部模型可能给出越界或 NaN，统一收敛到合法区间
		s.Polarity = clamp(finite(s.Polarity), -1, 1)
		s.Subjectivity = clamp(finite(s.Subjectivity), 0, 1)
		return Analysis{
			Relevant:  true,
			Severity:  ClassifyByPolarity(s.Polarity),
			Sentiment: &s,
		}
	}
	return Analysis{Relevant: true, Severity: ClassifyByKeywords(text)}
}

// Link 返回清洗后的链接以及对应的来源标识
func (p *Processor) Link(rawURL, sourceName string) (link, source string) {
	link = StripTrackingParams(rawURL)
	if p.urlMode == URLModeLabel {
		if label := ExtractSourceLabel(link); label != "" && label != link {
			return link, label
		}
	}
	return link, sourceName
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
