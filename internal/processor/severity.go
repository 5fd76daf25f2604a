package processor

import (
	"fmt"
	"strings"
)

// Severity 新闻的严重程度标签
type Severity string

// 关键词策略的三档
const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// 情感极性策略的三档
const (
	SeverityHighPolarity     Severity = "HighSeverity"
	SeverityModeratePolarity Severity = "ModerateSeverity"
	SeverityMinimumPolarity  Severity = "MinimumSeverity"
)

// Strategy 选择严重程度的计算方式
type Strategy string

const (
	StrategyKeyword  Strategy = "keyword"
	StrategyPolarity Strategy = "polarity"
)

// ParseStrategy 解析配置中的策略名，空字符串视为 keyword
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyKeyword:
		return StrategyKeyword, nil
	case StrategyPolarity:
		return StrategyPolarity, nil
	default:
		return "", fmt.Errorf("unknown severity strategy %q", s)
	}
}

var (
	highSeverityKeywords   = []string{"earthquake", "fatal", "evacuate", "flood", "explosion", "massive", "deadly", "collapse"}
	mediumSeverityKeywords = []string{"damage", "fire", "landslide", "storm", "disruption", "destroy", "rescue"}
)

// ClassifyByKeywords 按关键词分档，High 优先于 Medium
func ClassifyByKeywords(text string) Severity {
	switch {
	case containsAny(text, highSeverityKeywords):
		return SeverityHigh
	case containsAny(text, mediumSeverityKeywords):
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ClassifyByPolarity 按情感极性分档，每档下界闭区间；NaN 落在最低档
func ClassifyByPolarity(polarity float64) Severity {
	switch {
	case polarity >= 0.5:
		return SeverityHighPolarity
	case polarity >= 0.1:
		return SeverityModeratePolarity
	default:
		return SeverityMinimumPolarity
	}
}
