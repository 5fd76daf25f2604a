package processor

import "strings"

// disasterKeywords 灾害相关词表。
// 采用子串匹配而不是分词：词表窄会漏判，子串会误判（例如 "floodlight"），两者都是已知取舍。
var disasterKeywords = []string{
	"disaster", "flood", "earthquake", "cyclone", "landslide",
	"hurricane", "wildfire", "tsunami", "tornado", "drought",
	"mudslide", "volcanic eruption", "heatwave",
}

// IsDisasterRelated 判断一段文本是否与灾害相关（大小写不敏感）
func IsDisasterRelated(text string) bool {
	return containsAny(text, disasterKeywords)
}

func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
