package processor

import (
	"net/url"
	"strings"
)

// ExtractSourceLabel 把链接压缩成来源标签：去掉协议、www. 前缀、路径、查询串与锚点，只保留 host。
// 解析失败时原样返回，不会 panic。
func ExtractSourceLabel(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}
	// 兼容没有协议头的链接，例如 www.example.com/a；mailto: 之类的非网址原样返回
	if !strings.Contains(s, "://") {
		if !strings.HasPrefix(s, "//") && !looksLikeHost(s) {
			return raw
		}
		s = "http://" + strings.TrimPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return raw
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

// looksLikeHost 判断无协议输入的第一段是否像 host[:port]
func looksLikeHost(s string) bool {
	if strings.HasPrefix(s, "www.") {
		return true
	}
	seg, _, _ := strings.Cut(s, "/")
	host, port, hasPort := strings.Cut(seg, ":")
	if host == "" || strings.ContainsAny(host, "@ ") {
		return false
	}
	if !hasPort {
		return true
	}
	if port == "" {
		return false
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StripTrackingParams 保留 scheme+host+path，丢弃查询串和锚点（utm_* 之类的追踪参数都在这里）。
// 非绝对 URL 或解析失败时原样返回。
func StripTrackingParams(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
