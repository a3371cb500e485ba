package client

import "strings"

// Messages - transport가 사용하는 기본 메시지
type Messages struct {
	// 응답은 있지만 message/error 필드가 없을 때
	Fallback string
	// 응답 자체가 없을 때
	Unreachable string
}

var catalog = map[string]Messages{
	"en": {
		Fallback:    "something went wrong",
		Unreachable: "cannot reach server",
	},
	"vi": {
		Fallback:    "Đã có lỗi xảy ra",
		Unreachable: "Không thể kết nối đến server",
	},
}

// MessagesFor returns the catalog entry for locale, defaulting to English.
func MessagesFor(locale string) Messages {
	if m, ok := catalog[strings.ToLower(strings.TrimSpace(locale))]; ok {
		return m
	}
	return catalog["en"]
}
