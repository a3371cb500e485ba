package service

import (
	"context"
	"errors"

	"github.com/phazelsound/client/internal/action"
	"github.com/phazelsound/client/internal/client"
	"github.com/phazelsound/client/internal/validation"
)

// NoticeKind - 사용자에게 보여줄 실패 분류
type NoticeKind int

const (
	// 요청 전 입력 검증 실패. 필드 옆에 표시
	KindValidation NoticeKind = iota
	// 서버가 에러 메시지와 함께 응답
	KindRemote
	// 응답 없음
	KindConnectivity
)

// Notice is the single user-facing failure a screen action produces.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
	// KindValidation일 때만 채워짐
	Fields validation.FieldErrors
	cause  error
}

func (n *Notice) Error() string {
	return n.Message
}

func (n *Notice) Unwrap() error {
	return n.cause
}

// AsNotice unwraps err into a *Notice.
func AsNotice(err error) (*Notice, bool) {
	var n *Notice
	if errors.As(err, &n) {
		return n, true
	}
	return nil, false
}

const noticeTitle = "Error"

// toNotice maps any failure of a screen action onto a Notice. fallback is
// used when the failure carries no message of its own.
func toNotice(err error, fallback string, msgs client.Messages) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, action.ErrInFlight) {
		return err
	}
	if _, ok := AsNotice(err); ok {
		return err
	}

	if vErr, ok := validation.AsValidationError(err); ok {
		return &Notice{Kind: KindValidation, Title: noticeTitle, Message: vErr.Error(), Fields: vErr.Fields, cause: err}
	}

	var remoteErr *client.RemoteError
	if errors.As(err, &remoteErr) {
		kind := KindRemote
		if client.IsUnreachable(err) {
			kind = KindConnectivity
		}
		return &Notice{Kind: kind, Title: noticeTitle, Message: remoteErr.Message, cause: err}
	}

	// 요청 전에 취소된 경우. 서버 응답이 없으므로 연결 실패로 분류
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Notice{Kind: KindConnectivity, Title: noticeTitle, Message: msgs.Unreachable, cause: err}
	}

	return &Notice{Kind: KindRemote, Title: noticeTitle, Message: fallback, cause: err}
}
