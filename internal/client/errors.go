package client

import "errors"

// ErrUnreachable marks failures where no response was received.
var ErrUnreachable = errors.New("gateway unreachable")

// RemoteError - transport가 만들어내는 유일한 에러 형태
//
// Error()는 사용자에게 보여줄 메시지만 반환하고 원래 transport 에러는 노출하지 않는다.
type RemoteError struct {
	Message string
	// Status는 응답이 없으면 0
	Status int
	cause  error
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.cause
}

// IsUnreachable reports whether err is a connectivity failure.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}
