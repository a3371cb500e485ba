package model

// Session - 현재 프로세스의 인증 상태
//
// IsAuthenticated는 SetSession 이후 true. 두 토큰이 모두 있는지는 호출자가 보장한다.
type Session struct {
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
	User            *User
}
