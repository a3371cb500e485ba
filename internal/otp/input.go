// Package otp models the six-position code entry and its validity countdown.
package otp

import "strings"

// Length - OTP 자리 수
const Length = 6

// Input - 6칸 OTP 입력 상태. 각 칸은 숫자 하나
type Input struct {
	digits [Length]string
	focus  int
}

func NewInput() *Input {
	return &Input{}
}

// Change applies text typed or pasted into position index.
//
// A single character replaces the position and moves focus forward when it
// is non-empty. Longer text is spread left to right from index and clipped
// at the last position; focus lands after the last filled position. Input
// containing non-digits is ignored.
func (in *Input) Change(index int, text string) {
	if index < 0 || index >= Length {
		return
	}
	if !isDigits(text) {
		return
	}

	if len(text) > 1 {
		n := 0
		for i := 0; i < len(text) && index+i < Length; i++ {
			in.digits[index+i] = text[i : i+1]
			n++
		}
		in.focus = min(index+n, Length-1)
		return
	}

	in.digits[index] = text
	if text != "" && index < Length-1 {
		in.focus = index + 1
	} else {
		in.focus = index
	}
}

// Backspace handles a delete key at index. On an empty position focus
// moves back one; otherwise the position is cleared.
func (in *Input) Backspace(index int) {
	if index < 0 || index >= Length {
		return
	}
	if in.digits[index] == "" {
		if index > 0 {
			in.focus = index - 1
		}
		return
	}
	in.digits[index] = ""
	in.focus = index
}

// Fill types code into the input from position 0.
func (in *Input) Fill(code string) {
	in.Change(0, code)
}

// Code returns the digits entered so far, joined.
func (in *Input) Code() string {
	return strings.Join(in.digits[:], "")
}

// Complete reports whether all six positions are filled.
func (in *Input) Complete() bool {
	for _, d := range in.digits {
		if d == "" {
			return false
		}
	}
	return true
}

func (in *Input) Focus() int {
	return in.focus
}

func (in *Input) Digits() [Length]string {
	return in.digits
}

// Reset clears every position and focuses the first one.
func (in *Input) Reset() {
	in.digits = [Length]string{}
	in.focus = 0
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
