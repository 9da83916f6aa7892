package mfg

import "errors"

// ErrCobs is returned for a frame that is not valid COBS.
var ErrCobs = errors.New("invalid cobs frame")

// cobsMaxEncodedLen returns the worst case encoding of n bytes, without the
// terminator.
func cobsMaxEncodedLen(n int) int {
	return n + n/254 + 1
}

// cobsEncode stuffs src so the result carries no zero byte. The frame
// terminator is not appended.
func cobsEncode(src []byte) []byte {
	dst := make([]byte, 1, cobsMaxEncodedLen(len(src)))
	code, codeAt := byte(1), 0
	for _, b := range src {
		if b != 0 {
			dst = append(dst, b)
			code++
		}
		if b == 0 || code == 0xff {
			dst[codeAt] = code
			code, codeAt = 1, len(dst)
			dst = append(dst, 0)
		}
	}
	dst[codeAt] = code
	return dst
}

// cobsDecode reverses cobsEncode. src must not include the terminator.
func cobsDecode(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, ErrCobs
	}
	dst := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		code := src[i]
		if code == 0 {
			return nil, ErrCobs
		}
		end := i + int(code)
		if end > len(src) {
			return nil, ErrCobs
		}
		for _, b := range src[i+1 : end] {
			if b == 0 {
				return nil, ErrCobs
			}
			dst = append(dst, b)
		}
		i = end
		if code != 0xff && i < len(src) {
			dst = append(dst, 0)
		}
	}
	return dst, nil
}
