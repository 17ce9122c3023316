package btf

import (
	"fmt"
	"unicode/utf8"
)

// ResolveString reads the NUL-terminated name at nameOffset within the
// string section described by header, returning "" for offset 0 (BTF
// reserves offset 0 for the unnamed/empty string).
func ResolveString(src Source, header *FileHeader, nameOffset uint32) (string, error) {
	if nameOffset == 0 {
		return "", nil
	}

	absOffset, overflow := addU64Checked(header.StrSectionStart, uint64(nameOffset))
	if overflow {
		return "", NewError(ErrInvalidStringOffset, "string offset overflow")
	}
	if absOffset >= header.StrSectionEnd {
		return "", NewError(ErrInvalidStringOffset, fmt.Sprintf("string offset %d is outside the string section", nameOffset))
	}

	maxLen := header.StrSectionEnd - absOffset
	buf := make([]byte, 0, 64)
	var b [1]byte
	for uint64(len(buf)) < maxLen {
		if err := src.ReadAt(absOffset+uint64(len(buf)), b[:]); err != nil {
			return "", NewError(ErrInvalidString, fmt.Sprintf("string at offset %d is not NUL-terminated", nameOffset))
		}
		if b[0] == 0 {
			if !utf8.Valid(buf) {
				return "", NewError(ErrInvalidString, fmt.Sprintf("string at offset %d is not valid UTF-8", nameOffset))
			}
			return string(buf), nil
		}
		buf = append(buf, b[0])
	}

	return "", NewError(ErrInvalidString, fmt.Sprintf("string at offset %d is not NUL-terminated within the string section", nameOffset))
}
