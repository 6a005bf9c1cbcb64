package symbol

import (
	"strings"
	"unicode"
)

// PackageName turns a file stem into a package identifier: characters
// other than ASCII letters and digits become '_' and a leading digit gets
// a '_' in front.
func PackageName(stem string) string {
	var sb strings.Builder
	for i, r := range stem {
		switch {
		case i == 0 && unicode.IsDigit(r) && r < unicode.MaxASCII:
			sb.WriteByte('_')
			sb.WriteRune(r)
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// MangledName is the object file symbol of a declaration. C declarations
// and programs built without a prefix keep their plain names.
func MangledName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
