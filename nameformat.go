package funclog

import "strings"

// DefaultNameFormat is the identity template instruments start with.
const DefaultNameFormat = "{name}"

// nameFormatArgs is the fixed placeholder vocabulary. No other key is ever
// valid inside an unescaped brace pair.
var nameFormatArgs = []string{"name", "module", "qualname"}

// validateNameFormat checks a template eagerly: every unescaped "{" must be
// closed before the end of the string, must not nest, and must enclose a key
// from the fixed vocabulary. Literal braces are written "\{" and "\}".
func validateNameFormat(format string) error {
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++ // escaped character, whatever it is
		case '}':
			return newConfigError("name format %q: unmatched %q", format, "}")
		case '{':
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '\\' {
					j++
					continue
				}
				if runes[j] == '{' {
					return newConfigError("name format %q: nested %q", format, "{")
				}
				if runes[j] == '}' {
					end = j
					break
				}
			}
			if end < 0 {
				return newConfigError("name format %q: unmatched %q", format, "{")
			}
			key := string(runes[i+1 : end])
			if !validNameFormatArg(key) {
				return newConfigError("name format %q: unknown placeholder %q", format, key)
			}
			i = end
		}
	}
	return nil
}

func validNameFormatArg(key string) bool {
	for _, arg := range nameFormatArgs {
		if key == arg {
			return true
		}
	}
	return false
}

// resolveNameFormat substitutes each unescaped placeholder with the matching
// FuncInfo attribute. A key that slipped past validation is left in place
// verbatim rather than dropped.
func resolveNameFormat(format string, info FuncInfo) string {
	var b strings.Builder
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			if i+1 < len(runes) {
				b.WriteRune(runes[i+1])
				i++
			}
		case '{':
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '}' {
					end = j
					break
				}
			}
			if end < 0 {
				b.WriteRune(runes[i])
				continue
			}
			key := string(runes[i+1 : end])
			switch key {
			case "name":
				b.WriteString(info.Name)
			case "module":
				b.WriteString(info.Module)
			case "qualname":
				b.WriteString(info.QualName)
			default:
				b.WriteString("{" + key + "}")
			}
			i = end
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}
