package llm

import "strings"

// FilterEnv returns a copy of environ without the entries matching any of
// the given prefixes. Prefixes should carry the trailing "=".
func FilterEnv(environ []string, excludePrefixes ...string) []string {
	result := make([]string, 0, len(environ))
outer:
	for _, e := range environ {
		for _, prefix := range excludePrefixes {
			if strings.HasPrefix(e, prefix) {
				continue outer
			}
		}
		result = append(result, e)
	}
	return result
}
