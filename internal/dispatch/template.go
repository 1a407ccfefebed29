package dispatch

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// uriTemplate matches resource URIs against templates like
// "chain://{network}/balance/{address}" (spec §6.4).
type uriTemplate struct {
	raw    string
	names  []string
	regexp *regexp.Regexp
}

// mustCompileTemplate builds the matcher: quote every literal segment,
// then splice in a capturing group per {name} placeholder.
func mustCompileTemplate(pattern string) *uriTemplate {
	var names []string
	var b strings.Builder
	b.WriteByte('^')

	rest := pattern
	for {
		idx := strings.IndexByte(rest, '{')
		if idx == -1 {
			b.WriteString(regexp.QuoteMeta(rest))
			break
		}
		b.WriteString(regexp.QuoteMeta(rest[:idx]))
		end := strings.IndexByte(rest[idx:], '}')
		if end == -1 {
			b.WriteString(regexp.QuoteMeta(rest[idx:]))
			break
		}
		name := rest[idx+1 : idx+end]
		names = append(names, name)
		b.WriteString("([^/]+)")
		rest = rest[idx+end+1:]
	}
	b.WriteByte('$')

	compiled, err := regexp.Compile(b.String())
	if err != nil {
		panic(fmt.Sprintf("dispatch: invalid resource template %q: %v", pattern, err))
	}
	return &uriTemplate{raw: pattern, names: names, regexp: compiled}
}

func (t *uriTemplate) match(uri string) (map[string]string, bool) {
	m := t.regexp.FindStringSubmatch(uri)
	if m == nil {
		return nil, false
	}
	params := make(map[string]string, len(t.names))
	for i, name := range t.names {
		params[name] = m[i+1]
	}
	return params, true
}

func encodeJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
