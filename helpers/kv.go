package helpers

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// Line-delimited KEY=value codec shared by the boot config and small
// persisted state files. Blank lines and #-comments are ignored, keys are
// upper-cased, later duplicates win.
func ParseKV(r io.Reader) (map[string]string, error) {
	m := make(map[string]string, 16)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return nil, errors.Errorf("kv line=%d no key=value: %q", line, s)
		}
		key := strings.ToUpper(strings.TrimSpace(s[:eq]))
		m[key] = strings.TrimSpace(s[eq+1:])
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Annotate(err, "kv read")
	}
	return m, nil
}

// FormatKV writes keys sorted so output is stable.
func FormatKV(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b := strings.Builder{}
	for _, k := range keys {
		b.WriteString(strings.ToUpper(k))
		b.WriteByte('=')
		b.WriteString(m[k])
		b.WriteByte('\n')
	}
	return b.String()
}
