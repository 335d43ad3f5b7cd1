package tmpl

import (
	"fmt"
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// HasTemplate reports whether s contains a template region opener.
func HasTemplate(s string) bool {
	return strings.Contains(s, openDelim)
}

// segment is either literal text or a template region. A region's children
// are the segments between its delimiters, which may include nested regions.
type segment struct {
	text     string
	template bool
	src      string
	children []segment
}

type frame struct {
	start    int
	buf      strings.Builder
	children []segment
}

func (f *frame) flush() {
	if f.buf.Len() == 0 {
		return
	}
	f.children = append(f.children, segment{text: f.buf.String()})
	f.buf.Reset()
}

// parseSegments splits s into literal text and (possibly nested) template
// regions. A "}}" with no open region is literal text, which keeps JSON such
// as {"a": {"b": 1}} intact.
func parseSegments(s string) ([]segment, error) {
	stack := []*frame{{start: -1}}
	for i := 0; i < len(s); {
		top := stack[len(stack)-1]
		switch {
		case strings.HasPrefix(s[i:], openDelim):
			top.flush()
			stack = append(stack, &frame{start: i})
			i += len(openDelim)
		case strings.HasPrefix(s[i:], closeDelim) && len(stack) > 1:
			top.flush()
			stack = stack[:len(stack)-1]
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, segment{
				template: true,
				src:      s[top.start : i+len(closeDelim)],
				children: top.children,
			})
			i += len(closeDelim)
		default:
			top.buf.WriteByte(s[i])
			i++
		}
	}
	if len(stack) > 1 {
		start := stack[1].start
		return nil, fmt.Errorf("%w: unclosed %q at offset %d", ErrSyntax, openDelim, start)
	}
	stack[0].flush()
	return stack[0].children, nil
}
