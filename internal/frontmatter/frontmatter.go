// Package frontmatter separates a leading YAML block (`---` fenced) from the
// Markdown that follows it in literate sources.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a frontmatter
// block but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Block is a document split at its frontmatter fence.
type Block struct {
	// Raw is the YAML between the fences, nil when there was no block.
	Raw []byte
	// Body is everything after the closing fence, or the whole input.
	Body    []byte
	Present bool
}

// Split separates YAML frontmatter from the body. LF and CRLF line endings
// are recognised; the newline style is taken from the first line break.
func Split(content []byte) (Block, error) {
	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Block{Body: content}, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return Block{Raw: []byte{}, Body: rest[len(open):], Present: true}, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return Block{}, ErrMissingClosingDelimiter
	}
	return Block{
		Raw:     rest[:idx+len(nl)],
		Body:    rest[idx+len(closing):],
		Present: true,
	}, nil
}

// Fields decodes the frontmatter YAML. A missing or empty block yields an
// empty map.
func (b Block) Fields() (map[string]any, error) {
	if len(b.Raw) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(b.Raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// String returns a string field, or "" when it is absent or not a string.
func String(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}

// Canonical serializes fields as YAML with sorted keys and LF newlines,
// without a trailing newline. It is the stable form used for fingerprints.
func Canonical(fields map[string]any) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sortedNode(fields)); err != nil {
		_ = enc.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func sortedNode(v any) *yaml.Node {
	switch vv := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				sortedNode(vv[k]))
		}
		return n
	case map[any]any:
		converted := make(map[string]any, len(vv))
		for k, val := range vv {
			converted[fmt.Sprint(k)] = val
		}
		return sortedNode(converted)
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			n.Content = append(n.Content, sortedNode(item))
		}
		return n
	default:
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v)}
		}
		return &n
	}
}
