package section

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doxic/internal/foundation/errors"
)

var infoRE = regexp.MustCompile(`^(.*?)\s*(\{.*\})?$`)

// ParseInfo splits a code block info string into a language name and an
// optional brace-delimited option blob. Both results are empty when absent.
func ParseInfo(info string) (name, blob string) {
	m := infoRE.FindStringSubmatch(strings.TrimSpace(info))
	if m == nil {
		return strings.TrimSpace(info), ""
	}
	return strings.TrimSpace(m[1]), m[2]
}

// ParseOptions decodes an option blob such as `{indent: 2, tags: [a, b]}`.
//
// The blob is read as a YAML flow mapping, which accepts JSON as well as
// unquoted keys and single-quoted strings. `key:value` without a space is
// read as `key: value`, as in a JavaScript object literal. Only flow
// mappings, flow sequences and scalars are allowed; anchors, aliases, tags
// and non-scalar keys are rejected.
func ParseOptions(blob string) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(spaceColons(blob)), &doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "malformed code block options").
			Fatal().
			WithContext("options", blob).
			Build()
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, unsupported(blob, "options must be a single mapping")
	}
	if err := validateNode(doc.Content[0], blob); err != nil {
		return nil, err
	}

	out := map[string]any{}
	if err := doc.Content[0].Decode(&out); err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "malformed code block options").
			Fatal().
			WithContext("options", blob).
			Build()
	}
	return out, nil
}

// spaceColons puts a space after every colon outside quoted strings that
// is directly followed by a value. YAML would otherwise read `a:1` as one
// plain scalar.
func spaceColons(blob string) string {
	var b strings.Builder
	b.Grow(len(blob) + 8)
	var quote byte
	for i := 0; i < len(blob); i++ {
		c := blob[i]
		b.WriteByte(c)
		switch {
		case quote != 0:
			if quote == '"' && c == '\\' && i+1 < len(blob) {
				i++
				b.WriteByte(blob[i])
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ':' && i+1 < len(blob) && !strings.ContainsRune(" \t\r\n", rune(blob[i+1])):
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func validateNode(n *yaml.Node, blob string) error {
	if n.Anchor != "" {
		return unsupported(blob, "anchors are not supported")
	}
	if n.Style&yaml.TaggedStyle != 0 {
		return unsupported(blob, "explicit tags are not supported")
	}

	switch n.Kind {
	case yaml.AliasNode:
		return unsupported(blob, "aliases are not supported")
	case yaml.ScalarNode:
		if n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
			return unsupported(blob, "block scalars are not supported")
		}
		return nil
	case yaml.MappingNode:
		if n.Style&yaml.FlowStyle == 0 {
			return unsupported(blob, "block mappings are not supported")
		}
		for i := 0; i < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return unsupported(blob, "keys must be scalars")
			}
			if key.Style == 0 && strings.Contains(key.Value, ":") && val.Kind == yaml.ScalarNode && val.ShortTag() == "!!null" {
				return unsupported(blob, "ambiguous key "+key.Value)
			}
		}
	case yaml.SequenceNode:
		if n.Style&yaml.FlowStyle == 0 {
			return unsupported(blob, "block sequences are not supported")
		}
	default:
		return unsupported(blob, "unexpected node")
	}

	for _, child := range n.Content {
		if err := validateNode(child, blob); err != nil {
			return err
		}
	}
	return nil
}

func unsupported(blob, reason string) error {
	return errors.NewError(errors.CategoryParse, "unsupported code block options: "+reason).
		Fatal().
		WithContext("options", blob).
		Build()
}
