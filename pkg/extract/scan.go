package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
	"github.com/Sumatoshi-tech/coality/pkg/safeconv"
)

// handleNodes are the node types whose text is a declaration name.
var handleNodes = map[string]struct{}{
	"identifier":           {},
	"field_identifier":     {},
	"type_identifier":      {},
	"destructor_name":      {},
	"operator_name":        {},
	"qualified_identifier": {},
}

// fileScan holds the comments and missing comments of one file. IDs are
// assigned later, in file order.
type fileScan struct {
	comments []*comment.Comment
	missing  []comment.MissingComment
}

type scanner struct {
	g       *grammar
	path    string
	source  []byte
	scanned fileScan
}

// scanFile parses one source file and collects its comments.
func scanFile(ctx context.Context, g *grammar, path string, source []byte) (fileScan, error) {
	p, ok := g.pool.Get().(*sitter.Parser)
	if !ok {
		return fileScan{}, errParserPool
	}
	defer g.pool.Put(p)

	tree, err := p.ParseString(ctx, nil, source)
	if err != nil {
		return fileScan{}, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return fileScan{}, fmt.Errorf("%w: %s", errNoRootNode, path)
	}

	s := &scanner{g: g, path: path, source: source}

	if root.NamedChildCount() > 0 && !isComment(root.NamedChild(0)) {
		s.scanned.missing = append(s.scanned.missing, comment.MissingComment{
			Path:     path,
			Position: comment.HeaderPosition,
			Type:     comment.TypeHeader,
		})
	}

	s.visit(root)

	return s.scanned, nil
}

// visit scans the named children of n as one sibling list, then descends.
func (s *scanner) visit(n sitter.Node) {
	count := n.NamedChildCount()
	children := make([]sitter.Node, 0, count)

	for i := range count {
		children = append(children, n.NamedChild(i))
	}

	for i := 0; i < len(children); {
		child := children[i]

		if !isComment(child) {
			typ, handle, ok := s.declaration(child)
			if ok && (i == 0 || !isComment(children[i-1])) {
				s.scanned.missing = append(s.scanned.missing, comment.MissingComment{
					Path:     s.path,
					Position: position(child),
					Handle:   handle,
					Type:     typ,
				})
			}

			s.visit(child)
			i++

			continue
		}

		// Merge the run of adjacent comments.
		j := i
		parts := make([]string, 0, 1)

		for j < len(children) && isComment(children[j]) {
			parts = append(parts, s.text(children[j]))
			j++
		}

		c := &comment.Comment{
			Path:         s.path,
			Position:     position(child),
			Type:         comment.TypeInline,
			Text:         strings.Join(parts, "\n"),
			CodeLanguage: s.g.name,
			Synonyms:     map[string][]string{},
		}

		if c.Position == comment.HeaderPosition {
			c.Type = comment.TypeHeader
		}

		if j < len(children) {
			typ, handle, ok := s.declaration(children[j])
			if ok {
				c.Type = typ
				c.Handle = handle
			}
		}

		if strings.TrimSpace(strings.ReplaceAll(c.Text, "\n", "")) != "" {
			s.scanned.comments = append(s.scanned.comments, c)
		}

		i = j
	}
}

// declaration reports the comment type and handle of a documentable node.
func (s *scanner) declaration(n sitter.Node) (comment.Type, string, bool) {
	if _, ok := s.g.wrappers[n.Type()]; ok {
		for i := n.NamedChildCount(); i > 0; i-- {
			typ, handle, found := s.declaration(n.NamedChild(i - 1))
			if found {
				return typ, handle, true
			}
		}

		return "", "", false
	}

	typ, ok := s.g.decls[n.Type()]
	if !ok {
		return "", "", false
	}

	switch n.Type() {
	case "function_definition":
		handle := s.declaratorName(n.ChildByFieldName("declarator"))
		if n.ChildByFieldName("type").IsNull() && !strings.HasPrefix(handle, "~") {
			typ = comment.TypeConstructor
		}

		return typ, handle, true
	case "enum_specifier", "class_specifier":
		if n.ChildByFieldName("body").IsNull() {
			return "", "", false
		}
	}

	name := n.ChildByFieldName("name")
	if name.IsNull() {
		return typ, "", true
	}

	return typ, s.text(name), true
}

// declaratorName follows nested C declarators down to the declared name.
func (s *scanner) declaratorName(n sitter.Node) string {
	for !n.IsNull() {
		if _, ok := handleNodes[n.Type()]; ok {
			name := s.text(n)
			if idx := strings.LastIndex(name, "::"); idx >= 0 {
				name = name[idx+2:]
			}

			return name
		}

		n = n.ChildByFieldName("declarator")
	}

	return ""
}

func (s *scanner) text(n sitter.Node) string {
	start := safeconv.MustUintToInt(n.StartByte())
	end := safeconv.MustUintToInt(n.EndByte())

	if end > len(s.source) || start > end {
		return ""
	}

	return string(s.source[start:end])
}

func isComment(n sitter.Node) bool {
	_, ok := commentNodes[n.Type()]

	return ok
}

func position(n sitter.Node) comment.Position {
	pt := n.StartPoint()

	return comment.Position{
		Line:   safeconv.MustUintToInt(pt.Row) + 1,
		Column: safeconv.MustUintToInt(pt.Column) + 1,
	}
}
