package extract

import (
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"

	"github.com/alexaandru/go-sitter-forest/c"
	"github.com/alexaandru/go-sitter-forest/c_sharp"
	"github.com/alexaandru/go-sitter-forest/cpp"
	"github.com/alexaandru/go-sitter-forest/java"

	"github.com/Sumatoshi-tech/coality/pkg/comment"
)

// Code languages, named as enry reports them.
const (
	LangC      = "C"
	LangCPP    = "C++"
	LangJava   = "Java"
	LangCSharp = "C#"
)

// commentNodes are the node types every supported grammar uses for comments.
var commentNodes = map[string]struct{}{
	"comment":       {},
	"line_comment":  {},
	"block_comment": {},
}

// grammar binds a tree-sitter language to the declarations that should be documented.
type grammar struct {
	name     string
	language *sitter.Language
	// decls maps a declaration node type to the comment type it yields.
	decls map[string]comment.Type
	// wrappers are transparent nodes whose last declaration child is the real one.
	wrappers map[string]struct{}
	pool     sync.Pool
}

func newGrammar(name string, fn func() unsafe.Pointer, decls map[string]comment.Type, wrappers ...string) *grammar {
	g := &grammar{
		name:     name,
		language: sitter.NewLanguage(fn()),
		decls:    decls,
		wrappers: make(map[string]struct{}, len(wrappers)),
	}

	for _, w := range wrappers {
		g.wrappers[w] = struct{}{}
	}

	g.pool.New = func() any {
		p := sitter.NewParser()
		p.SetLanguage(g.language)

		return p
	}

	return g
}

var (
	grammarsOnce sync.Once
	grammars     map[string]*grammar
)

func loadGrammars() map[string]*grammar {
	grammarsOnce.Do(func() {
		cFamily := map[string]comment.Type{
			"function_definition": comment.TypeFunction,
			"enum_specifier":      comment.TypeEnum,
		}

		cppDecls := map[string]comment.Type{
			"function_definition": comment.TypeFunction,
			"enum_specifier":      comment.TypeEnum,
			"class_specifier":     comment.TypeClass,
		}

		javaDecls := map[string]comment.Type{
			"class_declaration":               comment.TypeClass,
			"record_declaration":              comment.TypeClass,
			"method_declaration":              comment.TypeFunction,
			"constructor_declaration":         comment.TypeConstructor,
			"compact_constructor_declaration": comment.TypeConstructor,
			"interface_declaration":           comment.TypeInterface,
			"annotation_type_declaration":     comment.TypeInterface,
			"enum_declaration":                comment.TypeEnum,
		}

		csDecls := map[string]comment.Type{
			"class_declaration":       comment.TypeClass,
			"record_declaration":      comment.TypeClass,
			"method_declaration":      comment.TypeFunction,
			"constructor_declaration": comment.TypeConstructor,
			"interface_declaration":   comment.TypeInterface,
			"enum_declaration":        comment.TypeEnum,
		}

		grammars = map[string]*grammar{
			LangC:      newGrammar(LangC, c.GetLanguage, cFamily),
			LangCPP:    newGrammar(LangCPP, cpp.GetLanguage, cppDecls, "template_declaration"),
			LangJava:   newGrammar(LangJava, java.GetLanguage, javaDecls),
			LangCSharp: newGrammar(LangCSharp, c_sharp.GetLanguage, csDecls),
		}
	})

	return grammars
}

// extensionLanguages resolves files enry cannot place in a supported language.
var extensionLanguages = map[string]string{
	".c":    LangC,
	".h":    LangCPP,
	".cc":   LangCPP,
	".cpp":  LangCPP,
	".hpp":  LangCPP,
	".java": LangJava,
	".cs":   LangCSharp,
}

// detectLanguage names the code language of a file, preferring enry's
// content-aware guess when it is a supported language.
func detectLanguage(path string, content []byte) string {
	grams := loadGrammars()

	lang := enry.GetLanguage(filepath.Base(path), content)
	if _, ok := grams[lang]; ok {
		return lang
	}

	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}
