package parser

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

const LanguageC = "c"

var cExtensions = map[string]bool{
	".c": true,
	".h": true,
}

func cLanguage() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_c.Language())
}

// DetectLanguage returns LanguageC for C source and header extensions and ""
// otherwise. Unrecognised files are still parsed as C by the Parser.
func DetectLanguage(path string) string {
	if cExtensions[strings.ToLower(filepath.Ext(path))] {
		return LanguageC
	}
	return ""
}
