package rules

import (
	"ccheck/internal/core/errors"
	"ccheck/internal/engine/ast"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFile = "main.c"

// fakeLines serves source lines from memory.
type fakeLines map[int]string

func (f fakeLines) Line(path string, line int) (string, error) {
	text, ok := f[line]
	if !ok || path != testFile {
		return "", errors.New(errors.CodeSourceRead, fmt.Sprintf("no line %d", line))
	}
	return text, nil
}

func at(line int) ast.Location {
	return ast.Location{File: testFile, Line: line, Column: 1}
}

func decl(kind ast.Kind, name string, line int, linkage ast.Linkage, children ...*ast.Node) *ast.Node {
	return ast.New(ast.Attrs{Kind: kind, Spelling: name, Location: at(line), Linkage: linkage}, children...)
}

func ref(name string, line int) *ast.Node {
	return ast.New(ast.Attrs{Kind: ast.KindDeclRefExpr, Spelling: name, Location: at(line)})
}

func intLit(token string, line int) *ast.Node {
	return ast.New(ast.Attrs{Kind: ast.KindIntegerLiteral, Token: token, Location: at(line)})
}

func call(name string, line int, args ...*ast.Node) *ast.Node {
	children := append([]*ast.Node{ref(name, line)}, args...)
	return ast.New(ast.Attrs{Kind: ast.KindCallExpr, Spelling: name, Location: at(line)}, children...)
}

func stmt(kind ast.Kind, line int, children ...*ast.Node) *ast.Node {
	return ast.New(ast.Attrs{Kind: kind, Location: at(line)}, children...)
}

func unit(children ...*ast.Node) *ast.Node {
	return ast.New(ast.Attrs{Kind: ast.KindTranslationUnit, Spelling: testFile}, children...)
}

func subjects(diags []Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Subject)
	}
	return out
}

// mainScenario mirrors
//
//	1 int main(int argc, char **argv) {
//	2     if (argc > 1) {
//	3         printf(argv[1]);
//	4     }
//	5     strcpy(buf, argv[1]);
//	6     return 42;
//	7 }
func mainScenario() (*ast.Node, fakeLines) {
	lines := fakeLines{
		1: "int main(int argc, char **argv) {",
		2: "    if (argc > 1) {",
		3: "        printf(argv[1]);",
		4: "    }",
		5: "    strcpy(buf, argv[1]);",
		6: "    return 42;",
		7: "}",
	}
	root := unit(
		decl(ast.KindFunctionDecl, "main", 1, ast.LinkageExternal,
			decl(ast.KindParmDecl, "argc", 1, ast.LinkageNone),
			decl(ast.KindParmDecl, "argv", 1, ast.LinkageNone),
			stmt(ast.KindCompoundStmt, 1,
				stmt(ast.KindIfStmt, 2,
					stmt(ast.KindBinaryOperator, 2, ref("argc", 2), intLit("1", 2)),
					stmt(ast.KindCompoundStmt, 2,
						call("printf", 3, stmt(ast.KindArraySubscriptExpr, 3, ref("argv", 3), intLit("1", 3))),
					),
				),
				call("strcpy", 5, ref("buf", 5), stmt(ast.KindArraySubscriptExpr, 5, ref("argv", 5), intLit("1", 5))),
				stmt(ast.KindReturnStmt, 6, intLit("42", 6)),
			),
		),
	)
	return root, lines
}

func TestMainScenario(t *testing.T) {
	root, lines := mainScenario()

	argv := UncheckedArgv{}.Check(root)
	assert.Empty(t, argv)
	assert.Equal(t, "Any found: no", UncheckedArgv{}.Summary(argv))

	unsafe := NewUnsafeFunctions(DefaultDenyList()).Check(root)
	require.Len(t, unsafe, 1)
	assert.Equal(t, "strcpy", unsafe[0].Subject)
	assert.Equal(t, 5, unsafe[0].Location.Line)
	assert.Equal(t, "Unsafe function used: strcpy, Line: 5", unsafe[0].Message)

	magic := NewMagicNumbers(lines).Check(root)
	require.Len(t, magic, 1)
	assert.Equal(t, "42", magic[0].Subject)
	assert.Equal(t, 6, magic[0].Location.Line)
	assert.Equal(t, "return 42;", magic[0].Snippet)
	assert.Equal(t, "Numeric constant: 42, Line: 6, Code: 'return 42;'", magic[0].Message)
	assert.Equal(t, SeverityWarning, magic[0].Severity)
}

func TestSingleCharNames(t *testing.T) {
	root := unit(
		decl(ast.KindFunctionDecl, "f", 1, ast.LinkageExternal,
			decl(ast.KindParmDecl, "x", 1, ast.LinkageNone),
			decl(ast.KindParmDecl, "xy", 1, ast.LinkageNone),
			stmt(ast.KindCompoundStmt, 1,
				stmt(ast.KindDeclStmt, 2, decl(ast.KindVarDecl, "é", 2, ast.LinkageNone)),
				stmt(ast.KindDeclStmt, 3, decl(ast.KindVarDecl, "", 3, ast.LinkageNone)),
				ref("y", 4),
			),
		),
		decl(ast.KindStructDecl, "S", 6, ast.LinkageExternal, decl(ast.KindFieldDecl, "k", 7, ast.LinkageNone)),
		decl(ast.KindTypedefDecl, "T", 9, ast.LinkageNone),
		decl(ast.KindVarDecl, "日本", 10, ast.LinkageExternal),
	)

	diags := SingleCharNames{}.Check(root)
	assert.Equal(t, []string{"f", "x", "é", "S", "k", "T"}, subjects(diags))
	assert.Equal(t, "Name: x, Line: 1", diags[1].Message)
	for _, d := range diags {
		assert.Equal(t, IDSingleCharName, d.RuleID)
	}
}

func TestCapitalizedLocals(t *testing.T) {
	root := unit(
		decl(ast.KindVarDecl, "X", 1, ast.LinkageInternal, intLit("5", 1)),
		decl(ast.KindVarDecl, "Global", 2, ast.LinkageExternal),
		decl(ast.KindVarDecl, "lower", 3, ast.LinkageInternal),
		decl(ast.KindFunctionDecl, "Func", 4, ast.LinkageInternal,
			stmt(ast.KindCompoundStmt, 4,
				stmt(ast.KindDeclStmt, 5, decl(ast.KindVarDecl, "Local", 5, ast.LinkageNone)),
				stmt(ast.KindDeclStmt, 6, decl(ast.KindVarDecl, "Ext", 6, ast.LinkageExternal)),
				stmt(ast.KindDeclStmt, 7, decl(ast.KindVarDecl, "", 7, ast.LinkageNone)),
				stmt(ast.KindDeclStmt, 8, decl(ast.KindVarDecl, "Ünique", 8, ast.LinkageUniqueExternal)),
			),
		),
		decl(ast.KindParmDecl, "Param", 9, ast.LinkageNone),
	)

	diags := CapitalizedLocals{}.Check(root)
	assert.Equal(t, []string{"X", "Local", "Ünique"}, subjects(diags))
	assert.Equal(t, "Non-global capitalized variable: X, Line: 1", diags[0].Message)
}

func TestUncheckedArgv_OrderAmongDirectChildren(t *testing.T) {
	tests := []struct {
		name     string
		children func() []*ast.Node
		want     []int
	}{
		{
			name: "argv before if is reported, after is not",
			children: func() []*ast.Node {
				return []*ast.Node{ref("argv", 2), stmt(ast.KindIfStmt, 3), ref("argv", 4)}
			},
			want: []int{2},
		},
		{
			name: "argc parameter gates everything after it",
			children: func() []*ast.Node {
				return []*ast.Node{ref("argv", 1), decl(ast.KindParmDecl, "argc", 1, ast.LinkageNone), ref("argv", 2)}
			},
			want: []int{1},
		},
		{
			name: "any if-statement counts, even one not testing argc",
			children: func() []*ast.Node {
				return []*ast.Node{stmt(ast.KindIfStmt, 2, ref("flag", 2)), ref("argv", 3)}
			},
			want: nil,
		},
		{
			name: "unchecked function reports every direct argv",
			children: func() []*ast.Node {
				return []*ast.Node{ref("argv", 2), ref("other", 3), ref("argv", 4)}
			},
			want: []int{2, 4},
		},
		{
			name: "nested argv is outside the single-level scan",
			children: func() []*ast.Node {
				return []*ast.Node{stmt(ast.KindCompoundStmt, 1, ref("argv", 2))}
			},
			want: nil,
		},
		{
			name: "parameter named argv is not a reference",
			children: func() []*ast.Node {
				return []*ast.Node{decl(ast.KindParmDecl, "argv", 1, ast.LinkageNone)}
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := unit(decl(ast.KindFunctionDecl, "main", 1, ast.LinkageExternal, tt.children()...))
			diags := UncheckedArgv{}.Check(root)

			var lines []int
			for _, d := range diags {
				lines = append(lines, d.Location.Line)
				assert.Equal(t, "argv", d.Subject)
			}
			assert.Equal(t, tt.want, lines)
			assert.Equal(t, len(tt.want) > 0, UncheckedArgv{}.Summary(diags) == "Any found: yes")
		})
	}
}

func TestUncheckedArgv_StateDoesNotCrossFunctions(t *testing.T) {
	root := unit(
		decl(ast.KindFunctionDecl, "checked", 1, ast.LinkageExternal, stmt(ast.KindIfStmt, 2), ref("argv", 3)),
		decl(ast.KindFunctionDecl, "unchecked", 5, ast.LinkageExternal,
			ref("argv", 6),
			// A nested function's check must not leak into its parent.
			decl(ast.KindFunctionDecl, "inner", 7, ast.LinkageNone, decl(ast.KindParmDecl, "argc", 7, ast.LinkageNone), ref("argv", 8)),
			ref("argv", 9),
		),
	)

	diags := UncheckedArgv{}.Check(root)
	var lines []int
	for _, d := range diags {
		lines = append(lines, d.Location.Line)
	}
	assert.Equal(t, []int{6, 9}, lines)
	assert.Equal(t, "Any found: yes", UncheckedArgv{}.Summary(diags))
	assert.Equal(t, "Any found: no", UncheckedArgv{}.Summary(nil))
}

func TestMagicNumbers_Exclusions(t *testing.T) {
	lines := fakeLines{
		1: "int a = 0, b = 1, c = 2, d = 3;",
		2: "  x = argv[3];  ",
		3: "y = 0x10 + 10u + 7;",
		4: "big = 123456789012345678901234567890;",
	}
	root := unit(
		intLit("0", 1), intLit("1", 1), intLit("2", 1), intLit("3", 1),
		intLit("3", 2),
		intLit("0x10", 3), intLit("10u", 3), intLit("7", 3),
		intLit("123456789012345678901234567890", 4),
		// No token at all.
		ast.New(ast.Attrs{Kind: ast.KindIntegerLiteral, Location: at(1)}),
		// No source file: skipped without consulting the resolver.
		ast.New(ast.Attrs{Kind: ast.KindIntegerLiteral, Token: "99", Location: ast.Location{Line: 1}}),
		// Resolver failure for this line only.
		intLit("55", 40),
		// Floating literals are not integer literals.
		ast.New(ast.Attrs{Kind: ast.KindFloatingLiteral, Token: "3.5", Location: at(1)}),
	)

	diags := NewMagicNumbers(lines).Check(root)
	assert.Equal(t, []string{"3", "7", "123456789012345678901234567890"}, subjects(diags))
	assert.Equal(t, "int a = 0, b = 1, c = 2, d = 3;", diags[0].Snippet)
}

func TestMagicNumbers_Deterministic(t *testing.T) {
	root, lines := mainScenario()
	rule := NewMagicNumbers(lines)
	assert.Equal(t, rule.Check(root), rule.Check(root))
}

func TestMagicNumbers_NilResolverSkips(t *testing.T) {
	root := unit(intLit("42", 1))
	assert.Empty(t, NewMagicNumbers(nil).Check(root))
}

func TestUnsafeFunctions_NestedCalls(t *testing.T) {
	root := unit(
		decl(ast.KindFunctionDecl, "run", 1, ast.LinkageExternal,
			stmt(ast.KindCompoundStmt, 1,
				call("strcpy", 2, ref("dst", 2), call("gets", 2, ref("buf", 2))),
				call("printf", 3, call("atoi", 3, call("sprintf", 3))),
				call("safe", 4),
				// Indirect call: no callee spelling.
				ast.New(ast.Attrs{Kind: ast.KindCallExpr, Location: at(5)}, ref("fp", 5)),
				// A bare reference to a deny-listed name is not a call.
				ref("strcat", 6),
			),
		),
	)

	diags := NewUnsafeFunctions(DefaultDenyList()).Check(root)
	assert.Equal(t, []string{"strcpy", "gets", "atoi", "sprintf"}, subjects(diags))
}

func TestDenyList(t *testing.T) {
	deny := DefaultDenyList()
	for _, name := range DefaultUnsafeFunctions() {
		assert.True(t, deny.Contains(name), name)
	}
	for _, name := range []string{"", "strncpy", "atoi2", "Atoi", "printf"} {
		assert.False(t, deny.Contains(name), name)
	}
	assert.Equal(t, DefaultUnsafeFunctions(), deny.Patterns())

	custom, err := NewDenyList([]string{" str*cpy ", "", "memcpy"})
	require.NoError(t, err)
	assert.True(t, custom.Contains("strcpy"))
	assert.True(t, custom.Contains("strncpy"))
	assert.True(t, custom.Contains("memcpy"))
	assert.False(t, custom.Contains("gets"))
	assert.Equal(t, []string{"str*cpy", "memcpy"}, custom.Patterns())

	_, err = NewDenyList([]string{"[unterminated"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))

	var nilList *DenyList
	assert.False(t, nilList.Contains("gets"))
}

func TestDefaultUnsafeFunctions_ReturnsCopy(t *testing.T) {
	list := DefaultUnsafeFunctions()
	list[0] = "changed"
	assert.Equal(t, "atoi", DefaultUnsafeFunctions()[0])
}
