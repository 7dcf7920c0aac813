package ast

// Kind tags a node with its syntactic category. The names follow the clang
// cursor-kind vocabulary so dumps read like libclang output.
type Kind int

const (
	KindUnexposedExpr Kind = iota
	KindTranslationUnit

	// Declarations
	KindFunctionDecl
	KindVarDecl
	KindParmDecl
	KindFieldDecl
	KindStructDecl
	KindUnionDecl
	KindEnumDecl
	KindEnumConstantDecl
	KindTypedefDecl

	// Statements
	KindCompoundStmt
	KindDeclStmt
	KindIfStmt
	KindWhileStmt
	KindDoStmt
	KindForStmt
	KindSwitchStmt
	KindCaseStmt
	KindDefaultStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindGotoStmt
	KindLabelStmt
	KindNullStmt

	// Expressions
	KindCallExpr
	KindDeclRefExpr
	KindMemberRefExpr
	KindIntegerLiteral
	KindFloatingLiteral
	KindStringLiteral
	KindCharacterLiteral
	KindBinaryOperator
	KindUnaryOperator
	KindArraySubscriptExpr
	KindParenExpr
	KindConditionalOperator
	KindCStyleCastExpr
	KindInitListExpr

	// References
	KindTypeRef

	kindCount
)

var kindNames = [kindCount]string{
	KindUnexposedExpr:       "UNEXPOSED_EXPR",
	KindTranslationUnit:     "TRANSLATION_UNIT",
	KindFunctionDecl:        "FUNCTION_DECL",
	KindVarDecl:             "VAR_DECL",
	KindParmDecl:            "PARM_DECL",
	KindFieldDecl:           "FIELD_DECL",
	KindStructDecl:          "STRUCT_DECL",
	KindUnionDecl:           "UNION_DECL",
	KindEnumDecl:            "ENUM_DECL",
	KindEnumConstantDecl:    "ENUM_CONSTANT_DECL",
	KindTypedefDecl:         "TYPEDEF_DECL",
	KindCompoundStmt:        "COMPOUND_STMT",
	KindDeclStmt:            "DECL_STMT",
	KindIfStmt:              "IF_STMT",
	KindWhileStmt:           "WHILE_STMT",
	KindDoStmt:              "DO_STMT",
	KindForStmt:             "FOR_STMT",
	KindSwitchStmt:          "SWITCH_STMT",
	KindCaseStmt:            "CASE_STMT",
	KindDefaultStmt:         "DEFAULT_STMT",
	KindReturnStmt:          "RETURN_STMT",
	KindBreakStmt:           "BREAK_STMT",
	KindContinueStmt:        "CONTINUE_STMT",
	KindGotoStmt:            "GOTO_STMT",
	KindLabelStmt:           "LABEL_STMT",
	KindNullStmt:            "NULL_STMT",
	KindCallExpr:            "CALL_EXPR",
	KindDeclRefExpr:         "DECL_REF_EXPR",
	KindMemberRefExpr:       "MEMBER_REF_EXPR",
	KindIntegerLiteral:      "INTEGER_LITERAL",
	KindFloatingLiteral:     "FLOATING_LITERAL",
	KindStringLiteral:       "STRING_LITERAL",
	KindCharacterLiteral:    "CHARACTER_LITERAL",
	KindBinaryOperator:      "BINARY_OPERATOR",
	KindUnaryOperator:       "UNARY_OPERATOR",
	KindArraySubscriptExpr:  "ARRAY_SUBSCRIPT_EXPR",
	KindParenExpr:           "PAREN_EXPR",
	KindConditionalOperator: "CONDITIONAL_OPERATOR",
	KindCStyleCastExpr:      "CSTYLE_CAST_EXPR",
	KindInitListExpr:        "INIT_LIST_EXPR",
	KindTypeRef:             "TYPE_REF",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "UNKNOWN"
	}
	return kindNames[k]
}

func (k Kind) IsDeclaration() bool {
	return k >= KindFunctionDecl && k <= KindTypedefDecl
}

func (k Kind) IsStatement() bool {
	return k >= KindCompoundStmt && k <= KindNullStmt
}

func (k Kind) IsExpression() bool {
	return k == KindUnexposedExpr || (k >= KindCallExpr && k <= KindInitListExpr)
}

func (k Kind) IsLiteral() bool {
	return k >= KindIntegerLiteral && k <= KindCharacterLiteral
}

// Linkage reports whether a declared symbol is visible outside its
// translation unit. Non-declarations carry LinkageInvalid.
type Linkage int

const (
	LinkageInvalid Linkage = iota
	LinkageNone
	LinkageInternal
	LinkageUniqueExternal
	LinkageExternal
)

func (l Linkage) String() string {
	switch l {
	case LinkageNone:
		return "NO_LINKAGE"
	case LinkageInternal:
		return "INTERNAL"
	case LinkageUniqueExternal:
		return "UNIQUE_EXTERNAL"
	case LinkageExternal:
		return "EXTERNAL"
	default:
		return "INVALID"
	}
}
