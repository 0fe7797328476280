package lexer

import "fmt"

// TokenType represents different types of tokens
type TokenType int

const (
	// ILLEGAL is the zero value and is never emitted
	ILLEGAL TokenType = iota

	// Identifiers and literals
	IDENT          // main, _tmp, x1
	CONSTANT       // 42, 0xFFu, 0.1e+17f, 'a'
	STRING_LITERAL // "foo", L"wide"

	// Keywords
	AUTO
	BREAK
	CASE
	CHAR
	CONST
	CONTINUE
	DEFAULT
	DO
	DOUBLE
	ELSE
	ENUM
	EXTERN
	FLOAT
	FOR
	GOTO
	IF
	INT
	LONG
	REGISTER
	RETURN
	SHORT
	SIGNED
	SIZEOF
	STATIC
	STRUCT
	SWITCH
	TYPEDEF
	UNION
	UNSIGNED
	VOID
	VOLATILE
	WHILE

	// Operators and punctuators
	ELLIPSIS     // ...
	RIGHT_ASSIGN // >>=
	LEFT_ASSIGN  // <<=
	ADD_ASSIGN   // +=
	SUB_ASSIGN   // -=
	MUL_ASSIGN   // *=
	DIV_ASSIGN   // /=
	MOD_ASSIGN   // %=
	AND_ASSIGN   // &=
	XOR_ASSIGN   // ^=
	OR_ASSIGN    // |=
	RIGHT_OP     // >>
	LEFT_OP      // <<
	INC_OP       // ++
	DEC_OP       // --
	PTR_OP       // ->
	AND_OP       // &&
	OR_OP        // ||
	LE_OP        // <=
	GE_OP        // >=
	EQ_OP        // ==
	NE_OP        // !=
	SEMICOLON    // ;
	LBRACE       // {
	RBRACE       // }
	COMMA        // ,
	COLON        // :
	ASSIGN       // =
	LPAREN       // (
	RPAREN       // )
	LBRACKET     // [
	RBRACKET     // ]
	DOT          // .
	AMPERSAND    // &
	BANG         // !
	TILDE        // ~
	MINUS        // -
	PLUS         // +
	ASTERISK     // *
	SLASH        // /
	PERCENT      // %
	LT           // <
	GT           // >
	CARET        // ^
	PIPE         // |
	QUESTION     // ?
	tokenTypeCount
)

// Token represents a single token. Literal is always the verbatim lexeme.
type Token struct {
	Type    TokenType
	Literal string
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s}", t.Type.String(), t.Literal)
}

// IsKeyword reports whether the token type is one of the reserved words.
func (tt TokenType) IsKeyword() bool {
	return tt >= AUTO && tt <= WHILE
}

// IsOperator reports whether the token type is an operator or punctuator.
func (tt TokenType) IsOperator() bool {
	return tt >= ELLIPSIS && tt <= QUESTION
}

var tokenNames = [tokenTypeCount]string{
	ILLEGAL:        "ILLEGAL",
	IDENT:          "IDENT",
	CONSTANT:       "CONSTANT",
	STRING_LITERAL: "STRING_LITERAL",
	AUTO:           "AUTO",
	BREAK:          "BREAK",
	CASE:           "CASE",
	CHAR:           "CHAR",
	CONST:          "CONST",
	CONTINUE:       "CONTINUE",
	DEFAULT:        "DEFAULT",
	DO:             "DO",
	DOUBLE:         "DOUBLE",
	ELSE:           "ELSE",
	ENUM:           "ENUM",
	EXTERN:         "EXTERN",
	FLOAT:          "FLOAT",
	FOR:            "FOR",
	GOTO:           "GOTO",
	IF:             "IF",
	INT:            "INT",
	LONG:           "LONG",
	REGISTER:       "REGISTER",
	RETURN:         "RETURN",
	SHORT:          "SHORT",
	SIGNED:         "SIGNED",
	SIZEOF:         "SIZEOF",
	STATIC:         "STATIC",
	STRUCT:         "STRUCT",
	SWITCH:         "SWITCH",
	TYPEDEF:        "TYPEDEF",
	UNION:          "UNION",
	UNSIGNED:       "UNSIGNED",
	VOID:           "VOID",
	VOLATILE:       "VOLATILE",
	WHILE:          "WHILE",
	ELLIPSIS:       "ELLIPSIS",
	RIGHT_ASSIGN:   "RIGHT_ASSIGN",
	LEFT_ASSIGN:    "LEFT_ASSIGN",
	ADD_ASSIGN:     "ADD_ASSIGN",
	SUB_ASSIGN:     "SUB_ASSIGN",
	MUL_ASSIGN:     "MUL_ASSIGN",
	DIV_ASSIGN:     "DIV_ASSIGN",
	MOD_ASSIGN:     "MOD_ASSIGN",
	AND_ASSIGN:     "AND_ASSIGN",
	XOR_ASSIGN:     "XOR_ASSIGN",
	OR_ASSIGN:      "OR_ASSIGN",
	RIGHT_OP:       "RIGHT_OP",
	LEFT_OP:        "LEFT_OP",
	INC_OP:         "INC_OP",
	DEC_OP:         "DEC_OP",
	PTR_OP:         "PTR_OP",
	AND_OP:         "AND_OP",
	OR_OP:          "OR_OP",
	LE_OP:          "LE_OP",
	GE_OP:          "GE_OP",
	EQ_OP:          "EQ_OP",
	NE_OP:          "NE_OP",
	SEMICOLON:      "SEMICOLON",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	COMMA:          "COMMA",
	COLON:          "COLON",
	ASSIGN:         "ASSIGN",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	LBRACKET:       "LBRACKET",
	RBRACKET:       "RBRACKET",
	DOT:            "DOT",
	AMPERSAND:      "AMPERSAND",
	BANG:           "BANG",
	TILDE:          "TILDE",
	MINUS:          "MINUS",
	PLUS:           "PLUS",
	ASTERISK:       "ASTERISK",
	SLASH:          "SLASH",
	PERCENT:        "PERCENT",
	LT:             "LT",
	GT:             "GT",
	CARET:          "CARET",
	PIPE:           "PIPE",
	QUESTION:       "QUESTION",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if tt < 0 || tt >= tokenTypeCount {
		return "UNKNOWN"
	}
	return tokenNames[tt]
}

// reserved lists every keyword spelling in declaration order.
var reserved = []struct {
	literal string
	typ     TokenType
}{
	{"auto", AUTO},
	{"break", BREAK},
	{"case", CASE},
	{"char", CHAR},
	{"const", CONST},
	{"continue", CONTINUE},
	{"default", DEFAULT},
	{"do", DO},
	{"double", DOUBLE},
	{"else", ELSE},
	{"enum", ENUM},
	{"extern", EXTERN},
	{"float", FLOAT},
	{"for", FOR},
	{"goto", GOTO},
	{"if", IF},
	{"int", INT},
	{"long", LONG},
	{"register", REGISTER},
	{"return", RETURN},
	{"short", SHORT},
	{"signed", SIGNED},
	{"sizeof", SIZEOF},
	{"static", STATIC},
	{"struct", STRUCT},
	{"switch", SWITCH},
	{"typedef", TYPEDEF},
	{"union", UNION},
	{"unsigned", UNSIGNED},
	{"void", VOID},
	{"volatile", VOLATILE},
	{"while", WHILE},
}

// keywords maps each reserved word to its token type.
var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, len(reserved))
	for _, kw := range reserved {
		m[kw.literal] = kw.typ
	}
	return m
}()

// operators lists every operator and punctuator spelling. Order matters only
// for readability; resolution is by length then priority.
var operators = []struct {
	literal string
	typ     TokenType
}{
	{"...", ELLIPSIS},
	{">>=", RIGHT_ASSIGN},
	{"<<=", LEFT_ASSIGN},
	{"+=", ADD_ASSIGN},
	{"-=", SUB_ASSIGN},
	{"*=", MUL_ASSIGN},
	{"/=", DIV_ASSIGN},
	{"%=", MOD_ASSIGN},
	{"&=", AND_ASSIGN},
	{"^=", XOR_ASSIGN},
	{"|=", OR_ASSIGN},
	{">>", RIGHT_OP},
	{"<<", LEFT_OP},
	{"++", INC_OP},
	{"--", DEC_OP},
	{"->", PTR_OP},
	{"&&", AND_OP},
	{"||", OR_OP},
	{"<=", LE_OP},
	{">=", GE_OP},
	{"==", EQ_OP},
	{"!=", NE_OP},
	{";", SEMICOLON},
	{"{", LBRACE},
	{"}", RBRACE},
	{",", COMMA},
	{":", COLON},
	{"=", ASSIGN},
	{"(", LPAREN},
	{")", RPAREN},
	{"[", LBRACKET},
	{"]", RBRACKET},
	{".", DOT},
	{"&", AMPERSAND},
	{"!", BANG},
	{"~", TILDE},
	{"-", MINUS},
	{"+", PLUS},
	{"*", ASTERISK},
	{"/", SLASH},
	{"%", PERCENT},
	{"<", LT},
	{">", GT},
	{"^", CARET},
	{"|", PIPE},
	{"?", QUESTION},
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	words := make([]string, len(reserved))
	for i, kw := range reserved {
		words[i] = kw.literal
	}
	return words
}
