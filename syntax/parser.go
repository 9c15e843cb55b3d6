package syntax

import (
	"fmt"

	"github.com/komashell/koma/token"
)

// Parser consumes a token slice and builds an AST per the grammar in
// spec.md §4.3:
//
//	Input    := Sequence EOF
//	Sequence := Compound ((';'|NEWLINE) Compound)*
//	Compound := Pipeline Redirects
//	Pipeline := Command ('|' Command)*
//	Command  := ASSIGNMENT | WORD Args
//	Args     := (WORD | STRING | VARIABLE)*
//	Redirects:= ('<' WORD)? ('>'|'>>' WORD)?
type Parser struct {
	toks []token.Token
	pos  int
}

// NewParser builds a Parser over a finished token slice (see Lexer.Tokenize).
func NewParser(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse lexes and parses src in one call.
func Parse(src string) (Node, error) {
	toks, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(toks).Parse()
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) atEnd() bool       { return p.cur().Kind == token.EOF }
func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errf(pos token.Pos, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// skipSeparators consumes any run of ';' and NEWLINE tokens, both of
// which build Sequence nodes interchangeably (spec.md §4.2).
func (p *Parser) skipSeparators() {
	for p.cur().Kind == token.SEMICOLON || p.cur().Kind == token.NEWLINE {
		p.advance()
	}
}

func isSeparator(k token.Kind) bool { return k == token.SEMICOLON || k == token.NEWLINE }

// Parse parses the whole token stream as Input := Sequence EOF.
func (p *Parser) Parse() (Node, error) {
	p.skipSeparators()
	if p.atEnd() {
		return &Empty{At: p.cur().Pos}, nil
	}
	node, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	p.skipSeparators()
	if !p.atEnd() {
		return nil, p.errf(p.cur().Pos, "unexpected token after end of command: %s", p.cur().Kind)
	}
	return node, nil
}

func (p *Parser) parseSequence() (Node, error) {
	var items []Node
	first, err := p.parseCompoundOrAssignment()
	if err != nil {
		return nil, err
	}
	items = append(items, first)
	for isSeparator(p.cur().Kind) {
		p.skipSeparators()
		if p.atEnd() || isSeparator(p.cur().Kind) {
			break
		}
		next, err := p.parseCompoundOrAssignment()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &Sequence{Items: items}, nil
}

func (p *Parser) parseCompound() (Node, error) {
	inner, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	in, out, mode, err := p.parseRedirects()
	if err != nil {
		return nil, err
	}
	if in == "" && out == "" {
		return inner, nil
	}
	return &Compound{Inner: inner, In: in, Out: out, Mode: mode}, nil
}

func (p *Parser) parseRedirects() (in, out string, mode RedirMode, err error) {
	if p.cur().Kind == token.REDIRECT_IN {
		pos := p.cur().Pos
		p.advance()
		if p.cur().Kind != token.WORD && p.cur().Kind != token.STRING {
			return "", "", 0, p.errf(pos, "missing filename after <")
		}
		in = p.advance().Value
	}
	if p.cur().Kind == token.REDIRECT_OUT || p.cur().Kind == token.REDIRECT_APPEND {
		pos := p.cur().Pos
		if p.cur().Kind == token.REDIRECT_APPEND {
			mode = RedirAppend
		} else {
			mode = RedirWrite
		}
		p.advance()
		if p.cur().Kind != token.WORD && p.cur().Kind != token.STRING {
			return "", "", 0, p.errf(pos, "missing filename after redirection")
		}
		out = p.advance().Value
	}
	return in, out, mode, nil
}

func (p *Parser) parsePipeline() (Node, error) {
	first, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	stages := []*Command{first}
	for p.cur().Kind == token.PIPE {
		p.advance()
		next, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		stages = append(stages, next)
	}
	if len(stages) == 1 {
		return stages[0], nil
	}
	return &Pipeline{Stages: stages}, nil
}

func (p *Parser) parseCommand() (*Command, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.WORD:
		p.advance()
		cmd := &Command{At: tok.Pos, Name: tok.Value}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		cmd.Args = args
		return cmd, nil
	default:
		return nil, p.errf(tok.Pos, "expected a command, got %s", tok.Kind)
	}
}

func (p *Parser) parseArgs() ([]Arg, error) {
	var args []Arg
	depth := 0 // '(' arguments not yet matched by a ')'
	for {
		tok := p.cur()
		switch tok.Kind {
		case token.WORD:
			p.advance()
			args = append(args, &Lit{At: tok.Pos, Value: tok.Value})
		case token.STRING:
			p.advance()
			args = append(args, &Lit{At: tok.Pos, Value: tok.Value, Quoted: true})
		case token.VARIABLE:
			p.advance()
			args = append(args, &VarRef{At: tok.Pos, Name: tok.Value})
		case token.LPAREN, token.RPAREN:
			// The shell grammar has no grouping construct; '(' and ')'
			// only ever reach a command as literal arguments, used by
			// `test`/`[` for its outermost-only parenthesized groups
			// (spec.md §4.8). A ')' with no unmatched '(' before it in
			// the same command ends the arguments, and Parse reports it
			// as an unexpected token.
			if tok.Kind == token.RPAREN {
				if depth == 0 {
					return args, nil
				}
				depth--
			} else {
				depth++
			}
			p.advance()
			val := "("
			if tok.Kind == token.RPAREN {
				val = ")"
			}
			args = append(args, &Lit{At: tok.Pos, Value: val})
		case token.PIPE, token.SEMICOLON, token.NEWLINE, token.REDIRECT_IN,
			token.REDIRECT_OUT, token.REDIRECT_APPEND, token.EOF:
			return args, nil
		case token.ASSIGNMENT:
			// A bare NAME=VALUE in argument position is not a shell
			// operator; treat its rendered form as a literal word.
			p.advance()
			args = append(args, &Lit{At: tok.Pos, Value: tok.Value})
		default:
			return nil, p.errf(tok.Pos, "unexpected token in argument position: %s", tok.Kind)
		}
	}
}

// parseCompound needs to special-case the ASSIGNMENT lookahead before
// ever calling parsePipeline/parseCommand, since an Assignment is not a
// Pipeline member. Reimplement parseCompound's entry to route to it.
func (p *Parser) parseCompoundOrAssignment() (Node, error) {
	if p.cur().Kind == token.ASSIGNMENT {
		tok := p.advance()
		name, value := splitAssignment(tok.Value)
		return &Assignment{At: tok.Pos, Name: name, Value: value}, nil
	}
	return p.parseCompound()
}

func splitAssignment(s string) (name, value string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}
