package syntax

import (
	"strconv"

	"rainbow/internal/rberrors"
	"rainbow/signature"
)

// Parse parses src into a Tree, then applies the implicit-block rewrite
// against ns so the result is ready for type inference. The namespace's
// symbol interner is reused for the tree's symbols so function names in
// source text share ids with ns's signatures.
//
// Parse errors are raised as panics of *rberrors.ParseError internally and
// recovered here at the single entry point: the scanner, consume() and term() panic deep
// inside the recursive descent and this is the one place that recovers.
func Parse[V any](ns *signature.Namespace[V], src string) (tree *Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*rberrors.ParseError); ok {
				pe.Source = src
				err = rberrors.NewCompileError(pe)
				return
			}
			panic(r)
		}
	}()

	p := &parser{
		scanner: NewScanner(src),
		tree:    newTree(src, ns.Symbols()),
	}
	p.tokens = p.scanner.ScanTokens()
	root := p.term()
	if !p.check(TokEOF) {
		panic(newParseErrorAt(p.peek(), "extra input after a complete expression"))
	}
	p.tree.Root = root

	rewriteImplicitBlocks(p.tree, ns)
	return p.tree, nil
}

type parser struct {
	scanner *Scanner
	tokens  []Token
	current int
	tree    *Tree
}

func newLexError(start, end int, msg string) *rberrors.ParseError {
	return &rberrors.ParseError{Span: rberrors.Span{Start: start, End: end}, Message: msg}
}

func newParseErrorAt(tok Token, msg string) *rberrors.ParseError {
	return &rberrors.ParseError{Span: rberrors.Span{Start: tok.Start, End: tok.End}, Message: msg}
}

func parseFloat(text string, start, end int) float64 {
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		panic(newLexError(start, end, "invalid number literal"))
	}
	return n
}

func (p *parser) peek() Token     { return p.tokens[p.current] }
func (p *parser) previous() Token { return p.tokens[p.current-1] }
func (p *parser) isAtEnd() bool   { return p.peek().Type == TokEOF }
func (p *parser) check(t TokenType) bool {
	return p.peek().Type == t
}
func (p *parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}
func (p *parser) match(t TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}
func (p *parser) consume(t TokenType, msg string) Token {
	if p.check(t) {
		return p.advance()
	}
	panic(newParseErrorAt(p.peek(), msg))
}

// term parses the grammar's `term` production: whichever construct the
// next token selects.
func (p *parser) term() NodeID {
	switch p.peek().Type {
	case TokKeyword:
		return p.apply()
	case TokIdent:
		return p.variable()
	case TokNumber, TokString, TokTrue, TokFalse:
		return p.primitive()
	case TokLBracket:
		return p.listOrRecord()
	case TokLBrace:
		return p.block()
	default:
		panic(newParseErrorAt(p.peek(), "expected an expression"))
	}
}

// apply parses one or more `argument`s: `keyword term` pairs. The first
// argument's keyword names the function.
func (p *parser) apply() NodeID {
	start := p.peek().Start
	var args []NodeID
	for p.check(TokKeyword) {
		args = append(args, p.argument())
	}
	end := p.previous().End
	return p.tree.newNode(NApply, start, end, args...)
}

func (p *parser) argument() NodeID {
	kwTok := p.consume(TokKeyword, "expected a keyword")
	symID := p.tree.Symbols.Intern(kwTok.Text)
	kwNode := p.tree.newNode(NKeyword, kwTok.Start, kwTok.End)
	p.tree.Nodes[kwNode].SymID = symID
	valNode := p.term()
	end := p.tree.Node(valNode).End
	return p.tree.newNode(NArgument, kwTok.Start, end, kwNode, valNode)
}

// variable parses a dotted identifier path: `a.b.c`.
func (p *parser) variable() NodeID {
	start := p.peek().Start
	var idents []NodeID
	idents = append(idents, p.ident())
	for p.match(TokDot) {
		idents = append(idents, p.ident())
	}
	end := p.tree.Node(idents[len(idents)-1]).End
	return p.tree.newNode(NVariable, start, end, idents...)
}

func (p *parser) ident() NodeID {
	tok := p.consume(TokIdent, "expected an identifier")
	symID := p.tree.Symbols.Intern(tok.Text)
	id := p.tree.newNode(NIdent, tok.Start, tok.End)
	p.tree.Nodes[id].SymID = symID
	return id
}

func (p *parser) primitive() NodeID {
	tok := p.advance()
	var prim Prim
	switch tok.Type {
	case TokNumber:
		prim = Prim{Kind: PrimNumber, Num: tok.Number}
	case TokString:
		prim = Prim{Kind: PrimString, Str: tok.Text}
	case TokTrue:
		prim = Prim{Kind: PrimBool, Bool: true}
	case TokFalse:
		prim = Prim{Kind: PrimBool, Bool: false}
	default:
		panic(newParseErrorAt(tok, "expected a primitive literal"))
	}
	constID := p.tree.InternConstant(prim)
	id := p.tree.newNode(NPrimitive, tok.Start, tok.End)
	p.tree.Nodes[id].ConstID = constID
	return id
}

// listOrRecord disambiguates `[...]` by a one-token-plus lookahead: an
// ident immediately followed by '=' signals a record entry; anything else
// (including an empty bracket) is a list. The lookahead reads the next two
// entries of the already-scanned token slice; no parser position is saved
// or restored.
func (p *parser) listOrRecord() NodeID {
	start := p.consume(TokLBracket, "expected '['").Start
	if p.isRecordStart() {
		return p.record(start)
	}
	return p.list(start)
}

func (p *parser) isRecordStart() bool {
	return p.check(TokIdent) && p.current+1 < len(p.tokens) && p.tokens[p.current+1].Type == TokEquals
}

func (p *parser) list(start int) NodeID {
	var elems []NodeID
	for !p.check(TokRBracket) {
		if p.isRecordStart() {
			panic(newParseErrorAt(p.peek(), "list and record entries must not mix"))
		}
		elems = append(elems, p.term())
	}
	end := p.consume(TokRBracket, "expected ']'").End
	return p.tree.newNode(NList, start, end, elems...)
}

func (p *parser) record(start int) NodeID {
	var entries []NodeID
	for !p.check(TokRBracket) {
		entries = append(entries, p.recordEntry())
	}
	end := p.consume(TokRBracket, "expected ']'").End
	return p.tree.newNode(NRecord, start, end, entries...)
}

func (p *parser) recordEntry() NodeID {
	nameTok := p.consume(TokIdent, "expected a field name")
	p.consume(TokEquals, "expected '=' after field name")
	symID := p.tree.Symbols.Intern(nameTok.Text)
	nameNode := p.tree.newNode(NIdent, nameTok.Start, nameTok.End)
	p.tree.Nodes[nameNode].SymID = symID
	valNode := p.term()
	end := p.tree.Node(valNode).End
	return p.tree.newNode(NRecordEntry, nameTok.Start, end, nameNode, valNode)
}

// block parses `'{' (ident+ '=>')? term '}'`.
func (p *parser) block() NodeID {
	start := p.consume(TokLBrace, "expected '{'").Start
	var children []NodeID
	if argsNode, ok := p.tryBlockArgs(); ok {
		children = append(children, argsNode)
	}
	body := p.term()
	children = append(children, body)
	end := p.consume(TokRBrace, "expected '}'").End
	return p.tree.newNode(NBlock, start, end, children...)
}

func (p *parser) tryBlockArgs() (NodeID, bool) {
	save := p.current
	var idents []NodeID
	for p.check(TokIdent) {
		idents = append(idents, p.ident())
	}
	if len(idents) > 0 && p.check(TokArrow) {
		arrowEnd := p.advance().End
		start := p.tree.Node(idents[0]).Start
		return p.tree.newNode(NBlockArgs, start, arrowEnd, idents...), true
	}
	p.current = save
	return 0, false
}
