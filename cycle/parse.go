package cycle

import (
	"strconv"

	"github.com/halfnote/seq/seqerr"
)

type parser struct {
	toks []token
	pos  int
	ids  *idAllocator
}

// parseMini parses a mini-notation string into its AST plus the number of
// stateful node ids allocated (used to size the Cycle's runtime state).
func parseMini(src string) (*node, int, error) {
	p := &parser{ids: &idAllocator{}}
	toks, err := lex(src)
	if err != nil {
		return nil, 0, err
	}
	p.toks = toks
	n, err := p.parseChoiceLevel()
	if err != nil {
		return nil, 0, err
	}
	if p.peek().kind != tokEOF {
		return nil, 0, seqerr.NewParseError("mini", p.peek().text, "unexpected trailing input")
	}
	return n, p.ids.next, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }
func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.peek().kind != kind {
		return token{}, seqerr.NewParseError(what, p.peek().text, "expected "+what)
	}
	return p.next(), nil
}

func isStepStart(t token) bool {
	switch t.kind {
	case tokWord, tokLBracket, tokLAngle, tokLBrace:
		return true
	default:
		return false
	}
}

// parseChoiceLevel := stackLevel ('|' stackLevel)*
func (p *parser) parseChoiceLevel() (*node, error) {
	first, err := p.parseStackLevel()
	if err != nil {
		return nil, err
	}
	children := []*node{first}
	for p.peek().kind == tokPipe {
		p.next()
		n, err := p.parseStackLevel()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &node{id: p.ids.alloc(), kind: nodeChoices, children: children}, nil
}

// parseStackLevel := seqLevel (',' seqLevel)*
func (p *parser) parseStackLevel() (*node, error) {
	first, err := p.parseSeqLevel()
	if err != nil {
		return nil, err
	}
	children := []*node{first}
	for p.peek().kind == tokComma {
		p.next()
		n, err := p.parseSeqLevel()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	for _, c := range children {
		if c.kind == nodeStack {
			return nil, seqerr.NewParseError("stack", "[...]", "a stack cannot directly contain another stack")
		}
	}
	return &node{id: p.ids.alloc(), kind: nodeStack, children: children}, nil
}

func (p *parser) parseSeqLevel() (*node, error) {
	steps, err := p.parseStepList()
	if err != nil {
		return nil, err
	}
	if len(steps) == 1 {
		return steps[0], nil
	}
	return &node{id: p.ids.alloc(), kind: nodeSubdivision, children: steps}, nil
}

// parseStepList collects consecutive steps (raw, unwrapped), expanding
// `!n` replicated steps into n flat entries.
func (p *parser) parseStepList() ([]*node, error) {
	var out []*node
	for isStepStart(p.peek()) {
		steps, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		out = append(out, steps...)
	}
	if len(out) == 0 {
		return nil, seqerr.NewParseError("sequence", p.peek().text, "empty sequence")
	}
	return out, nil
}

// parseStep parses one atom plus any trailing operators, returning a
// slice because `!n` (replicate) expands into n consecutive entries.
func (p *parser) parseStep() ([]*node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	replicate := 1
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			n, err := p.parseNumber()
			if err != nil {
				return nil, err
			}
			base.ops = append(base.ops, op{kind: opFast, n: n})
		case tokBang:
			p.next()
			n, err := p.parseNumber()
			if err != nil {
				return nil, err
			}
			replicate = int(n)
		case tokColon:
			p.next()
			t := p.next()
			if t.kind != tokWord {
				return nil, seqerr.NewParseError("target operator", t.text, "expected target after `:`")
			}
			base.ops = append(base.ops, op{kind: opTarget, target: t.text})
		case tokQuestion:
			p.next()
			prob := 0.5
			if p.peek().kind == tokWord {
				n, err := p.parseNumber()
				if err != nil {
					return nil, err
				}
				prob = n
			}
			base.ops = append(base.ops, op{kind: opDegrade, n: prob})
		case tokSlash:
			return nil, seqerr.NewParseError("operator /", p.peek().text, "the slow operator `/` is reserved but not implemented")
		case tokLParen:
			p.next()
			k, err := p.parseInt()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokComma, "`,`"); err != nil {
				return nil, err
			}
			n, err := p.parseInt()
			if err != nil {
				return nil, err
			}
			r := 0
			if p.peek().kind == tokComma {
				p.next()
				r, err = p.parseInt()
				if err != nil {
					return nil, err
				}
			}
			if _, err := p.expect(tokRParen, "`)`"); err != nil {
				return nil, err
			}
			base = &node{id: p.ids.alloc(), kind: nodeBjorklund, children: []*node{base}, bjK: k, bjN: n, bjR: r}
		default:
			goto done
		}
	}
done:
	if replicate <= 1 {
		return []*node{base}, nil
	}
	out := make([]*node, replicate)
	for i := range out {
		out[i] = base
	}
	return out, nil
}

func (p *parser) parseAtom() (*node, error) {
	t := p.peek()
	switch t.kind {
	case tokWord:
		p.next()
		if t.text == "" {
			return nil, seqerr.NewParseError("single", t.text, "empty single is not a valid step")
		}
		return &node{id: p.ids.alloc(), kind: nodeSingle, text: t.text}, nil
	case tokLBracket:
		p.next()
		if p.peek().kind == tokRBracket {
			// empty group: one rest covering the parent span (§4.6).
			p.next()
			return &node{id: p.ids.alloc(), kind: nodeSingle, text: "~"}, nil
		}
		inner, err := p.parseChoiceLevel()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket, "`]`"); err != nil {
			return nil, err
		}
		return inner, nil
	case tokLAngle:
		p.next()
		var steps []*node
		if isStepStart(p.peek()) {
			var err error
			steps, err = p.parseStepList()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(tokRAngle, "`>`"); err != nil {
			return nil, err
		}
		return &node{id: p.ids.alloc(), kind: nodeAlternating, children: steps}, nil
	case tokLBrace:
		p.next()
		var steps []*node
		if isStepStart(p.peek()) {
			var err error
			steps, err = p.parseStepList()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(tokRBrace, "`}`"); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokPercent, "`%`"); err != nil {
			return nil, err
		}
		n, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		return &node{id: p.ids.alloc(), kind: nodePolymeter, children: steps, polyN: n}, nil
	default:
		return nil, seqerr.NewParseError("step", t.text, "unexpected token")
	}
}

func (p *parser) parseNumber() (float64, error) {
	t := p.next()
	if t.kind != tokWord {
		return 0, seqerr.NewParseError("number", t.text, "expected a number")
	}
	v, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, seqerr.NewParseError("number", t.text, "malformed number")
	}
	return v, nil
}

func (p *parser) parseInt() (int, error) {
	v, err := p.parseNumber()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
