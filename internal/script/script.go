// Package script parses directed stimulus scripts.
//
// A script is a list of items separated by spaces and/or commas:
//
//	w       write a zero payload
//	w:a5    write payload 0xa5
//	r       read
//	i       idle for one tick
//
// Any item may carry a '*' repeat suffix, so "w:3c, i*15, r" writes 0x3c,
// idles 15 ticks and then reads.
package script

import "github.com/pkg/errors"

// Operation codes, as they appear in scripts.
const (
	Write = 'w'
	Read  = 'r'
	Idle  = 'i'
)

// An Item is one parsed stimulus step, repeated Repeat times.
//
type Item struct {
	Op      byte
	Data    byte
	HasData bool
	Repeat  int
}

// Parse parses a stimulus script.
//
func Parse(in string) ([]Item, error) {
	p := parser{in: in}
	var out []Item
	for {
		p.skipSep()
		if p.eof() {
			return out, nil
		}
		it, err := p.item()
		if err != nil {
			return nil, err
		}
		if !p.eof() && !isSep(p.peek()) {
			return nil, parseError(p.in, p.pos, "expected space or comma")
		}
		out = append(out, it)
	}
}

type parser struct {
	in  string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.in)
}

// peek returns the next byte without consuming it, 0 at end of input.
func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.in[p.pos]
}

func (p *parser) next() byte {
	b := p.peek()
	p.pos++
	return b
}

func (p *parser) skipSep() {
	for !p.eof() && isSep(p.peek()) {
		p.pos++
	}
}

func isSep(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == ','
}

func (p *parser) item() (Item, error) {
	pos := p.pos
	op := p.next()
	switch op {
	case Write, Read, Idle:
	default:
		return Item{}, parseError(p.in, pos, "expected 'w', 'r' or 'i'")
	}
	it := Item{Op: op, Repeat: 1}
	if p.peek() == ':' {
		if op != Write {
			return Item{}, parseError(p.in, p.pos, "payload is only valid on 'w'")
		}
		p.next()
		v, err := p.hexByte()
		if err != nil {
			return Item{}, err
		}
		it.Data, it.HasData = v, true
	}
	if p.peek() == '*' {
		p.next()
		n, err := p.number()
		if err != nil {
			return Item{}, err
		}
		if n < 1 {
			return Item{}, parseError(p.in, pos, "repeat count must be at least 1")
		}
		it.Repeat = n
	}
	return it, nil
}

// hexByte consumes one or two hex digits.
func (p *parser) hexByte() (byte, error) {
	pos := p.pos
	v, n := 0, 0
	for n < 2 {
		d, ok := hexDigit(p.peek())
		if !ok {
			break
		}
		p.next()
		v = v<<4 | d
		n++
	}
	if n == 0 {
		return 0, parseError(p.in, pos, "expected hex payload after ':'")
	}
	return byte(v), nil
}

func (p *parser) number() (int, error) {
	pos := p.pos
	if b := p.peek(); b < '0' || b > '9' {
		return 0, parseError(p.in, pos, "expected repeat count after '*'")
	}
	v := 0
	for b := p.peek(); '0' <= b && b <= '9'; b = p.peek() {
		p.next()
		v = v*10 + int(b-'0')
		if v > 1<<20 {
			return 0, parseError(p.in, pos, "repeat count too large")
		}
	}
	return v, nil
}

func hexDigit(b byte) (int, bool) {
	switch {
	case '0' <= b && b <= '9':
		return int(b - '0'), true
	case 'a' <= b && b <= 'f':
		return int(b-'a') + 10, true
	case 'A' <= b && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
