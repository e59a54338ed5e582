package serialize

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/roach88/qbcube/internal/graph"
	"github.com/roach88/qbcube/internal/rdf"
	"github.com/roach88/qbcube/internal/vocab"
)

var (
	rdfFirst = vocab.RDF.Term("first")
	rdfRest  = vocab.RDF.Term("rest")
	rdfNil   = vocab.RDF.Term("nil")
	xsdDec   = vocab.XSD.Term("decimal")
	xsdDbl   = vocab.XSD.Term("double")
)

// ParseError reports a syntax error and where it occurred.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

// ReadTurtle parses a Turtle document and returns the graph and the
// prefixes it declared, in declaration order.
//
// TriG graph blocks are accepted and their statements are merged into the
// returned graph. Explicit blank node labels are kept; anonymous nodes get
// fresh labels that do not clash with labels seen earlier in the document.
func ReadTurtle(r io.Reader) (*graph.Graph, []vocab.Prefix, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read turtle: %w", err)
	}
	p := &parser{
		in:       []rune(strings.TrimPrefix(string(data), "\ufeff")),
		prefixes: make(map[string]string),
		labels:   make(map[string]bool),
		g:        graph.New(),
	}
	if err := p.document(); err != nil {
		return nil, nil, err
	}
	return p.g, p.order, nil
}

// ReadNTriples parses an N-Triples document. N-Triples is a subset of
// Turtle and goes through the same parser.
func ReadNTriples(r io.Reader) (*graph.Graph, error) {
	g, _, err := ReadTurtle(r)
	return g, err
}

// ParseTerm parses a single Turtle term: an IRI reference, a prefixed
// name over prefixes, a blank node label or a literal. Collections and
// blank property lists are rejected.
func ParseTerm(text string, prefixes []vocab.Prefix) (rdf.Term, error) {
	p := &parser{
		in:       []rune(strings.TrimSpace(text)),
		prefixes: make(map[string]string, len(prefixes)),
		labels:   make(map[string]bool),
		g:        graph.New(),
	}
	for _, pf := range prefixes {
		p.prefixes[pf.Name] = string(pf.Namespace)
	}
	if p.eof() {
		return nil, p.errorf("empty term")
	}
	if r := p.peek(); r == '[' || r == '(' {
		return nil, p.errorf("expected a single term")
	}
	t, err := p.object()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("unexpected %q after term", p.peek())
	}
	return t, nil
}

type parser struct {
	in       []rune
	pos      int
	base     string
	prefixes map[string]string
	order    []vocab.Prefix
	labels   map[string]bool
	anon     int
	g        *graph.Graph
}

func (p *parser) errorf(format string, args ...any) error {
	line, col := 1, 1
	for _, r := range p.in[:min(p.pos, len(p.in))] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.in) }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.in[p.pos]
}

func (p *parser) peekAt(offset int) rune {
	if p.pos+offset >= len(p.in) {
		return 0
	}
	return p.in[p.pos+offset]
}

func (p *parser) skipWS() {
	for !p.eof() {
		switch r := p.peek(); {
		case r == '#':
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
		case unicode.IsSpace(r):
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) expect(r rune) error {
	p.skipWS()
	if p.peek() != r {
		return p.errorf("expected %q", r)
	}
	p.pos++
	return nil
}

// keyword consumes a case-insensitive keyword followed by whitespace.
func (p *parser) keyword(word string) bool {
	n := len(word)
	if p.pos+n >= len(p.in) {
		return false
	}
	if !strings.EqualFold(string(p.in[p.pos:p.pos+n]), word) || !unicode.IsSpace(p.in[p.pos+n]) {
		return false
	}
	p.pos += n
	return true
}

func (p *parser) document() error {
	for {
		p.skipWS()
		if p.eof() {
			return nil
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
}

func (p *parser) statement() error {
	switch {
	case p.peek() == '@':
		return p.directive()
	case p.keyword("PREFIX"):
		return p.prefixDecl(false)
	case p.keyword("BASE"):
		return p.baseDecl(false)
	case p.keyword("GRAPH"):
		p.skipWS()
		if _, err := p.iri(); err != nil {
			return err
		}
		return p.graphBlock()
	case p.peek() == '{':
		return p.graphBlock()
	}

	subj, bare, err := p.subject()
	if err != nil {
		return err
	}
	p.skipWS()
	if p.peek() == '{' {
		if _, ok := subj.(rdf.Blank); ok && bare {
			return p.errorf("graph name must not be a property list")
		}
		return p.graphBlock()
	}
	if !bare || (p.peek() != '.') {
		if err := p.predicateObjectList(subj); err != nil {
			return err
		}
	}
	return p.expect('.')
}

func (p *parser) directive() error {
	p.pos++
	switch {
	case p.keyword("prefix"):
		return p.prefixDecl(true)
	case p.keyword("base"):
		return p.baseDecl(true)
	default:
		return p.errorf("unknown directive")
	}
}

func (p *parser) prefixDecl(dotted bool) error {
	p.skipWS()
	start := p.pos
	for !p.eof() && p.peek() != ':' {
		if !isNameChar(p.peek()) {
			return p.errorf("invalid prefix name")
		}
		p.pos++
	}
	name := string(p.in[start:p.pos])
	if err := p.expect(':'); err != nil {
		return err
	}
	p.skipWS()
	iri, err := p.iriRef()
	if err != nil {
		return err
	}
	if _, seen := p.prefixes[name]; !seen {
		p.order = append(p.order, vocab.Prefix{Name: name, Namespace: vocab.Namespace(iri)})
	} else {
		for i := range p.order {
			if p.order[i].Name == name {
				p.order[i].Namespace = vocab.Namespace(iri)
			}
		}
	}
	p.prefixes[name] = string(iri)
	if dotted {
		return p.expect('.')
	}
	return nil
}

func (p *parser) baseDecl(dotted bool) error {
	p.skipWS()
	iri, err := p.iriRef()
	if err != nil {
		return err
	}
	p.base = string(iri)
	if dotted {
		return p.expect('.')
	}
	return nil
}

// graphBlock parses { triples* } and merges the triples into the graph.
func (p *parser) graphBlock() error {
	if err := p.expect('{'); err != nil {
		return err
	}
	for {
		p.skipWS()
		if p.peek() == '}' {
			p.pos++
			return nil
		}
		if p.eof() {
			return p.errorf("unterminated graph block")
		}
		subj, bare, err := p.subject()
		if err != nil {
			return err
		}
		p.skipWS()
		if !bare || (p.peek() != '.' && p.peek() != '}') {
			if err := p.predicateObjectList(subj); err != nil {
				return err
			}
		}
		p.skipWS()
		switch p.peek() {
		case '.':
			p.pos++
		case '}':
		default:
			return p.errorf("expected '.' or '}'")
		}
	}
}

// subject parses a subject. bare is true for a blank node property list,
// which may stand alone as a statement.
func (p *parser) subject() (rdf.Resource, bool, error) {
	switch p.peek() {
	case '[':
		b, err := p.blankPropertyList()
		return b, true, err
	case '(':
		head, err := p.collection()
		return head, false, err
	case '_':
		b, err := p.blankLabel()
		return b, false, err
	default:
		iri, err := p.iri()
		return iri, false, err
	}
}

func (p *parser) predicateObjectList(subj rdf.Resource) error {
	for {
		p.skipWS()
		pred, err := p.verb()
		if err != nil {
			return err
		}
		if err := p.objectList(subj, pred); err != nil {
			return err
		}
		p.skipWS()
		if p.peek() != ';' {
			return nil
		}
		for p.peek() == ';' {
			p.pos++
			p.skipWS()
		}
		if c := p.peek(); c == '.' || c == ']' || c == '}' || p.eof() {
			return nil
		}
	}
}

func (p *parser) objectList(subj rdf.Resource, pred rdf.IRI) error {
	for {
		p.skipWS()
		obj, err := p.object()
		if err != nil {
			return err
		}
		p.g.Add(subj, pred, obj)
		p.skipWS()
		if p.peek() != ',' {
			return nil
		}
		p.pos++
	}
}

func (p *parser) verb() (rdf.IRI, error) {
	if p.peek() == 'a' && (unicode.IsSpace(p.peekAt(1)) || p.peekAt(1) == '<') {
		p.pos++
		return vocab.RDFType, nil
	}
	return p.iri()
}

func (p *parser) object() (rdf.Term, error) {
	switch r := p.peek(); {
	case r == '<' || r == ':' || unicode.IsLetter(r):
		if p.literalKeyword("true") {
			return rdf.NewBoolean(true), nil
		}
		if p.literalKeyword("false") {
			return rdf.NewBoolean(false), nil
		}
		return p.iri()
	case r == '_':
		return p.blankLabel()
	case r == '[':
		return p.blankPropertyList()
	case r == '(':
		return p.collection()
	case r == '"' || r == '\'':
		return p.literal()
	case r == '+' || r == '-' || r == '.' || unicode.IsDigit(r):
		return p.number()
	default:
		return nil, p.errorf("unexpected %q", r)
	}
}

// literalKeyword consumes true or false when it is not the start of a
// prefixed name.
func (p *parser) literalKeyword(word string) bool {
	n := len(word)
	if p.pos+n > len(p.in) || string(p.in[p.pos:p.pos+n]) != word {
		return false
	}
	if next := p.peekAt(n); next == ':' || isNameChar(next) {
		return false
	}
	p.pos += n
	return true
}

func (p *parser) blankLabel() (rdf.Blank, error) {
	if p.peek() != '_' || p.peekAt(1) != ':' {
		return "", p.errorf("expected blank node label")
	}
	p.pos += 2
	start := p.pos
	for !p.eof() && (isNameChar(p.peek()) || (p.peek() == '.' && isNameChar(p.peekAt(1)))) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("empty blank node label")
	}
	label := string(p.in[start:p.pos])
	p.labels[label] = true
	return rdf.Blank(label), nil
}

func (p *parser) fresh() rdf.Blank {
	for {
		p.anon++
		label := "anon" + strconv.Itoa(p.anon)
		if !p.labels[label] {
			p.labels[label] = true
			return rdf.Blank(label)
		}
	}
}

func (p *parser) blankPropertyList() (rdf.Blank, error) {
	p.pos++
	b := p.fresh()
	p.skipWS()
	if p.peek() == ']' {
		p.pos++
		return b, nil
	}
	if err := p.predicateObjectList(b); err != nil {
		return "", err
	}
	if err := p.expect(']'); err != nil {
		return "", err
	}
	return b, nil
}

// collection parses ( o1 o2 ... ) into an rdf:first/rdf:rest list and
// returns its head.
func (p *parser) collection() (rdf.Resource, error) {
	p.pos++
	var items []rdf.Term
	for {
		p.skipWS()
		if p.peek() == ')' {
			p.pos++
			break
		}
		if p.eof() {
			return nil, p.errorf("unterminated collection")
		}
		o, err := p.object()
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if len(items) == 0 {
		return rdfNil, nil
	}
	nodes := make([]rdf.Blank, len(items))
	for i := range items {
		nodes[i] = p.fresh()
	}
	for i, item := range items {
		p.g.Add(nodes[i], rdfFirst, item)
		if i+1 < len(items) {
			p.g.Add(nodes[i], rdfRest, nodes[i+1])
		} else {
			p.g.Add(nodes[i], rdfRest, rdfNil)
		}
	}
	return nodes[0], nil
}

// iri parses an IRIREF or a prefixed name.
func (p *parser) iri() (rdf.IRI, error) {
	if p.peek() == '<' {
		return p.iriRef()
	}
	return p.prefixedName()
}

func (p *parser) iriRef() (rdf.IRI, error) {
	if p.peek() != '<' {
		return "", p.errorf("expected IRI")
	}
	p.pos++
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated IRI")
		}
		r := p.peek()
		p.pos++
		switch {
		case r == '>':
			return p.resolve(b.String())
		case r == '\\':
			u, err := p.unicodeEscape()
			if err != nil {
				return "", err
			}
			b.WriteRune(u)
		case unicode.IsSpace(r) || r == '<' || r == '"':
			return "", p.errorf("invalid character %q in IRI", r)
		default:
			b.WriteRune(r)
		}
	}
}

func (p *parser) resolve(ref string) (rdf.IRI, error) {
	if p.base == "" || strings.Contains(ref, ":") {
		return rdf.IRI(ref), nil
	}
	base, err := url.Parse(p.base)
	if err != nil {
		return "", p.errorf("invalid base IRI %q", p.base)
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", p.errorf("invalid relative IRI %q", ref)
	}
	return rdf.IRI(base.ResolveReference(rel).String()), nil
}

func (p *parser) prefixedName() (rdf.IRI, error) {
	start := p.pos
	for !p.eof() && p.peek() != ':' {
		if !isNameChar(p.peek()) {
			return "", p.errorf("expected IRI or prefixed name")
		}
		p.pos++
	}
	prefix := string(p.in[start:p.pos])
	ns, ok := p.prefixes[prefix]
	if !ok {
		return "", p.errorf("undeclared prefix %q", prefix)
	}
	p.pos++ // ':'

	var local strings.Builder
	for !p.eof() {
		r := p.peek()
		switch {
		case isNameChar(r) || r == ':':
			local.WriteRune(r)
			p.pos++
		case r == '.' && (isNameChar(p.peekAt(1)) || p.peekAt(1) == ':'):
			local.WriteRune(r)
			p.pos++
		case r == '%' && isHex(p.peekAt(1)) && isHex(p.peekAt(2)):
			local.WriteString(string(p.in[p.pos : p.pos+3]))
			p.pos += 3
		case r == '\\' && p.peekAt(1) != 0:
			local.WriteRune(p.peekAt(1))
			p.pos += 2
		default:
			return rdf.IRI(ns + local.String()), nil
		}
	}
	return rdf.IRI(ns + local.String()), nil
}

func (p *parser) literal() (rdf.Term, error) {
	q := p.peek()
	long := p.peekAt(1) == q && p.peekAt(2) == q
	if long {
		p.pos += 3
	} else {
		p.pos++
	}

	var b strings.Builder
	for {
		if p.eof() {
			return nil, p.errorf("unterminated string")
		}
		r := p.peek()
		if r == q {
			if !long {
				p.pos++
				break
			}
			if p.peekAt(1) == q && p.peekAt(2) == q {
				p.pos += 3
				break
			}
		}
		if !long && (r == '\n' || r == '\r') {
			return nil, p.errorf("newline in string")
		}
		p.pos++
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		e, err := p.stringEscape()
		if err != nil {
			return nil, err
		}
		b.WriteRune(e)
	}
	lexical := b.String()

	switch {
	case p.peek() == '@':
		p.pos++
		start := p.pos
		for !p.eof() && (isASCIILetter(p.peek()) || unicode.IsDigit(p.peek()) || p.peek() == '-') {
			p.pos++
		}
		if p.pos == start {
			return nil, p.errorf("empty language tag")
		}
		return rdf.NewLangString(lexical, string(p.in[start:p.pos])), nil
	case p.peek() == '^' && p.peekAt(1) == '^':
		p.pos += 2
		dt, err := p.iri()
		if err != nil {
			return nil, err
		}
		return rdf.NewTyped(lexical, dt), nil
	default:
		return rdf.NewString(lexical), nil
	}
}

func (p *parser) stringEscape() (rune, error) {
	r := p.peek()
	switch r {
	case 't':
		p.pos++
		return '\t', nil
	case 'b':
		p.pos++
		return '\b', nil
	case 'n':
		p.pos++
		return '\n', nil
	case 'r':
		p.pos++
		return '\r', nil
	case 'f':
		p.pos++
		return '\f', nil
	case '"', '\'', '\\':
		p.pos++
		return r, nil
	case 'u', 'U':
		return p.unicodeEscape()
	default:
		return 0, p.errorf("invalid escape \\%c", r)
	}
}

// unicodeEscape parses uXXXX or UXXXXXXXX after a backslash.
func (p *parser) unicodeEscape() (rune, error) {
	n := 0
	switch p.peek() {
	case 'u':
		n = 4
	case 'U':
		n = 8
	default:
		return 0, p.errorf("invalid escape")
	}
	p.pos++
	if p.pos+n > len(p.in) {
		return 0, p.errorf("truncated unicode escape")
	}
	v, err := strconv.ParseUint(string(p.in[p.pos:p.pos+n]), 16, 32)
	if err != nil {
		return 0, p.errorf("invalid unicode escape")
	}
	p.pos += n
	return rune(v), nil
}

func (p *parser) number() (rdf.Term, error) {
	start := p.pos
	if r := p.peek(); r == '+' || r == '-' {
		p.pos++
	}
	digits := func() int {
		n := 0
		for !p.eof() && unicode.IsDigit(p.peek()) {
			p.pos++
			n++
		}
		return n
	}
	intDigits := digits()
	datatype := rdf.XSDInteger
	if p.peek() == '.' && unicode.IsDigit(p.peekAt(1)) {
		p.pos++
		digits()
		datatype = xsdDec
	}
	if r := p.peek(); r == 'e' || r == 'E' {
		p.pos++
		if r := p.peek(); r == '+' || r == '-' {
			p.pos++
		}
		if digits() == 0 {
			return nil, p.errorf("invalid exponent")
		}
		datatype = xsdDbl
	}
	if intDigits == 0 && datatype == rdf.XSDInteger {
		return nil, p.errorf("invalid number")
	}
	return rdf.NewTyped(string(p.in[start:p.pos]), datatype), nil
}

func isNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '\u00b7'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isHex(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
