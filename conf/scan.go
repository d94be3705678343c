package conf

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Position is a location in source text.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// RawEntry is one key/value pair of the dictionary literal exactly as it
// appears in the source. Raw is the verbatim literal text of the value,
// including quotes, and Pos is the position of the key.
type RawEntry struct {
	Key string
	Raw string
	Pos Position
}

// Scan locates the single top-level dictionary literal assignment in src
// and returns a lazy, single-pass sequence over its entries. The assignment
// is `NAME = {` or `NAME: TYPE = {` starting an unindented line; literals
// assigned inside a block or nested in another expression are skipped.
//
// The sequence yields a non-nil error at most once, as its final element,
// and stops: there is no recovery after a malformed token. A second
// matching assignment after the literal is reported as [ErrMalformedSource]
// once all entries of the first have been yielded.
//
// Only [WithName] affects scanning.
func Scan(src string, opts ...Option) iter.Seq2[RawEntry, error] {
	o := makeOptions(opts...)

	return func(yield func(RawEntry, error) bool) {
		s := newScanner(src)

		err := s.open(o.name)
		if err != nil {
			yield(RawEntry{}, err)

			return
		}

		more, err := s.each(func(e RawEntry) bool { return yield(e, nil) })
		if !more {
			return
		}

		if err == nil {
			err = s.close(o.name)
		}

		if err != nil {
			yield(RawEntry{}, err)
		}
	}
}

// Decode returns the text denoted by a raw value literal: quoted strings are
// unescaped and concatenated, None is empty, True and False are "1" and
// "0", and numbers keep their decimal text. Input that is not a well-formed
// value literal is returned unchanged.
func Decode(raw string) string {
	s := newScanner(raw)
	s.skipSpace()

	text, err := s.value()
	if err != nil {
		return raw
	}

	s.skipSpace()

	if !s.eof() {
		return raw
	}

	return text
}

// scanner holds the tokenizer state.
type scanner struct {
	input string
	brace Position // opening brace of the literal
	pos   int
	line  int
	col   int
}

type mark struct{ pos, line, col int }

func newScanner(input string) *scanner {
	return &scanner{input: input, line: 1, col: 1}
}

// open positions the scanner just inside the opening brace of the literal.
func (s *scanner) open(name string) error {
	_, found, err := s.find(name, true)
	if err != nil {
		return err
	}

	if !found {
		e := ErrMalformedSource.
			With(slog.String("reason", "dictionary literal not found"))
		if name != "" {
			e = e.With(slog.String("name", name))
		}

		return e
	}

	return nil
}

// close verifies nothing after the literal is another candidate literal.
func (s *scanner) close(name string) error {
	pos, found, err := s.find(name, false)
	if err != nil {
		return err
	}

	if found {
		return ErrMalformedSource.WithPosition(pos).
			With(slog.String("reason", "multiple dictionary literals"))
	}

	return nil
}

// find skips top-level statements until an assignment of the form
// `NAME = {` or `NAME: TYPE = {` at bracket depth zero on an unindented
// line. On success the opening brace has been consumed and the position of
// NAME is returned.
func (s *scanner) find(name string, stmt bool) (Position, bool, error) {
	var (
		depth    int
		indented bool // the current line belongs to a block
	)

	for !s.eof() {
		ch := s.peek()

		switch {
		case ch == '\n':
			s.advance()

			if depth == 0 {
				stmt, indented = true, false
			}

		case ch == ';':
			s.advance()

			if depth == 0 {
				stmt = !indented
			}

		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f':
			if depth == 0 && s.col == 1 {
				stmt, indented = false, true
			}

			s.advance()

		case ch == '\\' && s.peekN(2) == "\\\n":
			s.advance()
			s.advance()

		case ch == '#':
			s.skipLineComment()

		case isQuote(ch):
			if _, err := s.quoted(); err != nil {
				return Position{}, false, err
			}

			stmt = false

		case ch == '(' || ch == '[' || ch == '{':
			depth++
			stmt = false

			s.advance()

		case ch == ')' || ch == ']' || ch == '}':
			if depth > 0 {
				depth--
			}

			stmt = false

			s.advance()

		case stmt && depth == 0 && isIdentifierStart(ch):
			pos := s.position()
			ident := s.identifier()
			stmt = false

			if (name != "" && ident != name) || keywords[ident] {
				continue
			}

			m := s.mark()
			s.skipInline()

			if s.expect(':') && !s.annotation() {
				s.reset(m)

				continue
			}

			if s.peek() == '=' && s.peekN(2) != "==" {
				s.advance()
				s.skipInline()

				if s.peek() == '{' {
					s.brace = s.position()
					s.advance()

					return pos, true, nil
				}
			}

			s.reset(m)

		default:
			stmt = false

			s.advance()
		}
	}

	return Position{}, false, nil
}

// keywords cannot name an assignment target.
var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true, "elif": true,
	"else": true, "except": true, "finally": true, "for": true, "from": true,
	"global": true, "if": true, "import": true, "in": true, "is": true,
	"lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true, "with": true,
	"yield": true,
}

// annotation skips the type of an annotated assignment, stopping before
// the '=' that follows it. It reports false if the statement ends first.
func (s *scanner) annotation() bool {
	depth := 0

	for !s.eof() {
		ch := s.peek()

		switch {
		case depth == 0 && (ch == '\n' || ch == ';' || ch == '#'):
			return false

		case depth == 0 && ch == '=':
			return s.peekN(2) != "=="

		case isQuote(ch):
			if _, err := s.quoted(); err != nil {
				return false
			}

			continue

		case ch == '(' || ch == '[' || ch == '{':
			depth++

		case ch == ')' || ch == ']' || ch == '}':
			if depth == 0 {
				return false
			}

			depth--
		}

		s.advance()
	}

	return false
}

// each yields entries up to and including the closing brace. It reports
// false if yield asked to stop.
func (s *scanner) each(yield func(RawEntry) bool) (bool, error) {
	for {
		s.skipSpace()

		if s.eof() {
			return true, s.unclosed()
		}

		if s.expect('}') {
			return true, nil
		}

		entry, err := s.entry()
		if err != nil {
			return true, err
		}

		if !yield(entry) {
			return false, nil
		}

		s.skipSpace()

		switch {
		case s.eof():
			return true, s.unclosed()

		case s.expect(','), s.peek() == '}':

		default:
			return true, ErrUnexpectedToken.WithPosition(s.position()).
				With(
					slog.String("expected", "',' or '}'"),
					slog.String("found", s.found()),
				)
		}
	}
}

// entry parses: Key ':' Value.
func (s *scanner) entry() (RawEntry, error) {
	pos := s.position()

	key, err := s.key()
	if err != nil {
		return RawEntry{}, err
	}

	s.skipSpace()

	if s.eof() {
		return RawEntry{}, s.unclosed()
	}

	if !s.expect(':') {
		return RawEntry{}, ErrUnexpectedToken.WithPosition(s.position()).
			With(
				slog.String("expected", "':'"),
				slog.String("found", s.found()),
				slog.String("key", key),
			)
	}

	s.skipSpace()

	start := s.pos

	_, err = s.value()
	if err != nil {
		return RawEntry{}, err
	}

	return RawEntry{Key: key, Raw: s.input[start:s.pos], Pos: pos}, nil
}

// key parses a quoted string or a bare word.
func (s *scanner) key() (string, error) {
	ch := s.peek()

	switch {
	case isQuote(ch):
		return s.quoted()

	case isBareKey(ch):
		start := s.pos
		for !s.eof() && isBareKey(s.peek()) {
			s.advance()
		}

		return s.input[start:s.pos], nil

	default:
		return "", ErrUnexpectedToken.WithPosition(s.position()).
			With(
				slog.String("expected", "key"),
				slog.String("found", s.found()),
			)
	}
}

// value parses a parenthesized value, one or more adjacent string literals,
// or a bare literal, and returns the decoded text.
func (s *scanner) value() (string, error) {
	switch ch := s.peek(); {
	case s.eof():
		return "", s.unclosed()

	case ch == '(':
		s.advance()
		s.skipSpace()

		text, err := s.value()
		if err != nil {
			return "", err
		}

		s.skipSpace()

		if s.eof() {
			return "", s.unclosed()
		}

		if !s.expect(')') {
			return "", ErrUnexpectedToken.WithPosition(s.position()).
				With(
					slog.String("expected", "')'"),
					slog.String("found", s.found()),
				)
		}

		return text, nil

	case isQuote(ch):
		return s.concat()

	default:
		return s.bare()
	}
}

// concat parses adjacent string literals. Whitespace and comments between
// them are not part of the value.
func (s *scanner) concat() (string, error) {
	var b strings.Builder

	for {
		text, err := s.quoted()
		if err != nil {
			return "", err
		}

		b.WriteString(text)

		m := s.mark()
		s.skipSpace()

		if !isQuote(s.peek()) {
			s.reset(m)

			return b.String(), nil
		}
	}
}

// bare parses an unquoted literal: None, True, False, or a number.
func (s *scanner) bare() (string, error) {
	pos := s.position()
	start := s.pos

	for !s.eof() && isBareValue(s.peek()) {
		s.advance()
	}

	word := s.input[start:s.pos]

	text, ok := bareLiteral(word)
	if !ok {
		found := s.found()
		if word != "" {
			found = strconv.Quote(word)
		}

		return "", ErrUnexpectedToken.WithPosition(pos).
			With(
				slog.String("expected", "value"),
				slog.String("found", found),
			)
	}

	return text, nil
}

// quoted parses a single- or triple-quoted string and returns its decoded
// contents.
func (s *scanner) quoted() (string, error) {
	pos := s.position()
	delim := string(s.peek())

	if triple := strings.Repeat(delim, 3); s.peekN(3) == triple {
		delim = triple
	}

	for range len(delim) {
		s.advance()
	}

	var b strings.Builder

	for {
		if s.eof() {
			return "", ErrUnterminatedString.WithPosition(pos)
		}

		if strings.HasPrefix(s.input[s.pos:], delim) {
			for range len(delim) {
				s.advance()
			}

			return b.String(), nil
		}

		ch := s.peek()

		switch {
		case ch == '\n' && len(delim) == 1:
			return "", ErrUnterminatedString.WithPosition(pos)

		case ch == '\\':
			s.advance()

			if s.eof() {
				return "", ErrUnterminatedString.WithPosition(pos)
			}

			esc := s.peek()
			s.advance()

			switch esc {
			case '\\', '\'', '"':
				b.WriteRune(esc)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\n':
				// line continuation
			default:
				b.WriteByte('\\')
				b.WriteRune(esc)
			}

		default:
			b.WriteRune(ch)
			s.advance()
		}
	}
}

func (s *scanner) identifier() string {
	start := s.pos
	for !s.eof() && isIdentifierContinue(s.peek()) {
		s.advance()
	}

	return s.input[start:s.pos]
}

func (s *scanner) unclosed() error {
	return ErrMalformedSource.WithPosition(s.brace).
		With(slog.String("reason", "dictionary literal not closed"))
}

// found describes the next input rune for error attributes.
func (s *scanner) found() string {
	if s.eof() {
		return "EOF"
	}

	return strconv.QuoteRune(s.peek())
}

// Helper methods

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(s.input[s.pos:])

	return r
}

func (s *scanner) peekN(n int) string {
	if s.pos+n > len(s.input) {
		return s.input[s.pos:]
	}

	return s.input[s.pos : s.pos+n]
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(s.input[s.pos:])

	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *scanner) expect(ch rune) bool {
	if s.peek() == ch {
		s.advance()

		return true
	}

	return false
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) position() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.col,
	}
}

func (s *scanner) mark() mark { return mark{s.pos, s.line, s.col} }

func (s *scanner) reset(m mark) { s.pos, s.line, s.col = m.pos, m.line, m.col }

// skipSpace skips whitespace, newlines, and comments.
func (s *scanner) skipSpace() {
	for !s.eof() {
		switch ch := s.peek(); {
		case ch == '#':
			s.skipLineComment()
		case unicode.IsSpace(ch):
			s.advance()
		default:
			return
		}
	}
}

// skipInline skips horizontal whitespace only.
func (s *scanner) skipInline() {
	for ch := s.peek(); ch == ' ' || ch == '\t'; ch = s.peek() {
		s.advance()
	}
}

func (s *scanner) skipLineComment() {
	for !s.eof() && s.peek() != '\n' {
		s.advance()
	}
}

// Character classification

func isQuote(r rune) bool { return r == '\'' || r == '"' }

func isBareKey(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isBareValue(r rune) bool {
	return isBareKey(r) || r == '.' || r == '+' || r == '-'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r)
}

// bareLiteral decodes an unquoted literal. Integers are normalized to
// decimal; floats keep their text.
func bareLiteral(word string) (string, bool) {
	switch word {
	case "":
		return "", false
	case "None":
		return "", true
	case "True":
		return "1", true
	case "False":
		return "0", true
	}

	digits := strings.TrimLeft(word, "+-")
	if digits == "" || !(digits[0] == '.' || ('0' <= digits[0] && digits[0] <= '9')) {
		return "", false
	}

	if n, err := strconv.ParseInt(word, 0, 64); err == nil {
		return strconv.FormatInt(n, 10), true
	}

	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return word, true
	}

	return "", false
}
