package parse

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/src-d/go-nql/sql/ast"
	errors "gopkg.in/src-d/go-errors.v1"
)

var errUnexpectedSyntax = errors.NewKind("expecting %q but got %q instead")

type parseFunc func(*bufio.Reader) error

func parseSteps(r *bufio.Reader, steps ...parseFunc) error {
	for _, step := range steps {
		if err := step(r); err != nil {
			return err
		}
	}
	return nil
}

func expectRune(expected rune) parseFunc {
	return func(rd *bufio.Reader) error {
		r, _, err := rd.ReadRune()
		if err == io.EOF {
			return errUnexpectedSyntax.New(string(expected), "EOF")
		}

		if err != nil {
			return err
		}

		if r != expected {
			return errUnexpectedSyntax.New(string(expected), string(r))
		}

		return nil
	}
}

func expect(expected string) parseFunc {
	return func(r *bufio.Reader) error {
		var ident string
		if err := readIdent(&ident)(r); err != nil {
			return err
		}

		if strings.EqualFold(ident, expected) {
			return nil
		}

		return errUnexpectedSyntax.New(expected, ident)
	}
}

func skipSpaces(r *bufio.Reader) error {
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			return nil
		}

		if err != nil {
			return err
		}

		if !unicode.IsSpace(ru) {
			return r.UnreadRune()
		}
	}
}

func checkEOF(rd *bufio.Reader) error {
	if err := skipSpaces(rd); err != nil {
		return err
	}

	r, _, err := rd.ReadRune()
	if err == io.EOF {
		return nil
	}

	if err != nil {
		return err
	}

	return errUnexpectedSyntax.New("EOF", string(r))
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// keywordAhead reports whether the next word of the reader is the given
// keyword, without consuming it.
func keywordAhead(r *bufio.Reader, keyword string) bool {
	peeked, err := r.Peek(len(keyword) + 1)
	if err != nil && err != io.EOF {
		return false
	}

	if len(peeked) < len(keyword) ||
		!strings.EqualFold(string(peeked[:len(keyword)]), keyword) {
		return false
	}

	return len(peeked) == len(keyword) || !isIdentRune(rune(peeked[len(keyword)]))
}

func runeAhead(r *bufio.Reader, expected rune) bool {
	peeked, err := r.Peek(1)
	return err == nil && rune(peeked[0]) == expected
}

// optional runs the steps only if the next word is the given keyword.
func optional(keyword string, steps ...parseFunc) parseFunc {
	return func(r *bufio.Reader) error {
		if !keywordAhead(r, keyword) {
			return nil
		}
		return parseSteps(r, steps...)
	}
}

func readIdent(ident *string) parseFunc {
	return func(r *bufio.Reader) error {
		var buf bytes.Buffer
		for {
			ru, _, err := r.ReadRune()
			if err == io.EOF {
				break
			}

			if err != nil {
				return err
			}

			if !isIdentRune(ru) {
				if err := r.UnreadRune(); err != nil {
					return err
				}
				break
			}

			buf.WriteRune(ru)
		}

		if buf.Len() == 0 {
			ru, _, err := r.ReadRune()
			if err == io.EOF {
				return errUnexpectedSyntax.New("identifier", "EOF")
			}
			return errUnexpectedSyntax.New("identifier", string(ru))
		}

		*ident = buf.String()
		return nil
	}
}

// readColumn reads a column name, optionally qualified by a table name.
func readColumn(col **ast.ColumnRef) parseFunc {
	return func(r *bufio.Reader) error {
		var first string
		if err := readIdent(&first)(r); err != nil {
			return err
		}

		if !runeAhead(r, '.') {
			*col = ast.NewColumn(first)
			return nil
		}

		var name string
		if err := parseSteps(r, expectRune('.'), readIdent(&name)); err != nil {
			return err
		}

		*col = ast.NewQualifiedColumn(first, name)
		return nil
	}
}

func readQuotedString(val *string) parseFunc {
	return func(r *bufio.Reader) error {
		quote, _, err := r.ReadRune()
		if err != nil {
			return errUnexpectedSyntax.New("quoted string", "EOF")
		}

		if quote != '\'' && quote != '"' {
			return errUnexpectedSyntax.New("quoted string", string(quote))
		}

		s, err := readUntilQuote(r, quote)
		if err != nil {
			return err
		}

		*val = s
		return nil
	}
}

// readUntilQuote reads the body of a string literal whose opening quote was
// already consumed. A doubled or backslash-escaped quote is part of the body.
func readUntilQuote(r *bufio.Reader, quote rune) (string, error) {
	var buf bytes.Buffer
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			return "", errUnexpectedSyntax.New(string(quote), "EOF")
		}

		if err != nil {
			return "", err
		}

		switch {
		case ru == '\\':
			next, _, err := r.ReadRune()
			if err != nil {
				return "", errUnexpectedSyntax.New(string(quote), "EOF")
			}
			buf.WriteRune(next)
		case ru == quote && runeAhead(r, quote):
			_, _, _ = r.ReadRune()
			buf.WriteRune(quote)
		case ru == quote:
			return buf.String(), nil
		default:
			buf.WriteRune(ru)
		}
	}
}

// readValue reads a quoted string, a number or a boolean. Numbers are
// returned as int64 or float64.
func readValue(val *interface{}) parseFunc {
	return func(r *bufio.Reader) error {
		if runeAhead(r, '\'') || runeAhead(r, '"') {
			var s string
			if err := readQuotedString(&s)(r); err != nil {
				return err
			}
			*val = s
			return nil
		}

		var buf bytes.Buffer
		for {
			ru, _, err := r.ReadRune()
			if err == io.EOF {
				break
			}

			if err != nil {
				return err
			}

			if !isIdentRune(ru) && ru != '.' && ru != '-' && ru != '+' {
				if err := r.UnreadRune(); err != nil {
					return err
				}
				break
			}

			buf.WriteRune(ru)
		}

		raw := buf.String()
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			*val = n
			return nil
		}

		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			*val = f
			return nil
		}

		if b, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
			*val = b
			return nil
		}

		return errUnexpectedSyntax.New("value", raw)
	}
}

// readList reads a parenthesized, comma-separated list, calling item once
// per element.
func readList(item func() parseFunc) parseFunc {
	return func(r *bufio.Reader) error {
		if err := parseSteps(r, expectRune('('), skipSpaces); err != nil {
			return err
		}

		for {
			if err := parseSteps(r, item(), skipSpaces); err != nil {
				return err
			}

			ru, _, err := r.ReadRune()
			if err == io.EOF {
				return errUnexpectedSyntax.New(")", "EOF")
			}

			if err != nil {
				return err
			}

			switch ru {
			case ')':
				return nil
			case ',':
				if err := skipSpaces(r); err != nil {
					return err
				}
			default:
				return errUnexpectedSyntax.New("',' or ')'", string(ru))
			}
		}
	}
}

// readOptions reads a WITH clause parameter list: ('key'=value, ...).
func readOptions(opts *[]*ast.Option) parseFunc {
	return readList(func() parseFunc {
		return func(r *bufio.Reader) error {
			var key string
			var value interface{}
			err := parseSteps(r,
				readQuotedString(&key),
				skipSpaces,
				expectRune('='),
				skipSpaces,
				readValue(&value),
			)
			if err != nil {
				return err
			}

			*opts = append(*opts, &ast.Option{Key: key, Value: value})
			return nil
		}
	})
}
