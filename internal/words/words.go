// Package words splits text into word tokens interned in a maa.StringPool.
package words

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/homier/maa"
)

var ErrUnknownEncoding = errors.New("words: unknown encoding")

var encodings = map[string]encoding.Encoding{
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin9":       charmap.ISO8859_15,
	"iso-8859-15":  charmap.ISO8859_15,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"cp1251":       charmap.Windows1251,
	"windows-1251": charmap.Windows1251,
	"koi8-r":       charmap.KOI8R,
	"cp437":        charmap.CodePage437,
}

// NewReader decodes r from the named single-byte encoding into UTF-8.
// An empty name, "utf-8" and "utf8" return r unchanged.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	name = strings.ToLower(name)
	switch name {
	case "", "utf-8", "utf8":
		return r, nil
	}

	enc, ok := encodings[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEncoding, "%q", name)
	}

	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Scan reads r and calls fn with the interned copy of every word: a maximal
// run of letters, digits and underscores. With fold set, words are case
// folded before interning. Scanning stops at the first error from fn.
func Scan(r io.Reader, pool *maa.StringPool, fold bool, fn func(word string) error) error {
	br := bufio.NewReader(r)
	caser := cases.Fold()

	var (
		rb      [utf8.UTFMax]byte
		pending bool
	)

	flush := func() error {
		if !pending {
			return nil
		}
		pending = false

		return fn(pool.Finish())
	}

	for {
		c, _, err := br.ReadRune()
		if err == io.EOF {
			return flush()
		}
		if err != nil {
			return errors.Wrap(err, "words: read")
		}

		if !isWord(c) {
			if err := flush(); err != nil {
				return err
			}

			continue
		}

		b := utf8.AppendRune(rb[:0], c)
		if fold {
			b = caser.Bytes(b)
		}

		pool.GrowBytes(b)
		pending = true
	}
}

// Count interns every word of r and returns how many words were read.
func Count(r io.Reader, pool *maa.StringPool, fold bool) (int, error) {
	n := 0
	err := Scan(r, pool, fold, func(string) error {
		n++

		return nil
	})

	return n, err
}

func isWord(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}
