package scanner

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nickandperla.net/dj/internal/diag"
	"nickandperla.net/dj/internal/token"
)

type tok struct {
	Token token.Token
	Value string
}

func scanAll(t *testing.T, src string) []tok {
	t.Helper()
	items, err := NewFromString(src).All()
	if err != nil {
		t.Fatalf("scan %q: unexpected error: %v", src, err)
	}
	var out []tok
	for _, it := range items {
		out = append(out, tok{it.Token, it.Value})
	}
	return out
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		src  string
		want []tok
	}{
		{"(+ 1 2)", []tok{
			{token.LPAREN, "("}, {token.SYMBOL, "+"}, {token.INTEGER, "1"},
			{token.INTEGER, "2"}, {token.RPAREN, ")"},
		}},
		{`(print "a\tb")`, []tok{
			{token.LPAREN, "("}, {token.SYMBOL, "print"}, {token.STRING, "a\tb"}, {token.RPAREN, ")"},
		}},
		{"-1.5 -x +3", []tok{
			{token.DECIMAL, "-1.5"}, {token.SYMBOL, "-x"}, {token.INTEGER, "+3"},
		}},
		{"a ; comment (\nb", []tok{
			{token.SYMBOL, "a"}, {token.SYMBOL, "b"},
		}},
		{"héllo(", []tok{
			{token.SYMBOL, "héllo"}, {token.LPAREN, "("},
		}},
		{"", nil},
	}
	for _, tt := range tests {
		got := scanAll(t, tt.src)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("scan %q (-want +got):\n%s", tt.src, diff)
		}
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind diag.Kind
		pos  diag.Pos
	}{
		{`(print "abc`, diag.UnclosedString, diag.Pos{Line: 1, Col: 8}},
		{`"abc\`, diag.UnclosedString, diag.Pos{Line: 1, Col: 1}},
		{`"a\qb"`, diag.InvalidEscape, diag.Pos{Line: 1, Col: 3}},
		{"x\n12ab", diag.InvalidNumber, diag.Pos{Line: 2, Col: 1}},
	}
	for _, tt := range tests {
		_, err := NewFromString(tt.src).All()
		var de *diag.Error
		if !errors.As(err, &de) {
			t.Errorf("scan %q: expected *diag.Error, got %v", tt.src, err)
			continue
		}
		if de.Kind != tt.kind {
			t.Errorf("scan %q: expected kind %v, got %v", tt.src, tt.kind, de.Kind)
		}
		if de.Pos != tt.pos {
			t.Errorf("scan %q: expected pos %v, got %v", tt.src, tt.pos, de.Pos)
		}
	}
}

func TestPeek(t *testing.T) {
	s := NewFromString("a b")
	p, err := s.Peek()
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	n, err := s.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if p != n {
		t.Errorf("expected Next to return the peeked item")
	}
	n, _ = s.Next()
	if n.Value != "b" {
		t.Errorf("expected 'b', got '%s'", n.Value)
	}
}
