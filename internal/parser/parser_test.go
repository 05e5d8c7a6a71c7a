package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nickandperla.net/dj/internal/diag"
	"nickandperla.net/dj/internal/expr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		src  string
		want []expr.Expr
	}{
		{"(+ 1 2)", []expr.Expr{expr.List{expr.Symbol("+"), expr.Integer(1), expr.Integer(2)}}},
		{"(+ 1\n2)", []expr.Expr{expr.List{expr.Symbol("+"), expr.Integer(1), expr.Integer(2)}}},
		{`(print "hi") nil true`, []expr.Expr{
			expr.List{expr.Symbol("print"), expr.String("hi")},
			expr.Nil{},
			expr.Bool(true),
		}},
		{"(a (b 1.5) ())", []expr.Expr{
			expr.List{expr.Symbol("a"), expr.List{expr.Symbol("b"), expr.Decimal(1.5)}, expr.List{}},
		}},
		{"  ; only a comment", nil},
		{"", nil},
	}
	for _, tt := range tests {
		prog, err := Parse(tt.src)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.src, err)
			continue
		}
		if prog.Source != tt.src {
			t.Errorf("Parse(%q): source not kept, got %q", tt.src, prog.Source)
		}
		if diff := cmp.Diff(tt.want, prog.Exprs); diff != "" {
			t.Errorf("Parse(%q) (-want +got):\n%s", tt.src, diff)
		}
	}
}

func TestParseErrorClassification(t *testing.T) {
	tests := []struct {
		src        string
		kind       diag.Kind
		incomplete bool
	}{
		{"(+ 1", diag.UnclosedGroup, true},
		{"((a) (b", diag.UnclosedGroup, true},
		{`(print "abc`, diag.UnclosedString, true},
		{"(print \"abc\ndef", diag.UnclosedString, true},
		{")", diag.UnexpectedCloser, false},
		{"(a))", diag.UnexpectedCloser, false},
		{") (", diag.UnexpectedCloser, false},
		{`(print "a\q`, diag.InvalidEscape, false},
		{"(+ 1x", diag.InvalidNumber, false},
	}
	for _, tt := range tests {
		_, err := Parse(tt.src)
		var de *diag.Error
		if !errors.As(err, &de) {
			t.Errorf("Parse(%q): expected *diag.Error, got %v", tt.src, err)
			continue
		}
		if de.Kind != tt.kind {
			t.Errorf("Parse(%q): expected %v, got %v", tt.src, tt.kind, de.Kind)
		}
		if diag.IsIncomplete(err) != tt.incomplete {
			t.Errorf("Parse(%q): expected incomplete=%v", tt.src, tt.incomplete)
		}
	}
}

func TestUnclosedGroupPointsAtOpener(t *testing.T) {
	_, err := Parse("(a\n  (b c)\n  (d")
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *diag.Error, got %v", err)
	}
	if want := (diag.Pos{Line: 3, Col: 3}); de.Pos != want {
		t.Errorf("expected pos %v, got %v", want, de.Pos)
	}
}
