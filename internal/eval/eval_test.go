package eval

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nickandperla.net/dj/internal/diag"
	"nickandperla.net/dj/internal/expr"
)

func newTestEvaluator(output *strings.Builder) *Evaluator {
	return New(WithOutputWriter(func(text string) error {
		output.WriteString(text)
		return nil
	}))
}

func TestBasicPrint(t *testing.T) {
	var output strings.Builder
	e := newTestEvaluator(&output)

	result, err := e.Eval(`(print "Hello") (println " World")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := result.(expr.Nil); !ok {
		t.Errorf("expected nil result, got '%s'", result)
	}
	if output.String() != "Hello World\n" {
		t.Errorf("expected output 'Hello World\\n', got '%s'", output.String())
	}
}

func TestEvalResults(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(+ 1 2)", "3"},
		{"(+ 1\n2)", "3"},
		{"(+ 1 2.5)", "3.5"},
		{"(- 5)", "-5"},
		{"(- 10 3 2)", "5"},
		{"(* 2 3 4)", "24"},
		{"(/ 7 2)", "3"},
		{"(/ 7.0 2)", "3.5"},
		{"(% 7 3)", "1"},
		{"(% 7.5 2)", "1.5"},
		{"(^ 2 10)", "1024.0"},
		{"(= 1 1.0)", "true"},
		{`(= "a" "b")`, "false"},
		{"(!= 1 2)", "true"},
		{"(< 1 2 3)", "true"},
		{"(>= 3 3 4)", "false"},
		{`(< "abc" "abd")`, "true"},
		{"(not nil)", "true"},
		{"(list 1 \"two\" (list 3))", `(1 "two" (3))`},
		{`(len "héllo")`, "5"},
		{"(len (list 1 2))", "2"},
		{`(str "a" 1 nil)`, `"a1nil"`},
		{"(type 1.5)", `"decimal"`},
		{"(type (fn (x) x))", `"fn"`},
		{"(quote (a b))", "(a b)"},
		{"(if false 1 2)", "2"},
		{"(if nil 1)", "nil"},
		{"(and 1 2)", "2"},
		{"(or nil false 3)", "3"},
		{"(do 1 2 3)", "3"},
		{"(let ((x 2) (y (* x 3))) (+ x y))", "8"},
		{"()", "nil"},
		{"", "nil"},
	}
	for _, tt := range tests {
		e := New()
		got, err := e.Eval(tt.src)
		if err != nil {
			t.Errorf("Eval(%q): unexpected error: %v", tt.src, err)
			continue
		}
		if expr.Quote(got) != tt.want {
			t.Errorf("Eval(%q): expected %s, got %s", tt.src, tt.want, expr.Quote(got))
		}
	}
}

func TestDefineAndCall(t *testing.T) {
	e := New()
	_, err := e.Eval(`
		(define (fact n)
		  (if (<= n 1) 1 (* n (fact (- n 1)))))
		(define counter 0)
		(while (< counter 5) (set counter (+ counter 1)))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := e.Eval("(fact 10)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expr.Integer(3628800) {
		t.Errorf("expected 3628800, got %s", result)
	}

	result, err = e.Eval("counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expr.Integer(5) {
		t.Errorf("expected 5, got %s", result)
	}
}

func TestClosuresAndRest(t *testing.T) {
	e := New()
	_, err := e.Eval(`
		(define (adder n) (fn (x) (+ x n)))
		(define add2 (adder 2))
		(define (count & xs) (len xs))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := e.Eval("(add2 40)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expr.Integer(42) {
		t.Errorf("expected 42, got %s", result)
	}
	result, err = e.Eval("(count 1 2 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expr.Integer(3) {
		t.Errorf("expected 3, got %s", result)
	}
	if got := expr.Quote(mustGet(t, e, "add2")); got != "<fn add2 (x)>" {
		t.Errorf("unexpected lambda display: %s", got)
	}
}

func mustGet(t *testing.T, e *Evaluator, name string) expr.Expr {
	t.Helper()
	v, ok := e.Namespace().Get(name)
	if !ok {
		t.Fatalf("%s is not defined", name)
	}
	return v
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"nope", ErrUndefined},
		{"(set nope 1)", ErrUndefined},
		{`(+ 1 "a")`, ErrType},
		{"(/ 1 0)", ErrDivideByZero},
		{"(% 1 0)", ErrDivideByZero},
		{"(1 2)", ErrNotCallable},
		{"((fn (a b) a) 1)", ErrArity},
		{"(if)", ErrArity},
		{"(define 1 2)", ErrBadForm},
		{"(let (x) x)", ErrBadForm},
		{"(define (loop) (loop)) (loop)", ErrRecursion},
	}
	for _, tt := range tests {
		e := New(WithMaxDepth(100))
		_, err := e.Eval(tt.src)
		if !errors.Is(err, tt.want) {
			t.Errorf("Eval(%q): expected %v, got %v", tt.src, tt.want, err)
		}
	}
}

func TestSyntaxErrorsPassThrough(t *testing.T) {
	e := New()
	_, err := e.Eval("(+ 1")
	if !diag.IsIncomplete(err) {
		t.Errorf("expected incomplete syntax error, got %v", err)
	}
}

func TestExit(t *testing.T) {
	e := New()
	_, err := e.Eval("(exit 101)")
	ee, ok := AsExit(err)
	if !ok {
		t.Fatalf("expected exit error, got %v", err)
	}
	if ee.Code != 101 {
		t.Errorf("expected code 101, got %d", ee.Code)
	}

	_, err = e.Eval("(exit)")
	if ee, ok := AsExit(err); !ok || ee.Code != 0 {
		t.Errorf("expected exit 0, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.dj")
	if err := os.WriteFile(path, []byte("(define (sq x) (* x x))\n(define base 3)"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	e := New()
	_, err := e.Eval(`(load "` + filepath.ToSlash(path) + `")`)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	result, err := e.Eval("(sq base)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expr.Integer(9) {
		t.Errorf("expected 9, got %s", result)
	}

	_, err = e.Eval(`(load "` + filepath.ToSlash(filepath.Join(dir, "missing.dj")) + `")`)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadUsesFileReader(t *testing.T) {
	e := New(WithFileReader(func(path string) ([]byte, error) {
		if path != "virtual.dj" {
			t.Errorf("unexpected path %q", path)
		}
		return []byte("(+ 40 2)"), nil
	}))
	result, err := e.Eval(`(load "virtual.dj")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expr.Integer(42) {
		t.Errorf("expected 42, got %s", result)
	}
}
