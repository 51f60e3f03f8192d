package token

import "testing"

func TestTokenizeBasic(t *testing.T) {
	src := `@Behaviour Elastic; // comment
young.setGlossaryName("YoungModulus");`
	toks, err := NewLexer("test.mfront", src).Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) == 0 {
		t.Fatal("expected tokens")
	}
	if toks[0].Kind != Punctuation || toks[0].Lexeme != "@" {
		t.Fatalf("expected leading @, got %+v", toks[0])
	}
	var sawString bool
	for _, tok := range toks {
		if tok.Kind == StringLiteral && tok.Lexeme == "YoungModulus" {
			sawString = true
		}
	}
	if !sawString {
		t.Fatal("expected to find string literal YoungModulus")
	}
}

func TestTokenizeLineNumbers(t *testing.T) {
	src := "a\nb\nc"
	toks, err := NewLexer("t", src).Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}
	for i, tok := range toks {
		if tok.Line != i+1 {
			t.Fatalf("token %d: expected line %d, got %d", i, i+1, tok.Line)
		}
	}
}

func TestUnterminatedStringErrors(t *testing.T) {
	_, err := NewLexer("t", `"abc`).Tokenize()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestMangleUnmangleRoundTrip(t *testing.T) {
	name := "σ_eq"
	mangled := Mangle(name)
	if mangled == name {
		t.Fatal("expected unicode identifier to be mangled")
	}
	if got := Unmangle(mangled); got != name {
		t.Fatalf("got %q, want %q", got, name)
	}
	// ASCII identifiers pass through unchanged
	if Mangle("young") != "young" {
		t.Fatal("ascii identifiers must pass through unmangled")
	}
}

func TestNumberLiterals(t *testing.T) {
	src := "1 2.5 1e-10 3.14e+2"
	toks, err := NewLexer("t", src).Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"1", "2.5", "1e-10", "3.14e+2"}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Kind != Number || toks[i].Lexeme != w {
			t.Fatalf("token %d: got %+v, want Number %q", i, toks[i], w)
		}
	}
}

func TestMultiCharPunctuation(t *testing.T) {
	toks, err := NewLexer("t", "a <= b").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if toks[1].Lexeme != "<=" {
		t.Fatalf("expected <=, got %q", toks[1].Lexeme)
	}
}
