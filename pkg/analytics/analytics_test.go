package analytics

import (
	"slices"
	"testing"
	"unicode"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", " \t\n ", nil},
		{"punctuation only", "!?,.;", nil},
		{"hello world", "Hello, World!", []string{"hello", "world"}},
		{"digits and underscore", "snake_case 42 x2", []string{"snake_case", "42", "x2"}},
		{"apostrophe splits", "don't", []string{"don", "t"}},
		{"unicode letters", "Über Café", []string{"über", "café"}},
		{"repeats kept", "the cat the", []string{"the", "cat", "the"}},
		{"hyphen splits", "map-reduce", []string{"map", "reduce"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Tokenize(tt.in))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize_OnlyLowercaseWordChars(t *testing.T) {
	input := "The QUICK brown-fox, jumped; over 3 LAZY_dogs!!\n\tÀ bientôt."
	for tok := range Tokenize(input) {
		if tok == "" {
			t.Fatal("Tokenize() yielded an empty token")
		}
		for _, r := range tok {
			if unicode.IsUpper(r) {
				t.Errorf("token %q contains uppercase rune %q", tok, r)
			}
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				t.Errorf("token %q contains non-word rune %q", tok, r)
			}
		}
	}
}

func TestTokenize_StopsEarly(t *testing.T) {
	var got []string
	for tok := range Tokenize("a b c d") {
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("early break collected %q, want [a b]", got)
	}
}

func TestWordFrequency(t *testing.T) {
	got := WordFrequency([]string{"the", "cat", "the", "mat"})
	if len(got) != 3 {
		t.Fatalf("WordFrequency() has %d keys, want 3", len(got))
	}
	if got["the"] != 2 || got["cat"] != 1 || got["mat"] != 1 {
		t.Errorf("WordFrequency() = %v", got)
	}

	if empty := WordFrequency(nil); len(empty) != 0 {
		t.Errorf("WordFrequency(nil) = %v, want empty", empty)
	}
}
