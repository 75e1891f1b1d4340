package textutil

import (
	"reflect"
	"testing"
)

func TestOneSentence_CutsAtFirstTerminator(t *testing.T) {
	got := OneSentence("Первое предложение. Второе предложение.")
	if got != "Первое предложение." {
		t.Errorf("got %q, want first sentence only", got)
	}
}

func TestOneSentence_KeepsVersionNumbers(t *testing.T) {
	in := "Go 1.21 не удаляет сборщик мусора."
	if got := OneSentence(in); got != in {
		t.Errorf("got %q, want %q", got, in)
	}
}

func TestOneSentence_DecimalBeforeSentenceBreak(t *testing.T) {
	got := OneSentence("В версии 2.0 это удалят. Остальное позже.")
	if got != "В версии 2.0 это удалят." {
		t.Errorf("got %q, want first sentence with the decimal intact", got)
	}
}

func TestOneSentence_AppendsPeriod(t *testing.T) {
	got := OneSentence("  нет   знака  ")
	if got != "нет знака." {
		t.Errorf("got %q, want %q", got, "нет знака.")
	}
}

func TestOneSentence_Empty(t *testing.T) {
	if got := OneSentence("   "); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestOneQuestion_TakesFirstQuestionSpan(t *testing.T) {
	got := OneQuestion("Что такое slice? А ещё что такое map?")
	if got != "Что такое slice?" {
		t.Errorf("got %q, want first question only", got)
	}
}

func TestOneQuestion_AppendsMark(t *testing.T) {
	got := OneQuestion("расскажи про контекст")
	if got != "расскажи про контекст?" {
		t.Errorf("got %q, want trailing question mark", got)
	}
}

func TestExtractJSON_EmbeddedInProse(t *testing.T) {
	raw := "Вот ответ:\n```json\n{\"kind\": \"WEAK\", \"confidence\": 80}\n```"
	got := ExtractJSON(raw)
	if got == nil {
		t.Fatal("got nil, want parsed object")
	}
	if got["kind"] != "WEAK" {
		t.Errorf("kind = %v, want WEAK", got["kind"])
	}
}

func TestExtractJSON_Malformed(t *testing.T) {
	if got := ExtractJSON("{not json at all"); got != nil {
		t.Errorf("got %v, want nil for malformed input", got)
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	if got := ExtractJSON("просто текст без скобок"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestTokens_FiltersShortAndStopWords(t *testing.T) {
	got := Tokens("Это slice и map в Go, например append")
	want := []string{"slice", "map", "например", "append"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTokens_TrimsEdgePunctuation(t *testing.T) {
	got := Tokens("знаю docker-compose, (grpc)")
	want := []string{"знаю", "docker-compose", "grpc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestContainsWord_CyrillicBoundary(t *testing.T) {
	if !ContainsWord("какая сегодня погода?", "погода") {
		t.Error("expected match on standalone Cyrillic word")
	}
	if ContainsWord("погодите минуту", "погода") {
		t.Error("unexpected substring match inside a longer word")
	}
}

func TestContainsWord_LatinBoundary(t *testing.T) {
	if !ContainsWord("я знаю go и sql", "go") {
		t.Error("expected match on standalone latin word")
	}
	if ContainsWord("я люблю golang", "go") {
		t.Error("unexpected match inside golang")
	}
}

func TestShort_Truncates(t *testing.T) {
	got := Short("аааааааааа", 4)
	if got != "аааа…" {
		t.Errorf("got %q, want truncation with ellipsis", got)
	}
}

func TestShort_NoTruncationNeeded(t *testing.T) {
	if got := Short("  a  b  ", 10); got != "a b" {
		t.Errorf("got %q, want %q", got, "a b")
	}
}
