package ai

import "testing"

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	type paper struct {
		Title string `json:"title"`
		Year  int    `json:"year,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  paper
	}{
		{
			name:  "valid json object",
			input: `{"title":"Attention Is All You Need"}`,
			want:  paper{Title: "Attention Is All You Need"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{title: 'Attention Is All You Need'}`,
			want:  paper{Title: "Attention Is All You Need"},
		},
		{
			name:  "trailing comma",
			input: `{"title":"Attention Is All You Need",}`,
			want:  paper{Title: "Attention Is All You Need"},
		},
		{
			name:  "missing end bracket",
			input: `{"title":"Attention Is All You Need`,
			want:  paper{Title: "Attention Is All You Need"},
		},
		{
			name:  "stringified json object",
			input: `"{\"title\": \"Attention Is All You Need\"}"`,
			want:  paper{Title: "Attention Is All You Need"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"title\": \"Attention Is All You Need\"\n}\n",
			want:  paper{Title: "Attention Is All You Need"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got paper
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("UnmarshalFlexible() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_Garbage(t *testing.T) {
	var out struct {
		Title string `json:"title"`
	}
	if err := UnmarshalFlexible("", &out); err == nil {
		t.Fatal("expected error for empty input")
	}
}
