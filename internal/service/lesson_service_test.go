package service

import (
	"testing"

	"speechcoach/internal/models"
)

func TestBuildContentWordCounts(t *testing.T) {
	input := LessonInput{
		Title:     "Ordering Food",
		Phrases:   []string{"Hello, how are you?", "Nice to meet you."},
		Sentences: []string{"I would like to order a coffee, please."},
	}

	content, err := buildContent(input)
	if err != nil {
		t.Fatalf("buildContent() error = %v", err)
	}

	if len(content) != 3 {
		t.Fatalf("got %d content items, want 3", len(content))
	}

	tests := []struct {
		index     int
		kind      models.ContentKind
		wantCount int
		wantPos   int
	}{
		{0, models.ContentPhrase, 4, 0},
		{1, models.ContentPhrase, 4, 1},
		{2, models.ContentSentence, 8, 0},
	}

	for _, tt := range tests {
		item := content[tt.index]
		if item.Kind != tt.kind {
			t.Errorf("item %d kind = %s, want %s", tt.index, item.Kind, tt.kind)
		}
		if item.WordCount != tt.wantCount {
			t.Errorf("item %d word count = %d, want %d", tt.index, item.WordCount, tt.wantCount)
		}
		if item.Position != tt.wantPos {
			t.Errorf("item %d position = %d, want %d", tt.index, item.Position, tt.wantPos)
		}
	}
}

func TestBuildContentValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   LessonInput
		wantErr bool
	}{
		{
			name:    "valid",
			input:   LessonInput{Title: "Greetings", Phrases: []string{"Good morning!"}},
			wantErr: false,
		},
		{
			name:    "missing title",
			input:   LessonInput{Phrases: []string{"Good morning!"}},
			wantErr: true,
		},
		{
			name:    "empty phrase text",
			input:   LessonInput{Title: "Greetings", Phrases: []string{""}},
			wantErr: true,
		},
		{
			name:    "empty sentence text",
			input:   LessonInput{Title: "Greetings", Sentences: []string{"  "}},
			wantErr: true,
		},
		{
			name:    "no content at all is allowed at authoring time",
			input:   LessonInput{Title: "Draft"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildContent(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("buildContent() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
