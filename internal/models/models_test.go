package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				UserID:    1,
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			result := session.IsExpired()
			if result != tt.want {
				t.Errorf("Session.IsExpired() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleInstructor, true},
		{RoleStudent, true},
		{Role("superuser"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.want {
			t.Errorf("Role(%q).Valid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestRoleCanAuthor(t *testing.T) {
	if !RoleAdmin.CanAuthor() || !RoleInstructor.CanAuthor() {
		t.Error("admin and instructor should be able to author")
	}
	if RoleStudent.CanAuthor() {
		t.Error("student should not be able to author")
	}
}

func TestLessonWithContentTotals(t *testing.T) {
	lesson := LessonWithContent{
		Phrases: []LessonContent{
			{Text: "Hello, how are you?", WordCount: 4},
			{Text: "Nice to meet you.", WordCount: 4},
		},
		Sentences: []LessonContent{
			{Text: "I am learning English.", WordCount: 4},
		},
	}

	if got := lesson.TotalItems(); got != 3 {
		t.Errorf("TotalItems() = %d, want 3", got)
	}
	if got := lesson.TotalPoints(); got != 12 {
		t.Errorf("TotalPoints() = %d, want 12", got)
	}
}

func TestUserProgressIndexSets(t *testing.T) {
	progress := UserProgress{
		CompletedPhrases:   []int{0, 2},
		CompletedSentences: []int{1},
	}

	tests := []struct {
		name  string
		check func() bool
		want  bool
	}{
		{"completed phrase", func() bool { return progress.HasPhrase(0) }, true},
		{"uncompleted phrase", func() bool { return progress.HasPhrase(1) }, false},
		{"completed sentence", func() bool { return progress.HasSentence(1) }, true},
		{"uncompleted sentence", func() bool { return progress.HasSentence(0) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCourseProgressFinished(t *testing.T) {
	tests := []struct {
		name    string
		summary CourseProgressSummary
		want    bool
	}{
		{
			name: "all lessons finished",
			summary: CourseProgressSummary{
				Lessons: []LessonProgressSummary{
					{CompletedCount: 5, TotalCount: 5},
					{CompletedCount: 3, TotalCount: 3},
				},
			},
			want: true,
		},
		{
			name: "one lesson unfinished",
			summary: CourseProgressSummary{
				Lessons: []LessonProgressSummary{
					{CompletedCount: 5, TotalCount: 5},
					{CompletedCount: 2, TotalCount: 3},
				},
			},
			want: false,
		},
		{
			name:    "no lessons",
			summary: CourseProgressSummary{},
			want:    false,
		},
		{
			name: "empty lesson does not count as finished",
			summary: CourseProgressSummary{
				Lessons: []LessonProgressSummary{
					{CompletedCount: 0, TotalCount: 0},
				},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.Finished(); got != tt.want {
				t.Errorf("Finished() = %v, want %v", got, tt.want)
			}
		})
	}
}
