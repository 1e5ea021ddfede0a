package services

import "testing"

func TestDecodeGenerated(t *testing.T) {
	type payload struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}

	tests := []struct {
		name     string
		response string
		wantOK   bool
		want     payload
	}{
		{
			name:     "bare json",
			response: `{"score": 72.5, "feedback": "solid"}`,
			wantOK:   true,
			want:     payload{Score: 72.5, Feedback: "solid"},
		},
		{
			name:     "markdown fenced json",
			response: "```json\n{\"score\": 40, \"feedback\": \"thin\"}\n```",
			wantOK:   true,
			want:     payload{Score: 40, Feedback: "thin"},
		},
		{
			name:     "json wrapped in prose",
			response: "Here is my evaluation: {\"score\": 88, \"feedback\": \"great\"} hope it helps",
			wantOK:   true,
			want:     payload{Score: 88, Feedback: "great"},
		},
		{
			name:     "plain prose",
			response: "The candidate answered well.",
			wantOK:   false,
		},
		{
			name:     "broken json",
			response: `{"score": 88, "feedback":`,
			wantOK:   false,
		},
		{
			name:     "empty response",
			response: "",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			ok := decodeGenerated(tt.response, &got)
			if ok != tt.wantOK {
				t.Fatalf("decodeGenerated ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("decoded %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	got := extractJSON("```json\n[1, 2, 3]\n```")
	if got != "[1, 2, 3]" {
		t.Fatalf("extractJSON = %q, want %q", got, "[1, 2, 3]")
	}
}
