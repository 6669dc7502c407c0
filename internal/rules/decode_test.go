package rules

import "testing"

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{
			name: "plain utf-8",
			raw:  []byte("100.1 Rules\n100.2 More"),
			want: "100.1 Rules\n100.2 More",
		},
		{
			name: "utf-8 bom and crlf",
			raw:  append([]byte{0xEF, 0xBB, 0xBF}, []byte("100.1 Rules\r\n100.2 More\r\n")...),
			want: "100.1 Rules\n100.2 More\n",
		},
		{
			name: "utf-16le bom",
			raw:  []byte{0xFF, 0xFE, 'A', 0x00, '\r', 0x00, '\n', 0x00, 'B', 0x00},
			want: "A\nB",
		},
		{
			name: "utf-16be bom",
			raw:  []byte{0xFE, 0xFF, 0x00, 'A', 0x00, '\n', 0x00, 'B'},
			want: "A\nB",
		},
		{
			name: "windows-1252",
			raw:  []byte("It\x92s \x93quoted\x94"),
			want: "It’s “quoted”",
		},
		{
			name: "bare carriage returns",
			raw:  []byte("a\rb"),
			want: "a\nb",
		},
		{
			name: "empty",
			raw:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.raw); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDecode_ParseRoundTrip(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Intro\r\n603.1. Triggered abilities\r\ncontinue here\r\n")...)

	sections := Parse(Decode(raw))
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Body != "Triggered abilities continue here" {
		t.Errorf("unexpected body: %q", sections[0].Body)
	}
}
