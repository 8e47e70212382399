package output

import (
	"bytes"
	"testing"

	"todo/internal/service"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		num  int
		task service.Task
		want string
	}{
		{"open", 1, service.Task{Name: "buy milk"}, "   1  [ ] buy milk\n"},
		{"completed", 12, service.Task{Name: "walk dog", Completed: true}, "  12  [x] walk dog\n"},
		{"description", 3, service.Task{Name: "call", Description: "mum\nand dad"}, "   3  [ ] call\n          mum and dad\n"},
		{"untitled", 4, service.Task{Name: "  "}, "   4  [ ] (untitled)\n"},
		{"multiline name", 5, service.Task{Name: "a\r\nb"}, "   5  [ ] a  b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.num, tt.task)
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestFormatSummary(t *testing.T) {
	var buf bytes.Buffer
	FormatSummary(&buf, []service.Task{{Completed: true}, {}, {}})

	want := "Your Tasks (3, 1 completed)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
