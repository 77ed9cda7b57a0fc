package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func run(t *testing.T, script string) string {
	t.Helper()
	var out bytes.Buffer
	u := New(strings.NewReader(script), &out, Options{Logger: zerolog.Nop()})
	if err := u.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestSession(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "handshake",
			script: "uci\nisready\n",
			want:   []string{"uciok", "readyok"},
		},
		{
			name:   "uci moves",
			script: "position startpos moves e2e4 e7e5\nd\nperft 1\n",
			want: []string{
				"Fen: rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 1",
				"Termination: NotTerminal",
				"Nodes searched: 29",
			},
		},
		{
			name:   "san moves",
			script: "position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1 san O-O\nd\n",
			want:   []string{"Fen: 4k3/8/8/8/8/8/8/5RK1 b - - 1 1"},
		},
		{
			name:   "divide",
			script: "go perft 2\n",
			want:   []string{"e2e4: 20", "g1f3: 20", "Nodes searched: 400"},
		},
		{
			name:   "list moves",
			script: "position fen 4k3/8/8/8/8/8/8/R3K3 w Q - 0 1\nmoves\n",
			want:   []string{"e1c1 (O-O-O)", "a1a8 (Ra8+)"},
		},
		{
			name:   "bad move",
			script: "position startpos moves e2e5\n",
			want:   []string{"info string invalid move e2e5"},
		},
		{
			name:   "bad fen",
			script: "position fen 8/8/8/8/8/8/8/8 w - - 0 1\n",
			want:   []string{"info string invalid FEN"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := run(t, tc.script)
			for _, w := range tc.want {
				if !strings.Contains(out, w) {
					t.Errorf("output lacks %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestQuitStopsReading(t *testing.T) {
	out := run(t, "quit\nisready\n")
	if strings.Contains(out, "readyok") {
		t.Errorf("command after quit was handled:\n%s", out)
	}
}

func TestDivideOrder(t *testing.T) {
	out := run(t, "go perft 2\n")
	lines := strings.Split(strings.TrimSpace(out), "\n")

	var splits []string
	nodesAt := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "Nodes searched") {
			nodesAt = i
		}
		if before, ok := strings.CutSuffix(line, ": 20"); ok {
			if nodesAt >= 0 {
				t.Errorf("split %q printed after the node total", line)
			}
			splits = append(splits, before)
		}
	}
	if nodesAt < 0 {
		t.Fatalf("no node total in output:\n%s", out)
	}
	if len(splits) != 20 {
		t.Fatalf("got %d splits, want 20:\n%s", len(splits), out)
	}
	want := []string{"b1a3", "b1c3", "g1f3", "g1h3", "a2a3", "a2a4"}
	for i, w := range want {
		if splits[i] != w {
			t.Errorf("split %d = %s, want %s", i, splits[i], w)
		}
	}
	if last := splits[len(splits)-1]; last != "h2h4" {
		t.Errorf("last split = %s, want h2h4", last)
	}
}
