// Package uci implements a line protocol over a board state, modeled on
// the Universal Chess Interface. It sets up positions and runs perft; it
// does not search.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hailam/chessstate/internal/board"
	"github.com/hailam/chessstate/internal/notation"
	"github.com/hailam/chessstate/internal/perft"
)

// Options configures a UCI handler.
type Options struct {
	Logger zerolog.Logger
	Cache  perft.Cache
}

// UCI reads commands and writes replies.
type UCI struct {
	in   io.Reader
	out  io.Writer
	opts Options

	mu    sync.Mutex // guards out and state
	state *board.State

	// Perft state
	cancel     context.CancelFunc
	searchDone chan struct{}
}

// New creates a handler reading from in and writing to out.
func New(in io.Reader, out io.Writer, opts Options) *UCI {
	return &UCI{
		in:    in,
		out:   out,
		opts:  opts,
		state: board.NewGame(),
	}
}

// State returns the current position.
func (u *UCI) State() *board.State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

func (u *UCI) println(a ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.out, a...)
}

func (u *UCI) printf(format string, a ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, a...)
}

// Run processes commands until "quit" or the end of input. At the end of
// input a running perft is allowed to finish; "quit" cancels it.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			if len(args) > 0 && args[0] == "perft" {
				u.handleGo(args[1:], true)
			}
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		// Debug commands
		case "d":
			u.handleDisplay()
		case "moves":
			u.handleMoves()
		case "perft":
			u.handleGo(args, false)
			u.wait()
		default:
			u.printf("info string unknown command %s\n", cmd)
		}
	}
	u.wait()
	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name chessstate")
	u.println("id author chessstate authors")
	u.println("uciok")
}

// handleNewGame resets to the start position.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.mu.Lock()
	u.state = board.NewGame()
	u.mu.Unlock()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//   - position ... san e4 e5 Nf3
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.handleStop()

	// Find where the position ends (at "moves", "san" or end of args)
	end, moveStart := len(args), len(args)
	useSAN := false
	for i, arg := range args {
		if arg == "moves" || arg == "san" {
			end, moveStart, useSAN = i, i+1, arg == "san"
			break
		}
	}

	var st *board.State
	switch args[0] {
	case "startpos":
		st = board.NewGame()
	case "fen":
		var err error
		st, err = board.ParseFEN(strings.Join(args[1:end], " "))
		if err != nil {
			u.printf("info string invalid FEN: %v\n", err)
			return
		}
	default:
		return
	}

	// Apply moves
	plies := 0
	for _, text := range args[moveStart:] {
		var m board.Move
		var err error
		if useSAN {
			m, err = notation.Resolve(st, text)
		} else {
			m, err = board.ParseMove(text, st)
		}
		if err == nil {
			st, err = st.Apply(m)
		}
		if err != nil {
			u.printf("info string invalid move %s: %v\n", text, err)
			return
		}
		plies++
	}

	u.mu.Lock()
	u.state = st
	u.mu.Unlock()
	u.opts.Logger.Debug().Str("fen", st.ToFEN()).Int("plies", plies).Msg("position set")
}

// handleDisplay prints the board, its FEN and its status.
func (u *UCI) handleDisplay() {
	st := u.State()
	term, err := st.Termination()
	status := term.String()
	if err != nil {
		status = err.Error()
	}
	u.printf("%s\nFen: %s\nKey: %016X\nCheckers: %v\nTermination: %s\n",
		st, st.ToFEN(), st.Hash(), st.InCheck(), status)
}

// handleMoves lists the legal moves in UCI and SAN form.
func (u *UCI) handleMoves() {
	st := u.State()
	var sb strings.Builder
	for _, m := range st.LegalMoves().Slice() {
		fmt.Fprintf(&sb, "%s (%s) ", m, notation.Format(st, m))
	}
	u.println(strings.TrimSpace(sb.String()))
}

// handleGo runs perft to the requested depth in the background. With divide
// set, the root move counts are printed in move generation order once the
// whole count has finished.
func (u *UCI) handleGo(args []string, divide bool) {
	u.handleStop()

	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 {
			u.printf("info string invalid depth %s\n", args[0])
			return
		}
		depth = d
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	u.mu.Lock()
	u.cancel, u.searchDone = cancel, done
	st := u.state
	u.mu.Unlock()

	opts := perft.DefaultOptions()
	opts.Logger = u.opts.Logger
	opts.Cache = u.opts.Cache

	go func() {
		defer close(done)
		res, err := perft.Divide(ctx, st, depth, opts)
		if err != nil {
			u.printf("info string perft stopped: %v\n", err)
			return
		}
		if divide {
			for _, sp := range res.Splits {
				u.printf("%s: %d\n", sp.Move, sp.Nodes)
			}
			u.println()
		}
		u.printf("Nodes searched: %d\n", res.Nodes)
		u.printf("Time: %v\n", res.Elapsed)
		u.printf("NPS: %.0f\n", res.NPS())
	}()
}

// wait blocks until a running perft finishes.
func (u *UCI) wait() {
	u.mu.Lock()
	done := u.searchDone
	u.mu.Unlock()
	if done != nil {
		<-done
	}
}

// handleStop cancels a running perft and waits for it to finish.
func (u *UCI) handleStop() {
	u.mu.Lock()
	cancel := u.cancel
	u.cancel = nil
	u.mu.Unlock()
	if cancel != nil {
		cancel()
		u.wait()
	}
}
