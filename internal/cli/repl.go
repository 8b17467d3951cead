package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MRamiBalles/LifeSimulator/internal/domain/character"
	"github.com/MRamiBalles/LifeSimulator/internal/engine"
	"github.com/MRamiBalles/LifeSimulator/internal/gateway"
)

// REPL reads commands from in and writes results to out.
type REPL struct {
	driver gateway.Driver
	in     io.Reader
	out    io.Writer
}

func NewREPL(driver gateway.Driver, in io.Reader, out io.Writer) *REPL {
	return &REPL{driver: driver, in: in, out: out}
}

// Run processes lines until quit, EOF or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintf(r.out, "Life Simulator (%s mode). Type 'help' for commands.\n", r.driver.Mode())
	r.printLog()
	r.printStatus()

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if done := r.handle(ctx, scanner.Text()); done {
			return nil
		}
	}
}

// handle runs one line and reports whether the loop should stop.
func (r *REPL) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")

	switch strings.ToLower(cmd) {
	case "":
		return false
	case "quit", "exit":
		fmt.Fprintln(r.out, "Goodbye.")
		return true
	case "help":
		r.printHelp()
	case "status":
		r.printStatus()
	case "log":
		r.printLog()
	case "actions":
		for _, id := range engine.KnownActions() {
			fmt.Fprintf(r.out, "  %s\n", id)
		}
	case "rename":
		u, err := r.driver.Rename(ctx, arg)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(r.out, u.Message)
	default:
		id := Resolve(line)
		u, err := r.driver.Apply(ctx, id)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return false
		}
		fmt.Fprintln(r.out, u.Message)
		if !id.Known() {
			if s, ok := Suggest(line); ok {
				fmt.Fprintf(r.out, "Did you mean %q?\n", s)
			}
		}
		r.printStatus()
	}
	return false
}

func (r *REPL) printStatus() {
	fmt.Fprintln(r.out, StatusLine(r.driver.Snapshot()))
}

func (r *REPL) printLog() {
	for _, e := range r.driver.Events() {
		fmt.Fprintf(r.out, "  * %s\n", e)
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  <action>       apply an action id or alias (see 'actions')")
	fmt.Fprintln(r.out, "  rename <name>  rename the character (1-20 characters)")
	fmt.Fprintln(r.out, "  status         show the character")
	fmt.Fprintln(r.out, "  log            show recent events, newest first")
	fmt.Fprintln(r.out, "  quit           leave")
}

// StatusLine renders a one-line summary of s.
func StatusLine(s character.Snapshot) string {
	return fmt.Sprintf("[%s | age %d | Y%d D%d] health %d energy %d money $%d rep %d know %d | spouse %s, %d children",
		s.Name, s.Age, s.Year, s.Day,
		s.Resources.Health, s.Resources.Energy, s.Resources.Money, s.Resources.Reputation, s.Resources.Knowledge,
		s.Family.Spouse, s.Family.Children)
}
