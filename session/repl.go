package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// REPL is a line-oriented front end over a Session, driving every
// operation named in spec §6's public API table.
type REPL struct {
	sess *Session
	in   *bufio.Scanner
	out  io.Writer
}

// NewREPL builds a REPL reading commands from in and writing to out.
func NewREPL(sess *Session, in io.Reader, out io.Writer) *REPL {
	return &REPL{sess: sess, in: bufio.NewScanner(in), out: out}
}

// ReadPassphrase reads a line from stdin without local echo when stdin
// is a terminal, falling back to a plain scanned line otherwise (so
// piped input still works in tests and scripts).
func ReadPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stdout, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stdout)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", scanner.Err()
	}
	return scanner.Text(), nil
}

// Run drives the prompt loop until "exit"/"quit" or EOF.
func (r *REPL) Run(ctx context.Context) error {
	r.printHelp()
	for {
		fmt.Fprintf(r.out, "safecloset[depth=%d]> ", r.sess.Depth())
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		cmd := fields[0]
		var arg string
		if len(fields) > 1 {
			arg = strings.TrimSpace(fields[1])
		}

		switch cmd {
		case "exit", "quit":
			if err := r.sess.CloseAndSave(); err != nil {
				fmt.Fprintf(r.out, "error saving on exit: %v\n", err)
				continue
			}
			return nil
		case "help":
			r.printHelp()
		case "create":
			r.cmdCreate()
		case "open":
			r.cmdOpen()
		case "close":
			if err := r.sess.CloseDeepestDrawer(); err != nil {
				fmt.Fprintf(r.out, "error: %v\n", err)
			}
		case "save":
			if err := r.sess.SaveAndKeepOpen(); err != nil {
				fmt.Fprintf(r.out, "error: %v\n", err)
			}
		case "entries":
			r.cmdEntries()
		case "set":
			r.cmdSet(arg)
		case "passwd":
			r.cmdPasswd()
		case "delete":
			r.cmdDelete()
		case "export":
			r.cmdExport()
		case "doctor":
			r.cmdDoctor(ctx)
		default:
			fmt.Fprintf(r.out, "unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, `commands: create, open, close, save, entries, set <name> <value>, passwd, delete, export, doctor, exit`)
}

func (r *REPL) cmdCreate() {
	pass, err := ReadPassphrase("new passphrase: ")
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	if _, err := r.sess.CreateDrawer(pass); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, "drawer created")
}

func (r *REPL) cmdOpen() {
	pass, err := ReadPassphrase("passphrase: ")
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	open, err := r.sess.OpenDrawer(pass)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	if open == nil {
		fmt.Fprintln(r.out, "no drawer for this passphrase")
		return
	}
	fmt.Fprintln(r.out, "drawer opened")
}

func (r *REPL) cmdEntries() {
	open := r.sess.oc.DeepestOpenDrawer()
	if open == nil {
		fmt.Fprintln(r.out, "no drawer open")
		return
	}
	for _, e := range open.Entries {
		if e.IsEmpty() {
			continue
		}
		if open.Settings.HideValues {
			fmt.Fprintf(r.out, "%s = ****\n", e.Name)
		} else {
			fmt.Fprintf(r.out, "%s = %s\n", e.Name, e.Value)
		}
	}
}

func (r *REPL) cmdSet(arg string) {
	open := r.sess.oc.DeepestOpenDrawer()
	if open == nil {
		fmt.Fprintln(r.out, "no drawer open")
		return
	}
	parts := strings.SplitN(arg, " ", 2)
	if len(parts) != 2 {
		fmt.Fprintln(r.out, "usage: set <name> <value>")
		return
	}
	name, value := parts[0], parts[1]
	for i := range open.Entries {
		if open.Entries[i].Name == name {
			open.Entries[i].Value = value
			fmt.Fprintln(r.out, "entry updated")
			return
		}
	}
	idx := open.EmptyEntry()
	open.Entries[idx].Name = name
	open.Entries[idx].Value = value
	fmt.Fprintln(r.out, "entry added")
}

func (r *REPL) cmdPasswd() {
	open := r.sess.oc.DeepestOpenDrawer()
	if open == nil {
		fmt.Fprintln(r.out, "no drawer open")
		return
	}
	pass, err := ReadPassphrase("new passphrase: ")
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	if err := r.sess.ChangePassword(open, pass); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, "password changed, will take effect on next save")
}

func (r *REPL) cmdDelete() {
	open := r.sess.oc.DeepestOpenDrawer()
	if open == nil {
		fmt.Fprintln(r.out, "no drawer open")
		return
	}
	if err := r.sess.DeleteDrawer(open); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, "drawer deleted")
}

func (r *REPL) cmdExport() {
	open := r.sess.oc.DeepestOpenDrawer()
	if open == nil {
		fmt.Fprintln(r.out, "no drawer open")
		return
	}
	if err := r.sess.ExportCSV(r.out, open); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
	}
}

func (r *REPL) cmdDoctor(ctx context.Context) {
	report := r.sess.Diagnose(ctx)
	fmt.Fprintf(r.out, "status: %s\n", report.Status)
	for name, result := range report.Checks {
		fmt.Fprintf(r.out, "  %s: %s %s\n", name, result.Status, result.Message)
	}
}
