package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phazelsound/client/internal/model"
	"github.com/phazelsound/client/internal/service"
	"github.com/phazelsound/client/internal/validation"
)

const shellHelp = `commands:
  login <identifier> <password>   sign in
  status                          show session state
  whoami                          show the signed-in user
  logout                          sign out
  route                           show the current top-level route
  help                            show this help
  exit                            quit`

// 한 프로세스 안에서 세션을 유지하는 대화형 모드
func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session (kept in memory until exit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			gate := service.NewGate(a.store, func(route string) {
				fmt.Fprintf(out, "-> %s\n", route)
			})
			defer gate.Stop()

			return a.runShell(cmd, cmd.InOrStdin(), out, gate)
		},
	}
}

func (a *app) runShell(cmd *cobra.Command, in io.Reader, out io.Writer, gate *service.Gate) error {
	ctx := a.context(cmd)
	lines, scanErr := readLines(ctx, in)

	for {
		// 인터럽트 이후에는 다음 명령을 받지 않고 종료
		if ctx.Err() != nil {
			fmt.Fprintln(out)
			return nil
		}
		fmt.Fprint(out, "phazel> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-scanErr
			}
			line = l
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "login":
			if len(fields) != 3 {
				fmt.Fprintln(out, "usage: login <identifier> <password>")
				continue
			}
			sess, err := a.svc.Login(ctx, validation.LoginForm{Identifier: fields[1], Password: fields[2]})
			if err != nil {
				_ = report(out, err)
				continue
			}
			if sess.User != nil {
				fmt.Fprintf(out, "Signed in as %s\n", describeUser(*sess.User))
			}
		case "status":
			fmt.Fprintln(out, a.store.State())
		case "whoami":
			snap := a.store.Snapshot()
			switch {
			case !snap.IsAuthenticated:
				fmt.Fprintln(out, "not signed in")
			case snap.User == nil:
				fmt.Fprintln(out, "signed in (no profile)")
			default:
				fmt.Fprintln(out, describeUser(*snap.User))
			}
		case "logout":
			a.svc.Logout()
		case "route":
			fmt.Fprintln(out, gate.Current())
		case "help":
			fmt.Fprintln(out, shellHelp)
		case "exit", "quit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q, try help\n", fields[0])
		}
	}
}

// readLines feeds in line by line until EOF or ctx is done, so a blocked
// read does not hold the shell open after an interrupt.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func describeUser(u model.User) string {
	name := u.FullName
	if name == "" {
		name = u.Email
	}
	if u.Email != "" && u.Email != name {
		return fmt.Sprintf("%s <%s> (%s)", name, u.Email, u.Role)
	}
	return fmt.Sprintf("%s (%s)", name, u.Role)
}
