package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a recording stub.
type execIface interface {
	isLoggedIn() bool
	report(err error)

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	ExpertLogin(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Routes(ctx context.Context, args []string) error
	Go(ctx context.Context, args []string) error
	Datasets(ctx context.Context, args []string) error
	Dataset(ctx context.Context, args []string) error
	Pool(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Join(ctx context.Context, args []string) error
	Invite(ctx context.Context, args []string) error
	Tasks(ctx context.Context, args []string) error
	Task(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
}

const (
	guestHelp = "Available commands: register, login, expert-login, join, routes, go, exit"
	userHelp  = "Available commands: whoami, routes, go <path>, datasets [mine], dataset <id>, " +
		"pool fetch|list|select|delete|delete-selected|undo|trash|restore|purge|clear, " +
		"import <kind> <file> [datasetId], invite [issue|revoke], join <code>, " +
		"tasks, task start|watch|cancel, download dataset|results <id>, logout [expert], exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
// The first token of a line selects the command; the rest are its arguments.
// A failing command is reported through a.report and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("qc %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "register":
			cmdErr = a.Register(ctx, args)
		case "login":
			cmdErr = a.Login(ctx, args)
		case "expert-login":
			cmdErr = a.ExpertLogin(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "whoami":
			cmdErr = a.Whoami(ctx, args)
		case "routes":
			cmdErr = a.Routes(ctx, args)
		case "go":
			cmdErr = a.Go(ctx, args)
		case "datasets":
			cmdErr = a.Datasets(ctx, args)
		case "dataset":
			cmdErr = a.Dataset(ctx, args)
		case "pool":
			cmdErr = a.Pool(ctx, args)
		case "import":
			cmdErr = a.Import(ctx, args)
		case "join":
			cmdErr = a.Join(ctx, args)
		case "invite":
			cmdErr = a.Invite(ctx, args)
		case "tasks":
			cmdErr = a.Tasks(ctx, args)
		case "task":
			cmdErr = a.Task(ctx, args)
		case "download":
			cmdErr = a.Download(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			a.report(cmdErr)
		}
		if err != nil {
			return
		}
	}
}
