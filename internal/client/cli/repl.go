package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin(ctx context.Context) bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Retry(ctx context.Context) error

	Feed(ctx context.Context) error
	Post(ctx context.Context) error
	Like(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error

	Stories(ctx context.Context) error
	Story(ctx context.Context) error

	Conversations(ctx context.Context) error
	Chat(ctx context.Context, args []string) error
	Send(ctx context.Context, args []string) error

	Notifications(ctx context.Context) error
	MarkRead(ctx context.Context, args []string) error

	Search(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Announcements(ctx context.Context) error

	Announce(ctx context.Context) error
	Admin(ctx context.Context, args []string) error
}

// runREPL starts the read–eval–print loop. It reads a line from the
// scanner, parses the first token as the command, and dispatches to methods
// on 'a'. Unknown commands are reported back. The loop exits on scanner EOF
// or when the user types "exit" or "quit".
//
// Command handlers print their own errors; the REPL stays focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sw> %s ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printHelp(ctx, a)

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "retry":
			_ = a.Retry(ctx)

		case "f", "feed":
			_ = a.Feed(ctx)

		case "post":
			_ = a.Post(ctx)

		case "like":
			_ = a.Like(ctx, args)

		case "comment":
			_ = a.Comment(ctx, args)

		case "del":
			_ = a.Delete(ctx, args)

		case "stories":
			_ = a.Stories(ctx)

		case "story":
			_ = a.Story(ctx)

		case "msgs":
			_ = a.Conversations(ctx)

		case "chat":
			_ = a.Chat(ctx, args)

		case "send":
			_ = a.Send(ctx, args)

		case "notifs":
			_ = a.Notifications(ctx)

		case "read":
			_ = a.MarkRead(ctx, args)

		case "search":
			_ = a.Search(ctx, args)

		case "profile":
			_ = a.Profile(ctx, args)

		case "news":
			_ = a.Announcements(ctx)

		case "announce":
			_ = a.Announce(ctx)

		case "admin":
			_ = a.Admin(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func printHelp(ctx context.Context, a execIface) {
	if !a.isLoggedIn() {
		printlnFn("Available commands: register, login, retry, exit")
		return
	}
	printlnFn("Available commands: (f)eed, post, like <id>, comment <id>, del <id>,",
		"stories, story, msgs, chat <user>, send <user>, notifs, read <id>,",
		"search <name>, profile [user], news, logout, exit")
	if a.isAdmin(ctx) {
		printlnFn("Admin commands: announce, admin users|stats|ban|unban|promote|demote")
	}
}
