package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
}

func (f *fakeExec) isLoggedIn() bool                  { return f.loggedIn }
func (f *fakeExec) isAdmin(ctx context.Context) bool  { return f.admin }
func (f *fakeExec) Register(ctx context.Context) error {
	f.record("register", nil)
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login", nil)
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout", nil)
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Retry(ctx context.Context) error { f.record("retry", nil); return nil }
func (f *fakeExec) Feed(ctx context.Context) error  { f.record("feed", nil); return nil }
func (f *fakeExec) Post(ctx context.Context) error  { f.record("post", nil); return nil }
func (f *fakeExec) Like(ctx context.Context, args []string) error {
	f.record("like", args)
	return nil
}
func (f *fakeExec) Comment(ctx context.Context, args []string) error {
	f.record("comment", args)
	return nil
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	f.record("del", args)
	return nil
}
func (f *fakeExec) Stories(ctx context.Context) error { f.record("stories", nil); return nil }
func (f *fakeExec) Story(ctx context.Context) error   { f.record("story", nil); return nil }
func (f *fakeExec) Conversations(ctx context.Context) error {
	f.record("msgs", nil)
	return nil
}
func (f *fakeExec) Chat(ctx context.Context, args []string) error {
	f.record("chat", args)
	return nil
}
func (f *fakeExec) Send(ctx context.Context, args []string) error {
	f.record("send", args)
	return nil
}
func (f *fakeExec) Notifications(ctx context.Context) error {
	f.record("notifs", nil)
	return nil
}
func (f *fakeExec) MarkRead(ctx context.Context, args []string) error {
	f.record("read", args)
	return nil
}
func (f *fakeExec) Search(ctx context.Context, args []string) error {
	f.record("search", args)
	return nil
}
func (f *fakeExec) Profile(ctx context.Context, args []string) error {
	f.record("profile", args)
	return nil
}
func (f *fakeExec) Announcements(ctx context.Context) error {
	f.record("news", nil)
	return nil
}
func (f *fakeExec) Announce(ctx context.Context) error { f.record("announce", nil); return nil }
func (f *fakeExec) Admin(ctx context.Context, args []string) error {
	f.record("admin", args)
	return nil
}

func runScript(t *testing.T, exec *fakeExec, lines ...string) {
	t.Helper()
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, sc)
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	exec := &fakeExec{}
	runScript(t, exec,
		"help",
		"login",
		"feed",
		"like 7",
		"comment 7",
		"stories",
		"msgs",
		"chat alice",
		"notifs",
		"foobar",
		"exit",
	)

	assert.Equal(t, []string{"login", "feed", "like", "comment", "stories", "msgs", "chat", "notifs"}, exec.calls)
}

func TestRunREPL_PassesArgs(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runScript(t, exec,
		"like 42",
		"send bob",
		"admin ban mallory",
		"exit",
	)

	assert.Equal(t, [][]string{{"42"}, {"bob"}, {"ban", "mallory"}}, exec.args)
}

func TestRunREPL_ShortAliases(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runScript(t, exec, "f", "exit")
	assert.Equal(t, []string{"feed"}, exec.calls)
}

func TestRunREPL_EmptyLinesAndEOF(t *testing.T) {
	exec := &fakeExec{}
	runScript(t, exec, "", "   ", "feed")
	// EOF without "exit" still terminates cleanly.
	assert.Equal(t, []string{"feed"}, exec.calls)
}
