package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sachwave/sachwave/internal/client/session"
)

func (a *App) getStatus() string {
	phase, _ := a.machine.Phase()
	s := string(phase)
	if p, ok := a.svc.Profile.Current(); ok && p != nil {
		s = p.Name
		if n, err := a.svc.Notifications.UnreadCount(context.Background()); err == nil && n > 0 {
			s = fmt.Sprintf("%s [%d]", s, n)
		}
	}
	return fmt.Sprintf("(%s) >", s)
}

// Root runs the startup flow: access gate, one-time onboarding, then the
// REPL. Background pollers (cache refresh, update checks) start once the
// REPL is entered.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Sach Wave (type 'help' for commands)")

	if !a.passAccessGate(ctx) {
		return
	}
	a.runOnboarding(ctx)

	go a.svc.StartRefresh(ctx)
	go a.checker.Run(ctx, func(version string) {
		fmt.Printf("\nA new client version %s is available (you run %s).\n", version, a.version)
	})

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// passAccessGate asks for the access code until it matches or input ends.
// Unlocking persists, so the gate only appears once per device.
func (a *App) passAccessGate(ctx context.Context) bool {
	unlocked, err := a.state.AccessUnlocked(ctx)
	if err != nil {
		a.logger.Error(ctx, "reading access gate state", "error", err)
	}
	if unlocked {
		return true
	}

	for {
		code, err := GetSimpleText(a.reader, "Enter the access code", os.Stdout)
		if err != nil {
			return false
		}
		ok, err := a.state.Unlock(ctx, code)
		if err != nil {
			a.logger.Error(ctx, "persisting access gate state", "error", err)
		}
		if ok {
			fmt.Println("Welcome in!")
			return true
		}
		fmt.Println("That code didn't work. Ask a friend who already uses Sach Wave.")
	}
}

// runOnboarding shows the one-time tour on first start.
func (a *App) runOnboarding(ctx context.Context) {
	done, err := a.state.OnboardingComplete(ctx)
	if err != nil {
		a.logger.Error(ctx, "reading onboarding state", "error", err)
	}
	if done {
		return
	}

	fmt.Println("Quick tour:")
	fmt.Println("  feed     shows what everyone is posting; 'like' and 'comment' react to posts")
	fmt.Println("  stories  disappear after 24 hours")
	fmt.Println("  msgs     are private between you and the other person")
	fmt.Println("Type 'register' to create an account, then 'login'.")

	if err := a.state.SetOnboardingComplete(ctx); err != nil {
		a.logger.Error(ctx, "persisting onboarding state", "error", err)
	}
}

// waitReady blocks until the session machine settles after an identity
// change and reports the outcome to the user.
func (a *App) waitReady(ctx context.Context) bool {
	waitCtx, cancel := context.WithTimeout(ctx, a.config.ConnectTimeout+5*time.Second)
	defer cancel()

	phase, serr := a.machine.WaitReady(waitCtx, 100*time.Millisecond)
	if serr != nil {
		fmt.Println("!", serr.UserMessage)
		fmt.Println("Type 'retry' to try again.")
		return false
	}
	return phase == session.PhaseReady
}

// Retry re-runs the failed startup step.
func (a *App) Retry(ctx context.Context) error {
	a.machine.Retry(ctx)
	if a.isLoggedIn() {
		if a.waitReady(ctx) {
			fmt.Println("Back online.")
			a.ensureSignedUp(ctx)
		}
	}
	return nil
}
