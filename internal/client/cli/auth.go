package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and creates an account.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Pick a username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.ids.Register(ctx, userName, string(password)); err != nil {
		toast(err)
		return err
	}

	fmt.Println("Account created. Type 'login' to sign in.")
	return nil
}

// Login prompts for credentials, authenticates, then waits for the session
// bootstrap (actor resolution, profile load) to settle before handing the
// shell back. A fresh identity without a profile is walked through signup.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.ids.Login(ctx, userName, string(password)); err != nil {
		toast(err)
		return err
	}

	if !a.waitReady(ctx) {
		return nil
	}

	a.ensureSignedUp(ctx)
	a.svc.Profile.TouchLastSeen(ctx)
	fmt.Println("You're in!")
	return nil
}

// ensureSignedUp runs the signup flow when the identity has no profile yet.
func (a *App) ensureSignedUp(ctx context.Context) {
	p, ok := a.svc.Profile.Current()
	if !ok || p != nil {
		return
	}

	fmt.Println("Almost there — set up your profile.")
	name, err := getSimpleText(a.reader, "Your display name", os.Stdout)
	if err != nil {
		return
	}
	className, err := getSimpleText(a.reader, "Your class (e.g. 10b)", os.Stdout)
	if err != nil {
		return
	}
	yearText, err := getSimpleText(a.reader, "Graduation year", os.Stdout)
	if err != nil {
		return
	}
	year, err := strconv.ParseInt(yearText, 10, 64)
	if err != nil {
		fmt.Println("! That's not a year. You can finish signup later with 'profile'.")
		return
	}

	if err := a.svc.Profile.Signup(ctx, name, className, year); err != nil {
		toast(err)
		return
	}
	if _, err := a.svc.Profile.Get(ctx); err != nil {
		a.logger.Debug(ctx, "profile refetch after signup failed", "error", err)
	}
	fmt.Println("Profile created. Welcome,", name+"!")
}

// Logout drops back to the anonymous identity.
func (a *App) Logout(ctx context.Context) error {
	a.ids.Logout()
	fmt.Println("Logged out.")
	return nil
}
