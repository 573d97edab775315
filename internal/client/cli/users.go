package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sachwave/sachwave/internal/rpc"
)

// Search finds users by name fragment.
func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: search <name>")
		return nil
	}

	users, err := a.svc.Profile.Search(ctx, args[0])
	if err != nil {
		toast(err)
		return err
	}
	if len(users) == 0 {
		fmt.Println("Nobody found.")
		return nil
	}
	for _, u := range users {
		fmt.Printf("%s — %s (%s, %d)\n", u.ID, u.Name, u.ClassInfo.ClassName, u.ClassInfo.Year)
	}
	return nil
}

// Profile shows a user's profile, or with no argument the caller's own,
// offering to edit it.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) > 0 {
		p, err := a.svc.Profile.Lookup(ctx, rpc.Principal(args[0]))
		if err != nil {
			toast(err)
			return err
		}
		printProfile(p)

		posts, err := a.svc.Feed.PostsByUser(ctx, rpc.Principal(args[0]))
		if err == nil && len(posts) > 0 {
			fmt.Printf("%d posts, latest: %s\n", len(posts), posts[0].Content)
		}
		return nil
	}

	p, err := a.svc.Profile.Get(ctx)
	if err != nil {
		toast(err)
		return err
	}
	if p == nil {
		a.ensureSignedUp(ctx)
		return nil
	}
	printProfile(p)

	answer, err := getSimpleText(a.reader, "Edit bio? (y/N)", os.Stdout)
	if err != nil || answer != "y" {
		return nil
	}
	bio, err := GetMultiline(a.reader, "Your bio", os.Stdout)
	if err != nil {
		return err
	}
	updated := *p
	updated.Bio = bio
	if err := a.svc.Profile.Save(ctx, updated); err != nil {
		toast(err)
		return err
	}
	fmt.Println("Profile saved.")
	return nil
}

func printProfile(p *rpc.UserProfile) {
	if p == nil {
		fmt.Println("This user hasn't signed up yet.")
		return
	}
	fmt.Printf("%s (%s) — class %s, year %d\n", p.Name, p.ID, p.ClassInfo.ClassName, p.ClassInfo.Year)
	if p.Bio != "" {
		fmt.Println(" ", p.Bio)
	}
	if p.LastSeen > 0 {
		fmt.Println("  last seen:", formatWhen(p.LastSeen))
	}
}
