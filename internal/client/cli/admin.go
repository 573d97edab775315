package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sachwave/sachwave/internal/rpc"
)

// Announce publishes a site-wide announcement (admin only; the backend
// enforces it, this command just fails with a toast for everyone else).
func (a *App) Announce(ctx context.Context) error {
	content, err := GetMultiline(a.reader, "Announcement text", os.Stdout)
	if err != nil {
		return err
	}
	if _, err := a.svc.Announcements.Create(ctx, content); err != nil {
		toast(err)
		return err
	}
	fmt.Println("Announcement published.")
	return nil
}

// Admin dispatches the moderation subcommands:
//
//	admin users              list every user with role
//	admin stats              activity dashboard
//	admin ban <user>         suspend a user
//	admin unban <user>       lift a suspension
//	admin promote <user>     grant admin
//	admin demote <user>      revoke admin
func (a *App) Admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: admin users|stats|ban|unban|promote|demote")
		return nil
	}

	switch args[0] {
	case "users":
		users, err := a.svc.Profile.AllUsers(ctx)
		if err != nil {
			toast(err)
			return err
		}
		for _, u := range users {
			fmt.Printf("%s — %s [%s]\n", u.ID, u.Name, u.Role)
		}
		return nil

	case "stats":
		stats, err := a.svc.Admin.Stats(ctx)
		if err != nil {
			toast(err)
			return err
		}
		fmt.Printf("users: %d (%d active)  posts: %d  messages: %d\n",
			stats.TotalUsers, stats.ActiveUsers, stats.TotalPosts, stats.TotalMessages)
		return nil

	case "ban", "unban", "promote", "demote":
		if len(args) < 2 {
			fmt.Printf("Usage: admin %s <user>\n", args[0])
			return nil
		}
		user := rpc.Principal(args[1])

		var err error
		switch args[0] {
		case "ban":
			err = a.svc.Admin.Ban(ctx, user)
		case "unban":
			err = a.svc.Admin.Unban(ctx, user)
		case "promote":
			err = a.svc.Admin.Promote(ctx, user)
		case "demote":
			err = a.svc.Admin.Demote(ctx, user)
		}
		if err != nil {
			toast(err)
			return err
		}
		fmt.Println("Done.")
		return nil

	default:
		fmt.Println("Unknown admin subcommand:", args[0])
		return nil
	}
}
