package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sachwave/sachwave/internal/rpc"
)

// Stories prints the active stories strip.
func (a *App) Stories(ctx context.Context) error {
	stories, err := a.svc.Stories.Active(ctx)
	if err != nil {
		toast(err)
		return err
	}
	if len(stories) == 0 {
		fmt.Println("No active stories.")
		return nil
	}
	for _, s := range stories {
		fmt.Printf("%s (%s): %s\n", s.Author, formatWhen(s.Timestamp), s.Content)
		if s.Image != "" {
			if url, err := a.uploader.ResolveURL(ctx, s.Image); err == nil {
				fmt.Println("  image:", url)
			}
		}
	}
	return nil
}

// Story publishes a story, optionally with an image.
func (a *App) Story(ctx context.Context) error {
	content, err := getSimpleText(a.reader, "Your story (visible for 24h)", os.Stdout)
	if err != nil {
		return err
	}

	image := ""
	path, err := getSimpleText(a.reader, "Attach an image file (empty for none)", os.Stdout)
	if err == nil && path != "" {
		image = a.uploadFile(ctx, path)
	}

	if _, err := a.svc.Stories.Create(ctx, content, image); err != nil {
		toast(err)
		return err
	}
	fmt.Println("Story published.")
	return nil
}

// Conversations lists message threads with their most recent message.
func (a *App) Conversations(ctx context.Context) error {
	heads, err := a.svc.Messaging.Conversations(ctx)
	if err != nil {
		toast(err)
		return err
	}
	if len(heads) == 0 {
		fmt.Println("No conversations yet. Start one with 'send <user>'.")
		return nil
	}
	for _, h := range heads {
		marker := " "
		if !h.LastMessage.Read && h.LastMessage.Receiver == a.ids.Current().Principal {
			marker = "*"
		}
		fmt.Printf("%s %s (%s): %s\n", marker, h.Peer, formatWhen(h.LastMessage.Timestamp), h.LastMessage.Content)
	}
	return nil
}

// Chat prints the thread with one peer.
func (a *App) Chat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: chat <user>")
		return nil
	}
	peer := rpc.Principal(args[0])

	msgs, err := a.svc.Messaging.Messages(ctx, peer)
	if err != nil {
		toast(err)
		return err
	}

	me := a.ids.Current().Principal
	for _, m := range msgs {
		who := m.Sender
		if m.Sender == me {
			who = "me"
		}
		fmt.Printf("[%s] %s: %s\n", formatWhen(m.Timestamp), who, m.Content)
		if m.Receiver == me && !m.Read {
			if err := a.svc.Messaging.MarkRead(ctx, peer, m.ID); err != nil {
				a.logger.Debug(ctx, "mark message read failed", "message_id", m.ID, "error", err)
			}
		}
	}
	return nil
}

// Send delivers a direct message.
func (a *App) Send(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: send <user>")
		return nil
	}
	peer := rpc.Principal(args[0])

	content, err := getSimpleText(a.reader, "Message to "+string(peer), os.Stdout)
	if err != nil {
		return err
	}
	if _, err := a.svc.Messaging.Send(ctx, peer, content); err != nil {
		toast(err)
		return err
	}
	fmt.Println("Sent.")
	return nil
}

// Notifications prints the notification feed, unread first.
func (a *App) Notifications(ctx context.Context) error {
	notifs, err := a.svc.Notifications.List(ctx)
	if err != nil {
		toast(err)
		return err
	}
	if len(notifs) == 0 {
		fmt.Println("No notifications.")
		return nil
	}
	for _, n := range notifs {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s #%d %s (%s)\n", marker, n.ID, n.Content, formatWhen(n.Timestamp))
	}
	return nil
}

// MarkRead acknowledges one notification.
func (a *App) MarkRead(ctx context.Context, args []string) error {
	id, ok := parseID(args, "read <notification-id>")
	if !ok {
		return nil
	}
	if err := a.svc.Notifications.MarkRead(ctx, id); err != nil {
		toast(err)
		return err
	}
	return nil
}

// Announcements prints the site-wide announcements.
func (a *App) Announcements(ctx context.Context) error {
	items, err := a.svc.Announcements.List(ctx)
	if err != nil {
		toast(err)
		return err
	}
	if len(items) == 0 {
		fmt.Println("No announcements.")
		return nil
	}
	for _, an := range items {
		fmt.Printf("[%s] %s\n", formatWhen(an.Timestamp), an.Content)
	}
	return nil
}
