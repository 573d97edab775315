package cli

import (
	"context"
	"fmt"
	"os"
)

// Feed prints the post feed, newest first, with likes and comments.
func (a *App) Feed(ctx context.Context) error {
	posts, err := a.svc.Feed.Posts(ctx)
	if err != nil {
		// Prefer stale data over nothing when the fetch fails.
		if cached, ok := a.svc.Feed.CachedPosts(); ok {
			fmt.Println("(showing cached feed — refresh failed)")
			posts = cached
		} else {
			toast(err)
			return err
		}
	}

	if len(posts) == 0 {
		fmt.Println("Nothing here yet. Be the first to 'post'!")
		return nil
	}

	for _, p := range posts {
		fmt.Printf("#%d %s (%s) — %d likes\n", p.ID, p.Author, formatWhen(p.Timestamp), p.Likes)
		fmt.Println("  ", p.Content)
		if p.Media != "" {
			if url, err := a.uploader.ResolveURL(ctx, p.Media); err == nil {
				fmt.Println("   media:", url)
			}
		}
		for _, c := range p.Comments {
			fmt.Printf("   ↳ %s: %s\n", c.Author, c.Content)
		}
	}
	return nil
}

// Post publishes a new post, optionally attaching a local media file.
func (a *App) Post(ctx context.Context) error {
	content, err := GetMultiline(a.reader, "What's on your mind?", os.Stdout)
	if err != nil {
		return err
	}
	if content == "" {
		fmt.Println("Empty post discarded.")
		return nil
	}

	media := ""
	path, err := getSimpleText(a.reader, "Attach an image file (empty for none)", os.Stdout)
	if err == nil && path != "" {
		media = a.uploadFile(ctx, path)
	}

	if _, err := a.svc.Feed.Create(ctx, content, media); err != nil {
		toast(err)
		return err
	}
	fmt.Println("Posted!")
	return nil
}

// Like registers a like. The feed counter bumps immediately; if the backend
// rejects the like, the counter snaps back and the reason is shown.
func (a *App) Like(ctx context.Context, args []string) error {
	id, ok := parseID(args, "like <post-id>")
	if !ok {
		return nil
	}
	if err := a.svc.Feed.Like(ctx, id); err != nil {
		toast(err)
		return err
	}
	fmt.Println("Liked!")
	return nil
}

// Comment appends a comment to a post.
func (a *App) Comment(ctx context.Context, args []string) error {
	id, ok := parseID(args, "comment <post-id>")
	if !ok {
		return nil
	}
	content, err := getSimpleText(a.reader, "Your comment", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.svc.Feed.Comment(ctx, id, content); err != nil {
		toast(err)
		return err
	}
	fmt.Println("Comment added.")
	return nil
}

// Delete removes one of the caller's posts (admins can remove any).
func (a *App) Delete(ctx context.Context, args []string) error {
	id, ok := parseID(args, "del <post-id>")
	if !ok {
		return nil
	}
	if err := a.svc.Feed.Delete(ctx, id); err != nil {
		toast(err)
		return err
	}
	fmt.Println("Post removed.")
	return nil
}

// uploadFile pushes a local file to media storage, printing coarse progress,
// and returns the storage key ("" on failure; posting continues without it).
func (a *App) uploadFile(ctx context.Context, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("! Couldn't read that file, posting without media.")
		return ""
	}

	key, err := a.uploader.UploadMedia(ctx, "application/octet-stream", data, func(percent int) {
		if percent%25 == 0 {
			fmt.Printf("  uploading… %d%%\n", percent)
		}
	})
	if err != nil {
		fmt.Println("! Upload failed, posting without media.")
		a.logger.Warn(ctx, "media upload failed", "path", path, "error", err)
		return ""
	}
	return key
}
