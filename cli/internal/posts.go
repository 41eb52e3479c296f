package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZzaizZ/goblog/internal/client"
)

func newPostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage blog posts",
		Long:  `Create, read, update, delete and list blog posts.`,
	}

	cmd.AddCommand(newPostCreateCommand())
	cmd.AddCommand(newPostGetCommand())
	cmd.AddCommand(newPostUpdateCommand())
	cmd.AddCommand(newPostDeleteCommand())
	cmd.AddCommand(newPostListCommand())

	return cmd
}

// readContent resolves post content from --content, --file, or stdin
func readContent(content, file string) (string, error) {
	if content != "" {
		return content, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	}

	// Read from stdin (pipe or heredoc)
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no content provided (use --content, --file, or pipe to stdin)")
	}
	return string(data), nil
}

func printPost(post *client.Post) error {
	fmt.Printf("ID:      %s\n", post.ID)
	fmt.Printf("Title:   %s\n", post.Title)
	fmt.Printf("Slug:    %s\n", post.Slug)
	fmt.Printf("Author:  %s\n", post.AuthorID)
	fmt.Printf("Created: %s\n", post.CreatedAt.Local().Format("2006-01-02 15:04"))
	if !post.UpdatedAt.Equal(post.CreatedAt) {
		fmt.Printf("Updated: %s\n", post.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println()
	return printMarkdown(post.Content)
}

func newPostCreateCommand() *cobra.Command {
	var (
		title   string
		content string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new post",
		Long: `Create a new blog post.

Examples:
  # Inline content
  goblog post create --title "Hello" --content "First post."

  # From a markdown file
  goblog post create --title "Hello" --file post.md

  # From stdin
  cat post.md | goblog post create --title "Hello"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			body, err := readContent(content, file)
			if err != nil {
				return err
			}

			post, err := ctx.Client.CreatePost(cmd.Context(), title, body)
			if err != nil {
				return fmt.Errorf("failed to create post: %w", err)
			}

			fmt.Printf("Created post %s (%s)\n", post.ID, post.Slug)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Post title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "Post content (markdown)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read content from file")
	cmd.MarkFlagRequired("title")

	return cmd
}

func newPostGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get POST_ID",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			post, err := ctx.Client.GetPost(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get post: %w", err)
			}

			return printPost(post)
		},
	}
}

func newPostUpdateCommand() *cobra.Command {
	var (
		title   string
		content string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "update POST_ID",
		Short: "Update a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)
			id := args[0]

			// Start from the current post so partial updates keep the
			// other field intact
			current, err := ctx.Client.GetPost(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get post: %w", err)
			}

			newTitle := current.Title
			if title != "" {
				newTitle = title
			}

			newContent := current.Content
			if content != "" || file != "" {
				newContent, err = readContent(content, file)
				if err != nil {
					return err
				}
			}

			post, err := ctx.Client.UpdatePost(cmd.Context(), id, newTitle, newContent)
			if err != nil {
				return fmt.Errorf("failed to update post: %w", err)
			}

			fmt.Printf("Updated post %s (%s)\n", post.ID, post.Slug)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "New content (markdown)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read new content from file")

	return cmd
}

func newPostDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete POST_ID",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			if err := ctx.Client.DeletePost(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete post: %w", err)
			}

			fmt.Printf("Deleted post %s\n", args[0])
			return nil
		},
	}
}

func newPostListCommand() *cobra.Command {
	var (
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			posts, err := ctx.Client.ListPosts(cmd.Context(), page, pageSize)
			if err != nil {
				return fmt.Errorf("failed to list posts: %w", err)
			}

			if len(posts) == 0 {
				fmt.Println("No posts")
				return nil
			}

			for _, post := range posts {
				summary := firstLine(post.Content)
				fmt.Printf("%s  %-30s  %s  %s\n",
					post.CreatedAt.Local().Format("2006-01-02"),
					truncate(post.Title, 30),
					post.ID,
					truncate(summary, 40),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Posts per page")

	return cmd
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
