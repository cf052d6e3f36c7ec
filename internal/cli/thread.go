package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Plabrum/managerlab-sub002/internal/models"
	"github.com/Plabrum/managerlab-sub002/internal/retry"
	"github.com/Plabrum/managerlab-sub002/internal/thread"
)

var threadCmd = &cobra.Command{
	Use:   "thread",
	Short: "Follow and post to comment threads",
}

var threadWatchCmd = &cobra.Command{
	Use:   "watch <type> <id>",
	Short: "Stream a thread's messages and presence live",
	Long: `Connects to the thread's WebSocket and prints messages as they
arrive, along with who is viewing and typing. The connection itself never
reconnects; when it drops, watch redials with exponential backoff.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx := cmd.Context()

		ref := models.ThreadRef{Type: args[0], ID: args[1]}

		me, err := e.client.Me(ctx)
		if err != nil {
			return err
		}
		self := models.AuthorSummary{ID: me.ID, Email: me.Email, Name: me.DisplayName}

		msgs := thread.NewMessages(e.client, ref, self, e.logger)
		if err := msgs.Refresh(ctx); err != nil {
			return err
		}
		for _, m := range msgs.Messages() {
			printMessage(m)
		}

		// Each pass dials once and serves until the socket drops; the
		// backoff loop around it is the reconnect policy.
		redial := retry.Config{
			MaxAttempts:  8,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
			Factor:       2.0,
			Jitter:       true,
		}
		return retry.Do(ctx, redial, func() error {
			return watchOnce(ctx, e, ref, msgs, me.ID)
		})
	},
}

func watchOnce(ctx context.Context, e *env, ref models.ThreadRef, msgs *thread.Messages, self uuid.UUID) error {
	token, err := e.sessions.Load()
	if err != nil {
		return retry.Permanent(err)
	}

	updates := make(chan struct{}, 1)
	conn, err := thread.Dial(ctx, ref, thread.DialOptions{
		BaseURL:      e.cfg.WSBaseURL,
		SessionToken: token,
		Logger:       e.logger,
		OnMessageUpdate: func() {
			select {
			case updates <- struct{}{}:
			default:
			}
		},
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Println(okStyle.Render("connected"))

	known := map[string]bool{}
	for _, m := range msgs.Messages() {
		known[m.ID] = true
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	lastPresence := ""

	for {
		select {
		case <-ctx.Done():
			return retry.Permanent(ctx.Err())
		case <-conn.Done():
			fmt.Println(errStyle.Render("disconnected") + dimStyle.Render(", redialing"))
			return fmt.Errorf("thread connection dropped")
		case <-updates:
			if err := msgs.Refresh(ctx); err != nil {
				e.logger.Warn("refresh failed")
				continue
			}
			for _, m := range msgs.Messages() {
				if !known[m.ID] {
					known[m.ID] = true
					printMessage(m)
				}
			}
		case <-ticker.C:
			if line := presenceLine(conn.Viewers(), self); line != lastPresence {
				lastPresence = line
				if line != "" {
					fmt.Println(typingStyle.Render(line))
				}
			}
		}
	}
}

func printMessage(m models.Message) {
	stamp := m.CreatedAt.Local().Format("15:04")
	fmt.Printf("%s %s %s\n", dimStyle.Render(stamp), headerStyle.Render(m.Author.Name+":"), m.Body)
}

func presenceLine(viewers []models.Viewer, selfID uuid.UUID) string {
	var viewing, typing []string
	for _, v := range viewers {
		if v.UserID == selfID {
			continue
		}
		if v.IsTyping {
			typing = append(typing, v.Name)
		} else {
			viewing = append(viewing, v.Name)
		}
	}
	var parts []string
	if len(typing) > 0 {
		parts = append(parts, strings.Join(typing, ", ")+" typing…")
	}
	if len(viewing) > 0 {
		parts = append(parts, strings.Join(viewing, ", ")+" viewing")
	}
	return strings.Join(parts, " · ")
}

var threadSendCmd = &cobra.Command{
	Use:   "send <type> <id> <message>",
	Short: "Post a message to a thread",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Timeout)
		defer cancel()

		ref := models.ThreadRef{Type: args[0], ID: args[1]}
		body := strings.Join(args[2:], " ")

		me, err := e.client.Me(ctx)
		if err != nil {
			return err
		}
		self := models.AuthorSummary{ID: me.ID, Email: me.Email, Name: me.DisplayName}

		msgs := thread.NewMessages(e.client, ref, self, e.logger)
		if err := msgs.Refresh(ctx); err != nil {
			return err
		}
		if err := msgs.Send(ctx, body); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("sent"))
		return nil
	},
}

func init() {
	threadCmd.AddCommand(threadWatchCmd, threadSendCmd)
	rootCmd.AddCommand(threadCmd)
}
