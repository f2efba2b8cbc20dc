package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"skillsync/internal/session"
	"skillsync/internal/types"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the career assistant",
	Long: `Open an interactive conversation with the career assistant. Each line you
type is sent as one message; the assistant remembers earlier turns.
Type /quit or send EOF (Ctrl-D) to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

const chatQuit = "/quit"

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	provider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer func() { _ = provider.Close() }()

	sess := session.New(provider, session.WithLogger(logger))
	return chatLoop(ctx, sess.Chat, cmd.InOrStdin(), cmd.OutOrStdout())
}

func chatLoop(ctx context.Context, assistant *session.ChatAssistant, in io.Reader, out io.Writer) error {
	state := assistant.Open(ctx)
	defer assistant.Close()

	for _, msg := range assistant.Transcript() {
		printChatMessage(out, msg)
	}
	if !state.Connected {
		return fmt.Errorf("career assistant is unavailable")
	}

	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case chatQuit:
			return nil
		}

		reply, err := assistant.Send(ctx, line)
		if err != nil {
			return err
		}
		printChatMessage(out, reply)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func printChatMessage(out io.Writer, msg types.ChatMessage) {
	if msg.Sender == types.SenderUser {
		_, _ = fmt.Fprintf(out, "You: %s\n", msg.Text)
		return
	}
	_, _ = fmt.Fprintf(out, "Assistant: %s\n", msg.Text)
}
