// Package cli implements the command runners behind cmd/parley.
//
// This is the calling side of the chat core: it selects a backend, loads
// its environment, trims history against the model's context window using
// the token accountant, sends the prompt, and switches exhaustively on the
// closed completion taxonomy.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/richinex/parley/chat"
	"github.com/richinex/parley/model"
	"github.com/richinex/parley/storage"
)

// replyReserve is the context-window headroom kept free for the reply.
const replyReserve = 1024

// Options holds CLI execution options.
type Options struct {
	Backend  string
	Model    string
	UserName string
}

// newService selects, initializes, and model-binds a service per Options.
func newService(opts Options) (chat.Service, model.Model, error) {
	backend, err := chat.ParseBackend(opts.Backend)
	if err != nil {
		return nil, model.Model{}, err
	}
	svc, err := chat.Select(backend)
	if err != nil {
		return nil, model.Model{}, err
	}
	if err := svc.InitEnv(); err != nil {
		return nil, model.Model{}, fmt.Errorf("%s: %w", svc.Name(), err)
	}
	m, err := pickModel(svc, opts.Model)
	if err != nil {
		return nil, model.Model{}, err
	}
	svc.UseModel(m)
	return svc, m, nil
}

func pickModel(svc chat.Service, name string) (model.Model, error) {
	models := svc.SupportedModels()
	if name == "" {
		return models[0], nil
	}
	for _, m := range models {
		if m.Name == name {
			return m, nil
		}
	}
	return model.Model{}, fmt.Errorf("model %q not supported by backend %q", name, svc.Name())
}

// Ask sends a single question and prints the outcome.
func Ask(ctx context.Context, question string, opts Options) error {
	svc, _, err := newService(opts)
	if err != nil {
		return err
	}

	history := []*model.Message{
		{Role: model.RoleUser, Content: question, Name: opts.UserName},
	}
	data := svc.Send(ctx, svc.BuildPrompt(history))
	return printCompletion(data)
}

// Chat starts an interactive chat session. History persists in SQLite when
// dbPath is set, otherwise in memory for the life of the process.
func Chat(ctx context.Context, sessionID, dbPath string, opts Options) error {
	svc, boundModel, err := newService(opts)
	if err != nil {
		return err
	}

	var store storage.ConversationStorage
	if dbPath != "" {
		sqlite, err := storage.OpenSqlite(dbPath)
		if err != nil {
			return err
		}
		defer sqlite.Close()
		store = sqlite
	} else {
		store = storage.NewInMemoryStorage()
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	history, err := store.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	fmt.Printf("Chatting with %s (%s), session %s. /reset clears, /quit exits.\n",
		svc.Name(), boundModel.Name, sessionID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			return scanner.Err()
		case "/reset":
			history = history[:0]
			if err := store.Delete(ctx, sessionID); err != nil {
				return err
			}
			continue
		}

		history = append(history, &model.Message{
			Role:    model.RoleUser,
			Content: line,
			Name:    opts.UserName,
		})

		history, err = trimToContextWindow(ctx, svc, boundModel, history)
		if err != nil {
			return err
		}

		data := svc.Send(ctx, svc.BuildPrompt(history))
		switch data.Status {
		case model.ResultOK:
			fmt.Printf("%s> %s\n", svc.Name(), data.ReplyText)
			history = append(history, &model.Message{
				Role:    model.RoleAssistant,
				Content: data.ReplyText,
			})
			if err := store.Save(ctx, sessionID, history); err != nil {
				return err
			}
		case model.ResultTooLong:
			// Trimming is budgeted with headroom, but the provider has
			// the final word. Drop the oldest turn and let the user retry.
			fmt.Println("Conversation too long for the model; dropped the oldest turn, please retry.")
			if len(history) > 1 {
				history = history[1:]
			}
		case model.ResultBlocked:
			fmt.Println("The provider's safety systems blocked this exchange.")
			history = history[:len(history)-1]
		case model.ResultInvalidRequest:
			fmt.Printf("Request rejected: %s\n", data.StatusText)
			history = history[:len(history)-1]
		case model.ResultOtherError:
			fmt.Printf("Completion failed: %s\n", data.StatusText)
			history = history[:len(history)-1]
		}
	}
	return scanner.Err()
}

// trimToContextWindow drops oldest turns until the prompt (header included)
// fits the model's context window with room reserved for the reply.
func trimToContextWindow(ctx context.Context, svc chat.Service, m model.Model, history []*model.Message) ([]*model.Message, error) {
	budget := m.ContextWindow - replyReserve
	for len(history) > 1 {
		count, err := svc.CountTokens(ctx, messagesForCounting(svc, history))
		if err != nil {
			return nil, fmt.Errorf("token accounting: %w", err)
		}
		if count <= budget {
			return history, nil
		}
		slog.Debug("trimming history", "tokens", count, "budget", budget, "turns", len(history))
		history = history[1:]
	}
	return history, nil
}

// messagesForCounting flattens the header plus non-nil history turns into
// the message list the accountant expects.
func messagesForCounting(svc chat.Service, history []*model.Message) []model.Message {
	messages := []model.Message{svc.SystemHeader()}
	for _, msg := range history {
		if msg != nil {
			messages = append(messages, *msg)
		}
	}
	return messages
}

// Models prints the supported model table for a backend.
func Models(opts Options) error {
	backend, err := chat.ParseBackend(opts.Backend)
	if err != nil {
		return err
	}
	svc, err := chat.Select(backend)
	if err != nil {
		return err
	}
	for _, m := range svc.SupportedModels() {
		vision := ""
		if m.Vision {
			vision = " (vision)"
		}
		fmt.Printf("%s\tcontext %d%s\n", m.Name, m.ContextWindow, vision)
	}
	return nil
}

func printCompletion(data model.CompletionData) error {
	switch data.Status {
	case model.ResultOK:
		fmt.Println(data.ReplyText)
		return nil
	case model.ResultTooLong:
		return fmt.Errorf("conversation too long: %s", data.StatusText)
	case model.ResultBlocked:
		return fmt.Errorf("blocked by safety systems: %s", data.StatusText)
	case model.ResultInvalidRequest:
		return fmt.Errorf("invalid request: %s", data.StatusText)
	case model.ResultOtherError:
		return fmt.Errorf("completion failed: %s", data.StatusText)
	default:
		return fmt.Errorf("unknown completion status: %v", data.Status)
	}
}
