package commands

import (
	"fmt"
	"strings"
)

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(*Session, []string) error
}

// Registry maps command names to handlers
type Registry struct {
	session  *Session
	commands map[string]*Command
	ordered  []*Command
}

func NewRegistry(session *Session) *Registry {
	r := &Registry{
		session:  session,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Handler:     r.helpHandler,
	})

	return r
}

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
	r.ordered = append(r.ordered, cmd)
}

// Execute runs one input line. A line that is not a command is tried as a move.
func (r *Registry) Execute(input string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	cmd, exists := r.commands[strings.ToLower(parts[0])]
	args := parts[1:]
	if !exists {
		if !looksLikeMove(parts) {
			r.session.Out.Error(fmt.Errorf("unknown command: %s (type 'help')", parts[0]))
			return
		}
		cmd, args = r.commands["move"], parts
	}

	if err := cmd.Handler(r.session, args); err != nil {
		r.session.Out.Error(err)
	}
}

// looksLikeMove accepts "e2e4" and "e2 e4"
func looksLikeMove(parts []string) bool {
	joined := strings.Join(parts, "")
	return len(joined) == 4 && len(parts) <= 2
}

func (r *Registry) helpHandler(s *Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		s.Out.Info("%s - %s", cmd.Name, cmd.Description)
		if cmd.ShortName != "" {
			s.Out.Info("Short form: %s", cmd.ShortName)
		}
		s.Out.Info("Usage: %s", cmd.Usage)
		return nil
	}

	s.Out.Info("Available commands:")
	for _, cmd := range r.ordered {
		s.Out.Info("  [%s] %-10s %s", cmd.ShortName, cmd.Name, cmd.Description)
	}
	s.Out.Info("A bare move such as 'e2e4' or 'e2 e4' is also accepted. 'exit' leaves.")
	return nil
}
