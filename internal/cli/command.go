package cli

import "context"

// Command is a CLI command handler. Cobra parses flags into the handler's
// fields and then calls Execute with the positional arguments.
type Command interface {
	Execute(ctx context.Context, args []string) error
}

var (
	_ Command = (*ListCommand)(nil)
	_ Command = (*AddCommand)(nil)
	_ Command = (*EditCommand)(nil)
	_ Command = (*DeleteCommand)(nil)
	_ Command = (*ShowCommand)(nil)
	_ Command = (*OutputCommand)(nil)
)
