package prompt

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

// Prompter asks the user to pick a stack on the terminal.
type Prompter struct {
	In         io.Reader
	Out        io.Writer
	IsTerminal func() bool

	// run is swapped in tests to drive the model without a terminal.
	run func(ctx context.Context, m Model) (Model, error)
}

// New returns a prompter bound to the process standard streams.
func New() *Prompter {
	return &Prompter{
		In:  os.Stdin,
		Out: os.Stderr,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// ChooseStack shows names and returns the one picked. Without a terminal it
// fails with NotInteractive; dismissing the list means no stack was named.
func (p *Prompter) ChooseStack(ctx context.Context, message string, names []string) (string, error) {
	if p.IsTerminal == nil || !p.IsTerminal() {
		return "", voilaerrors.NotInteractive(names)
	}

	run := p.run
	if run == nil {
		run = p.runProgram
	}

	final, err := run(ctx, NewModel(message, names))
	if err != nil {
		return "", fmt.Errorf("stack prompt: %w", err)
	}
	if final.Cancelled() || final.Chosen() == "" {
		return "", voilaerrors.SpecifyStackName()
	}
	return final.Chosen(), nil
}

func (p *Prompter) runProgram(ctx context.Context, m Model) (Model, error) {
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)
	final, err := program.Run()
	if err != nil {
		return m, err
	}
	result, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("unexpected model %T", final)
	}
	return result, nil
}
