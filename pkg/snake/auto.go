// Package snake fills in command flags and credentials by prompting on the
// terminal.
package snake

import (
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var answerTemplates = &promptui.PromptTemplates{
	Prompt:  "Answer {{ . }} : ",
	Valid:   "Answer {{ . | green }} : ",
	Invalid: "Answer {{ . | red }} : ",
	Success: "{{ . | bold }} : ",
}

// Prompter reads answers from In and draws prompts on Out.
type Prompter struct {
	In  io.ReadCloser
	Out io.WriteCloser
}

// ForCommand prompts on the command's streams.
func ForCommand(cmd *cobra.Command) *Prompter {
	return &Prompter{
		In:  io.NopCloser(cmd.InOrStdin()),
		Out: NopCloser(cmd.OutOrStdout()),
	}
}

func (p *Prompter) run(prompt promptui.Prompt) (string, error) {
	prompt.Stdin = p.In
	prompt.Stdout = p.Out
	return prompt.Run()
}

// PromptFlags asks for every string flag in names the user did not set.
func (p *Prompter) PromptFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed || f.Value.Type() != "string" {
			continue
		}
		if err := p.PromptFlagString(f); err != nil {
			return err
		}
	}
	return nil
}

// Choice is one entry of a Select.
type Choice struct {
	Name  string
	Short string
}

// Select lets the user pick one of choices and returns its index.
func (p *Prompter) Select(label string, choices []Choice, cursor int) (int, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Name | bold }} {{ .Short | green }}",
		Inactive: "   {{ .Name }} {{ .Short | cyan }}",
		Selected: "{{ .Name | bold }}",
	}

	searcher := func(input string, index int) bool {
		c := choices[index]
		name := strings.Replace(strings.ToLower(c.Name+c.Short), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)

		return strings.Contains(name, input)
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     label,
		Items:     choices,
		Templates: templates,
		Size:      10,
		CursorPos: cursor,
		Searcher:  searcher,
		Stdin:     p.In,
		Stdout:    p.Out,
	}
	i, _, err := prompt.Run()
	return i, err
}

// Flags lists the visible string flags of cmd by name.
func Flags(cmd *cobra.Command) []string {
	var names []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Value.Type() == "string" && !f.Hidden {
			names = append(names, f.Name)
		}
	})
	return names
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
