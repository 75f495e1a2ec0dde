package snake

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/pflag"
)

// PromptFlagString asks for a string flag's value and sets it. An empty
// answer keeps the default.
func (p *Prompter) PromptFlagString(f *pflag.Flag) error {
	_, _ = fmt.Fprintf(p.Out, "%s: %s Default: %s\n", asFlags(f), f.Usage, f.DefValue)

	validate := func(input string) error {
		if len(input) == 0 && len(f.DefValue) == 0 {
			return errors.New("empty")
		}
		return nil
	}

	result, err := p.run(promptui.Prompt{
		Label:     fmt.Sprintf(`[%s]`, f.DefValue),
		Templates: answerTemplates,
		Validate:  validate,
	})
	if err != nil {
		return err
	}
	if result == "" {
		return nil
	}
	return f.Value.Set(result)
}

// String asks for a free-form value.
func (p *Prompter) String(label string, required bool) (string, error) {
	validate := func(input string) error {
		if required && len(input) == 0 {
			return errors.New("empty")
		}
		return nil
	}
	return p.run(promptui.Prompt{
		Label:    label,
		Validate: validate,
	})
}

// Secret asks for a value without echoing it.
func (p *Prompter) Secret(label string) (string, error) {
	return p.run(promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("empty")
			}
			return nil
		},
	})
}
