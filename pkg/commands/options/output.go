package options

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// OutputOptions
type OutputOptions struct {
	Output string
	Out    io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().StringVarP(&po.Output, "output", "o", "",
		"Output format. One of 'json' or 'yaml'; pretty printed when unset.")
}

// Structured reports whether the caller asked for machine readable output.
func (o *OutputOptions) Structured() bool {
	return o.Output == "json" || o.Output == "yaml"
}

// Write encodes v in the requested format.
func (o *OutputOptions) Write(w io.Writer, v any) error {
	switch o.Output {
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q, want json or yaml", o.Output)
}

// Print writes v to Out, or stdout, in the requested format.
func (o *OutputOptions) Print(v any) error {
	if o.Out == nil {
		return o.Write(color.Output, v)
	}
	return o.Write(o.Out, v)
}

func (o *OutputOptions) HandleError(err error) error {
	if o.Structured() && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		if perr := o.Print(out); perr != nil {
			return perr
		}
		return nil
	}
	return err
}
