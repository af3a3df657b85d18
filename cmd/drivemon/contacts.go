package main

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/drivemon/internal/contacts"
	"codeberg.org/mutker/drivemon/internal/display"
	"codeberg.org/mutker/drivemon/internal/errors"
	"github.com/spf13/cobra"
)

// contactFlags edit the default emergency contacts for one invocation.
type contactFlags struct {
	add    []string
	remove []string
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVar(&f.add, "contact", nil,
		`Add an emergency contact as "Name:phone" (repeatable)`)
	cmd.PersistentFlags().StringArrayVar(&f.remove, "remove-contact", nil,
		"Remove an emergency contact by name (repeatable)")
}

// registry returns the default contacts with removals applied first, then
// additions.
func (f *contactFlags) registry() (*contacts.Registry, error) {
	r := contacts.NewRegistry(contacts.Defaults()...)

	for _, name := range f.remove {
		if err := removeByName(r, name); err != nil {
			return nil, err
		}
	}

	for _, spec := range f.add {
		name, phone := parseContact(spec)
		r.Add(name, phone)
	}

	return r, nil
}

func removeByName(r *contacts.Registry, name string) error {
	name = strings.TrimSpace(name)
	for _, c := range r.List() {
		if strings.EqualFold(c.Name, name) {
			return r.Remove(c.ID)
		}
	}

	return errors.New().WithData(contacts.ErrNotFound, name)
}

// parseContact splits "Name:phone" on its last colon. A spec without a colon
// is a name only.
func parseContact(spec string) (name, phone string) {
	i := strings.LastIndex(spec, ":")
	if i < 0 {
		return spec, ""
	}

	return spec[:i], spec[i+1:]
}

func newContactsCmd(f *contactFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "contacts",
		Short: "List the emergency contacts notified by health alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := f.registry()
			if err != nil {
				return err
			}

			list := registry.List()
			rows := make([][]string, 0, len(list))
			for _, c := range list {
				rows = append(rows, []string{c.Name, c.Phone, display.Dim(c.ID)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, display.Header(fmt.Sprintf("Emergency contacts (%d)", registry.Len())))
			fmt.Fprint(out, display.RenderTable([]string{"NAME", "PHONE", "ID"}, rows))

			return nil
		},
	}
}
