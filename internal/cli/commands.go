package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idilsaglam/tada/internal/app"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/router"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

const indexHint = "Hint: run `tada ls --plain` to see valid indexes"

// withSession opens the list for one command and closes it afterwards.
func (e *env) withSession(cmd *cobra.Command, fn func(s *session) error) error {
	s, err := e.openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}

// pick resolves the index argument, printing a hint when it is wrong.
func (e *env) pick(s *session, arg string) (*model.Todo, error) {
	todo, err := s.at(arg)
	if err != nil {
		ui.Hint(e.stderr, indexHint)
	}
	return todo, err
}

func newAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withSession(cmd, func(s *session) error {
				err := s.dispatch(app.EventNewItem, strings.Join(args, " "))
				if errors.Is(err, app.ErrEmptyTitle) {
					return usagef("add: empty title")
				}
				if err != nil {
					return err
				}
				ui.OK(e.stdout, "added")
				return nil
			})
		},
	}
}

func newDoneCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for the item at a 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withSession(cmd, func(s *session) error {
				todo, err := e.pick(s, args[0])
				if err != nil {
					return err
				}
				if err := s.dispatch(app.EventItemToggle, todo.ID); err != nil {
					return err
				}
				ui.OK(e.stdout, "toggled")
				return nil
			})
		},
	}
}

func newRmCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove the item at a 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withSession(cmd, func(s *session) error {
				todo, err := e.pick(s, args[0])
				if err != nil {
					return err
				}
				if err := s.dispatch(app.EventItemDestroy, todo.ID); err != nil {
					return err
				}
				ui.OK(e.stdout, "removed")
				return nil
			})
		},
	}
}

func newEditCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> <title...>",
		Short: "Rename the item at a 1-based index (an empty title removes it)",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withSession(cmd, func(s *session) error {
				todo, err := e.pick(s, args[0])
				if err != nil {
					return err
				}
				title := strings.TrimSpace(strings.Join(args[1:], " "))
				if err := s.dispatch(app.EventItemEdited, app.Edit{ID: todo.ID, Title: title}); err != nil {
					return err
				}
				if title == "" {
					ui.OK(e.stdout, "removed")
				} else {
					ui.OK(e.stdout, "renamed")
				}
				return nil
			})
		},
	}
}

func newClearCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed item",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withSession(cmd, func(s *session) error {
				n := s.app.Todos().Completed().Len()
				if err := s.dispatch(app.EventClearCompleted, nil); err != nil {
					return err
				}
				ui.OK(e.stdout, fmt.Sprintf("cleared %d completed", n))
				return nil
			})
		},
	}
}

func newToggleAllCmd(e *env) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "toggle-all",
		Short: "Mark every shown item as done (or not done with --off)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withSession(cmd, func(s *session) error {
				ev := app.EventToggleAllCheck
				if off {
					ev = app.EventToggleAllOff
				}
				if err := s.dispatch(ev, nil); err != nil {
					return err
				}
				ui.OK(e.stdout, ui.ItemsLeft(s.app.Controls().Remaining))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "mark every item as not done")
	return cmd
}

func newLsCmd(e *env) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Show the list (interactive on a terminal)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !plain && e.stdout == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())) {
				return e.runInteractive(cmd)
			}
			return e.withSession(cmd, func(s *session) error {
				c := s.app.Controls()
				md := ui.Checklist(s.app.Display(), c.Filter, c.Remaining)
				out, err := ui.RenderMarkdown(md, width())
				if err != nil {
					return err
				}
				fmt.Fprint(e.stdout, out)
				fmt.Fprintln(e.stdout, ui.ProgressBar(c.Completed, c.Total, 28))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the list instead of opening the interactive view")
	return cmd
}

func (e *env) runInteractive(cmd *cobra.Command) error {
	repo, kv, err := e.openRepository(cmd.Context())
	if err != nil {
		return err
	}
	defer kv.Close()
	// Bubble Tea owns the terminal; keep log lines out of it unless they go to a file.
	logger := e.logger
	if e.logOut == nil {
		logger = logging.NewNop()
	}
	return tui.Run(cmd.Context(), repo, router.NewMemoryLocation(e.cfg.Route), app.WithLogger(logger))
}

func width() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
