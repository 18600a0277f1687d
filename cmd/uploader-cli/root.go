package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/browser"
	"github.com/orc-hfg/uploader/internal/domain/pages"
)

// Deps are the collaborators shared by all commands.
type Deps struct {
	Config   config.AppConfig
	Prompter Prompter
	Logger   *slog.Logger
}

type rootOptions struct {
	AppURL    string
	GuardMode string
	Locale    string
}

// Session menu entries.
const (
	actionSignIn   = "Sign in"
	actionWhoAmI   = "Who am I"
	actionProjects = "Open projects"
	actionOpen     = "Open page"
	actionSignOut  = "Sign out"
	actionQuit     = "Quit"
)

// NewRootCmd builds the uploader-cli command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "uploader-cli",
		Short:         "Uploader sign-in client",
		Long:          `A terminal client for the uploader's Madek cookie authentication: sign in, follow protected routes and sign out.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.AppURL, "app-url", "http://localhost:3000"+deps.Config.HTTP.PathPrefix,
		"absolute base URL of the uploader")
	cmd.PersistentFlags().StringVar(&opts.GuardMode, "guard-mode", string(deps.Config.Authentication.GuardMode),
		"client route guard: validate or session-state")
	cmd.PersistentFlags().StringVar(&opts.Locale, "locale", deps.Config.HTTP.DefaultLocale, "UI locale: de or en")

	cmd.AddCommand(
		newSignInCmd(deps, opts),
		newVisitCmd(deps, opts),
		newSessionCmd(deps, opts),
	)
	return cmd
}

func openTab(deps Deps, opts *rootOptions) (*browser.Tab, error) {
	var mode config.GuardMode
	if err := mode.UnmarshalText([]byte(opts.GuardMode)); err != nil {
		return nil, err
	}
	locale, ok := pages.ParseLocale(opts.Locale)
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", opts.Locale)
	}
	return browser.New(browser.Options{
		AppURL:        opts.AppURL,
		Auth:          deps.Config.Authentication,
		GuardMode:     mode,
		DefaultLocale: locale,
		Logger:        deps.Logger,
	})
}

type credentials struct {
	Login    string
	Password string
}

// resolve prompts for whatever was not passed as a flag.
func (c *credentials) resolve(p Prompter) error {
	if strings.TrimSpace(c.Login) == "" {
		login, err := p.PromptRequired("E-mail or login", false)
		if err != nil {
			return err
		}
		c.Login = login
	}
	if c.Password == "" {
		password, err := p.PromptRequired("Password", true)
		if err != nil {
			return err
		}
		c.Password = password
	}
	return nil
}

func signIn(ctx context.Context, out io.Writer, tab *browser.Tab, creds credentials) error {
	if _, err := tab.Navigate(ctx, pages.IndexPath(tab.Locale())); err != nil {
		return err
	}
	if err := tab.SignIn(ctx, creds.Login, creds.Password); err != nil {
		fmt.Fprintln(out, tab.FormMessage())
		return err
	}
	user, err := tab.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Signed in as %s (%s)\n", user.DisplayName(), user.Login)
	printPage(out, tab.Current())
	return nil
}

func printPage(out io.Writer, page browser.Page) {
	fmt.Fprintf(out, "%d %s %s\n", page.Status, page.Path, page.Title)
}

func newSignInCmd(deps Deps, root *rootOptions) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "sign-in",
		Short: "Sign in and open the projects page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := creds.resolve(deps.Prompter); err != nil {
				return err
			}
			tab, err := openTab(deps, root)
			if err != nil {
				return err
			}
			return signIn(cmd.Context(), cmd.OutOrStdout(), tab, creds)
		},
	}
	cmd.Flags().StringVar(&creds.Login, "login", "", "e-mail address or login")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newVisitCmd(deps Deps, root *rootOptions) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "visit <path>",
		Short: "Open an app page, optionally after signing in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := openTab(deps, root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if creds.Login != "" {
				if err := creds.resolve(deps.Prompter); err != nil {
					return err
				}
				if err := signIn(cmd.Context(), out, tab, creds); err != nil {
					return err
				}
			}
			page, err := tab.Navigate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPage(out, page)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Login, "login", "", "sign in with this login first")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newSessionCmd(deps Deps, root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Interactive session in a single tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tab, err := openTab(deps, root)
			if err != nil {
				return err
			}
			return runSession(cmd.Context(), cmd.OutOrStdout(), deps.Prompter, tab)
		},
	}
}

// runSession loops over the menu until Quit or an interrupted prompt.
// Failed actions are reported and the loop continues.
func runSession(ctx context.Context, out io.Writer, p Prompter, tab *browser.Tab) error {
	items := []string{actionSignIn, actionWhoAmI, actionProjects, actionOpen, actionSignOut, actionQuit}
	for {
		choice, err := p.SelectFromList("Action", items)
		if errors.Is(err, ErrInterrupted) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == actionQuit {
			return nil
		}
		if err := runAction(ctx, out, p, tab, choice); err != nil {
			if errors.Is(err, ErrInterrupted) {
				return nil
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func runAction(ctx context.Context, out io.Writer, p Prompter, tab *browser.Tab, choice string) error {
	switch choice {
	case actionSignIn:
		var creds credentials
		if err := creds.resolve(p); err != nil {
			return err
		}
		return signIn(ctx, out, tab, creds)
	case actionWhoAmI:
		user, err := tab.CurrentUser(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s, id %s)\n", user.DisplayName(), user.Login, user.ID)
		return nil
	case actionProjects:
		page, err := tab.Navigate(ctx, pages.PathFor(pages.NameProjects, tab.Locale(), ""))
		if err != nil {
			return err
		}
		printPage(out, page)
		return nil
	case actionOpen:
		path, err := p.PromptRequired("Path", false)
		if err != nil {
			return err
		}
		page, err := tab.Navigate(ctx, path)
		if err != nil {
			return err
		}
		printPage(out, page)
		return nil
	case actionSignOut:
		if err := tab.SignOut(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Signed out")
		printPage(out, tab.Current())
		return nil
	default:
		return fmt.Errorf("unknown action %q", choice)
	}
}
