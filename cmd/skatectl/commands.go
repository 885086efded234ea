package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sakif/skate-tracker/internal/client"
	"github.com/sakif/skate-tracker/internal/model"
)

// app is the state shared by every subcommand, built in PersistentPreRunE.
type app struct {
	baseURL   string
	tokenPath string

	api     *client.Client
	session *client.Session
	out     io.Writer
	in      io.Reader
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(os.Stdout, os.Stdin)
}

func newRootCmdWith(out io.Writer, in io.Reader) *cobra.Command {
	a := &app{out: out, in: in}

	root := &cobra.Command{
		Use:           "skatectl",
		Short:         "Track skateboarding tricks and challenges",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
	}

	defaultURL := os.Getenv("SKATE_API_URL")
	if defaultURL == "" {
		defaultURL = client.DefaultBaseURL
	}
	root.PersistentFlags().StringVar(&a.baseURL, "api", defaultURL, "API base URL (env SKATE_API_URL)")
	root.PersistentFlags().StringVar(&a.tokenPath, "session-file", "", "where the session token is stored")

	root.AddCommand(
		a.signupCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.tricksCmd(),
		a.myTricksCmd(),
		a.addTrickCmd(),
		a.masterCmd(),
		a.challengesCmd(),
		a.progressCmd(),
		a.profileCmd(),
	)
	return root
}

func (a *app) init(ctx context.Context) error {
	if err := a.build(); err != nil {
		return err
	}
	return a.session.Restore(ctx)
}

// build wires the client without contacting the server.
func (a *app) build() error {
	if a.tokenPath == "" {
		path, err := client.DefaultTokenPath()
		if err != nil {
			return err
		}
		a.tokenPath = path
	}
	a.api = client.New(a.baseURL)
	a.session = client.NewSession(a.api, client.NewFileTokenStore(a.tokenPath))
	return nil
}

func (a *app) requireLogin() error {
	if a.session.State() != client.Authenticated {
		return fmt.Errorf("not logged in; run: skatectl login <email>")
	}
	return nil
}

// readPassword reads one line from stdin. Input is echoed; pipe it in when
// that matters.
func (a *app) readPassword() (string, error) {
	fmt.Fprint(a.out, "Password: ")
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid trick id %q", s)
	}
	return id, nil
}

// =========================================================================
// ACCOUNT
// =========================================================================

func (a *app) signupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup <username> <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.readPassword()
			if err != nil {
				return err
			}
			res, err := a.api.Signup(cmd.Context(), args[0], args[1], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s (id %d)\n", res.Message, res.User.ID)
			return nil
		},
	}
}

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.readPassword()
			if err != nil {
				return err
			}
			if err := a.session.Login(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", a.session.User().Username)
			return nil
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		// works offline: no Restore round trip
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.build()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			u := a.session.User()
			fmt.Fprintf(a.out, "%s <%s>\n", u.Username, u.Email)
			return nil
		},
	}
}

// =========================================================================
// TRICKS
// =========================================================================

func (a *app) tricksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tricks",
		Short: "List the trick catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tricks, err := a.api.Tricks(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDIFFICULTY")
			for _, t := range tricks {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, t.Name, t.Difficulty)
			}
			return tw.Flush()
		},
	}
}

func (a *app) myTricksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "my-tricks",
		Short: "List your tricks and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			return a.printMyTricks()
		},
	}
}

func (a *app) printMyTricks() error {
	tricks := a.session.Tricks()
	if len(tricks) == 0 {
		fmt.Fprintln(a.out, "No tricks yet. Add one with: skatectl add-trick <id>")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDIFFICULTY\tSTATUS")
	for _, t := range tricks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Name, t.Difficulty, t.Status)
	}
	return tw.Flush()
}

func (a *app) addTrickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-trick <trick-id>",
		Short: "Start learning a catalog trick",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.session.AddTrick(cmd.Context(), id); err != nil {
				return err
			}
			return a.printMyTricks()
		},
	}
}

func (a *app) masterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "master <trick-id>",
		Short: "Mark one of your tricks mastered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.session.Master(cmd.Context(), id); err != nil {
				return err
			}
			return a.printMyTricks()
		},
	}
}

// =========================================================================
// CHALLENGES
// =========================================================================

func (a *app) challengesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenges",
		Short: "List challenges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			challenges, err := a.api.Challenges(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDIFFICULTY\tPOINTS")
			for _, c := range challenges {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", c.ID, c.Name, c.Difficulty, c.RewardPoints)
			}
			return tw.Flush()
		},
	}
}

func (a *app) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show challenge progress and total points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			p := a.session.Progress()

			fmt.Fprintf(a.out, "Mastered %d of %d tricks (%.0f%%)\n",
				p.MasteredCount, p.TotalTricks, p.TrickCompletion*100)

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CHALLENGE\tDIFFICULTY\tPROGRESS\tDONE")
			for _, c := range p.Challenges {
				done := ""
				if c.Completed {
					done = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%.0f%%\t%s\n",
					c.Challenge.Name, c.Challenge.Difficulty, c.Progress*100, done)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Total points: %d\n", p.TotalPoints)
			return nil
		},
	}
}

// =========================================================================
// PROFILE
// =========================================================================

func (a *app) profileCmd() *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your extended profile",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			p, err := a.session.UserProfile(cmd.Context())
			if err != nil {
				return err
			}
			printProfile(a.out, p)
			return nil
		},
	}

	var (
		update client.ProfileUpdate
		age    int
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Create or replace your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if cmd.Flags().Changed("age") {
				update.Age = &age
			}
			res, err := a.session.SaveProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, res.Message)
			printProfile(a.out, &res.Profile)
			return nil
		},
	}
	f := set.Flags()
	f.StringVar(&update.FirstName, "first-name", "", "first name (required)")
	f.StringVar(&update.LastName, "last-name", "", "last name")
	f.StringVar(&update.Bio, "bio", "", "short bio")
	f.IntVar(&age, "age", 0, "age")
	f.StringVar(&update.Location, "location", "", "city or spot")
	f.StringVar(&update.Stance, "stance", "", "goofy or regular")
	f.StringVar(&update.ProfilePicture, "picture", "", "profile picture URL")
	_ = set.MarkFlagRequired("first-name")

	profile.AddCommand(get, set)
	return profile
}

func printProfile(w io.Writer, p *model.UserProfile) {
	str := func(s *string) string {
		if s == nil {
			return "-"
		}
		return *s
	}
	age := "-"
	if p.Age != nil {
		age = strconv.Itoa(*p.Age)
	}
	stance := "-"
	if p.Stance != nil {
		stance = string(*p.Stance)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s %s\n", str(p.FirstName), str(p.LastName))
	fmt.Fprintf(tw, "Age:\t%s\n", age)
	fmt.Fprintf(tw, "Stance:\t%s\n", stance)
	fmt.Fprintf(tw, "Location:\t%s\n", str(p.Location))
	fmt.Fprintf(tw, "Bio:\t%s\n", str(p.Bio))
	fmt.Fprintf(tw, "Picture:\t%s\n", str(p.ProfilePicture))
	tw.Flush()
}
