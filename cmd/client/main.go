package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/techLii/chatobi/internal/client/config"
	"github.com/techLii/chatobi/internal/domain"
)

// 명령줄 플래그. 비어 있으면 설정 파일과 CHATOBI_* 환경 변수 값을 사용합니다.
var (
	serverURL string
	email     string
	password  string
	token     string
	name      string
	signup    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "chatobi",
		Short:        "Chatobi: constituency chat for Nairobi in your terminal",
		SilenceUsage: true,
	}

	cobra.OnInitialize(config.LoadConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&serverURL, "server", "s", "", "WebSocket URL of the server")
	flags.StringVarP(&email, "email", "e", "", "email to sign in with")
	flags.StringVarP(&password, "password", "p", "", "password to sign in with")
	flags.StringVarP(&token, "token", "t", "", "resume a previous session with its token")
	flags.BoolVar(&signup, "signup", false, "create the account instead of signing in")
	flags.StringVarP(&name, "name", "n", "", "display name for --signup")

	rootCmd.AddCommand(
		viewCommand("chat <constituency>", "Read and post in a constituency chat", domain.ViewChat),
		viewCommand("leaderboard <constituency>", "Watch the authors with the most upvotes", domain.ViewLeaderboard),
		viewCommand("trending <constituency>", "Watch the best scoring recent messages", domain.ViewTrending),
		viewCommand("events <constituency>", "Watch the events of a constituency", domain.ViewEvents),
		dmCommand(),
		constituenciesCommand(),
		profileCommand(),
		eventCommand(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func viewCommand(use, short, kind string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), domain.OpenViewPayload{ViewID: kind, Kind: kind, Constituency: args[0]})
		},
	}
}

func dmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dm <user-id>",
		Short: "Open a private conversation with another user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), domain.OpenViewPayload{ViewID: domain.ViewConversation, Kind: domain.ViewConversation, Peer: args[0]})
		},
	}
}

func constituenciesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "constituencies",
		Short: "List the constituencies you can join",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), domain.TypeListConstituencies, nil)
		},
	}
}

func profileCommand() *cobra.Command {
	var age int
	var sex, location string

	cmd := &cobra.Command{
		Use:   "profile [user-id]",
		Short: "Show a profile, or update yours with --age, --sex and --location",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if !f.Changed("age") && !f.Changed("sex") && !f.Changed("location") {
				var p domain.GetProfilePayload
				if len(args) == 1 {
					p.UserID = args[0]
				}
				return runOnce(cmd.Context(), domain.TypeGetProfile, p)
			}
			if len(args) == 1 {
				return fmt.Errorf("only your own profile can be updated")
			}
			in := domain.ProfileInput{Sex: sex, Location: location}
			if f.Changed("age") {
				in.Age = &age
			}
			return runOnce(cmd.Context(), domain.TypeSaveProfile, in)
		},
	}
	cmd.Flags().IntVar(&age, "age", 0, "your age")
	cmd.Flags().StringVar(&sex, "sex", "", "Male, Female or Other")
	cmd.Flags().StringVar(&location, "location", "", "where you live")
	return cmd
}

func eventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Create or delete constituency events",
	}

	var in domain.EventInput
	var at string
	add := &cobra.Command{
		Use:   "add <constituency>",
		Short: "Announce an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.ParseInLocation("2006-01-02 15:04", at, time.Local)
			if err != nil {
				return fmt.Errorf("--at must look like 2006-01-02 15:04: %w", err)
			}
			in.StartTime = start
			return runOnce(cmd.Context(), domain.TypeCreateEvent, domain.CreateEventPayload{Constituency: args[0], EventInput: in})
		},
	}
	add.Flags().StringVar(&in.Title, "title", "", "event title")
	add.Flags().StringVar(&in.Description, "description", "", "what the event is about")
	add.Flags().StringVar(&in.Location, "location", "", "where it takes place")
	add.Flags().StringVar(&at, "at", "", "local start time, e.g. \"2026-11-02 18:00\"")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("at")

	rm := &cobra.Command{
		Use:   "rm <event-id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), domain.TypeDeleteEvent, domain.DeleteEventPayload{EventID: args[0]})
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}
