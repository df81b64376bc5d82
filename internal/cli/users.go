package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/haguru/bloguser/internal/interfaces"
	"github.com/haguru/bloguser/internal/models/dto"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func defaultStdinFd() int { return int(os.Stdin.Fd()) }

// stdinFd is the descriptor passwords are read from.
var stdinFd = defaultStdinFd

// promptPassword reads a password without echo when stdin is a terminal and
// a plain line otherwise.
func promptPassword(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	defer fmt.Fprintln(cmd.ErrOrStderr())

	fd := stdinFd()
	if term.IsTerminal(fd) {
		password, err := readPassword(fd)
		if err != nil {
			return "", fmt.Errorf("%s: %w", ErrReadingPassword, err)
		}
		return string(password), nil
	}

	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("%s: %w", ErrReadingPassword, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newCreateUserCommand(opts *rootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "create-user <username>",
		Short: "Create a user",
		Long: `Create a user after running the same form checks as the signup endpoint.
The password is prompted for twice when --password is not given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			confirm := password

			if !cmd.Flags().Changed(FlagPassword) {
				in := bufio.NewReader(cmd.InOrStdin())
				var err error
				if password, err = promptPassword(cmd, in, PromptPassword); err != nil {
					return err
				}
				if confirm, err = promptPassword(cmd, in, PromptPasswordAgain); err != nil {
					return err
				}
			}

			return opts.withService(cmd, func(service interfaces.UserService) error {
				user, err := service.RegisterUser(cmd.Context(), dto.UserSignupRequestDTO{
					Username:        &username,
					Password:        &password,
					PasswordConfirm: &confirm,
				})
				if err != nil {
					return fmt.Errorf("%s: %w", ErrCreatingUser, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgUserCreated, user.Username, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, FlagPassword, "", "Password for the new user (prompted when omitted)")
	return cmd
}

func newListUsersCommand(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(service interfaces.UserService) error {
				users, err := service.ListUsers(cmd.Context())
				if err != nil {
					return fmt.Errorf("%s: %w", ErrListingUsers, err)
				}

				w := cmd.OutOrStdout()
				if jsonOutput {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(users)
				}

				if len(users) == 0 {
					fmt.Fprintln(w, MsgNoUsers)
					return nil
				}

				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tUSERNAME\tCREATED")
				for _, u := range users {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Username, u.CreatedAt.UTC().Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, FlagJSON, false, "Output JSON instead of a table")
	return cmd
}

func newDeleteUserCommand(opts *rootOptions) *cobra.Command {
	var (
		id       int64
		username string
	)

	cmd := &cobra.Command{
		Use:   "delete-user",
		Short: "Delete a user by id or username",
		Long:  `Delete a user. Exactly one of --id or --username is required.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd, func(service interfaces.UserService) error {
				var (
					err    error
					target string
				)
				if cmd.Flags().Changed(FlagID) {
					target = fmt.Sprintf("id %d", id)
					err = service.DeleteUser(cmd.Context(), id)
				} else {
					target = username
					err = service.DeleteUserByUsername(cmd.Context(), username)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", ErrDeletingUser, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgUserDeleted, target)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&id, FlagID, 0, "Id of the user to delete")
	cmd.Flags().StringVar(&username, FlagUsername, "", "Username of the user to delete")
	cmd.MarkFlagsMutuallyExclusive(FlagID, FlagUsername)
	cmd.MarkFlagsOneRequired(FlagID, FlagUsername)
	return cmd
}
