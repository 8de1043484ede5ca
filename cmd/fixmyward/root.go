package main

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fixmyward/ward-server/internal/models"
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "fixmyward",
		Short:         "Report and triage civic issues in your ward",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newWardsCmd(a),
		newReportCmd(a),
	)
	return root
}

func newSignupCmd(a *app) *cobra.Command {
	var req models.SignupRequest
	var role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a citizen or councillor account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Role = models.Role(strings.ToUpper(role))
			if req.Ward == "" {
				req.Ward = a.wards.All()[0].Name
			}
			if _, ok := a.wards.ByName(req.Ward); !ok {
				return fmt.Errorf("unknown ward %q, see `fixmyward wards`", req.Ward)
			}

			user, err := a.identity.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s created as %s in %s. You can now log in.\n", user.Username, user.Role, user.Ward)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Username, "username", "", "unique username")
	f.StringVar(&req.FullName, "full-name", "", "display name")
	f.StringVar(&req.Password, "password", "", "password")
	f.StringVar(&req.ConfirmPassword, "confirm-password", "", "repeat the password")
	f.StringVar(&role, "role", string(models.RoleCitizen), "CITIZEN or COUNCILLOR")
	f.StringVar(&req.Ward, "ward", "", "ward name (defaults to the first ward)")
	for _, name := range []string{"username", "full-name", "password", "confirm-password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.identity.Authenticate(cmd.Context(), username, password, models.Role(strings.ToUpper(role)))
			if err != nil {
				return err
			}
			if err := a.sessions.Save(cmd.Context(), user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s, %s)\n", user.FullName, user.Role, user.Ward)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&username, "username", "", "username")
	f.StringVar(&password, "password", "", "password")
	f.StringVar(&role, "role", string(models.RoleCitizen), "CITIZEN or COUNCILLOR")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) %s, %s\n", user.FullName, user.Username, user.Role, user.Ward)
			return nil
		},
	}
}

func newWardsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wards",
		Short: "List the wards and their councillors",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WARD\tCOUNCILLOR\tAREA")
			for _, w := range a.wards.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", w.Name, w.Councillor, w.Area)
			}
			return tw.Flush()
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "File, list and triage reports",
	}
	cmd.AddCommand(
		newReportSubmitCmd(a),
		newReportListCmd(a),
		newReportStatusCmd(a),
		newReportSummaryCmd(a),
	)
	return cmd
}

func newReportSubmitCmd(a *app) *cobra.Command {
	var sub models.ReportSubmission
	var imagePath string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "File a new report for your ward (citizens)",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			if imagePath != "" {
				if sub.Image, err = imageDataURI(imagePath); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "Drafting a formal description...")
			rep, err := a.reports.Submit(cmd.Context(), user, sub)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report %s filed in %s (%s)\n\n%s\n", rep.ID, rep.Ward, rep.Status, rep.Description)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&sub.Title, "title", "", "short title")
	f.StringVar(&sub.Note, "note", "", "what is wrong, with landmarks")
	f.StringVar(&imagePath, "image", "", "path to a photo")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("note")
	return cmd
}

func newReportListCmd(a *app) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your reports (citizens) or your ward's reports (councillors)",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.currentUser(cmd.Context())
			if err != nil {
				return err
			}

			var reports []models.Report
			if user.Role == models.RoleCouncillor {
				filter := models.ReportStatus(strings.ToUpper(status))
				if filter == "ALL" {
					filter = ""
				}
				reports, err = a.reports.WardReports(cmd.Context(), user, filter)
			} else {
				reports, err = a.reports.MyReports(cmd.Context(), user)
			}
			if err != nil {
				return err
			}

			if len(reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reports")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tFILED\tTITLE\tCITIZEN")
			for _, r := range reports {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Status, r.CreatedAt.Format("2006-01-02"), r.Title, r.CitizenName)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "ALL", "councillors: PENDING, STARTED, COMPLETED, REJECTED or ALL")
	return cmd
}

func newReportStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <report-id> <STATUS>",
		Short: "Set the status of a report in your ward (councillors)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			status := models.ReportStatus(strings.ToUpper(args[1]))
			if err := a.reports.Triage(cmd.Context(), user, args[0], status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report %s marked %s\n", args[0], status)
			return nil
		},
	}
}

func newReportSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count your ward's reports by status (councillors)",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			sum, err := a.reports.WardSummary(cmd.Context(), user)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if w, ok := a.wards.ByName(user.Ward); ok {
				fmt.Fprintf(out, "%s (%s), councillor %s\n", w.Name, w.Area, w.Councillor)
			}
			fmt.Fprintf(out, "pending=%d started=%d completed=%d rejected=%d citizens=%d\n",
				sum.Pending, sum.Started, sum.Completed, sum.Rejected, sum.Citizens)
			return nil
		},
	}
}

func imageDataURI(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
