package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lu-zhengda/escalytics/internal/app"
	"github.com/lu-zhengda/escalytics/internal/domain"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		fileFlag, subjectFlag, toFlag, exportFlag string
		enableFlag, disableFlag                   string
		fetchFlag, saveDraftFlag                  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an email and print the report",
		Long: "Analyze an email read from --file, from stdin, or fetched with --fetch as the\n" +
			"latest unread inbox message. Input may be plain text or a raw .eml message.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			sess, err := openSession(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.Close()

			cfg, err := sess.cfg.AnalysisConfig()
			if err != nil {
				return err
			}
			cfg, err = applyToggles(cfg, enableFlag, disableFlag)
			if err != nil {
				return err
			}

			var content domain.EmailContent
			source := domain.SourcePaste
			switch {
			case fetchFlag:
				content, err = sess.svc.LatestUnread(ctx)
				source = domain.SourceMailbox
			case fileFlag != "":
				content, err = readContentFile(fileFlag, sess.logger)
			default:
				content, err = readContent(cmd.InOrStdin(), sess.logger)
			}
			if err != nil {
				return withHint(err)
			}
			if subjectFlag != "" {
				content.Subject = subjectFlag
			}
			if toFlag != "" {
				content.From = domain.Address{Email: toFlag}
			}

			res, err := sess.svc.Analyze(ctx, content, cfg, source)
			if err != nil {
				return err
			}

			var draftID string
			if saveDraftFlag {
				if res.Draft == nil {
					return errors.New("no reply was drafted; enable the response analysis to save a draft")
				}
				draftID, err = sess.svc.SaveDraft(ctx, res.RunID, res.Draft)
				if err != nil {
					return withHint(fmt.Errorf("failed to save draft: %w", err))
				}
			}

			if exportFlag != "" {
				if err := app.ExportReport(exportFlag, res.Report); err != nil {
					return err
				}
			}

			if jsonFlag {
				return fprintJSON(out, toJSONReport(content, res, draftID, exportFlag))
			}
			return printReport(out, content, res, draftID, exportFlag)
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "read the email from a file instead of stdin")
	cmd.Flags().BoolVar(&fetchFlag, "fetch", false, "analyze the latest unread inbox message")
	cmd.Flags().StringVar(&subjectFlag, "subject", "", "subject to use for pasted text")
	cmd.Flags().StringVar(&enableFlag, "enable", "", "comma-separated analyses to enable")
	cmd.Flags().StringVar(&disableFlag, "disable", "", "comma-separated analyses to disable")
	cmd.Flags().BoolVar(&saveDraftFlag, "save-draft", false, "save the suggested reply as a Gmail draft")
	cmd.Flags().StringVar(&toFlag, "to", "", "recipient of the drafted reply")
	cmd.Flags().StringVar(&exportFlag, "export", "", "write the report to this file")
	cmd.MarkFlagsMutuallyExclusive("file", "fetch")
	return cmd
}

// applyToggles enables then disables the named analyses on a copy of cfg.
func applyToggles(cfg domain.AnalysisConfig, enable, disable string) (domain.AnalysisConfig, error) {
	on, err := domain.ParseAnalysisList(enable)
	if err != nil {
		return nil, fmt.Errorf("invalid --enable: %w", err)
	}
	off, err := domain.ParseAnalysisList(disable)
	if err != nil {
		return nil, fmt.Errorf("invalid --disable: %w", err)
	}

	out := cfg.Clone()
	for _, a := range on {
		out[a] = true
	}
	for _, a := range off {
		out[a] = false
	}
	return out, nil
}

// withHint adds a next step to errors from an unreachable mailbox.
func withHint(err error) error {
	switch {
	case errors.Is(err, app.ErrNoMailbox):
		return fmt.Errorf("%w; run 'escalytics account add' to connect Gmail", err)
	case app.IsUnavailable(err):
		return fmt.Errorf("%w; check your network connection and try again", err)
	}
	return err
}

func printReport(w io.Writer, content domain.EmailContent, res *app.Result, draftID, exportPath string) error {
	if res.Report.Subject != "" {
		fmt.Fprintf(w, "# %s\n\n", res.Report.Subject)
	}
	if envelope := envelopeLines(content); len(envelope) > 0 {
		fmt.Fprintf(w, "%s\n\n", strings.Join(envelope, "\n"))
	}
	if _, err := io.WriteString(w, res.Report.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if draftID != "" {
		fmt.Fprintf(w, "\nDraft saved: %s\n", draftID)
	}
	if exportPath != "" {
		fmt.Fprintf(w, "\nReport exported to %s\n", exportPath)
	}
	return nil
}

// envelopeLines lists the sender, recipients and date of a message.
// Pasted text yields none.
func envelopeLines(c domain.EmailContent) []string {
	var lines []string
	if c.From.Email != "" {
		lines = append(lines, "From: "+c.From.String())
	}
	if len(c.To) > 0 {
		lines = append(lines, "To:   "+domain.JoinAddresses(c.To))
	}
	if !c.Date.IsZero() {
		lines = append(lines, "Date: "+c.Date.Format(time.RFC1123Z))
	}
	return lines
}
