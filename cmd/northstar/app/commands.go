package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/utc"
	"github.com/spf13/cobra"

	"github.com/northstarhq/northstar/internal/server"
	"github.com/northstarhq/northstar/pkg/okr"
	"github.com/northstarhq/northstar/pkg/reconcile"
)

// NewServeCommand creates the serve command.
func (a *App) NewServeCommand() *cobra.Command {
	var (
		host   string
		port   int
		noCORS bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the northstar HTTP API server",
		Long: `Serve starts the HTTP API on the given host and port. Every CLI
operation is mirrored by an endpoint under /api/v1.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.Store()
			if err != nil {
				return err
			}

			cfg := server.DefaultConfig()
			cfg.Host = host
			cfg.Port = port
			cfg.CORSEnabled = !noCORS

			srv := server.New(st, a.Engine(), a.logger, cfg)
			httpSrv := &http.Server{
				Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
				Handler:      srv.Handler(),
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
				IdleTimeout:  cfg.IdleTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpSrv.ListenAndServe()
			}()
			a.logger.Info().Str("addr", httpSrv.Addr).Msg("northstar API listening")

			select {
			case err := <-errCh:
				if stderrors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				a.logger.Info().Msg("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpSrv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "host to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	cmd.Flags().BoolVar(&noCORS, "no-cors", false, "disable CORS headers")

	return cmd
}

// NewAddCommand creates the add command.
func (a *App) NewAddCommand() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new work item",
		Long: `Add creates a work item with a generated scope statement, a deadline
two weeks out, the default category, and priority P3. A later reconcile
pass refines all four.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.Store()
			if err != nil {
				return err
			}

			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return fmt.Errorf("title is required")
			}

			scope, err := a.Engine().GenerateScope(cmd.Context(), title, notes)
			if err != nil {
				a.logger.Debug().Err(err).Msg("Scope generation failed, using templated fallback")
				scope = reconcile.FallbackScope(title)
			}

			now := utc.Now()
			item := okr.WorkItem{
				ID:        okr.NewID(),
				Title:     title,
				Notes:     strings.TrimSpace(notes),
				Scope:     scope,
				Deadline:  now.AddDate(0, 0, 14).Format(okr.DateFormat),
				Category:  okr.CategoryDefault(),
				Priority:  okr.PriorityDefault,
				CreatedAt: now,
				UpdatedAt: now,
			}

			if err := st.Create(cmd.Context(), item); err != nil {
				return err
			}
			return a.renderItem(item)
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes for the item")

	return cmd
}

// NewListCommand creates the list command.
func (a *App) NewListCommand() *cobra.Command {
	var (
		category string
		archived bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.Store()
			if err != nil {
				return err
			}

			active, err := st.ListActive(cmd.Context(), category)
			if err != nil {
				return err
			}

			var done []okr.ArchivedItem
			if archived {
				done, err = st.ListArchived(cmd.Context())
				if err != nil {
					return err
				}
			}

			return a.renderList(active, done)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only show items in this category")
	cmd.Flags().BoolVarP(&archived, "archived", "a", false, "include archived items")

	return cmd
}

// NewCompleteCommand creates the complete command.
func (a *App) NewCompleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a work item as done",
		Long: `Complete archives a work item and records how its completion date
compared to the deadline (negative means early).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.Store()
			if err != nil {
				return err
			}

			item, err := st.Complete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.renderArchived(item)
		},
	}

	return cmd
}

// NewReconcileCommand creates the reconcile command.
func (a *App) NewReconcileCommand() *cobra.Command {
	var (
		category string
		answers  []string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute category, priority, scope, and deadline for a category",
		Long: `Reconcile sends the active items of one category through the AI
pipeline and persists the result. Answers to clarifying questions from a
previous "questions" run can be passed with --answer id=text.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(category) == "" {
				return fmt.Errorf("--category is required")
			}

			st, err := a.Store()
			if err != nil {
				return err
			}

			items, err := st.ListActive(cmd.Context(), category)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				a.logger.Info().Str("category", category).Msg("No active items to reconcile")
				return nil
			}

			answerMap, err := parseAnswers(answers)
			if err != nil {
				return err
			}

			updates, err := a.Engine().Reconcile(cmd.Context(), items, &reconcile.BatchOptions{
				Category: category,
				Answers:  answerMap,
			})
			if err != nil {
				return err
			}

			if err := st.ApplyUpdates(cmd.Context(), updates); err != nil {
				return err
			}

			refreshed, err := st.ListActive(cmd.Context(), category)
			if err != nil {
				return err
			}
			return a.renderList(refreshed, nil)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category to reconcile (required)")
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "answer to a clarifying question, as id=text (repeatable)")

	return cmd
}

// NewQuestionsCommand creates the questions command.
func (a *App) NewQuestionsCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Generate clarifying questions for a reconcile pass",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.Store()
			if err != nil {
				return err
			}

			items, err := st.ListActive(cmd.Context(), category)
			if err != nil {
				return err
			}

			questions := a.Engine().GenerateQuestions(cmd.Context(), items, category)
			return a.renderQuestions(questions)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category to ask about")

	return cmd
}

// parseAnswers turns repeated id=text flags into the answer map the engine
// expects.
func parseAnswers(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	answers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		id, text, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid --answer %q, expected id=text", pair)
		}
		answers[strings.TrimSpace(id)] = strings.TrimSpace(text)
	}
	return answers, nil
}
