package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/interview"
	"github.com/abhisek/memora/internal/router"
)

// One-shot commands driving the interview from the shell. They mirror
// the HTTP API for scripting and debugging.

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Issue the next interview question",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		pack, _ := cmd.Flags().GetString("pack")
		q, err := e.svc.GetNextQuestion(cmd.Context(), resolveUserID(cmd), catalog.Pack(pack))
		if errors.Is(err, router.ErrExhausted) {
			fmt.Println("No more questions available.")
			return nil
		}
		if err != nil {
			return err
		}
		printQuestion(q)
		return nil
	},
}

var answerCmd = &cobra.Command{
	Use:   "answer [text]",
	Short: "Answer the pending question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		userID := resolveUserID(cmd)
		text := strings.Join(args, " ")

		pending, err := e.db.PendingEntry(ctx, userID)
		if err != nil {
			return err
		}
		if pending == nil {
			return fmt.Errorf("no pending question; run `memora ask` first")
		}

		if e.pipeline != nil {
			res, err := e.pipeline.IngestText(ctx, userID, pending.QuestionID, text)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded memory %s (%s)\n", res.Memory.ID, res.Memory.Title)
			if res.Followup != "" {
				fmt.Println("Follow-up:", res.Followup)
			}
			return nil
		}

		res, err := e.svc.Answer(ctx, userID, pending.QuestionID, uuid.NewString())
		if err != nil {
			return err
		}
		fmt.Println("Answer recorded.")
		if res.Followup != "" {
			fmt.Println("Follow-up:", res.Followup)
		}
		return nil
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Skip the pending question",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		userID := resolveUserID(cmd)
		pending, err := e.db.PendingEntry(ctx, userID)
		if err != nil {
			return err
		}
		if pending == nil {
			return fmt.Errorf("no pending question")
		}
		if err := e.svc.Skip(ctx, userID, pending.QuestionID); err != nil {
			return err
		}
		fmt.Println("Question skipped.")
		return nil
	},
}

var shuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Swap the pending question for a different one",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		q, err := e.svc.Shuffle(cmd.Context(), resolveUserID(cmd))
		if errors.Is(err, router.ErrExhausted) {
			fmt.Println("No alternative questions available.")
			return nil
		}
		if err != nil {
			return err
		}
		printQuestion(q)
		return nil
	},
}

func printQuestion(q *interview.NextQuestion) {
	fmt.Printf("[%s] %s\n", catalog.DisplayName(q.Pack), q.QuestionID)
	fmt.Println(q.Text)
}

func init() {
	askCmd.Flags().String("pack", "", "Restrict the question to one topic pack")
}
