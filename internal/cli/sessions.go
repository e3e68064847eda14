package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored sessions",
	RunE:  runSessionsList,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	st, err := openStore(GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No sessions stored.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %s  %d documents, %d chunks (%s)\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), len(r.Documents), r.ChunkCount, r.Model)
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore(GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	fmt.Printf("Deleted session %s\n", args[0])
	return nil
}
