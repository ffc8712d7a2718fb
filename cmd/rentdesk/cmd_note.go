package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Read and add request notes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list <request-id>",
		Short: "Show a request's notes, newest first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			notes, err := apiClient.Notes.List(context.Background(), args[0])
			if err != nil {
				fatal("list notes", err)
			}
			switch flagFmt {
			case "table":
				rows := make([][]string, 0, len(notes))
				for _, n := range notes {
					rows = append(rows, []string{n.CreatedAt.Format("2006-01-02 15:04"), n.UserID, string(n.UserRole), n.Content})
				}
				formatTable([]string{"AT", "USER", "ROLE", "CONTENT"}, rows)
			case "quiet":
				for _, n := range notes {
					fmt.Println(n.ID)
				}
			default:
				formatJSON(notes)
			}
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <request-id> <content...>",
		Short: "Add a note to a request",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			note, err := apiClient.Notes.Add(context.Background(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				fatal("add note", err)
			}
			output(note, note.ID)
		},
	})
	return cmd
}
