package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addCategories(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats := rt.store.Categories()
			if rt.output.JSON {
				return rt.output.Print(cats)
			}
			rt.pp.Categories(cats, rt.store.Tasks())
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addCategory(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Add, rename or delete a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	complete := func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 || rt.store == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return rt.store.Categories(), cobra.ShellCompDirectiveNoFileComp
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.store.AddCategory(cmd.Context(), args[0]); err != nil {
				return rt.output.HandleError(err)
			}
			return rt.done("Category added", rt.store.Categories())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:               "rename <from> <to>",
		Short:             "Rename a category and every task in it",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: complete,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.store.RenameCategory(cmd.Context(), args[0], args[1]); err != nil {
				return rt.output.HandleError(err)
			}
			return rt.done("Category renamed", rt.store.Categories())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:               "rm <name>",
		Short:             "Delete a category; its tasks move to the first remaining one",
		Aliases:           []string{"delete"},
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: complete,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.store.RemoveCategory(cmd.Context(), args[0]); err != nil {
				return rt.output.HandleError(err)
			}
			cats := rt.store.Categories()
			return rt.done(fmt.Sprintf("Category deleted; its tasks moved to %s", cats[0]), cats)
		},
	})

	topLevel.AddCommand(cmd)
}
