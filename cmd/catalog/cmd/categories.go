package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mytheresa/go-catalog/app/api"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List and add categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		logger := newLogger(os.Stderr)
		c := newClient(logger)

		legacy, _ := cmd.Flags().GetBool("legacy")
		var (
			list []api.Category
			err  error
		)
		if legacy {
			list, err = c.AllCategories(ctx)
		} else {
			list, err = c.ListCategories(ctx)
		}
		if err != nil {
			return err
		}
		printCategories(cmd.OutOrStdout(), list)
		return nil
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger(os.Stderr)
		ctrl := newController(newClient(logger), stderrNotices(cmd.ErrOrStderr()), logger)

		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		if err := ctrl.SubmitCategory(cmd.Context(), api.CategoryInput{Name: name, Description: description}); err != nil {
			return reported(err)
		}
		return nil
	},
}

var categoriesProductsCmd = &cobra.Command{
	Use:   "products TITLE",
	Short: "List the products of the category with the given name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stderr)
		products, err := newClient(logger).ProductsByCategoryTitle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
			return nil
		}
		for _, p := range products {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Brand, p.Price.StringFixed(2))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd, categoriesAddCmd, categoriesProductsCmd)

	categoriesListCmd.Flags().Bool("legacy", false, "Use the legacy all-categories endpoint")
	categoriesAddCmd.Flags().String("name", "", "Category name")
	categoriesAddCmd.Flags().String("description", "", "Category description")
	_ = categoriesAddCmd.MarkFlagRequired("name")
	_ = categoriesAddCmd.MarkFlagRequired("description")
}

func printCategories(w io.Writer, list []api.Category) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No categories found.")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "DESCRIPTION")
	for _, c := range list {
		t.Row(strconv.FormatUint(uint64(c.ID), 10), c.Name, c.Description)
	}
	fmt.Fprintln(w, t.String())
}
