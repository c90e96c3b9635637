package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mytheresa/go-catalog/app/api"
	"github.com/mytheresa/go-catalog/paginator"
	"github.com/mytheresa/go-catalog/view"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List, add and update products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of products, a category or everything",
	Args:  cobra.NoArgs,
	RunE:  runProductsList,
}

var productsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product",
	Args:  cobra.NoArgs,
	RunE:  runProductsAdd,
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a product, keeping the fields that are not given",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsUpdate,
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd, productsAddCmd, productsUpdateCmd)

	productsListCmd.Flags().Int("page", 1, "Page to show")
	productsListCmd.Flags().Uint("category", 0, "Only show products of this category")
	productsListCmd.Flags().Bool("all", false, "Show every product without paging")
	productsListCmd.MarkFlagsMutuallyExclusive("page", "category", "all")

	for _, c := range []*cobra.Command{productsAddCmd, productsUpdateCmd} {
		productFlags(c.Flags())
	}
	_ = productsAddCmd.MarkFlagRequired("name")
	_ = productsAddCmd.MarkFlagRequired("description")
	_ = productsAddCmd.MarkFlagRequired("brand")
	_ = productsAddCmd.MarkFlagRequired("price")
}

func productFlags(f *pflag.FlagSet) {
	f.String("name", "", "Product name")
	f.String("description", "", "Product description")
	f.String("brand", "", "Product brand")
	f.String("price", "", "Product price")
	f.Uint("category", 0, "Category id (0 for none)")
}

// applyProductFlags overwrites the fields of in whose flags were set.
func applyProductFlags(f *pflag.FlagSet, in *api.ProductInput) error {
	if f.Changed("name") {
		in.Name, _ = f.GetString("name")
	}
	if f.Changed("description") {
		in.Description, _ = f.GetString("description")
	}
	if f.Changed("brand") {
		in.Brand, _ = f.GetString("brand")
	}
	if f.Changed("price") {
		raw, _ := f.GetString("price")
		price, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid price %q: must be a number", raw)
		}
		in.Price = price
	}
	if f.Changed("category") {
		id, _ := f.GetUint("category")
		if id == 0 {
			in.CategoryID = nil
		} else {
			in.CategoryID = &id
		}
	}
	return nil
}

func runProductsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger(os.Stderr)
	ctrl := newController(newClient(logger), stderrNotices(cmd.ErrOrStderr()), logger)

	flags := cmd.Flags()
	all, _ := flags.GetBool("all")
	categoryID, _ := flags.GetUint("category")
	page, _ := flags.GetInt("page")

	var err error
	switch {
	case all:
		err = ctrl.ShowAll(ctx)
	case flags.Changed("category"):
		err = ctrl.SelectCategory(ctx, categoryID)
	default:
		err = ctrl.GoToPage(ctx, page)
	}
	if err != nil {
		return reported(err)
	}

	printProducts(cmd.OutOrStdout(), ctrl.Snapshot())
	return nil
}

func runProductsAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger(os.Stderr)
	ctrl := newController(newClient(logger), stderrNotices(cmd.ErrOrStderr()), logger)

	var input api.ProductInput
	if err := applyProductFlags(cmd.Flags(), &input); err != nil {
		return err
	}
	if err := ctrl.SubmitCreate(ctx, input); err != nil {
		return reported(err)
	}
	return nil
}

func runProductsUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	ctx := cmd.Context()
	logger := newLogger(os.Stderr)
	ctrl := newController(newClient(logger), stderrNotices(cmd.ErrOrStderr()), logger)

	if err := ctrl.ShowAll(ctx); err != nil {
		return reported(err)
	}
	if err := ctrl.Select(uint(id)); err != nil {
		return fmt.Errorf("product %d: %w", id, err)
	}

	input := ctrl.Snapshot().Editing.Input()
	if err := applyProductFlags(cmd.Flags(), &input); err != nil {
		return err
	}
	if err := ctrl.SubmitUpdate(ctx, input); err != nil {
		return reported(err)
	}
	return nil
}

func printProducts(w io.Writer, snap view.Snapshot) {
	if snap.Empty() {
		fmt.Fprintln(w, "No products found.")
	} else {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "NAME", "BRAND", "PRICE", "CATEGORY", "DESCRIPTION")
		for _, p := range snap.Records {
			category := "-"
			if p.CategoryName != "" {
				category = p.CategoryName
			} else if p.CategoryID != nil {
				category = strconv.FormatUint(uint64(*p.CategoryID), 10)
			}
			t.Row(strconv.FormatUint(uint64(p.ID), 10), p.Name, p.Brand, p.Price.StringFixed(2), category, p.Description)
		}
		fmt.Fprintln(w, t.String())
	}

	if snap.Mode == view.ModePaged {
		fmt.Fprintln(w, controlsLine(snap.Controls))
	}
}

func controlsLine(controls []paginator.Control) string {
	if len(controls) == 0 {
		return paginator.NoMorePages
	}
	labels := make([]string, 0, len(controls))
	for _, ctl := range controls {
		label := "[" + ctl.Label + "]"
		if ctl.Current {
			label = "*" + label
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, " ")
}
