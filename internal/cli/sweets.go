package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/01moynul/sweetshop-golang/internal/client"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var params client.SearchParams
	var minPrice, maxPrice float64

	cmd := &cobra.Command{
		Use:     "search [name]",
		Aliases: []string{"sweets"},
		Short:   "Search the catalog",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				params.Query = args[0]
			}
			if cmd.Flags().Changed("min") {
				params.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max") {
				params.MaxPrice = &maxPrice
			}

			sweets, err := e.client.Search(cmd.Context(), params)
			if err != nil {
				return err
			}
			return e.out.Sweets(sweets)
		},
	}

	cmd.Flags().StringVar(&params.Category, "category", "", "exact category")
	cmd.Flags().Float64Var(&minPrice, "min", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max", 0, "maximum price")

	return cmd
}

func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			categories, err := e.client.Categories(cmd.Context())
			if err != nil {
				return err
			}
			return e.out.Categories(categories)
		},
	}
}

// NewSweetCommand groups the single-sweet operations.
func NewSweetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweet",
		Short: "Show, buy or manage one sweet",
	}

	cmd.AddCommand(newSweetShowCommand(rootOpts))
	cmd.AddCommand(newSweetAddCommand(rootOpts))
	cmd.AddCommand(newSweetUpdateCommand(rootOpts))
	cmd.AddCommand(newSweetDeleteCommand(rootOpts))
	cmd.AddCommand(newSweetStockCommand(rootOpts, "purchase", "Buy a sweet right away"))
	cmd.AddCommand(newSweetStockCommand(rootOpts, "restock", "Add stock to a sweet (admin)"))

	return cmd
}

func parseSweetID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid sweet id %q", arg)
	}
	return id, nil
}

func newSweetShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one sweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSweetID(args[0])
			if err != nil {
				return err
			}
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			sweet, err := e.client.GetSweet(cmd.Context(), id)
			if err != nil {
				return err
			}
			return e.out.Sweet(sweet)
		},
	}
}

func newSweetAddCommand(rootOpts *RootOptions) *cobra.Command {
	var in client.SweetInput
	var image, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a sweet to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			if err := e.requireLogin(); err != nil {
				return err
			}
			if cmd.Flags().Changed("image") {
				in.Image = &image
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}

			sweet, err := e.client.CreateSweet(cmd.Context(), in)
			if err != nil {
				return e.apiError(err)
			}
			return e.out.Sweet(sweet)
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "name")
	cmd.Flags().StringVar(&in.Category, "category", "", "category")
	cmd.Flags().Float64Var(&in.Price, "price", 0, "price per kg")
	cmd.Flags().IntVar(&in.Quantity, "quantity", 0, "initial stock")
	cmd.Flags().StringVar(&image, "image", "", "image URL")
	cmd.Flags().StringVar(&description, "description", "", "description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newSweetUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var name, category, image, description string
	var price float64
	var quantity int

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change some fields of a sweet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSweetID(args[0])
			if err != nil {
				return err
			}
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			if err := e.requireLogin(); err != nil {
				return err
			}

			// Only flags given on the command line are sent.
			var patch models.SweetPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("price") {
				patch.Price = &price
			}
			if flags.Changed("quantity") {
				patch.Quantity = &quantity
			}
			if flags.Changed("image") {
				patch.Image = &image
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}

			sweet, err := e.client.UpdateSweet(cmd.Context(), id, patch)
			if err != nil {
				return e.apiError(err)
			}
			return e.out.Sweet(sweet)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().Float64Var(&price, "price", 0, "new price")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "new stock level")
	cmd.Flags().StringVar(&image, "image", "", "new image URL")
	cmd.Flags().StringVar(&description, "description", "", "new description")

	return cmd
}

func newSweetDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a sweet from the catalog (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSweetID(args[0])
			if err != nil {
				return err
			}
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			if err := e.requireLogin(); err != nil {
				return err
			}
			if err := e.client.DeleteSweet(cmd.Context(), id); err != nil {
				return e.apiError(err)
			}
			return e.out.Message(fmt.Sprintf("Deleted sweet #%d.", id))
		},
	}
}

// newSweetStockCommand builds "purchase" and "restock", which share their
// shape and differ only in the endpoint and the server-side default.
func newSweetStockCommand(rootOpts *RootOptions, action, short string) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSweetID(args[0])
			if err != nil {
				return err
			}
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			if err := e.requireLogin(); err != nil {
				return err
			}

			call := e.client.Purchase
			if action == "restock" {
				call = e.client.Restock
			}
			sweet, err := call(cmd.Context(), id, quantity)
			if err != nil {
				return e.apiError(err)
			}
			return e.out.Sweet(sweet)
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "amount (server default when omitted)")
	return cmd
}
