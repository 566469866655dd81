package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/01moynul/sweetshop-golang/internal/cart"
)

func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local cart",
	}

	cmd.AddCommand(newCartShowCommand(rootOpts))
	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(newCartClearCommand(rootOpts))

	return cmd
}

func newCartShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			c, err := cart.Load(e.store)
			if err != nil {
				return err
			}
			return e.out.Cart(c)
		},
	}
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Put a sweet in the cart",
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
			c, err := cart.Load(e.store)
			if err != nil {
				return err
			}

			// The current stock level is the snapshot the cart checks against.
			sweet, err := e.client.GetSweet(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := c.Add(*sweet, quantity); err != nil {
				return err
			}
			if err := c.Save(e.store); err != nil {
				return err
			}
			return e.out.Message(fmt.Sprintf("Added %d of %s to cart.", quantity, sweet.Name))
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "amount to add")
	return cmd
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Take a sweet out of the cart",
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
			c, err := cart.Load(e.store)
			if err != nil {
				return err
			}
			if !c.Remove(id) {
				return fmt.Errorf("sweet #%d is not in the cart", id)
			}
			if err := c.Save(e.store); err != nil {
				return err
			}
			return e.out.Message("Item removed from cart.")
		},
	}
}

func newCartClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			c := cart.New()
			if err := c.Save(e.store); err != nil {
				return err
			}
			return e.out.Message("Cart cleared.")
		},
	}
}

func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Buy everything in the cart in one transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			if err := e.requireLogin(); err != nil {
				return err
			}
			c, err := cart.Load(e.store)
			if err != nil {
				return err
			}

			total := c.Total()
			if _, err := c.Checkout(cmd.Context(), e.client); err != nil {
				return e.apiError(err)
			}
			if err := c.Save(e.store); err != nil {
				return err
			}
			return e.out.Message("Purchase successful! Total: " + e.out.money(total.InexactFloat64()) + ". Thank you!")
		},
	}
}

func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show your purchase history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			if err := e.requireLogin(); err != nil {
				return err
			}
			history, err := e.client.History(cmd.Context())
			if err != nil {
				return e.apiError(err)
			}
			return e.out.History(history)
		},
	}
}
