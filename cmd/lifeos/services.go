package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/lifeos/pkg/checkout"
	"github.com/stefanpenner/lifeos/pkg/config"
	"github.com/stefanpenner/lifeos/pkg/gateway"
)

func (c *cli) checkoutCmd() *cobra.Command {
	var productID, priceID, mode, origin string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Start a checkout session for the premium plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := resolveProduct(productID, priceID)
			if err != nil {
				return err
			}
			m := product.Mode
			if mode != "" {
				m = checkout.Mode(mode)
			}
			if origin == "" {
				origin = c.cfg.Checkout.Origin
			}

			client := checkout.NewClient(c.cfg.Checkout.URL, c.cfg.Checkout.APIKey, c.logger)
			session, err := client.CreateSession(cmd.Context(), product.PriceID, m, origin)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), session)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f %s\nSession: %s\n", product.Name, float64(product.Price)/100, product.Currency, session.SessionID)
			if session.URL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Open %s to pay\n", session.URL)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&productID, "product", "", "Product id")
	cmd.Flags().StringVar(&priceID, "price", "", "Price id (default: the premium plan)")
	cmd.Flags().StringVar(&mode, "mode", "", "payment or subscription (default: the product's mode)")
	cmd.Flags().StringVar(&origin, "origin", "", "Where the browser returns after checkout")

	confirm := &cobra.Command{
		Use:   "confirm <return-url>",
		Short: "Read the session id from the checkout return URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := checkout.SessionIDFromReturnURL(args[0])
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), map[string]string{"sessionId": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Payment confirmed: %s\n", id)
			return nil
		},
	}

	products := &cobra.Command{
		Use:   "products",
		Short: "List products on sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), checkout.Catalog)
			}
			for _, p := range checkout.Catalog {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %.2f %s (%s)\n  %s\n", p.ID, p.Name, float64(p.Price)/100, p.Currency, p.Mode, p.Description)
			}
			return nil
		},
	}

	cmd.AddCommand(confirm, products)
	return cmd
}

// resolveProduct picks the product to buy. With neither flag set it is the
// first product in the catalog.
func resolveProduct(productID, priceID string) (checkout.Product, error) {
	switch {
	case productID != "":
		p, ok := checkout.ProductByID(productID)
		if !ok {
			return checkout.Product{}, fmt.Errorf("unknown product %s", productID)
		}
		return p, nil
	case priceID != "":
		p, ok := checkout.ProductByPriceID(priceID)
		if !ok {
			return checkout.Product{}, fmt.Errorf("unknown price %s", priceID)
		}
		return p, nil
	case len(checkout.Catalog) > 0:
		return checkout.Catalog[0], nil
	default:
		return checkout.Product{}, errors.New("no products on sale")
	}
}

func (c *cli) gatewayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Run the AI analysis gateway",
	}

	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the AI analysis functions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			llm := c.cfg.LLM
			gen, err := gateway.NewGenAIGenerator(cmd.Context(), llm.APIKey, llm.Model, llm.Temperature, llm.MaxTokens)
			if err != nil {
				return err
			}
			c.logger.Info("starting gateway", zap.String("model", llm.Model), zap.String("addr", addr))
			return gateway.NewServer(gen, c.store, c.logger).ListenAndServe(cmd.Context(), addr)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	cmd.AddCommand(serve)
	return cmd
}

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			masked := *c.cfg
			masked.Gateway.APIKey = mask(masked.Gateway.APIKey)
			masked.Checkout.APIKey = mask(masked.Checkout.APIKey)
			masked.LLM.APIKey = mask(masked.LLM.APIKey)
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), masked)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", filepath.Join(c.cfg.DataDir, config.FileName))
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(masked)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml to the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(c.cfg.DataDir, config.FileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg := config.DefaultConfig()
			cfg.UserID = c.cfg.UserID
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func mask(secret string) string {
	if len(secret) <= 4 {
		if secret == "" {
			return ""
		}
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
