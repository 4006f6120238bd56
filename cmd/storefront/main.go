// Command storefront is a terminal client for the storefront API. It
// drives the same cart, checkout and fulfillment components the mobile
// app embeds, with credentials persisted between invocations.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/joho/godotenv"

	clientauth "github.com/dokanapp/storefront-go/internal/auth"
	"github.com/dokanapp/storefront-go/internal/cart"
	"github.com/dokanapp/storefront-go/internal/catalog"
	"github.com/dokanapp/storefront-go/internal/checkout"
	"github.com/dokanapp/storefront-go/internal/fulfillment"
	"github.com/dokanapp/storefront-go/internal/session"
	"github.com/dokanapp/storefront-go/pkg/config"
	"github.com/dokanapp/storefront-go/pkg/enums"
	"github.com/dokanapp/storefront-go/pkg/logger"
	"github.com/dokanapp/storefront-go/pkg/storeapi"
)

const usage = `usage: storefront <command> [args]

accounts
  register-user <name> <email> <password>
  login-user <email> <password>
  register-vendor <name> <email> <phone> <shop> <password>
  login-vendor <email> <password>
  logout

shopping
  products
  categories
  cart
  cart-add <product-id> <quantity>
  cart-set <cart-id> <quantity>
  cart-remove <cart-id>
  checkout <address> <phone> <email>

fulfillment (vendors)
  orders
  complete-orders
  order-status <order-id> <pending|accepted|delivered>
`

type app struct {
	sess     *session.Session
	cart     *cart.Store
	checkout *checkout.Transaction
	board    *fulfillment.Board
	catalog  *catalog.Reader
	authn    *clientauth.Authenticator
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		fatal(err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Output:      os.Stderr,
	})

	a, err := buildApp(cfg, logg)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fatal(err)
	}
}

func buildApp(cfg *config.ClientConfig, logg *logger.Logger) (*app, error) {
	credPath := cfg.CredentialsFile
	if credPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		credPath = filepath.Join(home, ".storefront", "credentials.json")
	}
	store, err := session.NewFileStore(credPath)
	if err != nil {
		return nil, err
	}
	sess, err := session.Load(store)
	if err != nil {
		return nil, err
	}

	api, err := storeapi.NewClient(cfg.BaseURL, sess, storeapi.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, err
	}
	cartStore, err := cart.NewStore(api, sess, logg)
	if err != nil {
		return nil, err
	}
	tx, err := checkout.NewTransaction(api, cartStore, sess, logg)
	if err != nil {
		return nil, err
	}
	board, err := fulfillment.NewBoard(api, sess, logg)
	if err != nil {
		return nil, err
	}
	reader, err := catalog.NewReader(api)
	if err != nil {
		return nil, err
	}
	authn, err := clientauth.NewAuthenticator(api, sess, store, logg)
	if err != nil {
		return nil, err
	}
	return &app{
		sess:     sess,
		cart:     cartStore,
		checkout: tx,
		board:    board,
		catalog:  reader,
		authn:    authn,
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register-user":
		if len(args) != 3 {
			return fmt.Errorf("register-user needs <name> <email> <password>")
		}
		if err := a.authn.RegisterUser(ctx, args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("signed in as %s\n", a.sess.Name())
		return nil

	case "login-user":
		if len(args) != 2 {
			return fmt.Errorf("login-user needs <email> <password>")
		}
		if err := a.authn.LoginUser(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("signed in as %s\n", a.sess.Name())
		return nil

	case "register-vendor":
		if len(args) != 5 {
			return fmt.Errorf("register-vendor needs <name> <email> <phone> <shop> <password>")
		}
		if err := a.authn.RegisterVendor(ctx, args[0], args[1], args[2], args[3], args[4]); err != nil {
			return err
		}
		fmt.Printf("signed in as vendor %s\n", a.sess.Name())
		return nil

	case "login-vendor":
		if len(args) != 2 {
			return fmt.Errorf("login-vendor needs <email> <password>")
		}
		if err := a.authn.LoginVendor(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("signed in as vendor %s\n", a.sess.Name())
		return nil

	case "logout":
		if err := a.authn.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil

	case "products":
		if err := a.catalog.LoadProducts(ctx); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tTITLE\tPRICE\tSTOCK")
		for _, p := range a.catalog.Products() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Title, p.OfferPrice, p.StockQuantity)
		}
		return w.Flush()

	case "categories":
		if err := a.catalog.LoadCategories(ctx); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "ID\tNAME")
		for _, c := range a.catalog.Categories() {
			fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
		}
		return w.Flush()

	case "cart":
		if err := a.cart.Load(ctx); err != nil {
			return err
		}
		w := newTable()
		fmt.Fprintln(w, "CART-ID\tPRODUCT\tPRICE\tQTY")
		for _, item := range a.cart.Items() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", item.CartID, item.ProductName, item.Price, item.Quantity)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("total: %s\n", a.cart.Total())
		return nil

	case "cart-add":
		productID, quantity, err := idAndCount(args, "cart-add <product-id> <quantity>")
		if err != nil {
			return err
		}
		if err := a.cart.Add(ctx, productID, quantity); err != nil {
			return err
		}
		fmt.Println("added to cart")
		return nil

	case "cart-set":
		cartID, quantity, err := idAndCount(args, "cart-set <cart-id> <quantity>")
		if err != nil {
			return err
		}
		if err := a.cart.Load(ctx); err != nil {
			return err
		}
		if err := a.cart.SetQuantity(ctx, cartID, quantity); err != nil {
			return err
		}
		fmt.Println("cart updated")
		return nil

	case "cart-remove":
		if len(args) != 1 {
			return fmt.Errorf("cart-remove needs <cart-id>")
		}
		cartID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("cart id must be numeric")
		}
		if err := a.cart.Load(ctx); err != nil {
			return err
		}
		if err := a.cart.Remove(ctx, cartID); err != nil {
			return err
		}
		fmt.Println("removed from cart")
		return nil

	case "checkout":
		if len(args) != 3 {
			return fmt.Errorf("checkout needs <address> <phone> <email>")
		}
		if err := a.cart.Load(ctx); err != nil {
			return err
		}
		details := checkout.Details{Address: args[0], Phone: args[1], Email: args[2]}
		if err := a.checkout.Place(ctx, details); err != nil {
			return err
		}
		fmt.Println("order placed")
		return nil

	case "orders":
		if err := a.board.LoadActive(ctx); err != nil {
			return err
		}
		return printOrders(a.board.Active())

	case "complete-orders":
		if err := a.board.LoadCompleted(ctx); err != nil {
			return err
		}
		return printOrders(a.board.Completed())

	case "order-status":
		if len(args) != 2 {
			return fmt.Errorf("order-status needs <order-id> <status>")
		}
		orderID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("order id must be numeric")
		}
		status, err := enums.ParseOrderStatus(args[1])
		if err != nil {
			return err
		}
		if err := a.board.LoadActive(ctx); err != nil {
			return err
		}
		if err := a.board.SetStatus(ctx, orderID, status); err != nil {
			return err
		}
		fmt.Printf("order %d is now %s\n", orderID, status)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printOrders(orders []storeapi.Order) error {
	w := newTable()
	fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tADDRESS\tPLACED")
	for _, order := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			order.ID, order.Status, order.TotalAmount, order.Address,
			order.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func idAndCount(args []string, hint string) (int64, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%s", hint)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("id must be numeric")
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("quantity must be numeric")
	}
	return id, count, nil
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
	os.Exit(1)
}
