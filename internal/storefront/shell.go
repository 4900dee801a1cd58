// Package storefront is the terminal front end of the shop: catalog pages,
// cart, checkout and account commands on top of shopclient.
package storefront

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Skotchmaster/storefront/pkg/cart"
	"github.com/Skotchmaster/storefront/pkg/shopclient"
)

const (
	MsgLoginFailed    = "Login failed. Please check your credentials."
	MsgRegisterFailed = "Registration failed. Please try again."
	MsgLoginRequired  = "You must be logged in to checkout."
	MsgEmptyCart      = "Your cart is empty."
	MsgNoPayment      = "Payment gateway is not configured; no order was placed."
)

// API is the subset of shopclient.Client the shell talks to.
type API interface {
	Register(ctx context.Context, name, email, password string) (*shopclient.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*shopclient.AuthResponse, error)
	Me(ctx context.Context) (*shopclient.User, error)
	Products(ctx context.Context) ([]shopclient.Product, error)
	Product(ctx context.Context, id string) (*shopclient.Product, error)
	SearchProducts(ctx context.Context, q string) ([]shopclient.Product, error)
	SetToken(token string)
	Token() string
}

type Shell struct {
	api  API
	cart *cart.Cart
	out  io.Writer
	user *shopclient.User
}

func NewShell(api API, c *cart.Cart, out io.Writer) *Shell {
	return &Shell{api: api, cart: c, out: out}
}

func (s *Shell) Cart() *cart.Cart { return s.cart }

func (s *Shell) User() *shopclient.User { return s.user }

// Run executes one command per line until quit or EOF.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	s.prompt()
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := s.Exec(ctx, sc.Text()); quit {
			return nil
		}
		s.prompt()
	}
	return sc.Err()
}

func (s *Shell) prompt() {
	fmt.Fprint(s.out, "> ")
}

// Exec runs a single command line and reports whether the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "quit", "exit":
		fmt.Fprintln(s.out, "Bye.")
		return true
	case "help":
		s.help()
	case "products", "ls":
		s.products(ctx)
	case "search":
		s.search(ctx, strings.Join(args, " "))
	case "product", "show":
		s.product(ctx, args)
	case "add":
		s.add(ctx, args)
	case "remove", "rm":
		s.remove(args)
	case "cart":
		s.showCart()
	case "clear":
		s.cart.Clear()
		fmt.Fprintln(s.out, "Cart cleared.")
	case "checkout":
		s.checkout()
	case "register":
		s.register(ctx, args)
	case "login":
		s.login(ctx, args)
	case "logout":
		s.logout()
	case "me":
		s.me(ctx)
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type help for the list of commands.\n", cmd)
	}
	return false
}

func (s *Shell) help() {
	fmt.Fprintln(s.out, `Commands:
  products                          list the catalog
  search <text>                     search the catalog
  product <id>                      show one product
  add <id> [qty]                    add to cart
  remove <id>                       remove from cart
  cart                              show cart
  clear                             empty cart
  checkout                          place order
  register <name> <email> <pass>    create an account
  login <email> <pass>              sign in
  logout                            sign out
  me                                show account
  quit                              exit`)
}

func (s *Shell) products(ctx context.Context) {
	ps, err := s.api.Products(ctx)
	if err != nil {
		s.fail(err, "Could not load products.")
		return
	}
	s.listProducts(ps)
}

func (s *Shell) search(ctx context.Context, q string) {
	if strings.TrimSpace(q) == "" {
		fmt.Fprintln(s.out, "Usage: search <text>")
		return
	}
	ps, err := s.api.SearchProducts(ctx, q)
	if err != nil {
		s.fail(err, "Search failed.")
		return
	}
	s.listProducts(ps)
}

func (s *Shell) listProducts(ps []shopclient.Product) {
	if len(ps) == 0 {
		fmt.Fprintln(s.out, "No products found.")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tSTOCK")
	for _, p := range ps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", p.ID, p.Title, cart.FormatCents(p.PriceCents), p.Stock)
	}
	_ = tw.Flush()
}

func (s *Shell) product(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: product <id>")
		return
	}
	p, err := s.api.Product(ctx, args[0])
	if err != nil {
		s.fail(err, "Could not load product.")
		return
	}
	fmt.Fprintf(s.out, "%s\n%s\nPrice: %s\nIn stock: %d\n", p.Title, p.Description, cart.FormatCents(p.PriceCents), p.Stock)
	if p.ImageURL != "" {
		fmt.Fprintf(s.out, "Image: %s\n", p.ImageURL)
	}
}

func (s *Shell) add(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(s.out, "Usage: add <id> [qty]")
		return
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			fmt.Fprintln(s.out, "Quantity must be a positive number.")
			return
		}
		qty = n
	}

	p, err := s.api.Product(ctx, args[0])
	if err != nil {
		s.fail(err, "Could not load product.")
		return
	}
	item := cart.Item{ID: p.ID, Title: p.Title, PriceCents: p.PriceCents, ImageURL: p.ImageURL}
	if err := s.cart.Add(item, qty); err != nil {
		fmt.Fprintf(s.out, "Could not add to cart: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Added %d x %s. Cart total: %s\n", qty, p.Title, cart.FormatCents(s.cart.Total()))
}

func (s *Shell) remove(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: remove <id>")
		return
	}
	if !s.cart.Remove(args[0]) {
		fmt.Fprintln(s.out, "That item is not in your cart.")
		return
	}
	fmt.Fprintf(s.out, "Removed. Cart total: %s\n", cart.FormatCents(s.cart.Total()))
}

func (s *Shell) showCart() {
	items := s.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(s.out, MsgEmptyCart)
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQTY\tPRICE\tSUBTOTAL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", it.ID, it.Title, it.Quantity,
			cart.FormatCents(it.PriceCents), cart.FormatCents(it.PriceCents*int64(it.Quantity)))
	}
	_ = tw.Flush()
	fmt.Fprintf(s.out, "Total: %s\n", cart.FormatCents(s.cart.Total()))
}

// checkout never contacts a payment provider; it only summarises the order.
func (s *Shell) checkout() {
	if s.api.Token() == "" {
		fmt.Fprintln(s.out, MsgLoginRequired)
		return
	}
	if s.cart.Len() == 0 {
		fmt.Fprintln(s.out, MsgEmptyCart)
		return
	}
	fmt.Fprintf(s.out, "Order total: %s\n", cart.FormatCents(s.cart.Total()))
	fmt.Fprintln(s.out, MsgNoPayment)
}

func (s *Shell) register(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "Usage: register <name> <email> <password>")
		return
	}
	name := strings.Join(args[:len(args)-2], " ")
	email, password := args[len(args)-2], args[len(args)-1]

	res, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.fail(err, MsgRegisterFailed)
		return
	}
	s.user = &res.User
	fmt.Fprintf(s.out, "Welcome, %s!\n", res.User.Name)
}

func (s *Shell) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: login <email> <password>")
		return
	}
	res, err := s.api.Login(ctx, args[0], args[1])
	if err != nil {
		s.fail(err, MsgLoginFailed)
		return
	}
	s.user = &res.User
	fmt.Fprintf(s.out, "Welcome back, %s!\n", res.User.Name)
}

// logout only forgets the token locally; the server keeps no sessions.
func (s *Shell) logout() {
	s.api.SetToken("")
	s.user = nil
	fmt.Fprintln(s.out, "Logged out.")
}

func (s *Shell) me(ctx context.Context) {
	if s.api.Token() == "" {
		fmt.Fprintln(s.out, "You are not logged in.")
		return
	}
	u, err := s.api.Me(ctx)
	if err != nil {
		s.fail(err, "Could not load your account.")
		return
	}
	s.user = u
	fmt.Fprintf(s.out, "%s <%s> (%s)\n", u.Name, u.Email, u.Role)
}

// fail prints the server's message when there is one and the fallback otherwise.
func (s *Shell) fail(err error, fallback string) {
	var ae *shopclient.APIError
	if errors.As(err, &ae) && ae.Message != "" {
		fmt.Fprintln(s.out, ae.Message)
		return
	}
	fmt.Fprintln(s.out, fallback)
}
