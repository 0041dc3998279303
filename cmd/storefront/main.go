package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"storefront-client/config"
	"storefront-client/internal/catalog"
	"storefront-client/internal/domain"
	memcache "storefront-client/internal/infrastructure/cache"
	"storefront-client/internal/listing"
	"storefront-client/internal/store"
	"storefront-client/pkg/localstore"
	"storefront-client/pkg/logger"
)

type app struct {
	cfg      *config.Config
	api      *catalog.Client
	cart     *store.Cart
	wishlist *store.Wishlist
	filter   *store.Filter
	orders   *store.Orders
	engine   *listing.Engine
}

func main() {
	cfg := config.LoadConfig()

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Local storage (stands in for the browser's origin-scoped storage)
	storage, err := localstore.New(cfg.StateDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open state directory")
	}

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := memcache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Catalog API client
	api := catalog.NewClient(catalog.Options{
		BaseURL:    cfg.CatalogBaseURL,
		Timeout:    cfg.CatalogTimeout,
		Retries:    cfg.CatalogRetries,
		RateLimit:  cfg.CatalogRateLimit,
		RateBurst:  cfg.CatalogRateBurst,
		Cache:      memCache,
		ProductTTL: cfg.CacheProductTTL,
		ListTTL:    cfg.CacheCategoryTTL,
	})

	ctx := context.Background()
	notifier := toastNotifier{}

	// --- Stores ---
	// Constructed once here and injected everywhere; no package globals.
	cart := store.NewCart(storage, notifier, cfg.MaxCartQuantity)
	wishlist := store.NewWishlist(ctx, api, storage, notifier, store.WishlistOptions{
		Concurrency: cfg.HydrateConcurrency,
	})
	filter := store.NewFilter(store.NewMemoryBar(""), notifier)
	orders := store.NewOrders(storage, notifier)
	engine := listing.NewEngine(api, cfg.PageSize)

	a := &app{
		cfg:      cfg,
		api:      api,
		cart:     cart,
		wishlist: wishlist,
		filter:   filter,
		orders:   orders,
		engine:   engine,
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	switch args[0] {
	case "list":
		return a.cmdList(ctx, args[1:])
	case "search":
		return a.cmdSearch(ctx, args[1:])
	case "product":
		return a.cmdProduct(ctx, args[1:])
	case "brands":
		return a.cmdStrings(ctx, a.api.ListBrands)
	case "categories":
		return a.cmdStrings(ctx, a.api.ListCategories)
	case "cart":
		return a.cmdCart(ctx, args[1:])
	case "wish":
		return a.cmdWish(ctx, args[1:])
	case "checkout":
		return a.cmdCheckout()
	case "orders":
		return a.cmdOrders()
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	// Walk the filter store's setters so the listing goes through the same
	// committed query the page would use.
	for i := 0; i+1 < len(args); i += 2 {
		switch args[i] {
		case "--category":
			a.filter.SetCategory(args[i+1])
		case "--brand":
			a.filter.ToggleBrand(args[i+1])
		case "--color":
			a.filter.ToggleColor(args[i+1])
		case "--sort":
			a.filter.SetSortBy(args[i+1])
		case "--page":
			page, err := strconv.Atoi(args[i+1])
			if err != nil {
				return fmt.Errorf("invalid page %q", args[i+1])
			}
			a.filter.SetPage(page)
		default:
			return fmt.Errorf("unknown flag %q", args[i])
		}
	}

	result := a.engine.Load(ctx, a.filter.Query())
	printResult(result)
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: storefront search <query>")
	}
	result := a.engine.Search(ctx, a.filter.Query(), args[0])
	printResult(result)
	return nil
}

func (a *app) cmdProduct(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	p, err := a.api.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("#%d  %s\n", p.ID, p.Title)
	fmt.Printf("  %s / %s / %s\n", p.Category, p.Brand, p.Color)
	fmt.Printf("  $%.2f", p.EffectivePrice())
	if p.Discount > 0 {
		fmt.Printf("  (was $%.2f, -%.0f%%)", p.Price, p.Discount)
	}
	fmt.Printf("  rating %.1f  stock %d\n", p.Rating, p.Stock)
	return nil
}

func (a *app) cmdStrings(ctx context.Context, fetch func(context.Context) ([]string, error)) error {
	list, err := fetch(ctx)
	if err != nil {
		return err
	}
	for _, s := range list {
		fmt.Println(s)
	}
	return nil
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "add":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		p, err := a.api.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		a.cart.Add(*p)
	case "rm":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		a.cart.Remove(id)
	case "inc":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		a.cart.IncreaseQty(id)
	case "dec":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		a.cart.DecreaseQty(id)
	case "clear":
		a.cart.Clear()
	case "show":
		for _, l := range a.cart.Lines() {
			fmt.Printf("#%d  %-40s x%d  $%.2f\n", l.ProductID, l.Title, l.Quantity, l.LineTotal())
		}
		fmt.Printf("items: %d  total: $%.2f\n", a.cart.TotalItems(), a.cart.TotalPrice())
	default:
		return fmt.Errorf("usage: storefront cart [add|rm|inc|dec|clear|show]")
	}
	return nil
}

func (a *app) cmdWish(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "add":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		p, err := a.api.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		a.wishlist.Add(*p)
	case "rm":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		a.wishlist.Remove(id)
	case "toggle":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		a.wishlist.ToggleID(id)
	case "move":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		p, err := a.api.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		store.MoveToCart(a.wishlist, a.cart, *p)
	case "clear":
		a.wishlist.Clear()
	case "show":
		for _, p := range a.wishlist.Hydrate(ctx) {
			fmt.Printf("#%d  %-40s $%.2f\n", p.ID, p.Title, p.EffectivePrice())
		}
	default:
		return fmt.Errorf("usage: storefront wish [add|rm|toggle|move|clear|show]")
	}
	return nil
}

func (a *app) cmdCheckout() error {
	order, change := a.orders.Checkout(a.cart)
	if change.Kind == domain.ChangeRejected {
		return fmt.Errorf("checkout rejected: %s", change.Reason)
	}
	fmt.Printf("order %s  total $%.2f  (%d lines)\n", order.ID, order.Total, len(order.Items))
	return nil
}

func (a *app) cmdOrders() error {
	for _, o := range a.orders.History() {
		fmt.Printf("%s  %s  $%.2f  (%d lines)\n", o.Date.Format(time.RFC3339), o.ID, o.Total, len(o.Items))
	}
	return nil
}

func parseID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("product id required")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", args[0])
	}
	return id, nil
}

func printResult(r listing.Result) {
	for _, p := range r.Products {
		fmt.Printf("#%d  %-40s $%.2f  %s/%s  rating %.1f\n",
			p.ID, p.Title, p.EffectivePrice(), p.Category, p.Brand, p.Rating)
	}
	fmt.Printf("page %d/%d  (%d products)\n", r.Page, r.TotalPages, r.TotalItems)
}

func usage() {
	fmt.Println(`storefront <command>

  list [--category c] [--brand b] [--color c] [--sort s] [--page n]
  search <query>
  product <id>
  brands | categories
  cart [add|rm|inc|dec <id> | clear | show]
  wish [add|rm|toggle|move <id> | clear | show]
  checkout
  orders`)
}
