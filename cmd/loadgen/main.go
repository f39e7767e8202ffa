// Command loadgen exercises a running shoply API server: each worker creates
// a cart, fills it, and checks out, in a loop. Useful for demos and for
// smoke-testing the discount generation cadence under load.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"golang.org/x/sync/errgroup"
)

var products = []struct {
	id    string
	name  string
	price float64
}{
	{"prod-waffle", "Waffle with Berries", 6.50},
	{"prod-brulee", "Vanilla Bean Creme Brulee", 7.00},
	{"prod-macaron", "Macaron Mix of Five", 8.00},
	{"prod-tiramisu", "Classic Tiramisu", 5.50},
	{"prod-baklava", "Pistachio Baklava", 4.00},
}

func main() {
	var (
		baseURL string
		workers int
		orders  int
	)

	flag.StringVar(&baseURL, "addr", "http://localhost:8080", "base URL of the API server")
	flag.IntVar(&workers, "workers", 4, "concurrent workers")
	flag.IntVar(&orders, "orders", 25, "orders to place per worker")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	if err := run(ctx, baseURL, workers, orders); err != nil {
		slog.Error("load generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("load generation completed",
		slog.Int("orders", workers*orders),
		slog.Duration("elapsed", time.Since(start)),
	)
}

func run(ctx context.Context, baseURL string, workers, orders int) error {
	client := &http.Client{Timeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for w := range workers {
		g.Go(func() error {
			for i := range orders {
				if err := placeOrder(ctx, client, baseURL); err != nil {
					return errors.Wrapf(err, "worker %d order %d", w, i)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// placeOrder runs one full customer flow: create cart, add 1-3 items,
// check out without a manual code so auto-apply kicks in when available.
func placeOrder(ctx context.Context, client *http.Client, baseURL string) error {
	cartID, err := createCart(ctx, client, baseURL)
	if err != nil {
		return errors.Wrap(err, "create cart")
	}

	for range 1 + rand.IntN(3) {
		p := products[rand.IntN(len(products))]

		e := &jx.Encoder{}
		e.Obj(func(e *jx.Encoder) {
			e.Field("productId", func(e *jx.Encoder) { e.Str(p.id) })
			e.Field("name", func(e *jx.Encoder) { e.Str(p.name) })
			e.Field("price", func(e *jx.Encoder) { e.Float64(p.price) })
			e.Field("quantity", func(e *jx.Encoder) { e.Int(1 + rand.IntN(3)) })
		})

		url := fmt.Sprintf("%s/api/cart/%s/items", baseURL, cartID)
		if _, err := post(ctx, client, url, e.Bytes()); err != nil {
			return errors.Wrap(err, "add item")
		}
	}

	e := &jx.Encoder{}
	e.Obj(func(e *jx.Encoder) {
		e.Field("cartId", func(e *jx.Encoder) { e.Str(cartID) })
	})
	if _, err := post(ctx, client, baseURL+"/api/checkout", e.Bytes()); err != nil {
		return errors.Wrap(err, "checkout")
	}
	return nil
}

func createCart(ctx context.Context, client *http.Client, baseURL string) (string, error) {
	body, err := post(ctx, client, baseURL+"/api/cart", []byte("{}"))
	if err != nil {
		return "", err
	}

	var id string
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "id" {
			return d.Skip()
		}
		v, err := d.Str()
		id = v
		return err
	}); err != nil {
		return "", errors.Wrap(err, "decode cart")
	}
	if id == "" {
		return "", errors.New("server returned cart without id")
	}
	return id, nil
}

func post(ctx context.Context, client *http.Client, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("POST %s: status %d: %s", url, resp.StatusCode, data)
	}
	return data, nil
}
