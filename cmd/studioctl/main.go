// Command studioctl drives the goStudio session layer from a terminal. The
// session survives between invocations in a BoltDB file.
//
// Usage:
//
//	studioctl [flags] login <username> <password>
//	studioctl [flags] register <username> <email> <password>
//	studioctl [flags] logout
//	studioctl [flags] whoami
//	studioctl [flags] nav <path>
//	studioctl [flags] stories
//	studioctl [flags] music
//	studioctl [flags] metrics
//	studioctl [flags] serve
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	goStudio "github.com/MrEthical07/goStudio"
	"github.com/MrEthical07/goStudio/metrics/export/prometheus"
	"github.com/MrEthical07/goStudio/middleware"
	"github.com/MrEthical07/goStudio/result"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func main() {
	var (
		envFile  = flag.String("env", ".env", "dotenv file to load")
		apiURL   = flag.String("api", "", "API base URL; overrides GOSTUDIO_API_BASE_URL")
		boltPath = flag.String("session", "studio-session.db", "session file used when no storage backend is configured")
		addr     = flag.String("addr", "127.0.0.1:8090", "listen address for serve")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: studioctl [flags] login|register|logout|whoami|nav|stories|music|metrics|serve [args]")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := goStudio.ConfigFromEnv(*envFile)
	if err != nil {
		fatal("config", err)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if cfg.Storage.Backend == goStudio.StorageMemory {
		cfg.Storage.Backend = goStudio.StorageBolt
		cfg.Storage.BoltPath = *boltPath
	}

	client, err := goStudio.New().WithConfig(cfg).Build()
	if err != nil {
		fatal("build", err)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := client.Init(ctx); err != nil {
		fatal("restore session", err)
	}

	args := flag.Args()
	if err := run(ctx, client, args[0], args[1:], *addr); err != nil {
		client.Close()
		fatal(args[0], err)
	}
}

func run(ctx context.Context, client *goStudio.Client, cmd string, args []string, addr string) error {
	switch cmd {
	case "login":
		if len(args) != 2 {
			return errors.New("login <username> <password>")
		}
		r := client.Login(ctx, goStudio.Credentials{Username: args[0], Password: args[1]})
		if !r.Success {
			return errors.New(r.Message)
		}
		fmt.Printf("logged in as %s (id %d)\n", r.Data.Username, r.Data.UserID)

	case "register":
		if len(args) != 3 {
			return errors.New("register <username> <email> <password>")
		}
		if taken, known := result.Exists(client.CheckUsername(ctx, args[0])); known && taken {
			return errors.New("username already registered")
		}
		if taken, known := result.Exists(client.CheckEmail(ctx, args[1])); known && taken {
			return errors.New("email already registered")
		}
		r := client.Register(ctx, goStudio.RegisterRequest{Username: args[0], Email: args[1], Password: args[2]})
		if !r.Success {
			return errors.New(r.Message)
		}
		fmt.Printf("registered %s (id %d)\n", r.Data.Username, r.Data.UserID)

	case "logout":
		if err := client.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")

	case "whoami":
		u := client.User()
		if u == nil {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Printf("%s <%s> id=%d role=%s\n", u.Username, u.Email, u.ID, u.Role)

	case "nav":
		if len(args) != 1 {
			return errors.New("nav <path>")
		}
		d, err := client.Navigate(ctx, args[0])
		if err != nil {
			return err
		}
		for _, hop := range d.Hops {
			fmt.Printf("  %s -> %s (%s)\n", hop.From, hop.To, hop.Reason)
		}
		fmt.Printf("%s  %s\n", d.Location, client.Table().Title(d.Route.Name))

	case "stories":
		r := client.Stories().List(ctx)
		if !r.Success {
			return errors.New(r.Message)
		}
		for _, s := range r.Data {
			fmt.Printf("%5d  %s\n", s.ID, s.Title)
		}

	case "music":
		r := client.Music().List(ctx)
		if !r.Success {
			return errors.New(r.Message)
		}
		for _, t := range r.Data {
			fmt.Printf("%-24s %8d  %s\n", t.DisplayName, t.Size, client.Music().FileURL(t.Name))
		}

	case "metrics":
		fmt.Print(prometheus.NewPrometheusExporter(client).Render())

	case "serve":
		return serve(ctx, client, addr)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// serve exposes guarded page titles and the metrics endpoint over HTTP.
func serve(ctx context.Context, client *goStudio.Client, addr string) error {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Handle("/metrics", prometheus.NewPrometheusExporter(client).Handler())
	r.With(middleware.Guard(client.Guard())).Get("/*", func(w http.ResponseWriter, r *http.Request) {
		d, _ := middleware.DecisionFromContext(r.Context())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, client.Table().Title(d.Route.Name))
	})

	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("listening on %s\n", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "studioctl: %s: %v\n", what, err)
	os.Exit(1)
}
