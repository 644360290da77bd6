// Command authgate-stub runs the in-process identity stub as a standalone
// HTTP server, mainly for manual testing of the authgate CLI and for demos
// where the real identity service is unavailable.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"authgate/internal/stub"
)

var (
	addr      = flag.String("addr", "127.0.0.1:8998", "listen address")
	seedUser  = flag.String("seed-user", "alice", "username of the seeded account")
	seedPass  = flag.String("seed-pass", "password123", "password of the seeded account")
	seedMail  = flag.String("seed-email", "alice@example.com", "email of the seeded account")
	tokenTTL  = flag.Duration("token-ttl", time.Hour, "lifetime of issued access tokens")
	noRefresh = flag.Bool("no-refresh", false, "do not issue refresh tokens on login")
)

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "usage: authgate-stub [flags]")
		os.Exit(2)
	}

	opts := []stub.Option{stub.WithTokenTTL(*tokenTTL)}
	if *noRefresh {
		opts = append(opts, stub.WithoutRefreshTokens())
	}
	server := stub.New(opts...)
	server.SeedAccount(stub.Account{
		Username: *seedUser,
		Email:    *seedMail,
		Password: *seedPass,
	})

	log.Printf("authgate-stub: listening on %s (seeded account %q)", *addr, *seedUser)
	if err := http.ListenAndServe(*addr, server.Handler()); err != nil {
		log.Fatalf("authgate-stub: %v", err)
	}
}
