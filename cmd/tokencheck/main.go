// tokencheck exercises the token acquisition chain and reports which source
// produced a usable access token.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"academy-catalog/internal/aggregate"
	"academy-catalog/internal/config"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sys := aggregate.FromConfig(config.Load(), logger)

	tok, ok := sys.Broker.Token(ctx)
	if !ok {
		log.Fatal("no token source produced a usable access token")
	}
	log.Printf("token acquired via %s, expires %s (in %s)",
		tok.Source, tok.Expiry.Format(time.RFC3339), time.Until(tok.Expiry).Round(time.Second))
}
