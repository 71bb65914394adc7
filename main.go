package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/alimasry/go-ot-rebase/ot"
	"github.com/alimasry/go-ot-rebase/server"
	"github.com/alimasry/go-ot-rebase/store"

	// Register the value operation kinds with the default registry.
	_ "github.com/alimasry/go-ot-rebase/values"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	project := flag.String("firestore-project", "", "GCP project for Firestore persistence (empty: in-memory only)")
	flushInterval := flag.Duration("flush-interval", 5*time.Second, "write-back flush interval for the Firestore cache")
	flag.Parse()

	var st store.DocumentStore = store.NewMemoryStore()
	if *project != "" {
		client, err := firestore.NewClient(context.Background(), *project)
		if err != nil {
			log.Fatalf("firestore client: %v", err)
		}
		defer client.Close()
		cached := store.NewCachedStore(store.NewFirestoreStore(client, nil), *flushInterval)
		defer cached.Close()
		st = cached
	}

	engine := &ot.ChainEngine{}
	hub := server.NewHub(st, engine, nil)
	go hub.Run()

	handler := server.NewHandler(hub)

	log.Printf("Starting server on %s", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatal(err)
	}
}
