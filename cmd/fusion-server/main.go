// Command fusion-server serves recorded fusion runs over HTTP: JSON run
// listings, per-run estimates, trajectory charts, and a SQL debugging
// console over the run store.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"

	"github.com/banshee-data/fusion.report/internal/api"
	"github.com/banshee-data/fusion.report/internal/db"
)

var (
	dbPath = flag.String("db", "fusion.db", "Run store path")
	listen = flag.String("listen", ":8080", "Listen address")
)

func main() {
	flag.Parse()

	store, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("opening run store: %v", err)
	}
	defer store.Close()

	mux := http.NewServeMux()
	mux.Handle("/", api.NewServer(store))

	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("creating tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://"+*dbPath, store.DB, &tailsql.DBOptions{
		Label: "Fusion DB",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	log.Printf("serving runs from %s on %s", *dbPath, *listen)
	log.Fatal(http.ListenAndServe(*listen, mux))
}
