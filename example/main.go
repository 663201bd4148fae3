// Command example mounts a small plinth application against an in-process
// document, drives it with synthetic events and dispatches, and prints the
// resulting markup. Run it with:
//
//	go run ./example
package main

import (
	"fmt"
	"log"

	"github.com/plinth-ui/plinth"
	"github.com/plinth-ui/plinth/lib/dom"
	"github.com/plinth-ui/plinth/lib/encoding"
	"github.com/plinth-ui/plinth/lib/i18n"
)

func newCatalog() (*i18n.Catalog, error) {
	catalog, err := i18n.NewCatalog("en")
	if err != nil {
		return nil, err
	}
	if err := catalog.Add("en", map[string]string{
		"app.title":   "Plinth Demo",
		"menu.toggle": "Menu",
	}); err != nil {
		return nil, err
	}
	if err := catalog.Add("fr", map[string]string{
		"app.title":   "Démo Plinth",
		"menu.toggle": "Menu principal",
	}); err != nil {
		return nil, err
	}
	return catalog, nil
}

func main() {
	cfg, err := loadConfig(configPath())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	catalog, err := newCatalog()
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	store := plinth.NewStore(AppState{
		Locale: cfg.Locale,
		Theme:  cfg.Theme,
	}, reduce, plinth.WithMaxDepth[AppState](32))
	journal := plinth.NewJournal(store)

	doc, err := dom.Parse(`<html><body><div id="app"></div></body></html>`)
	if err != nil {
		log.Fatalf("parse shell: %v", err)
	}

	app := NewApp(store, doc, catalog)
	if err := app.Mount(); err != nil {
		log.Fatalf("mount: %v", err)
	}

	// User interactions arrive as events on cached elements...
	doc.ByRef("inc").Fire("click", nil)
	doc.ByRef("inc").Fire("click", nil)
	doc.ByRef("toggle").Fire("click", nil)

	// ...while programmatic action sources dispatch through the journal so
	// the session can be replayed later.
	journal.Dispatch(plinth.Act(ActionToggleTheme))
	journal.Dispatch(plinth.ActWith(ActionSetLocale, "fr"))
	journal.Dispatch(plinth.Act("unknown-action")) // recorded, not applied

	fmt.Println(doc.HTML())
	fmt.Printf("state: %+v\n", store.State())
	for _, entry := range journal.Entries() {
		fmt.Printf("journal #%d %-14s applied=%v\n", entry.Seq, entry.Action.Type, entry.Applied)
	}

	enc, err := encoding.NewEncoder([]byte("example-snapshot-key"))
	if err != nil {
		log.Fatalf("encoder: %v", err)
	}
	snap, err := journal.Snapshot(enc, false)
	if err != nil {
		log.Fatalf("snapshot: %v", err)
	}
	fmt.Printf("snapshot (%d bytes, signed)\n", len(snap))

	if err := app.Destroy(); err != nil {
		log.Fatalf("destroy: %v", err)
	}
	fmt.Printf("after destroy: subscribers=%d listeners=%d\n",
		store.SubscriberCount(), doc.ListenerCount())
}
