package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lox/partycards/internal/packs"
	"github.com/lox/partycards/internal/tui"
)

// PacksCmd groups the pack cache commands
type PacksCmd struct {
	List     PacksListCmd     `cmd:"" default:"1" help:"List cached collections and their packs"`
	Download PacksDownloadCmd `cmd:"" help:"Download collections from configured sources"`
	Import   PacksImportCmd   `cmd:"" help:"Import a collection from a local JSON file"`
	Delete   PacksDeleteCmd   `cmd:"" help:"Remove a cached collection"`
	Show     PacksShowCmd     `cmd:"" help:"Show the cards of one pack"`
}

type PacksListCmd struct{}

func (c *PacksListCmd) Run(g *Globals) error {
	a, err := setup(context.Background(), g)
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.manager.Entries()
	if len(entries) == 0 {
		fmt.Println("No pack collections cached. Run 'partycards packs download' first.")
		return nil
	}
	for _, e := range entries {
		fmt.Println(tui.HeaderStyle.Render(e.Name))
		fmt.Println(tui.InfoStyle.Render(fmt.Sprintf("%d white, %d black, loaded %s",
			len(e.Collection.White), len(e.Collection.Black), e.LoadedAt.Format("2006-01-02 15:04"))))
		for _, p := range packs.ListPacks(e.Collection) {
			official := ""
			if p.Pack.Official {
				official = " (official)"
			}
			fmt.Printf("  %s:%s  %s%s  [%d white, %d black]\n",
				e.Name, p.Key, p.Pack.Name, official, len(p.Pack.White), len(p.Pack.Black))
		}
	}
	return nil
}

type PacksDownloadCmd struct {
	Names   []string `arg:"" optional:"" help:"Source names to download (default: all configured sources)"`
	BaseURL string   `help:"Base URL for relative source URLs (overrides config and $PARTYCARDS_SERVER)"`
}

func (c *PacksDownloadCmd) Run(g *Globals) error {
	a, err := setup(context.Background(), g)
	if err != nil {
		return err
	}
	defer a.Close()

	if c.BaseURL != "" {
		a.cfg.Server.BaseURL = c.BaseURL
		a.fetcher.Next = packs.NewHTTPFetcher(c.BaseURL, fetchTimeout)
	}

	sources := a.cfg.PackSources()
	if len(c.Names) > 0 {
		sources = sources[:0:0]
		for _, name := range c.Names {
			src, ok := a.cfg.GetSource(name)
			if !ok {
				return fmt.Errorf("unknown source %q, configured: %s", name, strings.Join(sourceNames(a.cfg.PackSources()), ", "))
			}
			sources = append(sources, src)
		}
	}

	ctx := setupSignalHandler(a.logger)
	if err := a.manager.DownloadAll(ctx, sources); err != nil {
		return err
	}
	for _, src := range sources {
		fmt.Printf("Downloaded %s\n", src.Name)
	}
	return nil
}

type PacksImportCmd struct {
	Name string `arg:"" help:"Collection name to store the file under"`
	File string `arg:"" type:"existingfile" help:"Pack collection JSON file"`
}

func (c *PacksImportCmd) Run(g *Globals) error {
	a, err := setup(context.Background(), g)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	e, err := a.manager.Import(context.Background(), c.Name, data)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %s: %d packs\n", c.Name, len(e.Collection.Packs))
	return nil
}

type PacksDeleteCmd struct {
	Name string `arg:"" help:"Collection to remove"`
}

func (c *PacksDeleteCmd) Run(g *Globals) error {
	a, err := setup(context.Background(), g)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.manager.Get(c.Name); !ok {
		return fmt.Errorf("%w: '%s'", packs.ErrCollectionNotFound, c.Name)
	}
	if err := a.manager.Delete(context.Background(), c.Name); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", c.Name)
	return nil
}

type PacksShowCmd struct {
	Selection string `arg:"" help:"Pack to show, as collection:pack"`
}

func (c *PacksShowCmd) Run(g *Globals) error {
	a, err := setup(context.Background(), g)
	if err != nil {
		return err
	}
	defer a.Close()

	sels, err := packs.ParseRawSelections(c.Selection)
	if err != nil {
		return err
	}
	if len(sels) != 1 {
		return fmt.Errorf("expected exactly one collection:pack, got %d", len(sels))
	}
	cards, err := a.manager.ResolveRaw(sels)
	if err != nil {
		return err
	}

	fmt.Println(tui.HeaderStyle.Render(fmt.Sprintf("Black cards (%d)", len(cards.Black))))
	for _, b := range cards.Black {
		fmt.Printf("  [pick %d] %s\n", b.Pick, b.Text)
	}
	fmt.Println(tui.HeaderStyle.Render(fmt.Sprintf("White cards (%d)", len(cards.White))))
	for _, w := range cards.White {
		fmt.Printf("  %s\n", w)
	}
	return nil
}
