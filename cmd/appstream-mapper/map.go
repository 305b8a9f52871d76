package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/open-edge-platform/appstream-mapper/internal/appstream"
	"github.com/open-edge-platform/appstream-mapper/internal/catalog"
	"github.com/open-edge-platform/appstream-mapper/internal/config"
	"github.com/open-edge-platform/appstream-mapper/internal/feed"
	"github.com/open-edge-platform/appstream-mapper/internal/icons"
	"github.com/open-edge-platform/appstream-mapper/internal/mapping"
	"github.com/open-edge-platform/appstream-mapper/internal/registry"
	"github.com/open-edge-platform/appstream-mapper/internal/registry/nix"
	"github.com/open-edge-platform/appstream-mapper/internal/registry/rpmdir"
	"github.com/open-edge-platform/appstream-mapper/internal/registry/static"
	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
	"github.com/spf13/cobra"
)

// Map command flags
var (
	workers      int    = -1 // -1 means use config file value
	cacheDir     string = "" // Empty means use config file value
	outputDir    string = "" // Empty means use config file value
	feedSource   string = "" // Empty means use config file URL
	feedSig      string = "" // Detached signature for a local feed file
	registryName string = "" // Empty means use config file provider
	mappingsFile string = "" // Empty means use the embedded curated table
	noIcons      bool
	offline      bool
	mappingOnly  bool
)

// createMapCommand creates the map subcommand
func createMapCommand() *cobra.Command {
	mapCmd := &cobra.Command{
		Use:   "map [flags]",
		Short: "Correlate the AppStream feed with the package registry",
		Long: `Fetch the AppStream feed, query the configured package registry, correlate
the two, and write the merged catalog, downloaded icons, and the coverage
report into the output directory.`,
		Args: cobra.NoArgs,
		RunE: executeMap,
	}

	mapCmd.Flags().IntVarP(&workers, "workers", "w", -1,
		"Number of concurrent icon download workers")
	mapCmd.Flags().StringVarP(&cacheDir, "cache-dir", "d", "",
		"Feed cache directory")
	mapCmd.Flags().StringVarP(&outputDir, "output", "o", "",
		"Output directory for catalog, icons and report")
	mapCmd.Flags().StringVar(&feedSource, "feed", "",
		"Feed URL or local feed file (overrides configuration)")
	mapCmd.Flags().StringVar(&feedSig, "feed-sig", "",
		"Armored detached signature to verify the feed against")
	mapCmd.Flags().StringVar(&registryName, "registry", "",
		"Registry provider (nix, rpmdir, static)")
	mapCmd.Flags().StringVar(&mappingsFile, "mappings", "",
		"Curated mapping table YAML (overrides the embedded table)")
	mapCmd.Flags().BoolVar(&noIcons, "no-icons", false,
		"Skip icon downloads")
	mapCmd.Flags().BoolVar(&offline, "offline", false,
		"Never touch the network; rely on cache and local files")
	mapCmd.Flags().BoolVar(&mappingOnly, "mapping-only", false,
		"Only generate the mapping report, don't create the catalog")

	return mapCmd
}

// executeMap handles the map command execution logic
func executeMap(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("workers") {
		currentConfig := config.Global()
		currentConfig.Workers = workers
		config.SetGlobal(currentConfig)
	}
	if cmd.Flags().Changed("cache-dir") {
		currentConfig := config.Global()
		currentConfig.CacheDir = cacheDir
		config.SetGlobal(currentConfig)
	}
	if cmd.Flags().Changed("output") {
		currentConfig := config.Global()
		currentConfig.OutputDir = outputDir
		config.SetGlobal(currentConfig)
	}
	if cmd.Flags().Changed("registry") {
		currentConfig := config.Global()
		currentConfig.Registry.Provider = registryName
		config.SetGlobal(currentConfig)
	}

	log := logger.Logger()

	cacheDir, err := config.CacheDir()
	if err != nil {
		return err
	}
	outDir, err := config.OutputDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	// Fetch and parse the feed. Feed problems are fatal: without the source
	// catalog there is nothing to correlate.
	source := feedSource
	if source == "" {
		source = config.FeedURL()
	}
	fetcher := &feed.Fetcher{
		Source:   source,
		CacheDir: cacheDir,
		TTL:      config.FeedTTL(),
		Offline:  offline,
	}
	feedPath, err := fetcher.Fetch()
	if err != nil {
		return fmt.Errorf("fetching feed: %w", err)
	}
	if feedSig != "" {
		pubkey := config.Global().Feed.Pubkey
		if pubkey == "" {
			return fmt.Errorf("--feed-sig given but no feed public key configured")
		}
		if err := feed.VerifyDetached(feedPath, feedSig, pubkey); err != nil {
			return err
		}
	}

	f, err := os.Open(feedPath)
	if err != nil {
		return fmt.Errorf("opening feed: %w", err)
	}
	components, err := appstream.ParseFeed(f, config.IconsBaseURL())
	f.Close()
	if err != nil {
		return fmt.Errorf("parsing feed: %w", err)
	}

	// Query the registry. A failed or unavailable registry degrades the run
	// to an empty snapshot instead of aborting it.
	snapshot := querySnapshot()

	// Load the curated table and seed its targets so curated matches survive
	// registry snapshots that miss them.
	var table *mapping.Table
	if mappingsFile != "" {
		table, err = mapping.Load(mappingsFile)
	} else {
		table, err = mapping.Default()
	}
	if err != nil {
		return fmt.Errorf("loading mapping table: %w", err)
	}
	registry.SeedCurated(snapshot, table.Targets())

	matches := mapping.Match(components, snapshot, table)

	report := mapping.BuildReport(components, matches)
	reportPath := filepath.Join(outDir, "mapping_report.json")
	if err := report.Write(reportPath); err != nil {
		return err
	}
	log.Infof("coverage: %.1f%% (%d/%d), report at %s",
		report.CoveragePercent, report.TotalMappings, report.TotalComponents, reportPath)

	if mappingOnly {
		return nil
	}

	// Transform matched components and collect their icons. A broken fragment
	// only drops that one component from the catalog.
	fragments := make([]*appstream.Element, 0, len(matches))
	downloads := make([]icons.Download, 0, len(matches))
	for _, m := range matches {
		c, ok := components.Get(m.FlathubID)
		if !ok {
			continue
		}
		fragment, err := c.Rewrite(m.Attr, m.Version)
		if err != nil {
			log.Warnf("skipping %s: %v", m.FlathubID, err)
			continue
		}
		fragments = append(fragments, fragment)
		if c.IconURL != "" {
			downloads = append(downloads, icons.Download{URL: c.IconURL, Name: c.IconFileName()})
		}
	}

	if !noIcons && !offline && len(downloads) > 0 {
		if _, err := icons.FetchIcons(downloads, outDir, config.Workers()); err != nil {
			return err
		}
	}

	catalogPath, err := catalog.Write(catalog.Build(fragments), outDir)
	if err != nil {
		return err
	}
	log.Infof("catalog written to %s", catalogPath)
	return nil
}

// querySnapshot resolves the configured provider and queries it, degrading to
// an empty snapshot when the registry is unavailable.
func querySnapshot() registry.Snapshot {
	log := logger.Logger()
	cfg := config.Global()

	if offline && cfg.Registry.Provider == nix.ProviderName {
		log.Warnf("offline: skipping registry query, matching against curated stubs only")
		return registry.Snapshot{}
	}

	switch cfg.Registry.Provider {
	case nix.ProviderName:
		nix.Register()
	case rpmdir.ProviderName:
		rpmdir.Register(cfg.Registry.RPMDir)
	case static.ProviderName:
		static.Register(registry.Snapshot{})
	default:
		log.Warnf("unknown registry provider %q, matching against curated stubs only", cfg.Registry.Provider)
		return registry.Snapshot{}
	}

	p, ok := registry.Get(cfg.Registry.Provider)
	if !ok {
		log.Warnf("registry provider %q not registered, matching against curated stubs only", cfg.Registry.Provider)
		return registry.Snapshot{}
	}

	snapshot, err := p.Query(config.QueryTimeout())
	if err != nil {
		log.Warnf("registry query failed, matching against curated stubs only: %v", err)
		return registry.Snapshot{}
	}
	log.Infof("registry snapshot has %d packages", len(snapshot))
	return snapshot
}
