package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Akshu121796/Personalized-Recommendation-System/config"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/adapter"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/catalog"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/interaction"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/recommendation"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/repository"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/user"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/worker"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// cli holds state shared by every subcommand
type cli struct {
	configFile  string
	catalogPath string
	storePath   string
	jsonOutput  bool
	noProgress  bool

	cfg *config.Config
	log *logger.Logger
}

// buildRootCmd creates the root cobra command with all subcommands.
func buildRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "recommend",
		Short: "TrendMatrix content-based recommendations from the command line",
		Long: `recommend loads a CSV item catalog, builds a TF-IDF similarity index and
answers similar, trending and personalized queries. Users and their views and
likes are kept in a local bolt store unless a Postgres database is configured.

Example usage:
  recommend build --catalog data/items.csv
  recommend similar 42 -n 5
  recommend record alice 42 --action liked
  recommend feed alice`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configFile, "config", os.Getenv("CONFIG_FILE"), "YAML config file")
	rootCmd.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "catalog CSV path (default from config, then "+recommendation.DefaultCatalogPath+")")
	rootCmd.PersistentFlags().StringVar(&c.storePath, "store", "", "bolt store path (default from config, then "+repository.DefaultBoltPath+")")
	rootCmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&c.noProgress, "no-progress", false, "hide the index build progress bar")

	rootCmd.AddCommand(
		c.buildCmd(),
		c.similarCmd(),
		c.trendingCmd(),
		c.personalizeCmd(),
		c.itemsCmd(),
		c.recordCmd(),
		c.historyCmd(),
		c.likesCmd(),
		c.feedCmd(),
		c.pruneCmd(),
	)

	return rootCmd
}

func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(c.configFile)
	if err != nil {
		return err
	}
	if c.catalogPath != "" {
		cfg.Catalog.Path = c.catalogPath
	}
	if c.storePath != "" {
		cfg.Store.Driver = repository.DriverBolt
		cfg.Store.BoltPath = c.storePath
	}
	c.cfg = cfg

	level := zerolog.WarnLevel
	if cfg.Logging.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsed
		}
	}
	c.log = logger.New(cmd.ErrOrStderr(), level, "trendmatrix-cli")
	return nil
}

// engine builds the index eagerly so that catalog errors surface as command errors
func (c *cli) engine(cmd *cobra.Command) (recommendation.Engine, error) {
	opts, err := recommendation.OptionsFromConfig(&c.cfg.Catalog)
	if err != nil {
		return nil, err
	}

	if !c.noProgress && !c.jsonOutput {
		var bar *progressbar.ProgressBar
		opts.Progress = func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionSetDescription("Indexing"),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		}
	}

	engine := recommendation.NewContentBasedEngine(recommendation.FileCatalog(recommendation.CatalogPath(&c.cfg.Catalog)), opts, c.log)
	if err := engine.Ready(); err != nil {
		return nil, err
	}
	return engine, nil
}

// session wires the store-backed services around an engine
type session struct {
	engine          recommendation.Engine
	stores          *repository.Stores
	users           user.Service
	interactions    interaction.Service
	recommendations recommendation.Service
}

func (c *cli) openSession(cmd *cobra.Command) (*session, error) {
	engine, err := c.engine(cmd)
	if err != nil {
		return nil, err
	}

	stores, err := repository.Open(c.cfg, c.log)
	if err != nil {
		return nil, err
	}
	if !stores.Enabled() {
		return nil, errors.New("this command needs a store; set STORE_DRIVER to bolt or postgres")
	}

	users, err := user.NewService(&c.cfg.JWT, stores.Users, c.log)
	if err != nil {
		stores.Close()
		return nil, err
	}
	interactions := interaction.NewService(stores.Interactions, adapter.NewEngineItemChecker(engine), c.log)

	return &session{
		engine:          engine,
		stores:          stores,
		users:           users,
		interactions:    interactions,
		recommendations: recommendation.NewService(engine, adapter.NewInteractionHistory(interactions, 0), c.log),
	}, nil
}

func (s *session) Close() error {
	return s.stores.Close()
}

// lookupUser resolves a username without creating it. Unknown users map to uuid.Nil.
func (s *session) lookupUser(username string) (uuid.UUID, error) {
	name, err := user.NormalizeUsername(username)
	if err != nil {
		return uuid.Nil, err
	}
	found, err := s.stores.Users.FindByUsername(name)
	if errors.Is(err, user.ErrUserNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return found.ID, nil
}

func (c *cli) buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Load the catalog and build the similarity index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			engine, err := c.engine(cmd)
			if err != nil {
				return err
			}
			elapsed := time.Since(start).Round(time.Millisecond)

			if c.jsonOutput {
				return c.writeJSON(cmd, map[string]any{
					"catalog":  recommendation.CatalogPath(&c.cfg.Catalog),
					"items":    engine.Size(),
					"duration": elapsed.String(),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d items from %s in %s\n", engine.Size(), recommendation.CatalogPath(&c.cfg.Catalog), elapsed)
			return nil
		},
	}
}

func (c *cli) similarCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "similar <item-id>",
		Short: "Show items most similar to an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.engine(cmd)
			if err != nil {
				return err
			}
			if _, ok := engine.Item(args[0]); !ok {
				return fmt.Errorf("item %s: %w", args[0], recommendation.ErrItemNotFound)
			}
			return c.writeItems(cmd, engine.Similar(args[0], limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 8, "number of results")
	return cmd
}

func (c *cli) trendingCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show the most popular items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.engine(cmd)
			if err != nil {
				return err
			}
			return c.writeItems(cmd, engine.Trending(limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 12, "number of results")
	return cmd
}

func (c *cli) personalizeCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "personalize <seed-id>...",
		Short: "Recommend items for a set of seed items, diversified by category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.engine(cmd)
			if err != nil {
				return err
			}
			return c.writeItems(cmd, engine.Personalize(args, limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 12, "number of results")
	return cmd
}

func (c *cli) itemsCmd() *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List catalog items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.engine(cmd)
			if err != nil {
				return err
			}
			if page < 1 {
				return fmt.Errorf("invalid page %d", page)
			}
			return c.writeItems(cmd, engine.Items((page-1)*limit, limit))
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "items per page")
	return cmd
}

func (c *cli) recordCmd() *cobra.Command {
	var action string
	cmd := &cobra.Command{
		Use:   "record <username> <item-id>",
		Short: "Record a view or like, creating the user on first use",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			_, u, err := s.users.Login(args[0])
			if err != nil {
				return err
			}
			recorded, err := s.interactions.Record(u.ID, args[1], interaction.Action(action))
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return c.writeJSON(cmd, recorded.ToResponse())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s of item %s for %s\n", recorded.Action, recorded.ItemID, u.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&action, "action", string(interaction.ActionViewed), "viewed or liked")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <username>",
		Short: "Show a user's viewed and liked items, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			userID, err := s.lookupUser(args[0])
			if err != nil {
				return err
			}
			ids := []string{}
			if userID != uuid.Nil {
				if ids, err = s.interactions.History(userID, limit); err != nil {
					return err
				}
			}

			if c.jsonOutput {
				return c.writeJSON(cmd, interaction.HistoryResponse{ItemIDs: ids, Count: len(ids)})
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", interaction.DefaultHistoryLimit, "maximum entries, 0 for all")
	return cmd
}

func (c *cli) likesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "likes <username>",
		Short: "Show a user's saved items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			userID, err := s.lookupUser(args[0])
			if err != nil {
				return err
			}
			items := []catalog.Item{}
			if userID != uuid.Nil {
				if items, err = s.recommendations.GetSavedItems(userID); err != nil {
					return err
				}
			}
			return c.writeItems(cmd, items)
		},
	}
}

func (c *cli) feedCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "feed [username]",
		Short: "Show the home feed, personalized when a known username is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			userID := uuid.Nil
			if len(args) == 1 {
				if userID, err = s.lookupUser(args[0]); err != nil {
					return err
				}
			}

			feed := s.recommendations.GetFeed(userID, limit)
			if c.jsonOutput {
				return c.writeJSON(cmd, feed)
			}
			if feed.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), feed.Message)
			}
			for _, section := range feed.Sections {
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n%s\n", section.Title, strings.Repeat("-", len(section.Title)))
				if err := c.writeTable(cmd, section.Items); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", recommendation.DefaultLimit, "items per section")
	return cmd
}

func (c *cli) pruneCmd() *cobra.Command {
	var retention time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete viewed interactions older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if retention == 0 {
				configured, err := worker.HistoryRetention(&c.cfg.Worker)
				if err != nil {
					return err
				}
				retention = configured
			}

			stores, err := repository.Open(c.cfg, c.log)
			if err != nil {
				return err
			}
			defer stores.Close()
			if !stores.Enabled() {
				return errors.New("this command needs a store; set STORE_DRIVER to bolt or postgres")
			}

			deleted, err := interaction.NewService(stores.Interactions, nil, c.log).PruneViewed(retention)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.writeJSON(cmd, map[string]any{"deleted": deleted, "retention": retention.String()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d viewed interactions older than %s\n", deleted, retention)
			return nil
		},
	}
	cmd.Flags().DurationVar(&retention, "retention", 0, "retention window (default from config, then 720h)")
	return cmd
}

func (c *cli) writeItems(cmd *cobra.Command, items []catalog.Item) error {
	if c.jsonOutput {
		return c.writeJSON(cmd, recommendation.BuildItemsResponse(items))
	}
	return c.writeTable(cmd, catalog.ToResponses(items))
}

func (c *cli) writeTable(cmd *cobra.Command, items []*catalog.ItemResponse) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPOPULARITY")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\n", item.ID, item.Title, item.Category, item.Popularity)
	}
	return w.Flush()
}

func (c *cli) writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
