package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/taxwise-in/taxwise/internal/cli"
	"github.com/taxwise-in/taxwise/internal/knowledge"
	"github.com/taxwise-in/taxwise/internal/model"
)

func knowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage the advisor's knowledge collections",
	}

	cmd.AddCommand(knowledgeSeedCmd())
	cmd.AddCommand(knowledgeAddCmd())
	cmd.AddCommand(knowledgeDeleteCmd())
	cmd.AddCommand(knowledgeSearchCmd())
	cmd.AddCommand(knowledgeStatsCmd())
	return cmd
}

func knowledgeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete one document from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openKnowledgeStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Delete(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			cmd.Println(cli.SuccessStyle.Render("Deleted document " + args[1]))
			return nil
		},
	}
}

func knowledgeSeedCmd() *cobra.Command {
	var corpusFile string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the bundled corpus into the knowledge store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if corpusFile == "" {
				corpusFile = cfg.Knowledge.CorpusFile
			}

			store, err := openKnowledgeStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			count, err := knowledge.SeedFromFile(cmd.Context(), store, corpusFile)
			if err != nil {
				return err
			}

			cmd.Println(cli.SuccessStyle.Render(fmt.Sprintf("Seeded %d documents from %s", count, corpusFile)))
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusFile, "file", "", "corpus file (default from config)")
	return cmd
}

func knowledgeAddCmd() *cobra.Command {
	var title, source, category string
	var confidence float64

	cmd := &cobra.Command{
		Use:   "add <collection> <content>",
		Short: "Add one document to a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openKnowledgeStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			doc := model.Document{
				ID:      uuid.New().String(),
				Content: args[1],
				Metadata: model.DocumentMetadata{
					Timestamp:  time.Now(),
					Title:      title,
					Source:     source,
					Category:   category,
					Confidence: confidence,
				},
			}

			if err := store.Add(cmd.Context(), args[0], []model.Document{doc}); err != nil {
				return err
			}

			cmd.Println(cli.SuccessStyle.Render("Added document " + doc.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "document title")
	cmd.Flags().StringVar(&source, "source", "", "provenance of the content")
	cmd.Flags().StringVar(&category, "category", "", "content category")
	cmd.Flags().Float64Var(&confidence, "confidence", 0.9, "ingestion quality score (0-1)")
	return cmd
}

func knowledgeSearchCmd() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "search <collection> <query>",
		Short: "Search a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openKnowledgeStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			results, err := store.Query(cmd.Context(), args[0], args[1], topK)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				cmd.Println(cli.SubtleStyle.Render("No results."))
				return nil
			}

			for _, result := range results {
				header := fmt.Sprintf("[%.3f] %s", result.Distance, result.Document.Metadata.Title)
				cmd.Println(cli.BoldStyle.Render(header))
				cmd.Println("  " + result.Document.Content)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&topK, "top", 5, "number of results")
	return cmd
}

func knowledgeStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show document counts per collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openKnowledgeStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				cmd.Println(cli.SubtleStyle.Render("Knowledge store is empty. Run 'taxwise knowledge seed' first."))
				return nil
			}

			collections := make([]string, 0, len(stats))
			for collection := range stats {
				collections = append(collections, collection)
			}
			sort.Strings(collections)

			for _, collection := range collections {
				cmd.Printf("%-24s %d documents\n", collection, stats[collection])
			}
			return nil
		},
	}
}
