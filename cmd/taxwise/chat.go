package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/taxwise-in/taxwise/internal/advisor"
	"github.com/taxwise-in/taxwise/internal/cli"
	"github.com/taxwise-in/taxwise/internal/dialogue"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the financial advisor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			knowledgeStore, err := openKnowledgeStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = knowledgeStore.Close() }()

			chain := newLLMChain(cfg)
			defer func() { _ = chain.Close() }()

			sessions := dialogue.NewManager(dialogue.ManagerOptions{
				Capacity: cfg.Session.Capacity,
				TTL:      cfg.Session.TTL,
			}, slog.Default())
			defer sessions.Close()

			adv := advisor.New(newRetriever(cfg, knowledgeStore), chain, sessions, slog.Default())

			cmd.Println(cli.TitleStyle.Render("taxwise advisor"))
			cmd.Println(cli.SubtleStyle.Render("Ask about tax, investments, retirement or credit. Say 'bye' to finish."))

			sessionID := uuid.New().String()
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(cli.PromptStyle.Render("you> "))
				if !scanner.Scan() {
					break
				}

				utterance := strings.TrimSpace(scanner.Text())
				if utterance == "" {
					continue
				}

				answer, err := adv.Chat(cmd.Context(), sessionID, utterance)
				if err != nil {
					cmd.Println(cli.ErrorStyle.Render(err.Error()))
					continue
				}

				cmd.Println(cli.AdvisorStyle.Render(answer.Text))
				if answer.SourcesUsed > 0 {
					cmd.Println(cli.SubtleStyle.Render(fmt.Sprintf("(%d sources, %s confidence)", answer.SourcesUsed, answer.Confidence)))
				}
				if answer.Farewell {
					break
				}
			}

			return scanner.Err()
		},
	}
}
