package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexschlessinger/martool/agent"
	"github.com/alexschlessinger/martool/events"
	"github.com/alexschlessinger/martool/internal/log"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "martool",
		Usage: "Generate marketing content through the AI agent service",
		Flags: defineFlags(),
		Commands: []*cli.Command{
			masterCommand(),
			variantsCommand(),
			batchCommand(),
			worksheetCommand(),
			brandCommand(),
			strategyCommand(),
			briefsCommand(),
			healthCommand(),
			runsCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "agent",
			Aliases: []string{"a"},
			Usage:   "Base URL of the agent service",
			Value:   defaultAgentURL,
		},
		&cli.StringFlag{
			Name:    "workspace",
			Aliases: []string{"w"},
			Usage:   "Workspace ID",
			Value:   defaultWorkspace,
		},
		&cli.StringFlag{
			Name:    "lang",
			Aliases: []string{"l"},
			Usage:   "Language for generated content",
			Value:   defaultLanguage,
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "Suppress the activity log, print only the result",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "no-save",
			Usage: "Do not record this run in local history",
		},
	}
}

// setup resolves configuration and builds the agent client shared by
// every subcommand.
func setup(cmd *cli.Command) (*Config, *agent.Client) {
	cfg := parseConfig(cmd)
	log.InitLogger(cfg.Debug)
	return cfg, agent.New(agent.Config{BaseURL: cfg.AgentURL})
}

func masterCommand() *cli.Command {
	return &cli.Command{
		Name:  "master",
		Usage: "Generate master content for a campaign",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "campaign", Aliases: []string{"c"}, Usage: "Campaign ID", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, client := setup(cmd)
			req := agent.MasterContentRequest{
				CampaignID:         cmd.String("campaign"),
				WorkspaceID:        cfg.Workspace,
				LanguagePreference: cfg.Language,
			}
			return runGeneration(ctx, cfg, "master", req, func(ctx context.Context, emit func(*events.Event)) error {
				return client.GenerateMasterContent(ctx, req, emit)
			})
		},
	}
}

func variantsCommand() *cli.Command {
	return &cli.Command{
		Name:  "variants",
		Usage: "Generate platform variants for existing master content",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "content", Usage: "Master content ID", Required: true},
			&cli.StringSliceFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Target platform (can be specified multiple times)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, client := setup(cmd)
			platforms := cmd.StringSlice("platform")
			if len(platforms) == 0 {
				platforms = cfg.Platforms
			}
			if len(platforms) == 0 {
				return fmt.Errorf("at least one --platform is required")
			}
			contentID := cmd.String("content")
			req := agent.PlatformVariantsRequest{
				Platforms:          platforms,
				WorkspaceID:        cfg.Workspace,
				LanguagePreference: cfg.Language,
			}
			return runGeneration(ctx, cfg, "variants", req, func(ctx context.Context, emit func(*events.Event)) error {
				return client.GeneratePlatformVariants(ctx, contentID, req, emit)
			})
		},
	}
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Batch-generate multiple master posts with variants",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "campaign", Aliases: []string{"c"}, Usage: "Campaign ID", Required: true},
			&cli.StringSliceFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Target platform (can be specified multiple times)"},
			&cli.IntFlag{Name: "masters", Aliases: []string{"n"}, Usage: "Number of master posts", Value: 1},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, client := setup(cmd)
			platforms := cmd.StringSlice("platform")
			if len(platforms) == 0 {
				platforms = cfg.Platforms
			}
			req := agent.BatchPostsRequest{
				CampaignID:  cmd.String("campaign"),
				WorkspaceID: cfg.Workspace,
				Language:    cfg.Language,
				Platforms:   platforms,
				NumMasters:  int(cmd.Int("masters")),
			}
			return runGeneration(ctx, cfg, "batch", req, func(ctx context.Context, emit func(*events.Event)) error {
				return client.BatchGeneratePosts(ctx, req, emit)
			})
		},
	}
}

func worksheetCommand() *cli.Command {
	return &cli.Command{
		Name:  "worksheet",
		Usage: "Generate a marketing worksheet from a business description",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "idea", Usage: "The business idea", Required: true},
			&cli.StringFlag{Name: "customer", Usage: "Target customer description", Required: true},
			&cli.StringFlag{Name: "value", Usage: "Value proposition", Required: true},
			&cli.StringFlag{Name: "goals", Usage: "Marketing goals", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, client := setup(cmd)
			req := agent.WorksheetRequest{
				BusinessIdea:     cmd.String("idea"),
				TargetCustomer:   cmd.String("customer"),
				ValueProposition: cmd.String("value"),
				MarketingGoals:   cmd.String("goals"),
				Language:         cfg.Language,
			}
			return runGeneration(ctx, cfg, "worksheet", req, func(ctx context.Context, emit func(*events.Event)) error {
				return client.GenerateWorksheet(ctx, req, emit)
			})
		},
	}
}

func brandCommand() *cli.Command {
	return &cli.Command{
		Name:  "brand",
		Usage: "Generate a brand identity from a worksheet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "worksheet", Usage: "Worksheet ID", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, client := setup(cmd)
			req := agent.BrandIdentityRequest{
				WorksheetID: cmd.String("worksheet"),
				Language:    cfg.Language,
			}
			return runGeneration(ctx, cfg, "brand", req, func(ctx context.Context, emit func(*events.Event)) error {
				return client.GenerateBrandIdentity(ctx, req, emit)
			})
		},
	}
}

func strategyCommand() *cli.Command {
	return &cli.Command{
		Name:  "strategy",
		Usage: "Generate a marketing strategy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "worksheet", Usage: "Worksheet ID", Required: true},
			&cli.StringFlag{Name: "brand", Usage: "Brand identity ID", Required: true},
			&cli.StringFlag{Name: "customer", Usage: "Customer profile ID", Required: true},
			&cli.StringFlag{Name: "goal", Usage: "Strategy goal", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, client := setup(cmd)
			req := agent.MarketingStrategyRequest{
				WorksheetID:       cmd.String("worksheet"),
				BrandIdentityID:   cmd.String("brand"),
				CustomerProfileID: cmd.String("customer"),
				Goal:              cmd.String("goal"),
				Language:          cfg.Language,
			}
			return runGeneration(ctx, cfg, "strategy", req, func(ctx context.Context, emit func(*events.Event)) error {
				return client.GenerateMarketingStrategy(ctx, req, emit)
			})
		},
	}
}

func briefsCommand() *cli.Command {
	return &cli.Command{
		Name:  "briefs",
		Usage: "Generate content briefs for a campaign across funnel stages",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "campaign", Aliases: []string{"c"}, Usage: "Campaign ID", Required: true},
			&cli.IntFlag{Name: "angles", Usage: "Angles per funnel stage", Value: 3},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, client := setup(cmd)
			req := agent.ContentBriefsRequest{
				CampaignID:     cmd.String("campaign"),
				WorkspaceID:    cfg.Workspace,
				Language:       cfg.Language,
				AnglesPerStage: int(cmd.Int("angles")),
			}
			return runGeneration(ctx, cfg, "briefs", req, func(ctx context.Context, emit func(*events.Event)) error {
				return client.GenerateContentBriefs(ctx, req, emit)
			})
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check whether the agent service is reachable",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, client := setup(cmd)
			if client.Health(ctx) {
				if !cfg.Quiet {
					fmt.Printf("%s is reachable\n", client.BaseURL())
				}
				return nil
			}
			return fmt.Errorf("%s is not reachable", client.BaseURL())
		},
	}
}
