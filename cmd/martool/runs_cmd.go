package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexschlessinger/martool/internal/log"
	"github.com/alexschlessinger/martool/runs"
	"github.com/urfave/cli/v3"
)

const runRetention = 30 * 24 * time.Hour

func runsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect local generation run history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded runs",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					store, err := openStore(cmd)
					if err != nil {
						return err
					}
					ids, err := store.List()
					if err != nil {
						return err
					}
					for _, id := range ids {
						fmt.Println(id)
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Show a run record (defaults to the most recent)",
				ArgsUsage: "[run-id]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					store, err := openStore(cmd)
					if err != nil {
						return err
					}
					id := cmd.Args().First()
					if id == "" {
						id = store.Last()
					}
					if id == "" {
						return fmt.Errorf("no runs recorded")
					}
					rec, err := store.Get(id)
					if err != nil {
						return err
					}
					out, err := json.MarshalIndent(rec, "", "  ")
					if err != nil {
						return err
					}
					fmt.Println(string(out))
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a run record",
				ArgsUsage: "<run-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					store, err := openStore(cmd)
					if err != nil {
						return err
					}
					id := cmd.Args().First()
					if id == "" {
						return fmt.Errorf("run id required")
					}
					store.Delete(id)
					return nil
				},
			},
			{
				Name:  "expire",
				Usage: "Remove runs older than the retention window",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					store, err := openStore(cmd)
					if err != nil {
						return err
					}
					store.Expire(runRetention)
					return nil
				},
			},
		},
	}
}

func openStore(cmd *cli.Command) (*runs.Store, error) {
	cfg := parseConfig(cmd)
	log.InitLogger(cfg.Debug)
	return runs.Open(cfg.RunsDir)
}
