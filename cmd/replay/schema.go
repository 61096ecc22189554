package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/horizon-replay/internal/replay/engine"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of a replay request",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write the schema to this file instead of stdout",
			},
		},
		Action: schemaAction,
	}
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schemaJSON, err := engine.GenerateRequestSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	out := cmd.String("out")
	if out == "" {
		fmt.Println(schemaJSON)

		return nil
	}

	return writeSchema(out, schemaJSON)
}

func writeSchema(path string, schemaJSON string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(schemaJSON+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	return nil
}
