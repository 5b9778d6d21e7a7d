package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rxtech-lab/argo-streamer/internal/config"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func configSchemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "config-schema",
		Usage: "Print the JSON schema of the config file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "Write the schema to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "sample",
				Usage: "Also write a sample config with the defaults to this file if it does not exist",
			},
		},
		Action: configSchemaAction,
	}
}

func configSchemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := config.Schema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	output := cmd.String("output")
	if output == "" {
		fmt.Println(schema)
	} else if err := os.WriteFile(output, []byte(schema), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	sample := cmd.String("sample")
	if sample == "" {
		return nil
	}

	if _, err := os.Stat(sample); err == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to marshal sample config: %w", err)
	}

	if output != "" {
		yamlBytes = append([]byte("# yaml-language-server: $schema="+output+"\n"), yamlBytes...)
	}

	return os.WriteFile(sample, yamlBytes, 0644)
}
