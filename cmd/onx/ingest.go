package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"onx/ingest"
	"onx/ingest/postgres"
	"onx/state"
)

// runPreview parses the ONIX file, maps every product and prints the review
// summary (YAML) without touching any title records.
func runPreview(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		return fmt.Errorf("no ONIX file to preview")
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("unable to read ONIX file: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("ingest/"+filepath.Base(fname), data)
	}

	pool, err := pgxpool.New(ctx, string(env.Cfg.Database.DSN))
	if err != nil {
		return fmt.Errorf("unable to connect to catalog database: %w", err)
	}
	defer pool.Close()

	previewer := ingest.NewPreviewer(postgres.NewRepo(pool), env.Log)
	preview, err := previewer.Preview(ctx, env.Cfg.Tenant.ID, filepath.Base(fname), data)
	if err != nil {
		return err
	}

	env.Log.Info("Prepared import preview",
		zap.String("version", preview.Version.String()),
		zap.Int("products", preview.TotalProducts),
		zap.Int("valid", preview.ValidProducts),
		zap.Int("conflicts", len(preview.Conflicts)))

	return writeYAML(cmd.String("out"), preview, env)
}

// runImport executes the import: FILE [RESOLUTIONS]. The optional second
// argument is a YAML map from conflicting ISBN to the caller's resolution.
func runImport(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		return fmt.Errorf("no ONIX file to import")
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("unable to read ONIX file: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("ingest/"+filepath.Base(fname), data)
	}

	resolutions, err := loadResolutions(cmd.Args().Get(1))
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, string(env.Cfg.Database.DSN))
	if err != nil {
		return fmt.Errorf("unable to connect to catalog database: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewRepo(pool)
	previewer := ingest.NewPreviewer(repo, env.Log)

	titles, err := previewer.MappedTitles(ctx, env.Cfg.Tenant.ID, filepath.Base(fname), data)
	if err != nil {
		return err
	}

	executor := ingest.NewExecutor(repo, env.Log)
	result, err := executor.Execute(ctx, env.Cfg.Tenant.ID, titles, resolutions)
	if err != nil {
		return err
	}

	env.Log.Info("Import finished",
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))

	return writeYAML(cmd.String("out"), result, env)
}

func loadResolutions(fname string) (map[string]ingest.Resolution, error) {
	if len(fname) == 0 {
		return nil, nil
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("unable to read resolutions file: %w", err)
	}
	resolutions := make(map[string]ingest.Resolution)
	if err := yaml.Unmarshal(data, &resolutions); err != nil {
		return nil, fmt.Errorf("unable to parse resolutions file '%s': %w", fname, err)
	}
	for isbn, r := range resolutions {
		switch r.Kind {
		case ingest.ResolveSkip, ingest.ResolveUpdate, ingest.ResolveCreateNew:
		default:
			return nil, fmt.Errorf("resolution for %s: unknown kind %q", isbn, r.Kind)
		}
	}
	return resolutions, nil
}

func writeYAML(fname string, v any, env *state.LocalEnv) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to serialize output: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("ingest/output.yaml", data)
	}
	if len(fname) == 0 {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return fmt.Errorf("unable to write output file '%s': %w", fname, err)
	}
	return nil
}
