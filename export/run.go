package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"onx/common"
	"onx/config"
	"onx/ingest/postgres"
	"onx/onix"
	"onx/state"
)

// Run implements the export subcommand: loads requested titles from the
// catalog database, builds a single ONIX message for them and writes it out.
func Run(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no title IDs to export")
	}
	ids := cmd.Args().Slice()

	version, err := exportVersion(cmd.String("to"), env.Cfg.Export.Version)
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, string(env.Cfg.Database.DSN))
	if err != nil {
		return fmt.Errorf("unable to connect to catalog database: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewRepo(pool)
	titles, err := repo.LoadTitles(ctx, env.Cfg.Tenant.ID, ids)
	if err != nil {
		return fmt.Errorf("unable to load titles: %w", err)
	}
	if len(titles) != len(ids) {
		env.Log.Warn("Some requested titles were not found", zap.Int("requested", len(ids)), zap.Int("found", len(titles)))
	}

	sender := SenderFromConfig(env.Cfg)
	exporter := NewExporter(sender, version, env.Log)

	xml, result, err := exporter.BuildXML(titles)
	if err != nil {
		return err
	}
	if !result.Valid {
		for _, e := range result.Errors {
			env.Log.Error("Validation error in generated ONIX", zap.String("code", e.Code), zap.String("location", e.Location), zap.String("message", e.Message))
		}
		env.Rpt.StoreData("export/invalid.xml", []byte(xml))
		return fmt.Errorf("generated ONIX failed validation with %d error(s), refusing to write output", len(result.Errors))
	}

	fname := filepath.Join(cmd.String("out"), Filename(version, env.Cfg.Tenant.Name, time.Now()))
	if !env.Overwrite {
		if _, err := os.Stat(fname); err == nil {
			return fmt.Errorf("destination file '%s' already exists, use --overwrite", fname)
		}
	}
	if err := os.WriteFile(fname, []byte(xml), 0644); err != nil {
		return fmt.Errorf("unable to write ONIX file: %w", err)
	}

	env.Log.Info("Exported ONIX message",
		zap.String("file", fname),
		zap.String("version", version.String()),
		zap.Int("titles", len(titles)))

	if env.Rpt != nil {
		env.Rpt.StoreData("export/"+filepath.Base(fname), []byte(xml))
	}
	return nil
}

func exportVersion(flag, configured string) (common.ONIXVersion, error) {
	raw := flag
	if len(raw) == 0 {
		raw = configured
	}
	version, err := common.ParseONIXVersion(raw)
	if err != nil {
		return common.ONIXUnknown, fmt.Errorf("unsupported export version '%s': %w", raw, err)
	}
	return version, nil
}

// SenderFromConfig maps tenant settings onto the message sender identity.
func SenderFromConfig(cfg *config.Config) onix.Sender {
	return onix.Sender{
		Name:            cfg.Tenant.Name,
		ContactName:     cfg.Tenant.ContactName,
		Email:           cfg.Tenant.Email,
		Subdomain:       cfg.Tenant.Subdomain,
		DefaultCurrency: cfg.Tenant.DefaultCurrency,
	}
}
