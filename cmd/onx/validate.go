package main

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"onx/archive"
	"onx/common"
	"onx/onix"
	"onx/state"
)

var onixExtensions = []string{".xml", ".onix"}

// runDetect reports the detected ONIX version and encoding of each file
// argument. With
// --dump it also parses the file and prints the normalized product tree.
func runDetect(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no ONIX files to inspect")
	}

	for _, fname := range cmd.Args().Slice() {
		data, err := os.ReadFile(fname)
		if err != nil {
			return fmt.Errorf("unable to read '%s': %w", fname, err)
		}
		text, encName, err := onix.DecodeBytesDetail(data, env.Log)
		if err != nil {
			return fmt.Errorf("unable to decode '%s': %w", fname, err)
		}
		version := onix.DetectVersion(text)
		fmt.Fprintf(os.Stdout, "%s: %s, %s\n", fname, version, encName)

		if !cmd.Bool("dump") || !version.Known() {
			continue
		}
		if version == common.ONIX21 {
			text = onix.ExpandShortTags(text)
		}
		parser, err := onix.ParserFor(version, env.Log)
		if err != nil {
			return err
		}
		msg, err := parser.Parse(text)
		if err != nil {
			return fmt.Errorf("unable to parse '%s': %w", fname, err)
		}
		dump := onix.DumpMessage(msg)
		os.Stdout.WriteString(dump)
		if env.Rpt != nil {
			env.Rpt.StoreData("detect/"+filepath.Base(fname)+".txt", []byte(dump))
		}
	}
	return nil
}

// runValidate validates each argument, which may be a single ONIX file, a
// directory (walked recursively) or a zip archive of ONIX files. Processing
// continues past invalid files so the whole batch gets a verdict.
func runValidate(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no ONIX files to validate")
	}

	var invalid int
	for _, arg := range cmd.Args().Slice() {
		fi, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("unable to access '%s': %w", arg, err)
		}
		switch {
		case fi.IsDir():
			err = validateDir(arg, env, &invalid)
		case strings.EqualFold(filepath.Ext(arg), ".zip"):
			err = validateZip(arg, env, &invalid)
		default:
			err = validateOne(arg, os.ReadFile, env, &invalid)
		}
		if err != nil {
			return err
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d file(s) failed validation", invalid)
	}
	return nil
}

func validateDir(dir string, env *state.LocalEnv, invalid *int) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !onix.AllowedUploadName(path) {
			return nil
		}
		return validateOne(path, os.ReadFile, env, invalid)
	})
}

func validateZip(name string, env *state.LocalEnv, invalid *int) error {
	return archive.Walk(name, onixExtensions, func(arc string, f *zip.File) error {
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("unable to open '%s' in '%s': %w", f.Name, arc, err)
		}
		data, err := io.ReadAll(rc)
		err = multierr.Append(err, rc.Close())
		if err != nil {
			return fmt.Errorf("unable to read '%s' in '%s': %w", f.Name, arc, err)
		}
		return validateOne(arc+"::"+f.Name, func(string) ([]byte, error) { return data, nil }, env, invalid)
	})
}

func validateOne(name string, read func(string) ([]byte, error), env *state.LocalEnv, invalid *int) error {
	data, err := read(name)
	if err != nil {
		return fmt.Errorf("unable to read '%s': %w", name, err)
	}
	if err := onix.CheckSizeLimit(data); err != nil {
		*invalid++
		fmt.Fprintf(os.Stdout, "%s: INVALID: %v\n", name, err)
		return nil
	}

	text, err := onix.DecodeBytes(data, env.Log)
	if err != nil {
		*invalid++
		fmt.Fprintf(os.Stdout, "%s: INVALID: %v\n", name, err)
		return nil
	}

	result := onix.Validate(text)
	if result.Valid {
		version := onix.DetectVersion(text)
		fmt.Fprintf(os.Stdout, "%s: OK (%s)\n", name, version)
		return nil
	}

	*invalid++
	fmt.Fprintf(os.Stdout, "%s: INVALID\n", name)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stdout, "  [%s] %s: %s\n", e.Code, e.Location, e.Message)
	}
	env.Log.Debug("Validation failed", zap.String("file", name), zap.Int("errors", len(result.Errors)))
	return nil
}
