// Command logrescuer is a time-machine log compression and archival tool:
// it walks a directory, deduplicates files by content, and compresses
// each distinct file exactly once into a single archive, or reverses
// that process to reconstruct the original tree.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/peczakax/logrescuer/archive"
	"github.com/peczakax/logrescuer/internal/codec"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("logrescuer: usage error")

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		if len(args) == 0 {
			return errUsage
		}
		return nil
	}

	command := args[0]
	switch command {
	case "compress":
		return runCompress(args[1:])
	case "decompress":
		return runDecompress(args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q, try '--help' for more information", errUsage, command)
	}
}

func runCompress(args []string) error {
	flagSet := pflag.NewFlagSet("compress", pflag.ContinueOnError)
	flagSet.SetOutput(os.Stderr)
	compression := flagSet.StringP("compression", "c", "", "compression algorithm: zstd, zlib, or brotli (default: the build's first compiled-in codec)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	positional := flagSet.Args()
	if len(positional) < 2 {
		return fmt.Errorf("%w: compress requires <dir> <archive_file>", errUsage)
	}
	srcDir, archivePath := positional[0], positional[1]

	factory := codec.NewFactory()
	var opts []archive.Option
	if *compression != "" {
		tag, err := factory.StringToTag(*compression)
		if err != nil {
			return fmt.Errorf("%w: %v", archive.ErrArgument, err)
		}
		opts = append(opts, archive.WithCodec(tag))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	opts = append(opts, archive.WithLogger(logger))

	engine := archive.New(opts...)
	tag, err := engine.ResolveCodecTag()
	if err != nil {
		return err
	}

	if _, err := engine.Compress(srcDir, archivePath, tag); err != nil {
		return err
	}

	fmt.Printf("Successfully compressed folder: %s to archive file: %s\n", srcDir, archivePath)
	return nil
}

func runDecompress(args []string) error {
	flagSet := pflag.NewFlagSet("decompress", pflag.ContinueOnError)
	flagSet.SetOutput(os.Stderr)
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	positional := flagSet.Args()
	if len(positional) < 2 {
		return fmt.Errorf("%w: decompress requires <dir> <archive_file>", errUsage)
	}
	dstDir, archivePath := positional[0], positional[1]

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	engine := archive.New(archive.WithLogger(logger))

	if _, err := engine.Extract(archivePath, dstDir); err != nil {
		return err
	}

	fmt.Printf("Successfully decompressed archive file: %s to folder: %s\n", archivePath, dstDir)
	return nil
}

func printUsage() {
	factory := codec.NewFactory()
	defaultTag, err := factory.DefaultTag()
	defaultName := ""
	if err == nil {
		defaultName, _ = factory.TagToString(defaultTag)
	}

	fmt.Fprintf(os.Stderr, `LogRescuer - A time machine log compression and archival tool.

Usage: logrescuer <command> <dir> <archive_file> [options]

Commands:
  compress    - Create a compressed archive.
  decompress  - Extract an archive.

Options:
  -c, --compression    Optionally specify a compression algorithm: [zstd, zlib, brotli] (default: %s)
  -h, --help           Print this help message.

Example:
  logrescuer compress /var/logs logs_archive --compression=zlib
`, defaultName)
}
